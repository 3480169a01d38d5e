// pkg/matrix/compiler.go
package matrix

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// ErrBuildFailure indicates a non-zero exit from a bridge compile command.
// It is fatal for that backend's remaining build steps but not for sibling
// backends.
var ErrBuildFailure = errors.New("library build failed")

// Compiler turns a BuildSpec into one shared-library compile invocation.
type Compiler struct {
	CC     string // C compiler, default "cc"
	CXX    string // C++ compiler, default "c++"
	GOOS   string
	Logger *slog.Logger

	// run executes a prepared compile command; tests substitute a fake.
	run func(ctx context.Context, dir string, argv []string) ([]byte, error)
}

// NewCompiler creates a Compiler with host defaults. CC and CXX environment
// variables override the compiler executables.
func NewCompiler(logger *slog.Logger) *Compiler {
	if logger == nil {
		logger = slog.Default()
	}
	cc := os.Getenv("CC")
	if cc == "" {
		cc = "cc"
	}
	cxx := os.Getenv("CXX")
	if cxx == "" {
		cxx = "c++"
	}
	return &Compiler{
		CC:     cc,
		CXX:    cxx,
		GOOS:   runtime.GOOS,
		Logger: logger,
		run:    runCompile,
	}
}

// Build compiles spec into buildDir and returns the raw output path, before
// canonicalization. Argument ordering is deterministic: output, shared-mode
// flags, defines, includes, sources, library dirs, libraries, extra args.
func (c *Compiler) Build(ctx context.Context, spec BuildSpec, buildDir string) (string, error) {
	if err := os.MkdirAll(buildDir, 0o755); err != nil {
		return "", fmt.Errorf("creating build directory: %w", err)
	}

	out := filepath.Join(buildDir, spec.Name+"."+c.rawExt())
	argv := c.command(spec, out)

	c.Logger.Debug("compiling bridge library", "library", spec.Name, "output", out)

	combined, err := c.run(ctx, buildDir, argv)
	if err != nil {
		c.Logger.Error("bridge compilation failed",
			"library", spec.Name, "error", err, "output", string(combined))
		return "", fmt.Errorf("%w: %s: %v", ErrBuildFailure, spec.Name, err)
	}

	return out, nil
}

func (c *Compiler) command(spec BuildSpec, out string) []string {
	compiler := c.CC
	if spec.Language == LangCPP {
		compiler = c.CXX
	}

	argv := []string{compiler, "-o", out}
	switch c.GOOS {
	case "darwin":
		argv = append(argv, "-dynamiclib", "-fPIC")
	case "windows":
		argv = append(argv, "-shared")
	default:
		argv = append(argv, "-shared", "-fPIC")
	}

	for _, d := range spec.Defines {
		if d.Value == "" {
			argv = append(argv, "-D"+d.Name)
		} else {
			argv = append(argv, "-D"+d.Name+"="+d.Value)
		}
	}
	for _, inc := range spec.IncludeDirs {
		argv = append(argv, "-I"+inc)
	}
	argv = append(argv, spec.Sources...)
	for _, dir := range spec.LibraryDirs {
		argv = append(argv, "-L"+dir)
	}
	for _, lib := range spec.Libraries {
		argv = append(argv, "-l"+lib)
	}
	return append(argv, spec.ExtraLinkArgs...)
}

// rawExt is the extension the compile command writes; the namer owns the
// canonical one.
func (c *Compiler) rawExt() string {
	if c.GOOS == "windows" {
		return "dll"
	}
	return "so"
}

func runCompile(ctx context.Context, dir string, argv []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir
	return cmd.CombinedOutput()
}
