// pkg/matrix/builder.go
package matrix

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/hdl-tools/simbridge/pkg/artifact"
	"github.com/hdl-tools/simbridge/pkg/toolchain"
)

// Config configures a matrix build pass.
type Config struct {
	// ShareDir is the root of the bridge source tree; headers live under
	// include/ and sources under lib/.
	ShareDir string

	Logger   *slog.Logger
	Prober   *toolchain.Prober
	Compiler *Compiler
	Namer    *artifact.Namer

	// Python is the pre-probed embedding runtime; probed on first use when
	// nil.
	Python *toolchain.Python
}

// Builder compiles the full per-backend bridge library matrix.
type Builder struct {
	cfg Config
}

// New creates a Builder, filling in host defaults for unset fields.
func New(cfg Config) *Builder {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Prober == nil {
		cfg.Prober = toolchain.NewProber(cfg.Logger, nil)
	}
	if cfg.Compiler == nil {
		cfg.Compiler = NewCompiler(cfg.Logger)
	}
	if cfg.Namer == nil {
		cfg.Namer = artifact.New()
	}
	if cfg.ShareDir == "" {
		cfg.ShareDir = "share"
	}
	return &Builder{cfg: cfg}
}

// BuildAll probes every backend and compiles the bridge matrix for each one
// found, writing artifacts under outputRoot/<backend>/. A missing toolchain
// is a logged skip; a compilation failure aborts that backend's matrix but
// not its siblings. The returned map holds the artifacts of every backend
// that completed.
func (b *Builder) BuildAll(ctx context.Context, outputRoot string) (map[toolchain.BackendID][]Artifact, error) {
	if b.cfg.Python == nil {
		py, err := toolchain.ProbePython(ctx)
		if err != nil {
			return nil, fmt.Errorf("resolving embedding runtime: %w", err)
		}
		b.cfg.Python = py
	}

	built := make(map[toolchain.BackendID][]Artifact)
	for _, id := range toolchain.All() {
		desc, ok := b.cfg.Prober.Probe(id)
		if !ok {
			b.cfg.Logger.Warn("skipping backend, toolchain not available", "backend", string(id))
			continue
		}

		b.cfg.Logger.Info("compiling bridge libraries", "backend", string(id))

		arts, err := b.buildBackend(ctx, desc, filepath.Join(outputRoot, string(id)))
		if err != nil {
			b.cfg.Logger.Error("backend matrix build failed",
				"backend", string(id), "error", err)
			continue
		}
		built[id] = arts
	}

	return built, nil
}

// buildBackend compiles one backend's matrix: the common chain in strict
// order, then one bridge per supported protocol. The first chain failure
// aborts the backend; an FLI failure is absorbed, the rest of the matrix
// stands.
func (b *Builder) buildBackend(ctx context.Context, d *toolchain.Descriptor, buildDir string) ([]Artifact, error) {
	env := &specEnv{
		buildDir:   buildDir,
		includeDir: filepath.Join(b.cfg.ShareDir, "include"),
		srcDir:     filepath.Join(b.cfg.ShareDir, "lib"),
		goos:       b.cfg.Namer.OS,
		python:     b.cfg.Python,
		ext:        b.cfg.Namer.Ext(),
	}

	var arts []Artifact
	for _, spec := range commonSpecs(env) {
		a, err := b.buildOne(ctx, spec, buildDir, d.ID)
		if err != nil {
			return nil, err
		}
		arts = append(arts, a)
	}

	if d.VPI {
		a, err := b.buildOne(ctx, vpiSpec(env, d), buildDir, d.ID)
		if err != nil {
			return nil, err
		}
		if final := b.cfg.Namer.FinalName(string(d.ID), a.Name); final != filepath.Base(a.Path) {
			// Backend-specific plugin filename, e.g. the Icarus .vpl rename.
			target := filepath.Join(buildDir, final)
			if err := b.cfg.Namer.RenameSafe(a.Path, target); err != nil {
				return nil, err
			}
			a.Path = target
		}
		arts = append(arts, a)
	}

	if d.VHPI {
		a, err := b.buildOne(ctx, vhpiSpec(env, d), buildDir, d.ID)
		if err != nil {
			return nil, err
		}
		arts = append(arts, a)
	}

	if d.FLI {
		a, err := b.buildOne(ctx, fliSpec(env, d), buildDir, d.ID)
		if err != nil {
			// Some tool releases ship without the FLI interface; the rest of
			// this backend's matrix is still usable.
			b.cfg.Logger.Warn("FLI bridge build failed, continuing without it",
				"backend", string(d.ID), "error", err)
		} else {
			arts = append(arts, a)
		}
	}

	return arts, nil
}

// buildOne compiles a spec and canonicalizes its output name. The logical
// name is recovered from the compiler's reported output, so a toolchain that
// tags its artifacts still ends up with the one canonical filename.
func (b *Builder) buildOne(ctx context.Context, spec BuildSpec, buildDir string, id toolchain.BackendID) (Artifact, error) {
	raw, err := b.cfg.Compiler.Build(ctx, spec, buildDir)
	if err != nil {
		return Artifact{}, err
	}

	logical := b.cfg.Namer.Logical(raw)
	canonical := filepath.Join(buildDir, b.cfg.Namer.Canonical(logical))
	if raw != canonical {
		if err := b.cfg.Namer.RenameSafe(raw, canonical); err != nil {
			return Artifact{}, err
		}
	}

	return Artifact{Backend: id, Name: logical, Path: canonical}, nil
}
