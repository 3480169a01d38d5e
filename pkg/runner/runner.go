// pkg/runner/runner.go

// Package runner orchestrates a single simulation run: it decides whether
// compilation is needed, materializes the child environment, executes the
// queued commands in order and interprets the results document.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/hdl-tools/simbridge/pkg/config"
	"github.com/hdl-tools/simbridge/pkg/results"
	"github.com/hdl-tools/simbridge/pkg/simulator"
	"github.com/hdl-tools/simbridge/pkg/toolchain"
)

var (
	// ErrProcessFailure indicates a queued command exited non-zero. The
	// remaining queue is never started.
	ErrProcessFailure = errors.New("process failed")

	// ErrAbnormalTermination indicates the simulation ended without writing
	// its results document. This is a system fault, not a test failure.
	ErrAbnormalTermination = errors.New("simulation terminated abnormally: results file not found")
)

// ProcessError carries the command and exit code of a failed subprocess.
type ProcessError struct {
	Cmd      string
	ExitCode int
}

func (e *ProcessError) Error() string {
	return fmt.Sprintf("process %q exited with code %d", e.Cmd, e.ExitCode)
}

func (e *ProcessError) Unwrap() error {
	return ErrProcessFailure
}

// Options configures an Orchestrator beyond the simulation config itself.
type Options struct {
	Logger *slog.Logger

	// LibDir is the backend's bridge-library directory.
	LibDir string

	// Environ is the parent environment snapshot; os.Environ() when nil.
	Environ []string

	// Python is the pre-probed embedding runtime; probed on first use when
	// nil.
	Python *toolchain.Python
}

// Orchestrator drives one simulation run end-to-end. It borrows the
// configuration for the duration of the run.
type Orchestrator struct {
	adapter simulator.Adapter
	cfg     *config.SimulationConfig
	opts    Options

	// probePython resolves the embedding runtime when Options.Python is
	// nil; tests substitute a fixture.
	probePython func(context.Context) (*toolchain.Python, error)
}

// New creates an Orchestrator for one run.
func New(adapter simulator.Adapter, cfg *config.SimulationConfig, opts Options) *Orchestrator {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Environ == nil {
		opts.Environ = os.Environ()
	}
	return &Orchestrator{
		adapter:     adapter,
		cfg:         cfg,
		opts:        opts,
		probePython: toolchain.ProbePython,
	}
}

// Run executes the state machine: resolve the results path, queue the
// compile command when the artifact is stale, queue the run command unless
// compile-only, execute everything in order and interpret the results. The
// first command failure aborts the remaining queue.
//
// In compile-only mode the result is nil. For a completed run the parsed
// result is returned together with its test-failure error, if any.
func (o *Orchestrator) Run(ctx context.Context) (*results.RunResult, error) {
	cfg := o.cfg
	log := o.opts.Logger

	if err := o.adapter.Validate(cfg); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.BuildDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating build directory: %w", err)
	}

	resultsPath, err := o.resultsPath()
	if err != nil {
		return nil, err
	}

	var queue [][]string

	art := o.adapter.Artifact(cfg)
	if cfg.ForceCompile || simulator.Stale(art, o.adapter.CompileDeps(cfg)) {
		queue = append(queue, o.adapter.CompileCommand(cfg))
	} else {
		log.Info("skipping compilation, artifact up to date", "artifact", art)
	}

	if !cfg.CompileOnly {
		queue = append(queue, o.adapter.RunCommand(cfg))
	}

	py := o.opts.Python
	if py == nil {
		py, err = o.probePython(ctx)
		if err != nil {
			return nil, fmt.Errorf("resolving embedding runtime: %w", err)
		}
	}

	var seedStr string
	if cfg.Seed != nil {
		seedStr = strconv.FormatInt(*cfg.Seed, 10)
	}
	env := environ(o.opts.Environ, cfg, o.opts.LibDir, resultsPath, py, seedStr)

	for _, argv := range queue {
		if err := o.execute(ctx, argv, env); err != nil {
			return nil, err
		}
	}

	if cfg.CompileOnly {
		return nil, nil
	}

	if _, err := os.Stat(resultsPath); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrAbnormalTermination, resultsPath)
	}

	res, err := results.Parse(resultsPath)
	if err != nil {
		return nil, err
	}

	log.Info("results file", "path", resultsPath, "passed", res.Passed())
	return res, res.Err()
}

// resultsPath honors an externally supplied override, otherwise allocates a
// fresh temporary name inside the build directory.
func (o *Orchestrator) resultsPath() (string, error) {
	for _, kv := range o.opts.Environ {
		if v, ok := strings.CutPrefix(kv, EnvResultsFile+"="); ok && v != "" {
			return v, nil
		}
	}

	f, err := os.CreateTemp(o.cfg.BuildDir, "*_results.xml")
	if err != nil {
		return "", fmt.Errorf("allocating results path: %w", err)
	}
	path := f.Name()
	f.Close()
	// Only the name is needed; the simulation writes the file itself.
	os.Remove(path)
	return path, nil
}

// execute runs one queued command synchronously in the configured working
// directory with the materialized environment.
func (o *Orchestrator) execute(ctx context.Context, argv []string, env []string) error {
	o.opts.Logger.Info("running command", "cmd", strings.Join(argv, " "))

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = o.cfg.WorkDir
	cmd.Env = env
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ProcessError{Cmd: argv[0], ExitCode: exitErr.ExitCode()}
		}
		return fmt.Errorf("starting %q: %w", argv[0], err)
	}
	return nil
}
