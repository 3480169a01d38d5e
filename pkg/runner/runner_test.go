// pkg/runner/runner_test.go
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hdl-tools/simbridge/pkg/config"
	"github.com/hdl-tools/simbridge/pkg/toolchain"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// newTestOrch builds an Orchestrator whose runtime probe answers with a fixed
// interpreter description instead of shelling out.
func newTestOrch(adapter *fakeAdapter, cfg *config.SimulationConfig, opts Options) *Orchestrator {
	o := New(adapter, cfg, opts)
	o.probePython = func(context.Context) (*toolchain.Python, error) {
		return &toolchain.Python{
			LinkLib:      "python3.11",
			SharedObject: "libpython3.11.so",
			LibDir:       "/usr/lib",
			Prefix:       "/usr",
		}, nil
	}
	return o
}

// fakeAdapter lets tests script the command vectors directly.
type fakeAdapter struct {
	compile     []string
	run         []string
	artifact    string
	deps        []string
	validateErr error
}

func (f *fakeAdapter) Name() string                                        { return "fake" }
func (f *fakeAdapter) Validate(*config.SimulationConfig) error             { return f.validateErr }
func (f *fakeAdapter) Artifact(*config.SimulationConfig) string            { return f.artifact }
func (f *fakeAdapter) CompileDeps(*config.SimulationConfig) []string       { return f.deps }
func (f *fakeAdapter) CompileCommand(*config.SimulationConfig) []string    { return f.compile }
func (f *fakeAdapter) RunCommand(*config.SimulationConfig) []string        { return f.run }

func testConfig(t *testing.T) *config.SimulationConfig {
	t.Helper()
	dir := t.TempDir()
	return &config.SimulationConfig{
		Toplevel: "dff",
		Module:   "test_dff",
		BuildDir: dir,
		WorkDir:  dir,
	}
}

// touchCmd returns a command that creates marker when executed.
func touchCmd(marker string) []string {
	return []string{"sh", "-c", fmt.Sprintf("touch %q", marker)}
}

const passingDoc = `<testsuites><testsuite name="all">
<testcase classname="test_dff" name="t1"/>
</testsuite></testsuites>`

const failingDoc = `<testsuites><testsuite name="all">
<testcase classname="test_dff" name="t1"/>
<testcase classname="test_dff" name="t2">
<failure message="assertion X failed"/>
</testcase>
</testsuite></testsuites>`

// writeResultsCmd returns a run command that writes doc to the results path
// the orchestrator injected into the child environment.
func writeResultsCmd(t *testing.T, doc string) []string {
	t.Helper()
	script := fmt.Sprintf(`cat > "$%s" <<'EOF'
%s
EOF`, EnvResultsFile, doc)
	return []string{"sh", "-c", script}
}

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("uses sh to script subprocesses")
	}
}

func TestRunPassing(t *testing.T) {
	skipOnWindows(t)
	cfg := testConfig(t)

	adapter := &fakeAdapter{
		compile:  touchCmd(filepath.Join(cfg.BuildDir, "compiled")),
		run:      writeResultsCmd(t, passingDoc),
		artifact: filepath.Join(cfg.BuildDir, "dff.vvp"),
	}
	cfg.ForceCompile = true

	o := newTestOrch(adapter, cfg, Options{Logger: quietLogger()})
	res, err := o.Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.True(t, res.Passed())

	_, err = os.Stat(filepath.Join(cfg.BuildDir, "compiled"))
	assert.NoError(t, err, "compile command should have run")
}

func TestRunEnumeratesFailures(t *testing.T) {
	skipOnWindows(t)
	cfg := testConfig(t)

	adapter := &fakeAdapter{
		run:      writeResultsCmd(t, failingDoc),
		artifact: filepath.Join(cfg.BuildDir, "dff.vvp"),
	}
	cfg.ForceCompile = false
	// No compile: artifact missing makes it stale, so give it one.
	require.NoError(t, os.WriteFile(adapter.artifact, []byte("vvp"), 0o644))

	o := newTestOrch(adapter, cfg, Options{Logger: quietLogger()})
	res, err := o.Run(context.Background())
	require.Error(t, err)
	require.NotNil(t, res)
	assert.False(t, res.Passed())
	require.Len(t, res.Failures, 1)
	assert.Equal(t, "assertion X failed", res.Failures[0].Message)
	assert.Contains(t, err.Error(), "test_dff.t2")
}

func TestRunSkipsCompileWhenFresh(t *testing.T) {
	skipOnWindows(t)
	cfg := testConfig(t)

	compileMarker := filepath.Join(cfg.BuildDir, "compiled")
	adapter := &fakeAdapter{
		compile:  touchCmd(compileMarker),
		run:      writeResultsCmd(t, passingDoc),
		artifact: filepath.Join(cfg.BuildDir, "dff.vvp"),
	}
	require.NoError(t, os.WriteFile(adapter.artifact, []byte("vvp"), 0o644))

	o := newTestOrch(adapter, cfg, Options{Logger: quietLogger()})
	_, err := o.Run(context.Background())
	require.NoError(t, err)

	_, err = os.Stat(compileMarker)
	assert.True(t, os.IsNotExist(err), "up-to-date artifact must not be recompiled")
}

func TestRunFailureAbortsQueue(t *testing.T) {
	skipOnWindows(t)
	cfg := testConfig(t)
	cfg.ForceCompile = true

	runMarker := filepath.Join(cfg.BuildDir, "ran")
	adapter := &fakeAdapter{
		compile:  []string{"sh", "-c", "exit 2"},
		run:      touchCmd(runMarker),
		artifact: filepath.Join(cfg.BuildDir, "dff.vvp"),
	}

	o := newTestOrch(adapter, cfg, Options{Logger: quietLogger()})
	_, err := o.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrProcessFailure)

	var pe *ProcessError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 2, pe.ExitCode)
	assert.Equal(t, "sh", pe.Cmd)

	_, err = os.Stat(runMarker)
	assert.True(t, os.IsNotExist(err), "run command must never start after a compile failure")
}

func TestRunValidateFailsBeforeAnySubprocess(t *testing.T) {
	skipOnWindows(t)
	cfg := testConfig(t)
	cfg.ForceCompile = true

	compileMarker := filepath.Join(cfg.BuildDir, "compiled")
	adapter := &fakeAdapter{
		compile:     touchCmd(compileMarker),
		run:         touchCmd(filepath.Join(cfg.BuildDir, "ran")),
		artifact:    filepath.Join(cfg.BuildDir, "dff.vvp"),
		validateErr: fmt.Errorf("%w: no VHDL here", config.ErrConfiguration),
	}

	o := newTestOrch(adapter, cfg, Options{Logger: quietLogger()})
	_, err := o.Run(context.Background())
	require.ErrorIs(t, err, config.ErrConfiguration)

	_, err = os.Stat(compileMarker)
	assert.True(t, os.IsNotExist(err))
}

func TestRunCompileOnlySkipsExecuteAndReport(t *testing.T) {
	skipOnWindows(t)
	cfg := testConfig(t)
	cfg.ForceCompile = true
	cfg.CompileOnly = true

	runMarker := filepath.Join(cfg.BuildDir, "ran")
	adapter := &fakeAdapter{
		compile:  touchCmd(filepath.Join(cfg.BuildDir, "compiled")),
		run:      touchCmd(runMarker),
		artifact: filepath.Join(cfg.BuildDir, "dff.vvp"),
	}

	o := newTestOrch(adapter, cfg, Options{Logger: quietLogger()})
	res, err := o.Run(context.Background())
	require.NoError(t, err, "no results inspection in compile-only mode")
	assert.Nil(t, res)

	_, err = os.Stat(runMarker)
	assert.True(t, os.IsNotExist(err))
}

func TestRunAbnormalTermination(t *testing.T) {
	skipOnWindows(t)
	cfg := testConfig(t)
	cfg.ForceCompile = true

	adapter := &fakeAdapter{
		compile:  []string{"true"},
		run:      []string{"true"}, // exits fine but never writes results
		artifact: filepath.Join(cfg.BuildDir, "dff.vvp"),
	}

	o := newTestOrch(adapter, cfg, Options{Logger: quietLogger()})
	_, err := o.Run(context.Background())
	require.ErrorIs(t, err, ErrAbnormalTermination)
}

func TestRunHonorsResultsPathOverride(t *testing.T) {
	skipOnWindows(t)
	cfg := testConfig(t)
	cfg.ForceCompile = true

	override := filepath.Join(t.TempDir(), "my_results.xml")
	adapter := &fakeAdapter{
		compile:  []string{"true"},
		run:      writeResultsCmd(t, passingDoc),
		artifact: filepath.Join(cfg.BuildDir, "dff.vvp"),
	}

	env := append(os.Environ(), EnvResultsFile+"="+override)
	o := newTestOrch(adapter, cfg, Options{Logger: quietLogger(), Environ: env})
	res, err := o.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, override, res.Path)

	_, err = os.Stat(override)
	assert.NoError(t, err)
}

// pythonHomeCmd writes the child's PYTHONHOME plus a passing results document.
func pythonHomeCmd(t *testing.T, out string) []string {
	t.Helper()
	script := fmt.Sprintf(`printf '%%s' "$PYTHONHOME" > %q
cat > "$%s" <<'EOF'
%s
EOF`, out, EnvResultsFile, passingDoc)
	return []string{"sh", "-c", script}
}

func TestRunExportsInterpreterHome(t *testing.T) {
	skipOnWindows(t)
	cfg := testConfig(t)
	cfg.ForceCompile = true

	seen := filepath.Join(cfg.BuildDir, "pythonhome")
	adapter := &fakeAdapter{
		compile:  []string{"true"},
		run:      pythonHomeCmd(t, seen),
		artifact: filepath.Join(cfg.BuildDir, "dff.vvp"),
	}

	o := newTestOrch(adapter, cfg, Options{Logger: quietLogger()})
	_, err := o.Run(context.Background())
	require.NoError(t, err)

	got, err := os.ReadFile(seen)
	require.NoError(t, err)
	assert.Equal(t, "/usr", string(got), "probed interpreter prefix must reach the child")
}

func TestRunPrefersProvidedRuntime(t *testing.T) {
	skipOnWindows(t)
	cfg := testConfig(t)
	cfg.ForceCompile = true

	seen := filepath.Join(cfg.BuildDir, "pythonhome")
	adapter := &fakeAdapter{
		compile:  []string{"true"},
		run:      pythonHomeCmd(t, seen),
		artifact: filepath.Join(cfg.BuildDir, "dff.vvp"),
	}

	py := &toolchain.Python{LinkLib: "python3.12", Prefix: "/opt/py312"}
	o := New(adapter, cfg, Options{Logger: quietLogger(), Python: py})
	o.probePython = func(context.Context) (*toolchain.Python, error) {
		t.Fatal("runtime must not be probed when one is supplied")
		return nil, nil
	}

	_, err := o.Run(context.Background())
	require.NoError(t, err)

	got, err := os.ReadFile(seen)
	require.NoError(t, err)
	assert.Equal(t, "/opt/py312", string(got))
}
