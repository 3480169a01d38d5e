// pkg/runner/env.go
package runner

import (
	"os"
	"sort"
	"strings"

	"github.com/hdl-tools/simbridge/pkg/config"
	"github.com/hdl-tools/simbridge/pkg/toolchain"
)

// Environment variables this system consumes and injects.
const (
	// EnvSim selects the backend when the caller does not name one.
	EnvSim = "SIM"
	// EnvResultsFile overrides where the results document is written.
	EnvResultsFile = "SIMBRIDGE_RESULTS_FILE"
	// EnvToplevel names the toplevel unit for the embedded runtime.
	EnvToplevel = "TOPLEVEL"
	// EnvModule names the test module the embedded runtime loads.
	EnvModule = "MODULE"
	// EnvSimFlag marks the child process as running under simulation.
	EnvSimFlag = "SIMBRIDGE_SIM"
	// EnvRandomSeed fixes the embedded runtime's random seed.
	EnvRandomSeed = "RANDOM_SEED"
	// EnvTestcase selects a single testcase.
	EnvTestcase = "TESTCASE"
)

// environ materializes the child process environment. The parent snapshot
// is input only: overlays are applied functionally onto a copy, the real
// process environment is never mutated.
func environ(snapshot []string, cfg *config.SimulationConfig, libDir, resultsPath string, py *toolchain.Python, seedStr string) []string {
	vars := make(map[string]string, len(snapshot)+16)
	for _, kv := range snapshot {
		if i := strings.IndexByte(kv, '='); i > 0 {
			vars[kv[:i]] = kv[i+1:]
		}
	}

	sep := string(os.PathListSeparator)

	// The simulator resolves the bridge libraries through the executable
	// search path.
	if path, ok := vars["PATH"]; ok && path != "" {
		vars["PATH"] = path + sep + libDir
	} else {
		vars["PATH"] = libDir
	}

	// Interpreter search path: current entries first, then caller extras.
	search := []string{}
	if pp := vars["PYTHONPATH"]; pp != "" {
		search = append(search, pp)
	}
	search = append(search, cfg.PythonSearch...)
	vars["PYTHONPATH"] = strings.Join(search, sep)

	if py != nil && py.Prefix != "" {
		vars["PYTHONHOME"] = py.Prefix
	}

	vars[EnvToplevel] = cfg.Toplevel
	vars[EnvSimFlag] = "1"
	vars[EnvModule] = cfg.Module
	vars[EnvResultsFile] = resultsPath

	if seedStr != "" {
		vars[EnvRandomSeed] = seedStr
	}
	if cfg.Testcase != "" {
		vars[EnvTestcase] = cfg.Testcase
	}

	for k, v := range cfg.ExtraEnv {
		vars[k] = v
	}

	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+vars[k])
	}
	return out
}
