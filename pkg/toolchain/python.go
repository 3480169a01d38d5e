// pkg/toolchain/python.go
package toolchain

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// Python describes the host scripting runtime the bridge libraries embed.
type Python struct {
	LinkLib      string // Name passed to the linker, e.g. "python3.11"
	SharedObject string // Shared-object filename, e.g. "libpython3.11.so"
	LibDir       string // Directory containing the runtime library
	Prefix       string // Installation prefix, exported as PYTHONHOME
}

// sysconfigScript asks the interpreter for the variables we need, one per
// line, so a single subprocess round-trip suffices.
const sysconfigScript = `import sysconfig
print(sysconfig.get_config_var("LDLIBRARY") or "")
print(sysconfig.get_config_var("LIBRARY") or "")
print(sysconfig.get_config_var("LIBDIR") or "")
print(sysconfig.get_config_var("prefix") or "")
print(sysconfig.get_python_version())`

// ProbePython locates the Python runtime the bridges will embed by asking
// the interpreter itself for its build configuration.
func ProbePython(ctx context.Context) (*Python, error) {
	exe, err := exec.LookPath("python3")
	if err != nil {
		exe, err = exec.LookPath("python")
		if err != nil {
			return nil, fmt.Errorf("python interpreter: %w", ErrUnavailable)
		}
	}

	out, err := exec.CommandContext(ctx, exe, "-c", sysconfigScript).Output()
	if err != nil {
		return nil, fmt.Errorf("querying python sysconfig: %w", err)
	}

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) < 5 {
		return nil, fmt.Errorf("unexpected python sysconfig output: %q", string(out))
	}

	ldLibrary := strings.TrimSpace(lines[0])
	library := strings.TrimSpace(lines[1])
	libDir := strings.TrimSpace(lines[2])
	prefix := strings.TrimSpace(lines[3])
	version := strings.TrimSpace(lines[4])

	// On darwin the static LIBRARY variable carries the usable name.
	named := ldLibrary
	if runtime.GOOS == "darwin" {
		named = library
	}

	py := &Python{LibDir: libDir, Prefix: prefix}
	py.LinkLib = linkName(named, version)
	py.SharedObject = sharedObject(py.LinkLib)

	return py, nil
}

// linkName derives the -l name from a library filename like
// "libpython3.11.so" or "libpython3.11.a", falling back to the dotless
// version. Only the extension is stripped: the version component carries a
// dot of its own and must survive.
func linkName(library, version string) string {
	if library != "" {
		base := strings.TrimSuffix(library, filepath.Ext(library))
		return strings.TrimPrefix(base, "lib")
	}
	return "python" + strings.ReplaceAll(version, ".", "")
}

// sharedObject renders the platform filename of the runtime library.
func sharedObject(linkLib string) string {
	if runtime.GOOS == "windows" {
		return linkLib + ".dll"
	}
	return "lib" + linkLib + ".so"
}
