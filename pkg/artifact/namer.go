// pkg/artifact/namer.go

// Package artifact maps logical bridge-library names to the single canonical
// on-disk filename each compiled artifact must end up with, and performs the
// platform-quirk-aware rename that gets it there.
package artifact

import (
	"path/filepath"
	"runtime"
	"strings"
)

// Namer resolves canonical artifact filenames for one target platform.
type Namer struct {
	// OS is the target GOOS. Exposed so tests can exercise other platforms'
	// naming rules; New fills in the host value.
	OS string
}

// New returns a Namer for the host platform.
func New() *Namer {
	return &Namer{OS: runtime.GOOS}
}

// Ext returns the shared-library extension, without the dot.
func (n *Namer) Ext() string {
	if n.OS == "windows" {
		return "dll"
	}
	return "so"
}

// Canonical returns the canonical filename for a logical library name.
// Exactly one such name exists per (backend, logical library) pair.
func (n *Namer) Canonical(logical string) string {
	return logical + "." + n.Ext()
}

// Logical strips the extension and any compiler-appended ABI tags from a raw
// output filename, recovering the logical library name. Toolchains that tag
// outputs produce names like "libbridgevpi.cpython-311-x86_64-linux-gnu.so";
// everything past the first dot is discarded.
func (n *Namer) Logical(raw string) string {
	base := filepath.Base(raw)
	if i := strings.Index(base, "."); i > 0 {
		return base[:i]
	}
	return base
}

// FinalName returns the filename an artifact must carry once the matrix is
// complete. Icarus refuses to load VPI plugins unless they use its own .vpl
// extension, so its call-back bridge gets a fixed plugin filename.
func (n *Namer) FinalName(backend, logical string) string {
	if backend == "icarus" && logical == "libbridgevpi" {
		return "bridgevpi.vpl"
	}
	return n.Canonical(logical)
}
