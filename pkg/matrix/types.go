// pkg/matrix/types.go

// Package matrix compiles the per-backend matrix of bridge shared
// libraries: for every simulator toolchain found on the host it builds the
// common support chain and one protocol bridge per control protocol the
// backend supports, then canonicalizes the artifact filenames.
package matrix

import (
	"github.com/hdl-tools/simbridge/pkg/toolchain"
)

// Language selects the compiler front end for a build specification.
type Language int

const (
	// LangC compiles with the C compiler.
	LangC Language = iota
	// LangCPP compiles with the C++ compiler.
	LangCPP
)

// Define is one preprocessor define for a bridge compilation. A Value of ""
// defines the bare token.
type Define struct {
	Name  string
	Value string
}

// BuildSpec describes one bridge library compilation. Libraries is
// dependency-ordered: a spec linking against library X must be built after
// X's own spec completes.
type BuildSpec struct {
	Name          string   // Logical library name, e.g. "libbridgeutils"
	Language      Language // Compiler front end
	IncludeDirs   []string
	Sources       []string
	Libraries     []string // Link names (without the lib prefix), dependency-ordered
	LibraryDirs   []string
	Defines       []Define
	ExtraLinkArgs []string
}

// Artifact is the compiled, canonically named output of one BuildSpec.
type Artifact struct {
	Backend toolchain.BackendID
	Name    string // Logical library name
	Path    string // Canonical on-disk path
}
