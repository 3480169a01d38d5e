// pkg/matrix/specs.go
package matrix

import (
	"path/filepath"

	"github.com/hdl-tools/simbridge/pkg/toolchain"
)

// Logical names of the common support chain, in build order. Each library
// links against its predecessors, so this order is a hard constraint.
const (
	libUtils   = "libbridgeutils"
	libLog     = "libbridgelog"
	libEmbed   = "libbridgeembed"
	libBridge  = "libbridge"
	libControl = "control"

	libVPI  = "libbridgevpi"
	libVHPI = "libbridgevhpi"
	libFLI  = "libbridgefli"
)

// specEnv carries the inputs common to every spec of one backend's matrix.
type specEnv struct {
	buildDir   string
	includeDir string
	srcDir     string
	goos       string
	python     *toolchain.Python
	ext        string // canonical shared-library extension
}

// commonSpecs returns the backend-independent support chain in strict build
// order: utils, logging, embedding, generic bridge, entry-point module.
func commonSpecs(e *specEnv) []BuildSpec {
	logLibDirs := []string{e.buildDir}
	if e.goos == "darwin" && e.python.LibDir != "" {
		// The darwin linker does not search the framework prefix for the
		// runtime library on its own.
		logLibDirs = append(logLibDirs, e.python.LibDir)
	}

	return []BuildSpec{
		{
			Name:          libUtils,
			Language:      LangC,
			IncludeDirs:   []string{e.includeDir},
			Sources:       []string{filepath.Join(e.srcDir, "utils", "bridge_utils.c")},
			ExtraLinkArgs: installNameArgs(e.goos, libUtils),
		},
		{
			Name:          libLog,
			Language:      LangC,
			IncludeDirs:   []string{e.includeDir},
			Sources:       []string{filepath.Join(e.srcDir, "log", "bridge_logging.c")},
			Libraries:     []string{e.python.LinkLib, "pthread", "m", "bridgeutils"},
			LibraryDirs:   logLibDirs,
			ExtraLinkArgs: installNameArgs(e.goos, libLog),
		},
		{
			Name:        libEmbed,
			Language:    LangC,
			IncludeDirs: []string{e.includeDir},
			Sources:     []string{filepath.Join(e.srcDir, "embed", "bridge_embed.c")},
			Libraries:   []string{"bridgelog", "bridgeutils"},
			LibraryDirs: []string{e.buildDir},
			Defines: []Define{
				{Name: "EMBED_PY_SO", Value: e.python.SharedObject},
			},
			ExtraLinkArgs: installNameArgs(e.goos, libEmbed),
		},
		{
			Name:        libBridge,
			Language:    LangCPP,
			IncludeDirs: []string{e.includeDir},
			Sources: []string{
				filepath.Join(e.srcDir, "bridge", "BridgeCbHdl.cpp"),
				filepath.Join(e.srcDir, "bridge", "BridgeCommon.cpp"),
			},
			Libraries:   []string{"bridgeutils", "bridgelog", "bridgeembed", "stdc++"},
			LibraryDirs: []string{e.buildDir},
			Defines: []Define{
				{Name: "LIB_EXT", Value: e.ext},
				{Name: "SINGLETON_HANDLES"},
			},
			ExtraLinkArgs: installNameArgs(e.goos, libBridge),
		},
		{
			Name:        libControl,
			Language:    LangC,
			IncludeDirs: []string{e.includeDir},
			Sources:     []string{filepath.Join(e.srcDir, "control", "controlmodule.c")},
			Libraries:   []string{"bridgeutils", "bridgelog", "bridge"},
			LibraryDirs: []string{e.buildDir},
		},
	}
}

// vpiSpec returns the call-back protocol bridge spec for one backend.
func vpiSpec(e *specEnv, d *toolchain.Descriptor) BuildSpec {
	return BuildSpec{
		Name:        libVPI,
		Language:    LangCPP,
		IncludeDirs: []string{e.includeDir},
		Sources: []string{
			filepath.Join(e.srcDir, "vpi", "VpiImpl.cpp"),
			filepath.Join(e.srcDir, "vpi", "VpiCbHdl.cpp"),
		},
		Libraries:   append([]string{"bridge", "bridgelog"}, d.ExtraLibs...),
		LibraryDirs: append([]string{e.buildDir}, d.ExtraLibDirs...),
		Defines: []Define{
			{Name: "VPI_CHECKING", Value: "1"},
			{Name: d.Define},
		},
		ExtraLinkArgs: originRPathArgs(e.goos, libVPI),
	}
}

// vhpiSpec returns the VHDL-oriented protocol bridge spec for one backend.
func vhpiSpec(e *specEnv, d *toolchain.Descriptor) BuildSpec {
	return BuildSpec{
		Name:        libVHPI,
		Language:    LangCPP,
		IncludeDirs: []string{e.includeDir},
		Sources: []string{
			filepath.Join(e.srcDir, "vhpi", "VhpiImpl.cpp"),
			filepath.Join(e.srcDir, "vhpi", "VhpiCbHdl.cpp"),
		},
		Libraries:   append([]string{"bridge", "bridgelog", "stdc++"}, d.ExtraLibs...),
		LibraryDirs: append([]string{e.buildDir}, d.ExtraLibDirs...),
		Defines: []Define{
			{Name: "VHPI_CHECKING", Value: "1"},
			{Name: d.Define},
		},
		ExtraLinkArgs: originRPathArgs(e.goos, libVHPI),
	}
}

// fliSpec returns the FLI bridge spec. It additionally needs the tool's own
// interface headers from the probed installation root.
func fliSpec(e *specEnv, d *toolchain.Descriptor) BuildSpec {
	return BuildSpec{
		Name:        libFLI,
		Language:    LangCPP,
		IncludeDirs: []string{e.includeDir, filepath.Join(d.ToolRoot, "include")},
		Sources: []string{
			filepath.Join(e.srcDir, "fli", "FliImpl.cpp"),
			filepath.Join(e.srcDir, "fli", "FliCbHdl.cpp"),
			filepath.Join(e.srcDir, "fli", "FliObjHdl.cpp"),
		},
		Libraries:     append([]string{"bridge", "bridgelog", "stdc++"}, d.ExtraLibs...),
		LibraryDirs:   append([]string{e.buildDir}, d.ExtraLibDirs...),
		Defines:       []Define{{Name: d.Define}},
		ExtraLinkArgs: originRPathArgs(e.goos, libFLI),
	}
}

// installNameArgs pins the darwin install name to the loader path so the
// chain resolves siblings from its own directory.
func installNameArgs(goos, name string) []string {
	if goos == "darwin" {
		return []string{"-Wl,-install_name,@loader_path/" + name + ".so"}
	}
	return nil
}

// originRPathArgs makes a protocol bridge resolve the common chain relative
// to itself.
func originRPathArgs(goos, name string) []string {
	if goos == "darwin" {
		return installNameArgs(goos, name)
	}
	if goos == "windows" {
		return nil
	}
	return []string{"-Wl,-rpath,$ORIGIN"}
}
