// pkg/toolchain/types.go
package toolchain

// BackendID identifies a supported HDL simulator product.
type BackendID string

const (
	// Icarus is the open-source Icarus Verilog simulator.
	Icarus BackendID = "icarus"
	// Questa is the Mentor Modelsim/Questa simulator.
	Questa BackendID = "questa"
	// GHDL is the open-source GHDL VHDL simulator.
	GHDL BackendID = "ghdl"
	// IUS is the Cadence Incisive simulator.
	IUS BackendID = "ius"
	// VCS is the Synopsys VCS simulator.
	VCS BackendID = "vcs"
	// Aldec is the Aldec Riviera-PRO simulator.
	Aldec BackendID = "aldec"
	// Verilator is the open-source Verilator simulator.
	Verilator BackendID = "verilator"
)

// All returns every supported backend, in matrix build order.
func All() []BackendID {
	return []BackendID{Icarus, Questa, GHDL, IUS, VCS, Aldec, Verilator}
}

// Descriptor describes one probed simulator installation. It is produced by
// a probe pass and never modified afterwards.
type Descriptor struct {
	ID     BackendID // Backend identity
	Define string    // Preprocessor token identifying the backend in bridge sources

	// Control protocols usable on this host. FLI may be reported false for a
	// product that supports it when the required header was not found.
	VPI  bool
	VHPI bool
	FLI  bool

	ToolRoot     string   // Resolved installation root, empty if not derived
	ExtraLibs    []string // Additional native libraries the bridges must link
	ExtraLibDirs []string // Search directories for ExtraLibs
}

// markers maps each backend to the executable whose presence on the search
// path indicates the toolchain is installed.
var markers = map[BackendID]string{
	Icarus:    "iverilog",
	Questa:    "vopt",
	GHDL:      "ghdl",
	IUS:       "irun",
	VCS:       "vcs",
	Aldec:     "vsimsa",
	Verilator: "verilator",
}

// defines maps each backend to its bridge-source preprocessor token.
var defines = map[BackendID]string{
	Icarus:    "ICARUS",
	Questa:    "MODELSIM",
	GHDL:      "GHDL",
	IUS:       "IUS",
	VCS:       "VCS",
	Aldec:     "ALDEC",
	Verilator: "VERILATOR",
}

// protocols records which control protocols each product implements.
var protocols = map[BackendID]struct{ vpi, vhpi, fli bool }{
	Icarus:    {vpi: true},
	Questa:    {vpi: true, fli: true},
	GHDL:      {vpi: true},
	IUS:       {vpi: true, vhpi: true},
	VCS:       {vpi: true},
	Aldec:     {vpi: true, vhpi: true},
	Verilator: {vpi: true},
}
