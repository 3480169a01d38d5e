// pkg/toolchain/probe.go
package toolchain

import (
	"errors"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// ErrUnavailable indicates a simulator toolchain was not found on this host.
// It is a normal, expected outcome of a probe, not a fault.
var ErrUnavailable = errors.New("toolchain unavailable")

// Prober locates installed simulator toolchains on the host. It is a pure
// query: probing has no side effects beyond logging.
type Prober struct {
	Logger    *slog.Logger
	Overrides *Registry // optional per-backend overrides from toolchains.toml

	// goos and lookPath exist so tests can exercise platform branches.
	goos     string
	lookPath func(string) (string, error)
}

// NewProber creates a Prober. A nil registry disables overrides.
func NewProber(logger *slog.Logger, overrides *Registry) *Prober {
	if logger == nil {
		logger = slog.Default()
	}
	return &Prober{
		Logger:    logger,
		Overrides: overrides,
		goos:      runtime.GOOS,
		lookPath:  exec.LookPath,
	}
}

// Probe reports whether the given backend's toolchain is installed, and if
// so describes it. The boolean result is the availability: a false return
// means the backend should be skipped, not that something went wrong.
func (p *Prober) Probe(id BackendID) (*Descriptor, bool) {
	marker, ok := markers[id]
	if !ok {
		p.Logger.Warn("unknown backend", "backend", string(id))
		return nil, false
	}

	var ov Override
	if p.Overrides != nil {
		if o, ok := p.Overrides.Lookup(id); ok {
			ov = o
		}
	}
	if ov.Marker != "" {
		marker = ov.Marker
	}

	exePath, err := p.lookPath(marker)
	if err != nil {
		p.Logger.Info("simulator not found on search path",
			"backend", string(id), "marker", marker)
		return nil, false
	}

	caps := protocols[id]
	d := &Descriptor{
		ID:     id,
		Define: defines[id],
		VPI:    caps.vpi,
		VHPI:   caps.vhpi,
		FLI:    caps.fli,
	}

	// Two directory levels up from the marker executable is the
	// conventional installation root for the commercial tools.
	d.ToolRoot = filepath.Dir(filepath.Dir(exePath))

	switch id {
	case Icarus:
		// On Windows the VPI import library ships with the simulator and
		// must be linked explicitly.
		if p.goos == "windows" {
			d.ExtraLibs = []string{"vpi"}
			d.ExtraLibDirs = []string{filepath.Join(d.ToolRoot, "lib")}
		}
	case Questa:
		if p.goos == "windows" {
			d.ExtraLibs = []string{"mtipli"}
			d.ExtraLibDirs = []string{filepath.Dir(exePath)}
		}
		// The FLI bridge needs the tool's own interface header. Its absence
		// degrades only the FLI sub-feature.
		header := filepath.Join(d.ToolRoot, "include", "mti.h")
		if _, err := os.Stat(header); err != nil {
			p.Logger.Warn("FLI header not found, FLI bridge disabled",
				"backend", string(id), "header", header)
			d.FLI = false
		}
	case Aldec:
		d.ExtraLibs = []string{"aldecpli"}
		d.ExtraLibDirs = []string{filepath.Dir(exePath)}
	}

	if len(ov.ExtraLibs) > 0 {
		d.ExtraLibs = append(d.ExtraLibs, ov.ExtraLibs...)
	}
	if len(ov.ExtraLibDirs) > 0 {
		d.ExtraLibDirs = append(d.ExtraLibDirs, ov.ExtraLibDirs...)
	}

	p.Logger.Debug("simulator toolchain found",
		"backend", string(id), "path", exePath, "root", d.ToolRoot)

	return d, true
}
