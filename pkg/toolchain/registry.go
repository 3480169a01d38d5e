// pkg/toolchain/registry.go
package toolchain

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Override adjusts how one backend is probed. Site installations sometimes
// rename tool executables or require extra link inputs; a toolchains.toml
// next to the build configuration describes those deviations:
//
//	[questa]
//	marker = "vopt-2023.2"
//	extra_libs = ["mtipli"]
//	extra_lib_dirs = ["/opt/questa/linux_x86_64"]
type Override struct {
	Marker       string   `toml:"marker"`
	ExtraLibs    []string `toml:"extra_libs"`
	ExtraLibDirs []string `toml:"extra_lib_dirs"`
}

// Registry provides per-backend probe overrides loaded from a toml file.
type Registry struct {
	overrides map[string]Override
}

// LoadRegistry reads overrides from path. A missing file yields an empty
// registry, not an error.
func LoadRegistry(path string) (*Registry, error) {
	r := &Registry{overrides: make(map[string]Override)}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return r, nil
		}
		return nil, fmt.Errorf("reading toolchain overrides: %w", err)
	}

	if err := toml.Unmarshal(data, &r.overrides); err != nil {
		return nil, fmt.Errorf("parsing toolchain overrides: %w", err)
	}

	return r, nil
}

// Lookup returns the override for a backend, if one was configured.
func (r *Registry) Lookup(id BackendID) (Override, bool) {
	ov, ok := r.overrides[string(id)]
	return ov, ok
}
