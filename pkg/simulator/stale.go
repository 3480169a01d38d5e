// pkg/simulator/stale.go
package simulator

import "os"

// Stale reports whether output must be rebuilt: true when it does not exist
// or when any dependency's modification time is strictly newer than the
// output's. Equal modification times are not stale. A dependency that
// cannot be inspected counts as stale so the compiler gets to report it.
func Stale(output string, deps []string) bool {
	out, err := os.Stat(output)
	if err != nil {
		return true
	}

	for _, dep := range deps {
		d, err := os.Stat(dep)
		if err != nil {
			return true
		}
		if d.ModTime().After(out.ModTime()) {
			return true
		}
	}

	return false
}
