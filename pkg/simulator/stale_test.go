// pkg/simulator/stale_test.go
package simulator

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string, mtime time.Time) string {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	require.NoError(t, os.Chtimes(path, mtime, mtime))
	return path
}

func TestStaleMissingOutput(t *testing.T) {
	dir := t.TempDir()
	dep := touch(t, filepath.Join(dir, "dep.v"), time.Now())

	assert.True(t, Stale(filepath.Join(dir, "absent.vvp"), []string{dep}))
}

func TestStaleNewerDependency(t *testing.T) {
	dir := t.TempDir()
	base := time.Now().Add(-time.Hour)
	out := touch(t, filepath.Join(dir, "top.vvp"), base)
	dep := touch(t, filepath.Join(dir, "dep.v"), base.Add(time.Minute))

	assert.True(t, Stale(out, []string{dep}))
}

func TestStaleFreshOutput(t *testing.T) {
	dir := t.TempDir()
	base := time.Now().Add(-time.Hour)
	dep := touch(t, filepath.Join(dir, "dep.v"), base)
	out := touch(t, filepath.Join(dir, "top.vvp"), base.Add(time.Minute))

	assert.False(t, Stale(out, []string{dep}))
}

func TestStaleEqualTimesNotStale(t *testing.T) {
	dir := t.TempDir()
	base := time.Now().Add(-time.Hour).Truncate(time.Second)
	out := touch(t, filepath.Join(dir, "top.vvp"), base)
	dep := touch(t, filepath.Join(dir, "dep.v"), base)

	// Strictly-greater comparison: equal modification times are fresh.
	assert.False(t, Stale(out, []string{dep}))
}

func TestStaleMissingDependency(t *testing.T) {
	dir := t.TempDir()
	out := touch(t, filepath.Join(dir, "top.vvp"), time.Now())

	assert.True(t, Stale(out, []string{filepath.Join(dir, "gone.v")}))
}

func TestStaleNoDependencies(t *testing.T) {
	dir := t.TempDir()
	out := touch(t, filepath.Join(dir, "top.vvp"), time.Now())

	assert.False(t, Stale(out, nil))
}
