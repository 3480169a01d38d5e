// pkg/matrix/compiler_test.go
package matrix

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestCompileCommandOrder(t *testing.T) {
	c := NewCompiler(quietLogger())
	c.CC = "cc"
	c.CXX = "c++"
	c.GOOS = "linux"

	spec := BuildSpec{
		Name:        "libbridgelog",
		Language:    LangC,
		IncludeDirs: []string{"/share/include"},
		Sources:     []string{"/share/lib/log/bridge_logging.c"},
		Libraries:   []string{"python3.11", "pthread", "m", "bridgeutils"},
		LibraryDirs: []string{"/build/icarus"},
		Defines: []Define{
			{Name: "DEBUG", Value: "1"},
			{Name: "BARE"},
		},
		ExtraLinkArgs: []string{"-Wl,-rpath,$ORIGIN"},
	}

	got := c.command(spec, "/build/icarus/libbridgelog.so")
	assert.Equal(t, []string{
		"cc", "-o", "/build/icarus/libbridgelog.so", "-shared", "-fPIC",
		"-DDEBUG=1", "-DBARE",
		"-I/share/include",
		"/share/lib/log/bridge_logging.c",
		"-L/build/icarus",
		"-lpython3.11", "-lpthread", "-lm", "-lbridgeutils",
		"-Wl,-rpath,$ORIGIN",
	}, got)
}

func TestCompileCommandSelectsFrontEnd(t *testing.T) {
	c := NewCompiler(quietLogger())
	c.CC = "gcc"
	c.CXX = "g++"
	c.GOOS = "linux"

	cCmd := c.command(BuildSpec{Name: "a", Language: LangC}, "a.so")
	assert.Equal(t, "gcc", cCmd[0])

	cppCmd := c.command(BuildSpec{Name: "b", Language: LangCPP}, "b.so")
	assert.Equal(t, "g++", cppCmd[0])
}

func TestCompileCommandDarwinDynamiclib(t *testing.T) {
	c := NewCompiler(quietLogger())
	c.GOOS = "darwin"

	got := c.command(BuildSpec{Name: "a", Language: LangC}, "a.so")
	assert.Contains(t, got, "-dynamiclib")
	assert.NotContains(t, got, "-shared")
}
