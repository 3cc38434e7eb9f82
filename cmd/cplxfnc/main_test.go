package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the root command as a fresh process would see it: flags
// from an earlier call are put back to their defaults first.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		require.NoError(t, f.Value.Set(f.DefValue), "reset --%s", f.Name)
		f.Changed = false
	})
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestZetaCmd(t *testing.T) {
	out, err := run(t, "zeta", "2", "1", "--digits", "14")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "1.64493406684823e+00"), "got %q", out)
}

func TestGammaIncCmdBranch(t *testing.T) {
	above, err := run(t, "gammainc", "--digits", "9", "--", "0.1", "-3.6")
	require.NoError(t, err)
	below, err := run(t, "gammainc", "--digits", "9", "--", "0.1", "-3.6-0i")
	require.NoError(t, err)

	assert.Contains(t, above, "-7.870585916e+00i")
	assert.Contains(t, below, "+7.870585916e+00i")
}

func TestUAsympCmd(t *testing.T) {
	out, err := run(t, "uasymp", "1.5", "2.5", "10", "--digits", "4")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "1.0000e+00"), "got %q", out)

	_, err = run(t, "uasymp", "2", "2", "30")
	require.Error(t, err)

	_, err = run(t, "uasymp", "2", "2", "1+2i")
	require.Error(t, err)
}

func TestBatchCmd(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "points.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`function: zeta
points:
  - {s: "2", x: "1"}
  - {s: "1.2", x: "(1 10)"}
`), 0o644))

	out, err := run(t, "batch", path, "--digits", "9")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "2\t1\t1.644934067e+00"), "got %q", lines[0])
	assert.Contains(t, lines[1], "3.009528513e+00-9.446836996e-01i")

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("function: erf\npoints:\n  - {s: \"1\", x: \"1\"}\n"), 0o644))
	_, err = run(t, "batch", bad)
	require.Error(t, err)
}

func TestSchemaCmd(t *testing.T) {
	out, err := run(t, "schema")
	require.NoError(t, err)
	assert.Contains(t, out, `"zeta_prec"`)
	assert.Contains(t, out, `"gamma_prec"`)
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("limit: 0\n"), 0o644))
	_, err := run(t, "zeta", "2", "1", "--config", path)
	require.Error(t, err)
}

func TestFlagsDoNotCarryOver(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("limit: 0\n"), 0o644))
	_, err := run(t, "zeta", "2", "1", "--config", path, "--digits", "4", "--tol", "1e-3")
	require.Error(t, err)

	out, err := run(t, "zeta", "2", "1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "1.644934066848226"), "got %q", out)
	assert.Empty(t, configPath)
	assert.Equal(t, 16, digits)
	assert.Equal(t, 1e-16, eval.Config().Tol)
}
