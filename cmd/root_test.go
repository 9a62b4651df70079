package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolateConfig points the config file at an empty temp dir and clears
// environment overrides.
func isolateConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("PROPENSITY_CONFIG", filepath.Join(dir, ".propensity", "config.yaml"))
	t.Setenv("PROPENSITY_WAREHOUSE_PROJECT", "")
	t.Setenv("PROPENSITY_LOGGING_LEVEL", "")
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	b := new(bytes.Buffer)
	cmd.SetOut(b)
	cmd.SetErr(b)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return b.String(), err
}

func TestRootCommandHelp(t *testing.T) {
	isolateConfig(t)

	output, err := execute(t, "--help")
	require.NoError(t, err)

	assert.Contains(t, output, "Available Commands:")
	for _, name := range []string{"queries", "inspect", "setup", "version"} {
		assert.Contains(t, output, name)
	}
}

func TestInvalidCommand(t *testing.T) {
	isolateConfig(t)

	_, err := execute(t, "invalid-command")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")
}

func TestVersionCommand(t *testing.T) {
	isolateConfig(t)

	output, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, output, "propensity version")
	assert.Contains(t, output, "Built at:")
}
