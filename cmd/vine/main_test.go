package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/vine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command. Flag values persist across calls, so every
// test passes the flags it depends on.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "vine version "+vine.Version+"\n", out)
}

func TestRunCommand(t *testing.T) {
	dir := t.TempDir()
	pipeline := filepath.Join(dir, "p.yaml")
	require.NoError(t, os.WriteFile(pipeline, []byte("steps: [{step: V, ids: [4]}, {step: out}, {step: values, keys: [name]}]"), 0o644))

	out, err := execute(t, "run", pipeline, "--quiet", "--config", filepath.Join(dir, "vine.yaml"))
	require.Error(t, err, "an explicit config file must exist")

	cfgPath := filepath.Join(dir, "vine.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("workers: 2\n"), 0o644))
	out, err = execute(t, "run", pipeline, "--quiet", "--config", cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "ripple\nlop\n", out)
	assert.Equal(t, 2, cfg.Workers)
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("steps: [{step: orbit}]"), 0o644))

	_, err := execute(t, "validate", bad, "--config", filepath.Join(dir, "absent.yaml"))
	require.Error(t, err)

	cfgPath := filepath.Join(dir, "vine.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("mode: standard\n"), 0o644))
	_, err = execute(t, "validate", bad, "--config", cfgPath)
	assert.ErrorContains(t, err, "validation failed")
}

func TestExplainCommand(t *testing.T) {
	dir := t.TempDir()
	pipeline := filepath.Join(dir, "p.yaml")
	require.NoError(t, os.WriteFile(pipeline, []byte("steps: [{step: V}, {step: count}]"), 0o644))

	cfgPath := filepath.Join(dir, "vine.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("mode: standard\n"), 0o644))
	out, err := execute(t, "explain", pipeline, "--format", "mermaid", "--mode", "computer", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "s1[[\"CountStep\"]]")
}
