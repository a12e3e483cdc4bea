package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/vine/internal/config"
	"github.com/aretw0/vine/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "vine.yaml"), false)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	_, err = config.Load(filepath.Join(t.TempDir(), "vine.yaml"), true)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	path := write(t, "vine.yaml", `
mode: olap
workers: 8
memory:
  kind: redis
  addr: localhost:6379
  db: 2
`)
	cfg, err := config.Load(path, true)
	require.NoError(t, err)

	assert.Equal(t, domain.ModeComputer, cfg.ExecutionMode())
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, "redis", cfg.Memory.Kind)
	assert.Equal(t, 2, cfg.Memory.DB)
	assert.Equal(t, "vine:memory:", cfg.Memory.Prefix)
	assert.Equal(t, 1000, cfg.MaxSupersteps)
}

func TestLoad_JSON(t *testing.T) {
	path := write(t, "vine.json", `{"log_level":"debug","log_format":"json"}`)
	cfg, err := config.Load(path, true)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoad_Malformed(t *testing.T) {
	path := write(t, "vine.yaml", "workers: [")
	_, err := config.Load(path, true)
	assert.ErrorContains(t, err, "failed to parse config")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		errMsg string
	}{
		{"defaults", func(*config.Config) {}, ""},
		{"level", func(c *config.Config) { c.LogLevel = "loud" }, `unknown log level "loud"`},
		{"format", func(c *config.Config) { c.LogFormat = "xml" }, `unknown log format "xml"`},
		{"mode", func(c *config.Config) { c.Mode = "batch" }, `unknown mode "batch"`},
		{"workers", func(c *config.Config) { c.Workers = 0 }, "workers must be positive"},
		{"supersteps", func(c *config.Config) { c.MaxSupersteps = -1 }, "max_supersteps must be positive"},
		{"redis addr", func(c *config.Config) { c.Memory.Kind = "redis" }, "memory.addr is required"},
		{"memory kind", func(c *config.Config) { c.Memory.Kind = "etcd" }, `unknown memory kind "etcd"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.errMsg)
		})
	}
}

func TestValidate_JoinsErrors(t *testing.T) {
	cfg := config.Default()
	cfg.Workers = 0
	cfg.Mode = "batch"
	err := cfg.Validate()
	assert.ErrorContains(t, err, "workers")
	assert.ErrorContains(t, err, "mode")
}
