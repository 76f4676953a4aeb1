package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "./paceboot.db", cfg.Database.Path)
	assert.Equal(t, 8050, cfg.Server.Port)
	assert.Equal(t, 1000, cfg.Analysis.DefaultResamples)
	assert.Equal(t, 10000, cfg.Analysis.MaxResamples)
	assert.InDelta(t, 95.0, cfg.Analysis.DefaultLevel, 1e-9)
	assert.Equal(t, []float64{90, 95, 99}, cfg.Analysis.Levels)
	assert.Equal(t, 2, cfg.Analysis.Friend)
	assert.Equal(t, "Run", cfg.Analysis.ActivityType)
	assert.Equal(t, 30*time.Second, cfg.Analysis.Timeout)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "paceboot.yaml")

	content := `
database:
  path: /tmp/runs.db
server:
  port: 9000
analysis:
  default_resamples: 2000
  friend: 3
  timeout: 5s
logging:
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("PACEBOOT_ANALYSIS_MAX_RESAMPLES", "5000")
	t.Setenv("PACEBOOT_LOGGING_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/runs.db", cfg.Database.Path)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 2000, cfg.Analysis.DefaultResamples)
	assert.Equal(t, 5000, cfg.Analysis.MaxResamples)
	assert.Equal(t, 3, cfg.Analysis.Friend)
	assert.Equal(t, 5*time.Second, cfg.Analysis.Timeout)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unterminated"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "bad_port", mutate: func(c *Config) { c.Server.Port = 70000 }, wantErr: ErrInvalidPort},
		{name: "default_above_max", mutate: func(c *Config) { c.Analysis.DefaultResamples = 20000 }, wantErr: ErrInvalidResamples},
		{name: "zero_max", mutate: func(c *Config) { c.Analysis.MaxResamples = 0 }, wantErr: ErrInvalidResamples},
		{name: "level_hundred", mutate: func(c *Config) { c.Analysis.Levels = []float64{90, 100} }, wantErr: ErrInvalidLevel},
		{name: "default_level_zero", mutate: func(c *Config) { c.Analysis.DefaultLevel = 0 }, wantErr: ErrInvalidLevel},
		{name: "zero_timeout", mutate: func(c *Config) { c.Analysis.Timeout = 0 }, wantErr: ErrInvalidTimeout},
		{name: "log_level", mutate: func(c *Config) { c.Logging.Level = "verbose" }, wantErr: ErrInvalidLogLevel},
		{name: "log_format", mutate: func(c *Config) { c.Logging.Format = "xml" }, wantErr: ErrInvalidLogFormat},
		{name: "db_path", mutate: func(c *Config) { c.Database.Path = "" }, wantErr: ErrMissingDatabasePath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestClampResamples(t *testing.T) {
	a := Default().Analysis

	assert.Equal(t, 1000, a.ClampResamples(0))
	assert.Equal(t, 1000, a.ClampResamples(-3))
	assert.Equal(t, 250, a.ClampResamples(250))
	assert.Equal(t, 10000, a.ClampResamples(10000))
	assert.Equal(t, 10000, a.ClampResamples(50000))
}

func TestLevelOrDefault(t *testing.T) {
	a := Default().Analysis

	assert.InDelta(t, 95.0, a.LevelOrDefault(0), 1e-9)
	assert.InDelta(t, 99.0, a.LevelOrDefault(99), 1e-9)
}
