// Package config loads paceboot settings from an optional YAML file and
// PACEBOOT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Sentinel validation errors.
var (
	ErrInvalidPort         = errors.New("invalid server port")
	ErrInvalidResamples    = errors.New("resample counts must be positive and default must not exceed max")
	ErrInvalidLevel        = errors.New("confidence levels must be in (0, 100)")
	ErrInvalidTimeout      = errors.New("analysis timeout must be positive")
	ErrInvalidLogLevel     = errors.New("unknown log level")
	ErrInvalidLogFormat    = errors.New("unknown log format")
	ErrMissingDatabasePath = errors.New("database path must be set")
)

// Default configuration values.
const (
	DefaultResamples = 1000
	MaxResamples     = 10000
	DefaultLevel     = 95.0

	defaultPort         = 8050
	defaultHost         = "0.0.0.0"
	defaultDBPath       = "./paceboot.db"
	defaultTimeout      = 30 * time.Second
	defaultReadTimeout  = 15 * time.Second
	defaultWriteTimeout = 60 * time.Second
	defaultFriend       = 2
	maxPort             = 65535
)

// Config holds all paceboot configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Server   ServerConfig   `mapstructure:"server"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// DatabaseConfig locates the activity store.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// ServerConfig holds dashboard server settings.
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// AnalysisConfig holds comparison defaults and the caller-side limits
// applied before the engine runs.
type AnalysisConfig struct {
	DefaultResamples int           `mapstructure:"default_resamples"`
	MaxResamples     int           `mapstructure:"max_resamples"`
	DefaultLevel     float64       `mapstructure:"default_level"`
	Levels           []float64     `mapstructure:"levels"`
	Workers          int           `mapstructure:"workers"`
	Timeout          time.Duration `mapstructure:"timeout"`
	Mine             int           `mapstructure:"mine"`
	Friend           int           `mapstructure:"friend"`
	ActivityType     string        `mapstructure:"activity_type"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from configPath (or the default search paths when
// empty) and the environment, then validates it.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("paceboot")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("$HOME/.config/paceboot")
	}

	v.SetEnvPrefix("PACEBOOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{Path: defaultDBPath},
		Server: ServerConfig{
			Host:         defaultHost,
			Port:         defaultPort,
			ReadTimeout:  defaultReadTimeout,
			WriteTimeout: defaultWriteTimeout,
		},
		Analysis: AnalysisConfig{
			DefaultResamples: DefaultResamples,
			MaxResamples:     MaxResamples,
			DefaultLevel:     DefaultLevel,
			Levels:           []float64{90, 95, 99},
			Workers:          runtime.NumCPU(),
			Timeout:          defaultTimeout,
			Mine:             0,
			Friend:           defaultFriend,
			ActivityType:     "Run",
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("database.path", d.Database.Path)

	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)

	v.SetDefault("analysis.default_resamples", d.Analysis.DefaultResamples)
	v.SetDefault("analysis.max_resamples", d.Analysis.MaxResamples)
	v.SetDefault("analysis.default_level", d.Analysis.DefaultLevel)
	v.SetDefault("analysis.levels", d.Analysis.Levels)
	v.SetDefault("analysis.workers", d.Analysis.Workers)
	v.SetDefault("analysis.timeout", d.Analysis.Timeout)
	v.SetDefault("analysis.mine", d.Analysis.Mine)
	v.SetDefault("analysis.friend", d.Analysis.Friend)
	v.SetDefault("analysis.activity_type", d.Analysis.ActivityType)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
}

// Validate checks the configuration for values the rest of the program cannot use.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return ErrMissingDatabasePath
	}

	if c.Server.Port < 0 || c.Server.Port > maxPort {
		return fmt.Errorf("%w: %d", ErrInvalidPort, c.Server.Port)
	}

	a := c.Analysis
	if a.DefaultResamples < 1 || a.MaxResamples < 1 || a.DefaultResamples > a.MaxResamples {
		return fmt.Errorf("%w: default %d, max %d", ErrInvalidResamples, a.DefaultResamples, a.MaxResamples)
	}

	for _, level := range append([]float64{a.DefaultLevel}, a.Levels...) {
		if level <= 0 || level >= 100 {
			return fmt.Errorf("%w: %v", ErrInvalidLevel, level)
		}
	}

	if a.Timeout <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidTimeout, a.Timeout)
	}

	if !slices.Contains([]string{"debug", "info", "warn", "error"}, strings.ToLower(c.Logging.Level)) {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Logging.Level)
	}

	if !slices.Contains([]string{"text", "json"}, strings.ToLower(c.Logging.Format)) {
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, c.Logging.Format)
	}

	return nil
}

// ClampResamples applies the caller-side policy before a comparison runs:
// a missing or non-positive count becomes the default, and anything above
// the configured maximum is capped.
func (a AnalysisConfig) ClampResamples(n int) int {
	if n <= 0 {
		return a.DefaultResamples
	}
	return min(n, a.MaxResamples)
}

// LevelOrDefault returns level, or the default level when level is zero.
func (a AnalysisConfig) LevelOrDefault(level float64) float64 {
	if level == 0 {
		return a.DefaultLevel
	}
	return level
}
