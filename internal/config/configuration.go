// Package config loads command-line settings from DARKROOM_* environment
// variables and an optional config file.
package config

import (
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. DARKROOM_BACKEND.
const EnvPrefix = "DARKROOM"

type Config struct {
	// Rendering
	Backend string `mapstructure:"BACKEND" validate:"oneof=cpu gpu"`
	Workers int    `mapstructure:"WORKERS" validate:"gte=0"`

	// Batch processing; 0 means one job per CPU.
	Jobs int `mapstructure:"JOBS" validate:"gte=0"`

	// Output
	JPEGQuality int `mapstructure:"JPEG_QUALITY" validate:"gte=1,lte=100"`

	LogLevel string `mapstructure:"LOG_LEVEL" validate:"oneof=debug info warn error"`
}

// bindEnv uses reflect to bind environment variables based on mapstructure tags.
func bindEnv(v *viper.Viper, c Config) {
	typ := reflect.TypeOf(c)
	for i := 0; i < typ.NumField(); i++ {
		if tag := typ.Field(i).Tag.Get("mapstructure"); tag != "" {
			_ = v.BindEnv(tag)
		}
	}
}

// Load reads the configuration. Values come, in increasing priority, from
// defaults, the config file (if path is not empty) and the environment.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	bindEnv(v, Config{})
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("BACKEND", "gpu")
	v.SetDefault("WORKERS", 0)
	v.SetDefault("JOBS", 0)
	v.SetDefault("JPEG_QUALITY", 90)
	v.SetDefault("LOG_LEVEL", "warn")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := Config{}
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Backend = strings.ToLower(cfg.Backend)
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

// Level returns LogLevel as a slog level.
func (c *Config) Level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelWarn
	}
	return l
}
