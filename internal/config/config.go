// Package config loads sortstep settings from a YAML (or JSON) file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/aretw0/sortstep/pkg/domain"
	"github.com/aretw0/sortstep/pkg/input"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultPath is looked up when no --config flag is given.
const DefaultPath = "sortstep.yaml"

// EnvConfigPath overrides DefaultPath.
const EnvConfigPath = "SORTSTEP_CONFIG"

// Config is the full set of user-tunable settings.
type Config struct {
	Algorithm string        `mapstructure:"algorithm"`
	Delay     time.Duration `mapstructure:"delay"`
	Theme     string        `mapstructure:"theme"`
	Generate  Generate      `mapstructure:"generate"`
	Log       Log           `mapstructure:"log"`
	HTTP      HTTP          `mapstructure:"http"`
	Redis     Redis         `mapstructure:"redis"`
}

// Generate controls random arrays.
type Generate struct {
	Size int `mapstructure:"size"`
	Min  int `mapstructure:"min"`
	Max  int `mapstructure:"max"`
}

// Log controls the application logger.
type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// HTTP controls the serve command.
type HTTP struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Redis controls step-event publishing. An empty Addr disables it.
type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Channel  string `mapstructure:"channel"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Algorithm: string(domain.AlgorithmBubble),
		Delay:     50 * time.Millisecond,
		Theme:     "dark",
		Generate: Generate{
			Size: input.DefaultSize,
			Min:  input.DefaultMin,
			Max:  input.DefaultMax,
		},
		Log: Log{
			Level:  "info",
			Format: "text",
		},
		HTTP: HTTP{
			Addr:            ":8080",
			ShutdownTimeout: 5 * time.Second,
		},
		Redis: Redis{
			Channel: "sortstep:events",
		},
	}
}

// Path resolves the config file location: flag value, then environment, then DefaultPath.
func Path(flag string) string {
	if flag != "" {
		return flag
	}
	if env := os.Getenv(EnvConfigPath); env != "" {
		return env
	}
	return DefaultPath
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	raw := map[string]any{}
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		err = json.Unmarshal(data, &raw)
	} else {
		err = yaml.Unmarshal(data, &raw)
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}

	if err := Decode(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", filepath.Base(path), err)
	}
	return cfg, cfg.Validate()
}

// Decode applies raw settings onto cfg. Bare numbers for durations are milliseconds.
func Decode(raw map[string]any, cfg *Config) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			millisecondsHook,
			mapstructure.StringToTimeDurationHookFunc(),
		),
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}

var durationType = reflect.TypeOf(time.Duration(0))

func millisecondsHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != durationType {
		return data, nil
	}
	switch v := data.(type) {
	case int:
		return time.Duration(v) * time.Millisecond, nil
	case int64:
		return time.Duration(v) * time.Millisecond, nil
	case float64:
		return time.Duration(v * float64(time.Millisecond)), nil
	}
	return data, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Algorithm != "" {
		if _, err := domain.ParseAlgorithm(c.Algorithm); err != nil {
			return err
		}
	}
	if c.Delay < 0 {
		return fmt.Errorf("%w: delay must not be negative", domain.ErrInvalidInput)
	}
	if c.Generate.Size <= 0 {
		return fmt.Errorf("%w: generate.size must be positive", domain.ErrInvalidInput)
	}
	if c.Generate.Min > c.Generate.Max {
		return fmt.Errorf("%w: generate.min exceeds generate.max", domain.ErrInvalidInput)
	}
	if err := input.CheckBounds(c.Generate.Size, c.Generate.Min, c.Generate.Max); err != nil {
		return fmt.Errorf("generate: %w", err)
	}
	switch c.Theme {
	case "light", "dark":
	default:
		return fmt.Errorf("%w: theme must be light or dark", domain.ErrInvalidInput)
	}
	return nil
}
