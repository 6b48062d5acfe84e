package cli

import (
	"fmt"
	"time"

	"github.com/aretw0/sortstep/internal/config"
	"github.com/spf13/pflag"
)

// Flag names shared by the commands. Each one overrides the config field of
// the same meaning when set explicitly.
const (
	FlagConfig       = "config"
	FlagLogLevel     = "log-level"
	FlagLogFormat    = "log-format"
	FlagAlgorithm    = "algorithm"
	FlagDelay        = "delay"
	FlagTheme        = "theme"
	FlagSize         = "size"
	FlagMin          = "min"
	FlagMax          = "max"
	FlagAddr         = "addr"
	FlagRedisAddr    = "redis-addr"
	FlagRedisChannel = "redis-channel"
)

// LoadConfig reads the config file named by --config (or the environment
// default) and applies every flag the user changed on top of it.
func LoadConfig(flags *pflag.FlagSet) (config.Config, error) {
	path, _ := flags.GetString(FlagConfig)
	cfg, err := config.Load(config.Path(path))
	if err != nil {
		return cfg, err
	}
	if err := applyFlags(flags, &cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func applyFlags(flags *pflag.FlagSet, cfg *config.Config) error {
	var errs []error
	str := func(name string, dst *string) {
		if changed(flags, name) {
			v, err := flags.GetString(name)
			errs = append(errs, err)
			*dst = v
		}
	}
	num := func(name string, dst *int) {
		if changed(flags, name) {
			v, err := flags.GetInt(name)
			errs = append(errs, err)
			*dst = v
		}
	}

	str(FlagLogLevel, &cfg.Log.Level)
	str(FlagLogFormat, &cfg.Log.Format)
	str(FlagAlgorithm, &cfg.Algorithm)
	str(FlagTheme, &cfg.Theme)
	str(FlagAddr, &cfg.HTTP.Addr)
	str(FlagRedisAddr, &cfg.Redis.Addr)
	str(FlagRedisChannel, &cfg.Redis.Channel)
	num(FlagSize, &cfg.Generate.Size)
	num(FlagMin, &cfg.Generate.Min)
	num(FlagMax, &cfg.Generate.Max)
	if changed(flags, FlagDelay) {
		d, err := flags.GetDuration(FlagDelay)
		errs = append(errs, err)
		cfg.Delay = d
	}

	for _, err := range errs {
		if err != nil {
			return fmt.Errorf("invalid flag: %w", err)
		}
	}
	return nil
}

func changed(flags *pflag.FlagSet, name string) bool {
	f := flags.Lookup(name)
	return f != nil && f.Changed
}

// AddRunFlags registers the flags that shape a run.
func AddRunFlags(flags *pflag.FlagSet) {
	flags.StringP(FlagAlgorithm, "a", "", "Algorithm: bubble, selection, insertion, merge, quick or heap")
	flags.Duration(FlagDelay, 50*time.Millisecond, "Pause between steps")
	AddGenerateFlags(flags)
}

// AddGenerateFlags registers the random array flags.
func AddGenerateFlags(flags *pflag.FlagSet) {
	flags.Int(FlagSize, 0, "Number of random values")
	flags.Int(FlagMin, 0, "Smallest random value")
	flags.Int(FlagMax, 0, "Largest random value")
}

// AddRedisFlags registers the redis connection flags.
func AddRedisFlags(flags *pflag.FlagSet) {
	flags.String(FlagRedisAddr, "", "Redis address for step events (empty disables)")
	flags.String(FlagRedisChannel, "", "Redis pub/sub channel for step events")
}
