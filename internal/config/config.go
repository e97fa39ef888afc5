// Package config loads zeal's settings. Sources are layered from lowest to
// highest precedence: built-in defaults, a YAML file, ZEAL_* environment
// variables, then command-line flags.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/conorfennell/zeal/internal/domain"
	"github.com/conorfennell/zeal/internal/sm2"
	"github.com/conorfennell/zeal/internal/storage"
)

// EnvPrefix is the prefix of environment overrides. A double underscore
// separates nested keys: ZEAL_SCHEDULER__MIN_EASE sets scheduler.min_ease.
const EnvPrefix = "ZEAL_"

// Config is the full application configuration.
type Config struct {
	Backend   string    `koanf:"backend" validate:"required,oneof=sqlite file memory"`
	DBPath    string    `koanf:"db" validate:"required_if=Backend sqlite"`
	DataFile  string    `koanf:"data_file" validate:"required_if=Backend file"`
	Addr      string    `koanf:"addr" validate:"required,hostname_port"`
	ReposDir  string    `koanf:"repos_dir" validate:"required"`
	LogLevel  string    `koanf:"log_level" validate:"oneof=debug info warn error"`
	LogFormat string    `koanf:"log_format" validate:"oneof=text json"`
	Scheduler Scheduler `koanf:"scheduler"`
}

// Scheduler mirrors sm2.Params.
type Scheduler struct {
	InitialEase         float64       `koanf:"initial_ease" validate:"gtefield=MinEase"`
	MinEase             float64       `koanf:"min_ease" validate:"gt=0"`
	RetryDelay          time.Duration `koanf:"retry_delay" validate:"gt=0"`
	FirstInterval       int           `koanf:"first_interval" validate:"gte=1"`
	SecondInterval      int           `koanf:"second_interval" validate:"gtefield=FirstInterval"`
	PassThreshold       int           `koanf:"pass_threshold" validate:"gte=1,lte=5"`
	MasteredRepetitions int           `koanf:"mastered_repetitions" validate:"gte=1"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	p := sm2.DefaultParams()
	return Config{
		Backend:   storage.BackendSQLite,
		DBPath:    "zeal.db",
		DataFile:  storage.DefaultSlotName + ".json",
		Addr:      "localhost:8080",
		ReposDir:  "repos",
		LogLevel:  "info",
		LogFormat: "text",
		Scheduler: Scheduler{
			InitialEase:         p.InitialEase,
			MinEase:             p.MinEase,
			RetryDelay:          p.RetryDelay,
			FirstInterval:       p.FirstInterval,
			SecondInterval:      p.SecondInterval,
			PassThreshold:       int(p.PassThreshold),
			MasteredRepetitions: p.MasteredRepetitions,
		},
	}
}

// Load builds the configuration. path may be empty to skip the file layer;
// flags may be nil to skip the flag layer. Only flags the user set override
// earlier layers. Flag names use dashes where keys use underscores.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	envKey := func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return Config{}, fmt.Errorf("failed to load environment: %w", err)
	}

	if flags != nil {
		changedOnly := func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, changedOnly), nil); err != nil {
			return Config{}, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks cfg against its field constraints.
func Validate(cfg Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Params converts the scheduler section to sm2.Params.
func (c Config) Params() *sm2.Params {
	s := c.Scheduler
	return &sm2.Params{
		InitialEase:         s.InitialEase,
		MinEase:             s.MinEase,
		RetryDelay:          s.RetryDelay,
		FirstInterval:       s.FirstInterval,
		SecondInterval:      s.SecondInterval,
		PassThreshold:       domain.Quality(s.PassThreshold),
		MasteredRepetitions: s.MasteredRepetitions,
	}
}

// StoreLocation returns the path the configured backend persists to.
func (c Config) StoreLocation() string {
	if c.Backend == storage.BackendFile {
		return c.DataFile
	}
	return c.DBPath
}

// Logger builds the slog logger described by the config.
func (c Config) Logger() *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
