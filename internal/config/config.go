// Package config loads the flashcards settings from defaults, an optional
// YAML file, FLASHCARDS_* environment variables and command-line flags,
// later sources overriding earlier ones.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix is stripped from environment variables before they are mapped
// to keys. A double underscore separates levels:
// FLASHCARDS_STORAGE__PATH sets storage.path.
const EnvPrefix = "FLASHCARDS_"

// ConfigFlag names the flag holding the path of the YAML file.
const ConfigFlag = "config"

type Config struct {
	Storage StorageConfig `koanf:"storage"`
	Log     LogConfig     `koanf:"log"`
	HTTP    HTTPConfig    `koanf:"http"`
	Study   StudyConfig   `koanf:"study"`
	Import  ImportConfig  `koanf:"import"`
}

type StorageConfig struct {
	// Backend is json, yaml or sqlite. Empty picks one from the path extension.
	Backend string `koanf:"backend" validate:"omitempty,oneof=json yaml sqlite"`
	Path    string `koanf:"path" validate:"required"`
}

type LogConfig struct {
	Mode string `koanf:"mode" validate:"oneof=development production"`
}

type HTTPConfig struct {
	Addr string `koanf:"addr" validate:"required"`
}

type StudyConfig struct {
	OnlyDue bool `koanf:"only_due"`
}

type ImportConfig struct {
	SkipDuplicates bool `koanf:"skip_duplicates"`
}

// Default returns the settings used when nothing overrides them.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{Path: "cards.json"},
		Log:     LogConfig{Mode: "development"},
		HTTP:    HTTPConfig{Addr: ":8080"},
		Study:   StudyConfig{OnlyDue: true},
	}
}

// RegisterFlags adds the flags Load understands to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String(ConfigFlag, "", "path to a YAML config file")
	fs.String("storage.backend", d.Storage.Backend, "storage backend: json, yaml or sqlite (default: from path extension)")
	fs.String("storage.path", d.Storage.Path, "path of the card collection")
	fs.String("log.mode", d.Log.Mode, "log mode: development or production")
	fs.String("http.addr", d.HTTP.Addr, "listen address for serve")
}

// Load builds the configuration. flags may be nil; when set, its "config"
// flag names the YAML file to read.
func Load(flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	path := ""
	if flags != nil {
		if f := flags.Lookup(ConfigFlag); f != nil {
			path = f.Value.String()
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return nil, fmt.Errorf("loading flags: %w", err)
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
