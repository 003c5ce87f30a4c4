// Package config loads settings from defaults, an optional YAML file,
// PILLSCOUT_ environment variables and command-line flags, in that order
// of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Config holds all runtime settings.
type Config struct {
	// DBPath is the sqlite database file.
	DBPath string `koanf:"db"`
	// Addr is the web companion's listen address.
	Addr string `koanf:"addr"`
	API  API    `koanf:"api"`
}

// API holds the remote endpoint settings. The base URLs default to the
// production backend; tests point them at local servers.
type API struct {
	DrugBase    string        `koanf:"drug_base"`
	DiseaseBase string        `koanf:"disease_base"`
	Timeout     time.Duration `koanf:"timeout"`
}

var defaults = map[string]interface{}{
	"db":               "pillscout.db",
	"addr":             ":8080",
	"api.drug_base":    "https://www.mobixed.com/apps/drug-fda",
	"api.disease_base": "https://mobixed.com",
	"api.timeout":      15 * time.Second,
}

// Load builds the configuration. path names an optional YAML file; a
// missing file is skipped, a malformed one is an error.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	k := koanf.New(".")

	for key, value := range defaults {
		if err := k.Set(key, value); err != nil {
			return Config{}, fmt.Errorf("set default %s: %w", key, err)
		}
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return Config{}, fmt.Errorf("load config file %s: %w", path, err)
			}
		}
	}

	// Double underscore separates nesting levels, e.g.
	// PILLSCOUT_API__DRUG_BASE maps to api.drug_base.
	err := k.Load(env.Provider("PILLSCOUT_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "PILLSCOUT_")), "__", ".")
	}), nil)
	if err != nil {
		return Config{}, fmt.Errorf("load env config: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return Config{}, fmt.Errorf("load flag config: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}
