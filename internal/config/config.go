// Package config resolves the settings of the gemcurate tools.
//
// Values are looked up in order of priority:
//  1. Command-line flags bound with BindFlags
//  2. Environment variables (GEMCURATE_DATABASES, GEMCURATE_CHBAL, ...)
//  3. The configuration file ($HOME/.gemcurate.yaml or --config)
//  4. Built-in defaults
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes the environment variables read by Load.
const EnvPrefix = "GEMCURATE"

// FileName is the configuration file looked up in the home directory.
const FileName = ".gemcurate.yaml"

// Keys of the configuration values.
const (
	KeyDatabases = "databases"
	KeyChBal     = "chbal"
	KeyDelim     = "delim"
	KeyDebug     = "debug"
)

// Config holds the resolved settings.
type Config struct {
	// Databases are the compound databases reported on, in column order.
	Databases []string `yaml:"databases"`

	// ChargeHydrogenBalance accepts hydrogen differences explained by charge.
	ChargeHydrogenBalance bool `yaml:"chbal"`

	// Delim joins multi-valued cells.
	Delim string `yaml:"delim"`

	Debug bool `yaml:"debug"`

	// File is the configuration file that was read, if any.
	File string `yaml:"-"`
}

// Defaults returns the built-in settings.
func Defaults() Config {
	return Config{
		Databases: []string{"BiGG", "BioCyc", "MetaNetX", "SEED"},
		Delim:     "::",
	}
}

// New creates a viper instance with defaults and environment lookup.
func New() *viper.Viper {
	d := Defaults()
	v := viper.New()
	v.SetDefault(KeyDatabases, d.Databases)
	v.SetDefault(KeyChBal, d.ChargeHydrogenBalance)
	v.SetDefault(KeyDelim, d.Delim)
	v.SetDefault(KeyDebug, d.Debug)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// BindFlags binds the flags named after configuration keys. Flags the command
// does not define are skipped.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for _, key := range []string{KeyDatabases, KeyChBal, KeyDelim, KeyDebug} {
		f := flags.Lookup(key)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding flag %s: %w", key, err)
		}
	}
	return nil
}

// Load reads the configuration file and resolves the settings. An explicit
// path must exist; the default file in the home directory is optional.
func Load(v *viper.Viper, path string) (Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else if home, err := os.UserHomeDir(); err == nil {
		v.SetConfigFile(filepath.Join(home, FileName))
	}

	if v.ConfigFileUsed() != "" {
		err := v.ReadInConfig()
		var notFound viper.ConfigFileNotFoundError
		switch {
		case err == nil:
		case path == "" && (errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)):
		default:
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := Config{
		Databases:             splitList(v.GetStringSlice(KeyDatabases)),
		ChargeHydrogenBalance: v.GetBool(KeyChBal),
		Delim:                 v.GetString(KeyDelim),
		Debug:                 v.GetBool(KeyDebug),
	}
	if path != "" || fileExists(v.ConfigFileUsed()) {
		cfg.File = v.ConfigFileUsed()
	}
	if len(cfg.Databases) == 0 {
		return Config{}, fmt.Errorf("config: %s must name at least one database", KeyDatabases)
	}
	return cfg, nil
}

// WriteYAML prints the settings as YAML.
func (c Config) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return enc.Close()
}

// splitList also accepts comma-separated entries, as given in environment
// variables.
func splitList(in []string) []string {
	var out []string
	for _, s := range in {
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
