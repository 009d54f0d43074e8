package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	oerrors "github.com/dynalint/dynalint/internal/errors"
)

// Environment variable prefix for dynalint configuration.
const envPrefix = "DYNALINT"

// Loader handles loading and merging configuration from multiple sources.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	v := viper.New()

	// Set up environment variable bindings
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Bind specific environment variables
	_ = v.BindEnv("cacheDir", "DYNALINT_CACHE_DIR")
	_ = v.BindEnv("driverDir", "DYNALINT_DRIVER_PATH")
	_ = v.BindEnv("driverSource", "DYNALINT_DRIVER_SOURCE")
	_ = v.BindEnv("output", "DYNALINT_OUTPUT")

	return &Loader{v: v}
}

// Load loads configuration from the given file path.
// If configFile is empty, it uses the default config file path.
// Environment variables take precedence over file values.
func (l *Loader) Load(configFile string) (*Config, error) {
	if configFile == "" {
		var err error
		configFile, err = GetConfigFile()
		if err != nil {
			return nil, fmt.Errorf("getting config file path: %w", err)
		}
	}

	expandedPath, err := ExpandPath(configFile)
	if err != nil {
		return nil, fmt.Errorf("expanding config path: %w", err)
	}

	l.v.SetConfigFile(expandedPath)
	l.v.SetConfigType("yaml")

	// A missing config file is fine, defaults plus env vars apply.
	if err := l.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// The library path env var is a single list-separated string, which
	// viper cannot turn into a slice on its own.
	if env := os.Getenv("DYNALINT_LIBRARY_PATH"); env != "" {
		cfg.LibraryPath = filepath.SplitList(env)
	}

	return &cfg, nil
}

// LoadWithDefaults loads configuration and applies defaults.
func (l *Loader) LoadWithDefaults(configFile string) (*Config, error) {
	cfg, err := l.Load(configFile)
	if err != nil {
		return nil, err
	}
	return cfg.WithDefaults()
}

// ConfigFileExists checks if the config file exists.
func ConfigFileExists(configFile string) (bool, error) {
	if configFile == "" {
		var err error
		configFile, err = GetConfigFile()
		if err != nil {
			return false, err
		}
	}

	expandedPath, err := ExpandPath(configFile)
	if err != nil {
		return false, err
	}

	_, err = os.Stat(expandedPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Vet parses the config file strictly: unknown keys and invalid values are
// configuration errors. A missing file vets clean, since every field has a
// default.
func Vet(configFile string) error {
	if configFile == "" {
		var err error
		configFile, err = GetConfigFile()
		if err != nil {
			return err
		}
	}

	expandedPath, err := ExpandPath(configFile)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(expandedPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return oerrors.NewConfigurationError(
			err.Error(), expandedPath, "",
			"allowed keys: cacheDir, driverDir, libraryPath, driverSource, output",
		)
	}

	if cfg.Output != "" && cfg.Output != "text" && cfg.Output != "json" {
		return oerrors.NewConfigurationError(
			fmt.Sprintf("invalid output format %q", cfg.Output),
			expandedPath, "output",
			`use "text" or "json"`,
		)
	}
	return nil
}
