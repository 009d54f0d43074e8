package config

import (
	"os"

	"github.com/dynalint/dynalint/internal/output"
)

// ConfigSource indicates where a configuration value came from.
type ConfigSource string

const (
	// SourceFlag indicates value came from command-line flag.
	SourceFlag ConfigSource = "flag"
	// SourceEnv indicates value came from environment variable.
	SourceEnv ConfigSource = "env"
	// SourceConfig indicates value came from config file.
	SourceConfig ConfigSource = "config"
	// SourceDefault indicates value is the built-in default.
	SourceDefault ConfigSource = "default"
)

// ResolvedValue records one configuration value's resolution for verbose
// reporting.
type ResolvedValue struct {
	// Key is the configuration key.
	Key string
	// Value is the winning value.
	Value string
	// Source indicates where the value came from.
	Source ConfigSource
	// Shadowed contains values that were overridden by higher precedence.
	Shadowed map[ConfigSource]string
}

// ResolveConfigPathOptions contains options for config path resolution.
type ResolveConfigPathOptions struct {
	// FlagValue is the --config flag value (empty if not set).
	FlagValue string
}

// ResolveConfigPath resolves the config file path using precedence:
// (1) --config flag, (2) DYNALINT_CONFIG env, (3) ~/.dynalint/config.yaml.
func ResolveConfigPath(opts ResolveConfigPathOptions) (ResolvedValue, error) {
	result := ResolvedValue{
		Key:      "config",
		Shadowed: make(map[ConfigSource]string),
	}

	envValue := os.Getenv("DYNALINT_CONFIG")

	paths, err := DefaultPaths()
	if err != nil {
		return result, err
	}
	defaultPath := paths.ConfigFile

	switch {
	case opts.FlagValue != "":
		result.Value = opts.FlagValue
		result.Source = SourceFlag
		if envValue != "" {
			result.Shadowed[SourceEnv] = envValue
		}
		result.Shadowed[SourceDefault] = defaultPath
	case envValue != "":
		result.Value = envValue
		result.Source = SourceEnv
		result.Shadowed[SourceDefault] = defaultPath
	default:
		result.Value = defaultPath
		result.Source = SourceDefault
	}

	return result, nil
}

// ResolveCacheDirOptions contains options for cache dir resolution.
type ResolveCacheDirOptions struct {
	// ConfigValue is the cacheDir value from the config file (empty if
	// not set).
	ConfigValue string
}

// ResolveCacheDir resolves the cache directory using precedence:
// (1) DYNALINT_CACHE_DIR env, (2) config cacheDir, (3) ~/.dynalint/cache.
func ResolveCacheDir(opts ResolveCacheDirOptions) (ResolvedValue, error) {
	result := ResolvedValue{
		Key:      "cacheDir",
		Shadowed: make(map[ConfigSource]string),
	}

	envValue := os.Getenv("DYNALINT_CACHE_DIR")

	paths, err := DefaultPaths()
	if err != nil {
		return result, err
	}

	switch {
	case envValue != "":
		result.Value = envValue
		result.Source = SourceEnv
		if opts.ConfigValue != "" {
			result.Shadowed[SourceConfig] = opts.ConfigValue
		}
		result.Shadowed[SourceDefault] = paths.CacheDir
	case opts.ConfigValue != "":
		result.Value = opts.ConfigValue
		result.Source = SourceConfig
		result.Shadowed[SourceDefault] = paths.CacheDir
	default:
		result.Value = paths.CacheDir
		result.Source = SourceDefault
	}

	return result, nil
}

// MergeLibraryPath unions the search-path sources in precedence order:
// --lib-path flags first, then DYNALINT_LIBRARY_PATH entries, then the
// config file's libraryPath. Unlike single-valued settings the sources are
// additive; duplicates keep their first position.
func MergeLibraryPath(flagDirs, envDirs, configDirs []string) []string {
	seen := make(map[string]bool)
	var merged []string
	for _, group := range [][]string{flagDirs, envDirs, configDirs} {
		for _, dir := range group {
			if dir == "" || seen[dir] {
				continue
			}
			seen[dir] = true
			merged = append(merged, dir)
		}
	}
	return merged
}

// LogResolvedValues logs configuration resolution at DEBUG level when verbose.
func LogResolvedValues(values []ResolvedValue) {
	for _, v := range values {
		output.Debug("config value resolved",
			"key", v.Key,
			"value", v.Value,
			"source", v.Source,
		)
		for source, shadowed := range v.Shadowed {
			output.Debug("  shadowed by higher precedence",
				"key", v.Key,
				"shadowed_source", source,
				"shadowed_value", shadowed,
			)
		}
	}
}
