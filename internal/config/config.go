// Package config provides configuration loading and management.
package config

// Config represents the dynalint CLI configuration.
// Loaded from ~/.dynalint/config.yaml, with DYNALINT_* environment
// variables taking precedence over file values.
type Config struct {
	// CacheDir is where fetched sources and built artifacts live.
	// Env: DYNALINT_CACHE_DIR, Default: ~/.dynalint/cache
	CacheDir string `mapstructure:"cacheDir" yaml:"cacheDir,omitempty"`

	// DriverDir is where per-toolchain driver binaries live.
	// Env: DYNALINT_DRIVER_PATH, Default: ~/.dynalint/drivers
	DriverDir string `mapstructure:"driverDir" yaml:"driverDir,omitempty"`

	// LibraryPath lists extra artifact search directories, scanned before
	// workspace metadata is consulted.
	// Env: DYNALINT_LIBRARY_PATH (OS list separator)
	LibraryPath []string `mapstructure:"libraryPath" yaml:"libraryPath,omitempty"`

	// DriverSource points driver builds at a local engine source tree
	// instead of the released module. Development use only.
	// Env: DYNALINT_DRIVER_SOURCE
	DriverSource string `mapstructure:"driverSource" yaml:"driverSource,omitempty"`

	// Output selects the default output format: "text" or "json".
	// Env: DYNALINT_OUTPUT, Default: "text"
	Output string `mapstructure:"output" yaml:"output,omitempty"`
}

// DefaultConfig returns the built-in defaults as a populated Config.
// DefaultConfigYAML spells out the same values in commented form and must
// stay in sync with it.
func DefaultConfig() *Config {
	return &Config{
		CacheDir:  "~/.dynalint/cache",
		DriverDir: "~/.dynalint/drivers",
		Output:    "text",
	}
}

// DefaultConfigYAML is the commented starter configuration written by
// `dynalint config init`. It spells out every key with its default, so the
// file doubles as the reference for what can be configured.
const DefaultConfigYAML = `# dynalint configuration
#
# DYNALINT_* environment variables override file values.

# Where fetched sources and built artifacts live.
# Env: DYNALINT_CACHE_DIR
cacheDir: ~/.dynalint/cache

# Where per-toolchain driver binaries live.
# Env: DYNALINT_DRIVER_PATH
driverDir: ~/.dynalint/drivers

# Extra artifact search directories, scanned before workspace metadata.
# Entries must be absolute.
# Env: DYNALINT_LIBRARY_PATH (OS list separator between entries)
#libraryPath:
#  - /opt/lints

# Default output format: text or json.
# Env: DYNALINT_OUTPUT
output: text
`

// WithDefaults returns a copy with unset fields filled in and tilde paths
// expanded.
func (c *Config) WithDefaults() (*Config, error) {
	out := *c

	paths, err := DefaultPaths()
	if err != nil {
		return nil, err
	}
	if out.CacheDir == "" {
		out.CacheDir = paths.CacheDir
	}
	if out.DriverDir == "" {
		out.DriverDir = paths.DriverDir
	}
	if out.Output == "" {
		out.Output = "text"
	}

	if out.CacheDir, err = ExpandPath(out.CacheDir); err != nil {
		return nil, err
	}
	if out.DriverDir, err = ExpandPath(out.DriverDir); err != nil {
		return nil, err
	}
	if out.DriverSource, err = ExpandPath(out.DriverSource); err != nil {
		return nil, err
	}

	expanded := make([]string, 0, len(out.LibraryPath))
	for _, dir := range out.LibraryPath {
		e, err := ExpandPath(dir)
		if err != nil {
			return nil, err
		}
		expanded = append(expanded, e)
	}
	out.LibraryPath = expanded

	return &out, nil
}
