package serviceconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Environment variables and defaults shared with the packaged service.
// The names are part of the image's documented configuration surface.
const (
	// EnvSymbolDir overrides the symbol data directory directly.
	EnvSymbolDir = "SYMBOLSERVER_SYMBOL_DIR"

	// EnvConfigPath points at the service's YAML configuration file.
	EnvConfigPath = "SYMBOLSERVER_CONFIG"

	// DefaultSymbolDir is where the image stores symbol data when
	// nothing else is configured.
	DefaultSymbolDir = "/usr/local/share/symbolserver"
)

// Config is the subset of the symbolserver YAML configuration the
// entrypoint cares about. Unknown keys are ignored so the file can carry
// the service's full configuration (aws credentials, sync intervals, ...)
// without tripping the entrypoint.
type Config struct {
	// SymbolDir is the path where symbols are stored.
	SymbolDir string `yaml:"symbol_dir"`

	// Server holds the HTTP bind configuration. Not used by the
	// entrypoint but parsed so a populated file round-trips cleanly.
	Server ServerConfig `yaml:"server"`

	// Log holds the logging configuration.
	Log LogConfig `yaml:"log"`
}

// ServerConfig mirrors the service's "server" config section.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// LogConfig mirrors the service's "log" config section.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Load reads and parses a symbolserver YAML config file. A file that
// exists but cannot be parsed is an error; callers decide how to treat
// a missing file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read service config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse service config %s: %w", path, err)
	}
	return &cfg, nil
}

// ResolveSymbolDir determines the symbol data directory the entrypoint
// must prepare. getenv is injected (normally os.Getenv) so the lookup
// order is testable without mutating the process environment.
//
// Resolution order:
//  1. SYMBOLSERVER_SYMBOL_DIR, when set and non-empty.
//  2. symbol_dir from the YAML file named by SYMBOLSERVER_CONFIG. A
//     config path that is set but unreadable or unparsable is fatal; a
//     parsed file without symbol_dir falls through.
//  3. The compiled-in default.
func ResolveSymbolDir(getenv func(string) string) (string, error) {
	if dir := getenv(EnvSymbolDir); dir != "" {
		return dir, nil
	}

	if path := getenv(EnvConfigPath); path != "" {
		cfg, err := Load(path)
		if err != nil {
			return "", err
		}
		if cfg.SymbolDir != "" {
			return cfg.SymbolDir, nil
		}
	}

	return DefaultSymbolDir, nil
}
