// Package config loads wellday settings from config.yaml or config.toml in the
// config directory, then applies WELLDAY_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/julianstephens/wellday/internal/constants"
	"github.com/julianstephens/wellday/internal/utils"
)

// Config is the top-level structure of config.yaml / config.toml.
type Config struct {
	// Backend is one of sqlite, postgres, file or memory
	Backend string `yaml:"backend" toml:"backend"`
	// Path is the sqlite database file or the file backend directory
	Path string `yaml:"path" toml:"path"`
	// Connection is a PostgreSQL connection string without credentials
	Connection string `yaml:"connection,omitempty" toml:"connection,omitempty"`
	Timezone   string `yaml:"timezone" toml:"timezone"`
	LogLevel   string `yaml:"log_level,omitempty" toml:"log_level,omitempty"`
	Debug      bool   `yaml:"debug" toml:"debug"`
	// Tasks overrides the daily plan template
	Tasks []string `yaml:"tasks,omitempty" toml:"tasks,omitempty"`

	// Dir is the directory the config was loaded from
	Dir string `yaml:"-" toml:"-"`
	// Source is the file the config was read from, empty when defaults were used
	Source string `yaml:"-" toml:"-"`

	pathDefaulted bool
}

// DefaultConfig returns a Config populated with defaults for dir.
func DefaultConfig(dir string) *Config {
	return &Config{
		Backend:  constants.DefaultBackend,
		Path:     DefaultPath(dir, constants.DefaultBackend),
		Timezone: constants.DefaultTimezone,
		Dir:      dir,

		pathDefaulted: true,
	}
}

// DefaultPath is where backend keeps its data when no path is configured:
// a directory for the file backend, a database file otherwise.
func DefaultPath(dir, backend string) string {
	if backend == constants.BackendFile {
		return filepath.Join(dir, constants.DefaultStateDir)
	}
	return filepath.Join(dir, constants.DefaultDBName)
}

// SetBackend switches the backend. A path that was never configured moves to
// the new backend's default location.
func (c *Config) SetBackend(name string) {
	c.Backend = name
	if c.pathDefaulted {
		c.Path = DefaultPath(c.Dir, name)
	}
}

// SetPath sets an explicit data path
func (c *Config) SetPath(path string) {
	c.Path = path
	c.pathDefaulted = false
}

// DefaultDir returns the expanded default config directory.
func DefaultDir() (string, error) {
	return ExpandPath(constants.DefaultConfigDir)
}

// Load reads the config from dir. config.yaml wins over config.toml; with neither
// present the defaults are used. Environment overrides are applied last.
func Load(dir string) (*Config, error) {
	dir, err := ExpandPath(dir)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig(dir)
	cfg.Path = ""

	yamlPath := filepath.Join(dir, constants.ConfigFileYAML)
	tomlPath := filepath.Join(dir, constants.ConfigFileTOML)
	switch {
	case fileExists(yamlPath):
		if err := readYAML(yamlPath, cfg); err != nil {
			return nil, err
		}
		cfg.Source = yamlPath
	case fileExists(tomlPath):
		if err := readTOML(tomlPath, cfg); err != nil {
			return nil, err
		}
		cfg.Source = tomlPath
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if cfg.Path == "" {
		cfg.Path = DefaultPath(dir, cfg.Backend)
		cfg.pathDefaulted = true
	} else if cfg.Path, err = ExpandPath(cfg.Path); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// Write saves cfg as config.yaml in dir, creating the directory if needed.
func Write(dir string, cfg *Config) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("marshalling config: %w", err)
	}
	path := filepath.Join(dir, constants.ConfigFileYAML)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing config: %w", err)
	}
	return path, nil
}

// Validate checks the backend name, timezone and backend specific fields.
func (c *Config) Validate() error {
	backends := []string{constants.BackendSQLite, constants.BackendPostgres, constants.BackendFile, constants.BackendMemory}
	if !slices.Contains(backends, c.Backend) {
		return fmt.Errorf("backend must be one of %s, got %q", strings.Join(backends, ", "), c.Backend)
	}
	if !utils.ValidateTimezone(c.Timezone) {
		return fmt.Errorf("invalid timezone %q", c.Timezone)
	}
	if (c.Backend == constants.BackendSQLite || c.Backend == constants.BackendFile) && strings.TrimSpace(c.Path) == "" {
		return fmt.Errorf("path is required for the %s backend", c.Backend)
	}
	for i, title := range c.Tasks {
		if strings.TrimSpace(title) == "" {
			return fmt.Errorf("tasks[%d] must not be empty", i)
		}
	}
	return nil
}

// TaskTitles returns the configured plan template, or the built-in one.
func (c *Config) TaskTitles() []string {
	if len(c.Tasks) > 0 {
		return c.Tasks
	}
	return constants.DefaultTaskTitles
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(constants.EnvBackend); v != "" {
		c.Backend = v
	}
	if v := os.Getenv(constants.EnvPath); v != "" {
		c.Path = v
	}
	if v := os.Getenv(constants.EnvTimezone); v != "" {
		c.Timezone = v
	}
	if v := os.Getenv(constants.EnvDebug); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s value %q: %w", constants.EnvDebug, v, err)
		}
		c.Debug = debug
	}
	return nil
}

func readYAML(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal([]byte(expandEnvVars(string(data))), cfg); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}
	return nil
}

func readTOML(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	if _, err := toml.Decode(expandEnvVars(string(data)), cfg); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}
	return nil
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR} with environment variable values.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[2 : len(match)-1])
	})
}

// ExpandPath resolves a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !errors.Is(err, os.ErrNotExist)
}
