// Package config loads and saves the querycraft YAML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Theme   string        `yaml:"theme"`
	KeyMode string        `yaml:"keymode"` // "vim" or "standard"
	Format  FormatConfig  `yaml:"format"`
	Export  ExportConfig  `yaml:"export"`
	History HistoryConfig `yaml:"history"`
	Audit   AuditConfig   `yaml:"audit"`
	Log     LogConfig     `yaml:"log"`
	Sources []SavedSource `yaml:"sources"`
}

// FormatConfig controls how generated SQL is pretty-printed.
type FormatConfig struct {
	Enabled           bool `yaml:"enabled"`
	UppercaseKeywords bool `yaml:"uppercase_keywords"`
	MaxLineWidth      int  `yaml:"max_line_width"`
}

// ExportConfig controls where exported .sql files go.
type ExportConfig struct {
	Directory string `yaml:"directory"`
	Filename  string `yaml:"filename"`
}

// HistoryConfig controls the statement history store.
type HistoryConfig struct {
	Enabled bool `yaml:"enabled"`
}

// AuditConfig controls the JSON Lines audit journal.
type AuditConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Path      string `yaml:"path"`
	MaxSizeMB int    `yaml:"max_size_mb"`
}

// LogConfig controls the diagnostic log file.
type LogConfig struct {
	Level     string `yaml:"level"`
	Directory string `yaml:"directory"`
}

// SavedSource is a named database whose schema can be introspected.
type SavedSource struct {
	Name     string `yaml:"name"`
	Adapter  string `yaml:"adapter"`
	DSN      string `yaml:"dsn,omitempty"`
	Host     string `yaml:"host,omitempty"`
	Port     int    `yaml:"port,omitempty"`
	User     string `yaml:"user,omitempty"`
	Password string `yaml:"password,omitempty"`
	Database string `yaml:"database,omitempty"`
	File     string `yaml:"file,omitempty"`
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Theme:   "default",
		KeyMode: "standard",
		Format: FormatConfig{
			Enabled:      true,
			MaxLineWidth: 80,
		},
		Export: ExportConfig{
			Filename: "query.sql",
		},
		History: HistoryConfig{Enabled: true},
		Audit:   AuditConfig{MaxSizeMB: 10},
		Log:     LogConfig{Level: "info"},
	}
}

// ConfigDir returns the querycraft configuration directory, typically
// ~/.config/querycraft/.
func ConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config dir: %w", err)
	}
	return filepath.Join(base, "querycraft"), nil
}

// DefaultPath returns ConfigDir()/config.yaml.
func DefaultPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads a Config from the YAML file at path. If the file does not exist,
// it returns DefaultConfig without error. Fields absent from the file keep
// their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// LoadDefault loads configuration from DefaultPath.
func LoadDefault() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return Load(path)
}

// Save writes the Config to the YAML file at path, creating any necessary
// parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Source returns the saved source with the given name.
func (c *Config) Source(name string) (SavedSource, bool) {
	for _, s := range c.Sources {
		if s.Name == name {
			return s, true
		}
	}
	return SavedSource{}, false
}

// ExportPath returns where an export should be written: the configured
// directory (home-expanded, current directory when empty) joined with the
// configured file name.
func (c *Config) ExportPath() string {
	name := c.Export.Filename
	if name == "" {
		name = "query.sql"
	}
	return filepath.Join(ExpandHome(c.Export.Directory), name)
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// BuildDSN constructs a connection string from the individual fields of a
// SavedSource. If DSN is already set, it is returned as-is. For file-based
// adapters (sqlite, duckdb) it returns the File field. For network adapters
// it builds "user:password@host:port/database".
func (s *SavedSource) BuildDSN() string {
	if s.DSN != "" {
		return s.DSN
	}

	adapter := strings.ToLower(s.Adapter)
	if adapter == "sqlite" || adapter == "duckdb" {
		return s.File
	}

	var b strings.Builder
	if s.User != "" {
		b.WriteString(s.User)
		if s.Password != "" {
			b.WriteByte(':')
			b.WriteString(s.Password)
		}
		b.WriteByte('@')
	}

	host := s.Host
	if host == "" {
		host = "localhost"
	}
	b.WriteString(host)

	if s.Port > 0 {
		fmt.Fprintf(&b, ":%d", s.Port)
	}
	if s.Database != "" {
		b.WriteByte('/')
		b.WriteString(s.Database)
	}
	return b.String()
}

// DisplayString returns "adapter://host:port/database" for network
// adapters or "adapter://file" for file-based ones, never a password.
func (s *SavedSource) DisplayString() string {
	adapter := strings.ToLower(s.Adapter)
	if adapter == "sqlite" || adapter == "duckdb" {
		file := s.File
		if file == "" {
			file = s.DSN
		}
		return fmt.Sprintf("%s://%s", s.Adapter, file)
	}

	host := s.Host
	if host == "" {
		host = "localhost"
	}
	location := host
	if s.Port > 0 {
		location = fmt.Sprintf("%s:%d", host, s.Port)
	}
	if s.Database != "" {
		return fmt.Sprintf("%s://%s/%s", s.Adapter, location, s.Database)
	}
	return fmt.Sprintf("%s://%s", s.Adapter, location)
}
