// Package config reads nodeframed's server configuration from a TOML
// file, mirroring the struct-tagged BurntSushi/toml decode idiom the
// teacher uses for its schema files.
package config

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the top-level server configuration document.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Store    StoreConfig    `toml:"store"`
	Postgres PostgresConfig `toml:"postgres"`
	Log      LogConfig      `toml:"log"`
}

// ServerConfig maps [server].
type ServerConfig struct {
	ListenAddr      string `toml:"listen_addr"`
	SessionTimeoutS int    `toml:"session_timeout_seconds"`
}

// StoreConfig maps [store].
type StoreConfig struct {
	Path string `toml:"path"`
}

// PostgresConfig maps [postgres].
type PostgresConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Database string `toml:"database"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

// LogConfig maps [log].
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// defaults are applied to any field left unset in the source file.
func defaults() Config {
	return Config{
		Server: ServerConfig{ListenAddr: ":8080", SessionTimeoutS: 900},
		Store:  StoreConfig{Path: "nodeframe.db"},
		Log:    LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads and decodes the TOML file at path, starting from defaults
// and overriding with whatever the file specifies.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes TOML content from r into a Config seeded with defaults.
func Parse(r io.Reader) (*Config, error) {
	cfg := defaults()
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	return &cfg, nil
}
