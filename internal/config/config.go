package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	defaultAPIURL   = "http://localhost:8080/api"
	defaultMediaURL = "http://localhost:8080/media"
	defaultAddr     = ":8080"
	appName         = "wavecast"
)

type Config struct {
	APIURL     string   `koanf:"api_url"`     // backend REST base, e.g. "http://localhost:8080/api"
	MediaURL   string   `koanf:"media_url"`   // prefix for song file paths
	UpsellPath string   `koanf:"upsell_path"` // upsell clip relative to media_url
	Token      string   `koanf:"token"`       // JWT access token (empty = anonymous)
	Volume     *float64 `koanf:"volume"`      // initial volume 0.0-1.0 (default: 1)
	LogLevel   string   `koanf:"log_level"`   // zerolog level name (default: "info")

	// Reference backend served by `wavecast serve`
	Server ServerConfig `koanf:"server"`
}

// ServerConfig holds the reference backend configuration.
type ServerConfig struct {
	Addr      string `koanf:"addr"`       // listen address (default: ":8080")
	MediaDir  string `koanf:"media_dir"`  // directory served under /media
	DBPath    string `koanf:"db_path"`    // catalog database (default: XDG data dir)
	JWTSecret string `koanf:"jwt_secret"` // HMAC secret for `wavecast token`
}

// Load reads the user config then ./config.toml, later files winning.
func Load() (*Config, error) {
	return LoadFrom(getConfigPaths()...)
}

// LoadFrom reads the given TOML files in order; missing files are skipped.
func LoadFrom(paths ...string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, fmt.Errorf("load %s: %w", path, err)
			}
		}
	}

	cfg := &Config{
		APIURL:   defaultAPIURL,
		MediaURL: defaultMediaURL,
		LogLevel: "info",
		Server: ServerConfig{
			Addr: defaultAddr,
		},
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	// Normalize URLs (remove trailing slash)
	cfg.APIURL = strings.TrimSuffix(cfg.APIURL, "/")
	cfg.MediaURL = strings.TrimSuffix(cfg.MediaURL, "/")

	if cfg.Server.MediaDir != "" {
		cfg.Server.MediaDir = expandPath(cfg.Server.MediaDir)
	}
	if cfg.Server.DBPath != "" {
		cfg.Server.DBPath = expandPath(cfg.Server.DBPath)
	}

	return cfg, nil
}

func getConfigPaths() []string {
	return []string{
		// 1. $XDG_CONFIG_HOME/wavecast/config.toml
		filepath.Join(xdg.ConfigHome, appName, "config.toml"),
		// 2. ./config.toml (pwd, highest priority)
		"config.toml",
	}
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// InitialVolume returns the configured volume clamped to [0, 1], or 1.
func (c *Config) InitialVolume() float64 {
	if c.Volume == nil {
		return 1
	}
	return min(max(*c.Volume, 0), 1)
}

// DBPath returns the catalog database path, creating the XDG data
// directory when the default is used.
func (c *Config) DBPath() (string, error) {
	if c.Server.DBPath != "" {
		return c.Server.DBPath, nil
	}
	return xdg.DataFile(filepath.Join(appName, "catalog.db"))
}

// LogPath returns the client log file under the XDG state directory.
func LogPath() (string, error) {
	return xdg.StateFile(filepath.Join(appName, "wavecast.log"))
}
