//nolint:goconst // test cases intentionally repeat strings for readability
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("Could not get home dir: %v", err)
	}

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "tilde expands to home",
			input:    "~/music",
			expected: filepath.Join(home, "music"),
		},
		{
			name:     "tilde with nested path",
			input:    "~/music/library/albums",
			expected: filepath.Join(home, "music", "library", "albums"),
		},
		{
			name:     "absolute path unchanged",
			input:    "/usr/local/music",
			expected: "/usr/local/music",
		},
		{
			name:     "relative path unchanged",
			input:    "music/albums",
			expected: "music/albums",
		},
		{
			name:     "empty string unchanged",
			input:    "",
			expected: "",
		},
		{
			name:     "tilde only",
			input:    "~",
			expected: home,
		},
		{
			name:     "tilde with slash",
			input:    "~/",
			expected: filepath.Join(home, ""),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := expandPath(tt.input)
			if result != tt.expected {
				t.Errorf("expandPath(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestGetConfigPaths(t *testing.T) {
	paths := getConfigPaths()

	if len(paths) != 2 {
		t.Fatalf("getConfigPaths() returned %d paths, want 2", len(paths))
	}

	// Last path should be local config.toml
	if paths[1] != "config.toml" {
		t.Errorf("last config path = %q, want %q", paths[1], "config.toml")
	}

	expectedFirst := filepath.Join(xdg.ConfigHome, "wavecast", "config.toml")
	if paths[0] != expectedFirst {
		t.Errorf("first config path = %q, want %q", paths[0], expectedFirst)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.APIURL != defaultAPIURL {
		t.Errorf("APIURL = %q, want %q", cfg.APIURL, defaultAPIURL)
	}
	if cfg.MediaURL != defaultMediaURL {
		t.Errorf("MediaURL = %q, want %q", cfg.MediaURL, defaultMediaURL)
	}
	if cfg.Server.Addr != defaultAddr {
		t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, defaultAddr)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.InitialVolume() != 1 {
		t.Errorf("InitialVolume() = %v, want 1", cfg.InitialVolume())
	}
}

func TestLoadFrom_ParsesAndNormalizes(t *testing.T) {
	path := writeConfig(t, `
api_url = "http://music.example/api/"
media_url = "http://cdn.example/media/"
upsell_path = "static/promo.mp3"
token = "abc"
volume = 0.4

[server]
addr = ":9000"
media_dir = "/srv/music"
db_path = "/var/lib/wavecast.db"
jwt_secret = "s3cret"
`)

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.APIURL != "http://music.example/api" {
		t.Errorf("APIURL = %q, want trailing slash trimmed", cfg.APIURL)
	}
	if cfg.MediaURL != "http://cdn.example/media" {
		t.Errorf("MediaURL = %q, want trailing slash trimmed", cfg.MediaURL)
	}
	if cfg.UpsellPath != "static/promo.mp3" {
		t.Errorf("UpsellPath = %q", cfg.UpsellPath)
	}
	if cfg.Token != "abc" {
		t.Errorf("Token = %q, want abc", cfg.Token)
	}
	if cfg.InitialVolume() != 0.4 {
		t.Errorf("InitialVolume() = %v, want 0.4", cfg.InitialVolume())
	}
	if cfg.Server.Addr != ":9000" || cfg.Server.MediaDir != "/srv/music" || cfg.Server.JWTSecret != "s3cret" {
		t.Errorf("Server = %+v", cfg.Server)
	}
	dbPath, err := cfg.DBPath()
	if err != nil || dbPath != "/var/lib/wavecast.db" {
		t.Errorf("DBPath() = %q, %v", dbPath, err)
	}
}

func TestLoadFrom_LaterFileWins(t *testing.T) {
	first := writeConfig(t, `token = "first"
volume = 0.2`)
	second := writeConfig(t, `token = "second"`)

	cfg, err := LoadFrom(first, second)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Token != "second" {
		t.Errorf("Token = %q, want second", cfg.Token)
	}
	if cfg.InitialVolume() != 0.2 {
		t.Errorf("InitialVolume() = %v, want 0.2 from first file", cfg.InitialVolume())
	}
}

func TestLoadFrom_InvalidTOML(t *testing.T) {
	path := writeConfig(t, "volume = = 1")

	if _, err := LoadFrom(path); err == nil {
		t.Error("LoadFrom() error = nil, want parse error")
	}
}

func TestInitialVolume_Clamped(t *testing.T) {
	tests := []struct {
		volume float64
		want   float64
	}{
		{-1, 0},
		{0, 0},
		{0.7, 0.7},
		{2, 1},
	}
	for _, tt := range tests {
		v := tt.volume
		cfg := Config{Volume: &v}
		if got := cfg.InitialVolume(); got != tt.want {
			t.Errorf("InitialVolume(%v) = %v, want %v", tt.volume, got, tt.want)
		}
	}
}
