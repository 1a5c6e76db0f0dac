package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds codefield configuration.
type Config struct {
	Canvas CanvasConfig `toml:"canvas"`
	Node   NodeConfig   `toml:"node"`
	Host   HostConfig   `toml:"host"`
	Log    LogConfig    `toml:"log"`
}

// CanvasConfig controls the grid and the zoom range.
type CanvasConfig struct {
	GridStep     float64 `toml:"grid_step"`      // world units between minor lines
	MajorEvery   int     `toml:"major_every"`    // minor lines per major line
	ZoomBase     float64 `toml:"zoom_base"`      // scale = zoom_base^level
	MinZoomLevel float64 `toml:"min_zoom_level"` // clamp, in zoom_base exponents
	MaxZoomLevel float64 `toml:"max_zoom_level"`
}

// NodeConfig controls editor-node sizing and placement.
type NodeConfig struct {
	MinWidth     float64 `toml:"min_width"`
	MaxWidth     float64 `toml:"max_width"`
	BaseWidth    float64 `toml:"base_width"` // width for lines up to the long-line threshold
	MinHeight    float64 `toml:"min_height"`
	MaxHeight    float64 `toml:"max_height"`
	Spacing      float64 `toml:"spacing"`       // gap between auto-placed nodes
	ResizeBorder float64 `toml:"resize_border"` // world units inside the edge
	ResizeMargin float64 `toml:"resize_margin"` // screen px outside the edge
}

// HostConfig controls the editor-host connection.
type HostConfig struct {
	URL        string `toml:"url"` // websocket endpoint; empty runs detached
	DebounceMS int    `toml:"debounce_ms"`
}

// DebounceDuration returns the content-change debounce as a duration.
func (h HostConfig) DebounceDuration() time.Duration {
	return time.Duration(h.DebounceMS) * time.Millisecond
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Canvas: CanvasConfig{
			GridStep:     25,
			MajorEvery:   10,
			ZoomBase:     1.1,
			MinZoomLevel: -30,
			MaxZoomLevel: 10,
		},
		Node: NodeConfig{
			MinWidth:     220,
			MaxWidth:     1200,
			BaseWidth:    500,
			MinHeight:    120,
			MaxHeight:    900,
			Spacing:      40,
			ResizeBorder: 6,
			ResizeMargin: 4,
		},
		Host: HostConfig{
			URL:        "",
			DebounceMS: 300,
		},
		Log: LogConfig{Level: "INFO"},
	}
}

// ConfigDir returns the codefield config directory path.
func ConfigDir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "codefield")
}

func configPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file at path, or the default location when path is
// empty. A missing file yields the defaults.
func Load(path string) *Config {
	cfg := Default()
	if path == "" {
		path = configPath()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}
	_ = toml.Unmarshal(data, cfg)
	return cfg
}

// Save writes the config to its default location.
func Save(cfg *Config) error {
	path := configPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}
