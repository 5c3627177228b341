// Package config loads terrviz configuration from a TOML file.
//
// Configuration is optional: every field has a default matching the
// standard visualizer styling, and a missing config file is not an error.
// Command-line flags override file values, which override defaults.
//
// The default location is ~/.config/terrviz/config.toml:
//
//	[salesforce]
//	api_version = "v60.0"
//
//	[graph]
//	palette = ["black", "blue", "green", "red", "purple", "orange"]
//	rankdir = "LR"
//
//	[cache]
//	backend = "file"
//	ttl_hours = 24
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/terrviz/terrviz/pkg/render"
)

// Config is the full terrviz configuration.
type Config struct {
	Salesforce Salesforce `toml:"salesforce"`
	Graph      Graph      `toml:"graph"`
	Cache      CacheCfg   `toml:"cache"`
}

// Salesforce configures the query transport.
type Salesforce struct {
	APIVersion string `toml:"api_version"`
	Query      string `toml:"query"` // custom SOQL, empty for default
}

// Graph configures the palette and Graphviz layout attributes.
type Graph struct {
	Palette  []string `toml:"palette"`
	RankDir  string   `toml:"rankdir"`
	NodeSep  float64  `toml:"nodesep"`
	RankSep  float64  `toml:"ranksep"`
	Shape    string   `toml:"shape"`
	Fill     string   `toml:"fill"`
	FontName string   `toml:"font"`
	FontSize int      `toml:"font_size"`
}

// CacheCfg configures artifact/query caching.
type CacheCfg struct {
	Backend   string `toml:"backend"` // "file", "redis", or "none"
	Dir       string `toml:"dir"`     // file backend directory, empty for default
	TTLHours  int    `toml:"ttl_hours"`
	RedisAddr string `toml:"redis_addr"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	layout := render.DefaultLayout()
	return Config{
		Salesforce: Salesforce{APIVersion: "v60.0"},
		Graph: Graph{
			Palette:  append([]string(nil), render.DefaultPalette...),
			RankDir:  layout.RankDir,
			NodeSep:  layout.NodeSep,
			RankSep:  layout.RankSep,
			Shape:    layout.Shape,
			Fill:     layout.Fill,
			FontName: layout.FontName,
			FontSize: layout.FontSize,
		},
		Cache: CacheCfg{
			Backend:   "file",
			TTLHours:  24,
			RedisAddr: "localhost:6379",
		},
	}
}

// Load reads a TOML config file and merges it over the defaults.
// A missing file returns the defaults without error; a malformed file is
// an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadDefault loads the config from the standard location,
// ~/.config/terrviz/config.toml.
func LoadDefault() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Default(), nil
	}
	return Load(filepath.Join(home, ".config", "terrviz", "config.toml"))
}

// Layout converts the graph section to the renderer's layout value.
func (c Config) Layout() render.Layout {
	return render.Layout{
		RankDir:  c.Graph.RankDir,
		NodeSep:  c.Graph.NodeSep,
		RankSep:  c.Graph.RankSep,
		Shape:    c.Graph.Shape,
		Fill:     c.Graph.Fill,
		FontName: c.Graph.FontName,
		FontSize: c.Graph.FontSize,
	}
}
