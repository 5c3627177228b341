// Package cli implements the terrviz command-line interface.
//
// Commands cover the full workflow: fetch territory records from a
// Salesforce org, render them as a hierarchy graph, browse them in the
// terminal, serve the web UI, and manage the artifact cache. All commands
// support --verbose (-v) for debug-level logging; loggers are passed
// through context.Context.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/terrviz/terrviz/pkg/buildinfo"
	"github.com/terrviz/terrviz/pkg/cache"
	"github.com/terrviz/terrviz/pkg/config"
	"github.com/terrviz/terrviz/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "terrviz"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config
}

// New creates a new CLI instance with a default logger and the user's
// config file (or defaults when none exists).
func New(w io.Writer, level log.Level) *CLI {
	cfg, err := config.LoadDefault()
	if err != nil {
		cfg = config.Default()
	}
	c := &CLI{
		Logger: newLogger(w, level),
		Config: cfg,
	}
	if err != nil {
		c.Logger.Warn("config file ignored", "err", err)
	}
	return c
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "terrviz visualizes Salesforce territory hierarchies",
		Long:         `terrviz fetches Territory2 records from a Salesforce org, computes each territory's depth in the hierarchy, and renders the result as a directed graph with per-level edge colors.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.fetchCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.visualizeCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())

	return root
}

// newRunner builds a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, cache.Cache, error) {
	backend, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, nil, err
	}
	return pipeline.NewRunner(backend, c.Logger), backend, nil
}

// newCache builds the cache backend selected by config.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache || c.Config.Cache.Backend == "none" {
		return cache.NewNullCache(), nil
	}
	if c.Config.Cache.Backend == "redis" {
		return cache.NewRedisCache(ctx, cache.RedisConfig{Addr: c.Config.Cache.RedisAddr})
	}
	dir := c.Config.Cache.Dir
	if dir == "" {
		d, err := cacheDir()
		if err != nil {
			return nil, fmt.Errorf("get cache dir: %w", err)
		}
		dir = d
	}
	return cache.NewFileCache(dir)
}

// cacheDir returns the default cache directory, ~/.cache/terrviz.
func cacheDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
