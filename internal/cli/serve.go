package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/terrviz/terrviz/internal/server"
	"github.com/terrviz/terrviz/pkg/pipeline"
)

// serveCommand creates the serve command for the web UI.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the territory visualizer web UI",
		Long: `Start the web UI: upload an auth.json, pick a format and size, and
download the rendered hierarchy.

The cache backend comes from the config file; set backend = "redis" when
running multiple instances so they share query responses and artifacts.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := c.newCache(cmd.Context(), noCache)
			if err != nil {
				return err
			}
			runner := pipeline.NewRunner(backend, c.Logger)

			srv := server.New(runner, backend, server.Config{
				Addr:       addr,
				APIVersion: c.Config.Salesforce.APIVersion,
				Query:      c.Config.Salesforce.Query,
				Palette:    c.Config.Graph.Palette,
				QueryTTL:   15 * time.Minute,
			}, c.Logger)

			return srv.ListenAndServe()
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
