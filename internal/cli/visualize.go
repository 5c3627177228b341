package cli

import (
	"github.com/spf13/cobra"

	"github.com/terrviz/terrviz/pkg/pipeline"
)

// visualizeCommand creates the visualize command: fetch and render in one
// step.
func (c *CLI) visualizeCommand() *cobra.Command {
	var (
		authPath   string
		formatsStr string
		output     string
		size       string
		query      string
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "visualize",
		Short: "Fetch territories and render the hierarchy in one step",
		Long: `Fetch Territory2 records from a Salesforce org and render them as a
hierarchy graph without writing an intermediate records file.

This is the shortcut for 'fetch' followed by 'render'.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			records, err := c.fetchRecords(ctx, authPath, query, noCache)
			if err != nil {
				return err
			}
			opts := pipeline.Options{
				Formats: pipeline.ParseFormats(formatsStr),
				Size:    size,
				Palette: c.Config.Graph.Palette,
				Layout:  c.Config.Layout(),
				NoCache: noCache,
			}
			return c.runRender(ctx, records, opts, output, "territories")
		},
	}

	cmd.Flags().StringVarP(&authPath, "auth", "a", "auth.json", "path to the Salesforce auth file")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, dot, json (comma-separated)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVar(&size, "size", "", `graph size as "width,height" (e.g. "800,800")`)
	cmd.Flags().StringVarP(&query, "query", "q", "", "custom SOQL query (default fetches Territory2)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
