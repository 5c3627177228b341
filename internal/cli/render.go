package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/terrviz/terrviz/pkg/pipeline"
	"github.com/terrviz/terrviz/pkg/territory"
)

// renderCommand creates the render command for visualizing fetched records.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		size       string
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "render [records.json]",
		Short: "Render fetched territory records as a hierarchy graph",
		Long: `Render a territory records file (produced by 'fetch') as a directed
graph. Each territory becomes a node; each parent link becomes an edge
colored by the child's depth in the hierarchy.

Rendering needs no network access, so records can be fetched once and
re-rendered in different formats and sizes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := readRecordsFile(args[0])
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
			return c.runRender(cmd.Context(), records, opts, output, args[0])
		},
	}

	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, dot, json (comma-separated)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVar(&size, "size", "", `graph size as "width,height" (e.g. "800,800")`)
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runRender executes the computation half of the pipeline and writes the
// artifacts.
func (c *CLI) runRender(ctx context.Context, records []territory.Record, opts pipeline.Options, output, input string) error {
	logger := loggerFromContext(ctx)
	logger.Debug("rendering", "records", len(records), "formats", opts.Formats)

	runner, _, err := c.newRunner(ctx, opts.NoCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Rendering hierarchy...")
	spinner.Start()

	result, err := runner.Render(ctx, records, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()

	orphans := result.Stats.RecordCount - len(result.Levels)
	if orphans > 0 {
		printWarning("%d territories have no path to a root and keep the fallback edge color", orphans)
	}

	printSuccess("Rendered %d territories, %d levels", result.Stats.RecordCount, result.Stats.MaxLevel+1)
	return writeArtifacts(result.Artifacts, opts.Formats, output, input)
}

// writeArtifacts writes rendered outputs to disk. With a single format,
// output names the file directly; with several, it is the base path that
// each format's extension is appended to.
func writeArtifacts(artifacts map[string][]byte, formats []string, output, input string) error {
	base := basePath(output, input)
	for _, format := range formats {
		path := base + "." + format
		if output != "" && len(formats) == 1 {
			path = output
		}
		if err := os.WriteFile(path, artifacts[format], 0644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	return nil
}

// basePath derives the base output path from the output and input paths.
// If output is empty, it strips the extension from input; a format
// extension on output is stripped as well.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if validExt(ext) {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

func validExt(ext string) bool {
	switch strings.TrimPrefix(ext, ".") {
	case "svg", "png", "pdf", "dot", "json":
		return true
	}
	return false
}
