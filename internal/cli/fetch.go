package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/terrviz/terrviz/pkg/cache"
	"github.com/terrviz/terrviz/pkg/pipeline"
	"github.com/terrviz/terrviz/pkg/salesforce"
	"github.com/terrviz/terrviz/pkg/territory"
)

// queryTTL bounds how long fetched query responses stay cached.
const queryTTL = 15 * time.Minute

// fetchCommand creates the fetch command for downloading territory records.
func (c *CLI) fetchCommand() *cobra.Command {
	var (
		authPath string
		output   string
		query    string
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch territory records from a Salesforce org",
		Long: `Fetch Territory2 records from a Salesforce org and write them to a
JSON file for later rendering.

Credentials come from an auth.json file containing access_token and
instance_url, as produced by "sf org login" tooling. Query responses are
cached briefly so repeated runs against the same org don't burn API
calls.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runFetch(cmd.Context(), authPath, output, query, noCache)
		},
	}

	cmd.Flags().StringVarP(&authPath, "auth", "a", "auth.json", "path to the Salesforce auth file")
	cmd.Flags().StringVarP(&output, "output", "o", "territories.json", "output records file")
	cmd.Flags().StringVarP(&query, "query", "q", "", "custom SOQL query (default fetches Territory2)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runFetch(ctx context.Context, authPath, output, query string, noCache bool) error {
	records, err := c.fetchRecords(ctx, authPath, query, noCache)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode records: %w", err)
	}
	if err := os.WriteFile(output, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	printSuccess("Fetched %d territories", len(records))
	printFile(output)
	return nil
}

// fetchRecords loads credentials and queries the org, with response caching.
func (c *CLI) fetchRecords(ctx context.Context, authPath, query string, noCache bool) ([]territory.Record, error) {
	auth, err := salesforce.LoadAuthFile(authPath)
	if err != nil {
		return nil, err
	}
	if query == "" {
		query = c.Config.Salesforce.Query
	}
	if query == "" {
		query = salesforce.DefaultTerritoryQuery
	}

	backend, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	defer backend.Close()

	fetcher := &pipeline.CachedFetcher{
		Fetcher: salesforce.NewClient(auth, c.Config.Salesforce.APIVersion),
		Cache:   backend,
		Key: func(soql string) string {
			return cache.QueryKey(auth.InstanceURL, soql)
		},
		TTL: queryTTL,
	}

	logger := loggerFromContext(ctx)
	logger.Debug("querying org", "instance", auth.InstanceURL, "query", query)

	prog := newProgress(logger)
	spinner := newSpinnerWithContext(ctx, "Fetching territories...")
	spinner.Start()

	records, err := fetcher.Query(ctx, query)
	if err != nil {
		spinner.StopWithError("Fetch failed")
		return nil, fmt.Errorf("fetch territories: %w", err)
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Fetched %d territories", len(records)))

	return records, nil
}

// readRecordsFile loads a records JSON file written by fetch.
func readRecordsFile(path string) ([]territory.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var records []territory.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return records, nil
}
