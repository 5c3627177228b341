package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/terrviz/terrviz/pkg/cache"
	"github.com/terrviz/terrviz/pkg/render"
	"github.com/terrviz/terrviz/pkg/territory"
)

// artifactTTL bounds how long rendered artifacts stay cached.
const artifactTTL = 24 * time.Hour

// Runner executes the visualization pipeline with caching and timing.
type Runner struct {
	cache  cache.Cache
	logger *log.Logger
}

// NewRunner creates a Runner. A nil cache disables artifact caching; a nil
// logger discards log output.
func NewRunner(c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{cache: c, logger: logger}
}

// Close releases the runner's cache backend.
func (r *Runner) Close() error {
	return r.cache.Close()
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Records are the fetched territory records, in API order.
	Records []territory.Record

	// Levels maps record IDs to hierarchy depths.
	Levels map[string]int

	// Graph is the colored graph description.
	Graph render.Graph

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	RecordCount int
	EdgeCount   int
	MaxLevel    int
	FetchTime   time.Duration
	RenderTime  time.Duration
	CacheHits   int
}

// Execute runs the full pipeline: fetch records through f, compute levels,
// build the graph description, and render every requested format.
func (r *Runner) Execute(ctx context.Context, f Fetcher, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	fetchStart := time.Now()
	records, err := f.Query(ctx, opts.Query)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	fetchTime := time.Since(fetchStart)
	r.logger.Debug("fetched territory records", "count", len(records), "elapsed", fetchTime)

	result, err := r.Render(ctx, records, opts)
	if err != nil {
		return nil, err
	}
	result.Stats.FetchTime = fetchTime
	return result, nil
}

// Render runs the computation half of the pipeline on already-fetched
// records: levels, graph description, and artifacts.
func (r *Runner) Render(ctx context.Context, records []territory.Record, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	start := time.Now()
	levels := territory.AssignLevels(records)
	graph := render.Build(records, levels, opts.Palette)
	dot := render.ToDOT(graph, opts.Layout)

	recordsHash, err := hashRecords(records)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Records:   records,
		Levels:    levels,
		Graph:     graph,
		Artifacts: make(map[string][]byte, len(opts.Formats)),
		Stats: Stats{
			RecordCount: len(records),
			EdgeCount:   len(graph.Edges),
			MaxLevel:    territory.MaxLevel(levels),
		},
	}

	for _, format := range opts.Formats {
		data, hit, err := r.renderFormat(ctx, format, graph, dot, recordsHash, opts)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		if hit {
			result.Stats.CacheHits++
		}
		result.Artifacts[format] = data
	}

	result.Stats.RenderTime = time.Since(start)
	r.logger.Debug("rendered artifacts",
		"formats", opts.Formats, "elapsed", result.Stats.RenderTime,
		"cache_hits", result.Stats.CacheHits)
	return result, nil
}

// renderFormat produces one artifact, consulting the cache for the formats
// whose generation is expensive. The dot and json formats are cheap
// serializations of state already in hand and skip the cache.
func (r *Runner) renderFormat(ctx context.Context, format string, graph render.Graph, dot, recordsHash string, opts Options) ([]byte, bool, error) {
	switch format {
	case "dot":
		return []byte(dot), false, nil
	case "json":
		data, err := render.Marshal(graph)
		return data, false, err
	}

	key := cache.ArtifactKey(recordsHash, format, opts.Size, opts.Palette)
	if !opts.NoCache {
		if data, hit, err := r.cache.Get(ctx, key); err == nil && hit {
			return data, true, nil
		}
	}

	var data []byte
	var err error
	switch format {
	case "svg":
		data, err = render.RenderSVG(ctx, dot)
	case "png":
		data, err = render.RenderPNG(ctx, dot)
	case "pdf":
		data, err = render.RenderPDF(ctx, dot)
	default:
		err = fmt.Errorf("invalid format: %q", format)
	}
	if err != nil {
		return nil, false, err
	}

	if !opts.NoCache {
		if err := r.cache.Set(ctx, key, data, artifactTTL); err != nil {
			r.logger.Warn("cache write failed", "key", key, "err", err)
		}
	}
	return data, false, nil
}

func hashRecords(records []territory.Record) (string, error) {
	data, err := json.Marshal(records)
	if err != nil {
		return "", err
	}
	return cache.Hash(data), nil
}

// CachedFetcher wraps a Fetcher with query-response caching. The cache key
// must identify the org (see cache.QueryKey) so results from different
// orgs never mix.
type CachedFetcher struct {
	Fetcher Fetcher
	Cache   cache.Cache
	Key     func(soql string) string
	TTL     time.Duration
}

// Query returns cached records when available, otherwise delegates to the
// wrapped fetcher and stores the result.
func (c *CachedFetcher) Query(ctx context.Context, soql string) ([]territory.Record, error) {
	key := c.Key(soql)
	if data, hit, err := c.Cache.Get(ctx, key); err == nil && hit {
		var records []territory.Record
		if err := json.Unmarshal(data, &records); err == nil {
			return records, nil
		}
	}

	records, err := c.Fetcher.Query(ctx, soql)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(records); err == nil {
		_ = c.Cache.Set(ctx, key, data, c.TTL)
	}
	return records, nil
}
