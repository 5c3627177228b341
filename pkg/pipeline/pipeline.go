// Package pipeline provides the fetch → levels → graph → render pipeline
// shared by the CLI and the serve mode.
//
// Centralizing this logic keeps behavior identical across entry points:
// the same defaults, the same validation, and the same caching rules apply
// whether a visualization is requested from the terminal or the web UI.
//
// # Stages
//
//  1. Fetch: query territory records from Salesforce (or a file)
//  2. Levels: assign hierarchy depths (territory.AssignLevels)
//  3. Graph: build the colored graph description (render.Build)
//  4. Render: emit artifacts in the requested formats
//
// The level and graph stages are pure in-memory computation; all I/O and
// caching happens around them.
package pipeline

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/terrviz/terrviz/pkg/render"
	"github.com/terrviz/terrviz/pkg/salesforce"
	"github.com/terrviz/terrviz/pkg/territory"
)

// DefaultFormat is the artifact format when none is requested.
const DefaultFormat = "svg"

// sizeRe matches the "width,height" aspect pair, e.g. "800,800".
var sizeRe = regexp.MustCompile(`^\d+,\d+$`)

// Fetcher supplies territory records to the pipeline. Implemented by
// salesforce.Client; tests and the render-from-file path provide their own.
type Fetcher interface {
	Query(ctx context.Context, soql string) ([]territory.Record, error)
}

// Options configures one pipeline run.
type Options struct {
	// Query is the SOQL query; empty selects the default territory query.
	Query string `json:"query,omitempty"`

	// Formats are the artifact formats to produce (svg, png, pdf, dot, json).
	Formats []string `json:"formats,omitempty"`

	// Size is the "width,height" aspect hint passed to Graphviz, empty
	// for unconstrained.
	Size string `json:"size,omitempty"`

	// Palette overrides the default edge color palette.
	Palette []string `json:"palette,omitempty"`

	// Layout holds the Graphviz styling attributes.
	Layout render.Layout `json:"-"`

	// NoCache bypasses the artifact cache.
	NoCache bool `json:"-"`
}

// ValidateAndSetDefaults normalizes opts in place.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Query == "" {
		o.Query = salesforce.DefaultTerritoryQuery
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	if err := render.ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Size != "" && !sizeRe.MatchString(o.Size) {
		return fmt.Errorf("invalid size: %q (want \"width,height\", e.g. \"800,800\")", o.Size)
	}
	if len(o.Palette) == 0 {
		o.Palette = append([]string(nil), render.DefaultPalette...)
	}
	if o.Layout == (render.Layout{}) {
		o.Layout = render.DefaultLayout()
	}
	o.Layout.Size = o.Size
	return nil
}

// ParseFormats splits a comma-separated format flag, defaulting to svg.
func ParseFormats(s string) []string {
	if s == "" {
		return []string{DefaultFormat}
	}
	return strings.Split(s, ",")
}
