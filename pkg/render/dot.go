package render

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"
)

// Layout holds the Graphviz attributes applied to every diagram.
// These are opaque styling values passed straight to the engine; they are
// not part of the level/color computation.
type Layout struct {
	RankDir  string  // layout direction
	Size     string  // "width,height" aspect hint, empty for unconstrained
	NodeSep  float64 // separation between nodes in one rank
	RankSep  float64 // separation between ranks
	Shape    string  // node shape
	Fill     string  // node fill color
	FontName string
	FontSize int
}

// DefaultLayout returns the standard left-to-right hierarchy styling:
// rectangular nodes with a light uniform fill and a consistent font.
func DefaultLayout() Layout {
	return Layout{
		RankDir:  "LR",
		NodeSep:  1,
		RankSep:  2,
		Shape:    "rect",
		Fill:     "lightblue2",
		FontName: "Helvetica",
		FontSize: 12,
	}
}

// ToDOT converts a graph description to Graphviz DOT format.
// Nodes and edges are emitted in description order, so output is
// deterministic for a fixed input.
func ToDOT(g Graph, layout Layout) string {
	var buf bytes.Buffer
	buf.WriteString("digraph territories {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", layout.RankDir)
	if layout.Size != "" {
		fmt.Fprintf(&buf, "  size=%q;\n", layout.Size)
	}
	fmt.Fprintf(&buf, "  nodesep=%g;\n", layout.NodeSep)
	fmt.Fprintf(&buf, "  ranksep=%g;\n", layout.RankSep)
	fmt.Fprintf(&buf, "  node [shape=%s, style=filled, fillcolor=%s, fontname=%q, fontsize=%d];\n",
		layout.Shape, layout.Fill, layout.FontName, layout.FontSize)
	buf.WriteString("\n")

	for _, n := range g.Nodes {
		fmt.Fprintf(&buf, "  %q [label=%q];\n", n.ID, n.Label)
	}

	buf.WriteString("\n")
	for _, e := range g.Edges {
		fmt.Fprintf(&buf, "  %q -> %q [color=%s];\n", e.From, e.To, e.Color)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	return renderFormat(ctx, dot, graphviz.SVG)
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return renderFormat(ctx, dot, graphviz.PNG)
}

func renderFormat(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
// This is a convenience wrapper around [RenderSVG] and [ToPDF].
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return ToPDF(svg)
}

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	"svg":  true,
	"png":  true,
	"pdf":  true,
	"dot":  true,
	"json": true,
}

// ValidateFormats checks that all requested formats are supported.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if !ValidFormats[f] {
			return fmt.Errorf("invalid format: %q (must be one of: %s)", f, strings.Join(formatNames(), ", "))
		}
	}
	return nil
}

func formatNames() []string {
	return []string{"svg", "png", "pdf", "dot", "json"}
}
