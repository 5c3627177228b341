// Package render builds the abstract graph description for a territory
// hierarchy and renders it through Graphviz.
//
// The package is split into two halves: [Build] is pure computation that
// turns records plus a level map into a [Graph] (nodes, edges, per-level
// edge colors), and [ToDOT]/[RenderSVG]/[RenderPNG]/[RenderPDF] hand that
// description to the layout engine.
package render

import (
	"bytes"
	"encoding/json"

	"github.com/terrviz/terrviz/pkg/territory"
)

// DefaultPalette is the ordered list of edge color tags cycled by level.
// Edge color is palette[level % len(palette)]: siblings at one depth share
// a color across independent subtrees, and levels six apart alias to the
// same color.
var DefaultPalette = []string{"black", "blue", "green", "red", "purple", "orange"}

// Graph is the abstract, engine-independent description of the hierarchy.
// It is built once per request, serialized or rendered, then discarded.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node is one drawable vertex: the record's ID plus its display label.
type Node struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Edge is a directed parent→child link with the color tag selected for
// the child's level.
type Edge struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Color string `json:"colorTag"`
}

// Build constructs the graph description from records and their level map.
//
// Every record becomes a node, leveled or not - orphaned records are still
// drawn. Every record with a parent reference contributes exactly one edge
// from parent to child, colored palette[level % len(palette)]. A record
// missing from the level map (unreachable from any root, see
// territory.AssignLevels) keeps its edge and takes the first palette
// entry.
//
// Build never mutates its inputs. Output order follows record input order,
// so the same input always produces the same description.
func Build(records []territory.Record, levels map[string]int, palette []string) Graph {
	if len(palette) == 0 {
		palette = DefaultPalette
	}

	g := Graph{
		Nodes: make([]Node, 0, len(records)),
		Edges: make([]Edge, 0, len(records)),
	}

	for _, r := range records {
		g.Nodes = append(g.Nodes, Node{ID: r.ID, Label: r.Name})
		if r.IsRoot() {
			continue
		}
		color := palette[0] // fallback for unleveled records
		if level, ok := levels[r.ID]; ok {
			color = palette[level%len(palette)]
		}
		g.Edges = append(g.Edges, Edge{From: r.ParentID, To: r.ID, Color: color})
	}

	return g
}

// Marshal serializes a graph description to indented JSON.
func Marshal(g Graph) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(g); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal deserializes JSON bytes into a graph description.
func Unmarshal(data []byte) (Graph, error) {
	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return Graph{}, err
	}
	return g, nil
}
