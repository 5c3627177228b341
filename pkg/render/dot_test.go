package render

import (
	"strings"
	"testing"

	"github.com/terrviz/terrviz/pkg/territory"
)

func buildTestGraph() Graph {
	records := []territory.Record{
		{ID: "us", Name: "United States"},
		{ID: "us-west", Name: "West", ParentID: "us"},
		{ID: "us-east", Name: "East", ParentID: "us"},
	}
	return Build(records, territory.AssignLevels(records), nil)
}

func TestToDOT_DefaultLayout(t *testing.T) {
	dot := ToDOT(buildTestGraph(), DefaultLayout())

	for _, want := range []string{
		"digraph territories {",
		"rankdir=LR;",
		"nodesep=1;",
		"ranksep=2;",
		`node [shape=rect, style=filled, fillcolor=lightblue2, fontname="Helvetica", fontsize=12];`,
		`"us" [label="United States"];`,
		`"us" -> "us-west" [color=blue];`,
		`"us" -> "us-east" [color=blue];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q\n%s", want, dot)
		}
	}
}

func TestToDOT_SizeAttribute(t *testing.T) {
	layout := DefaultLayout()
	layout.Size = "800,800"

	dot := ToDOT(buildTestGraph(), layout)

	if !strings.Contains(dot, `size="800,800";`) {
		t.Errorf("DOT missing size attribute\n%s", dot)
	}
}

func TestToDOT_OmitsEmptySize(t *testing.T) {
	dot := ToDOT(buildTestGraph(), DefaultLayout())

	if strings.Contains(dot, "size=") {
		t.Errorf("DOT should not contain a size attribute when unset\n%s", dot)
	}
}

func TestToDOT_QuotesSpecialCharacters(t *testing.T) {
	g := Graph{
		Nodes: []Node{{ID: "a", Label: `EMEA "North"`}},
	}

	dot := ToDOT(g, DefaultLayout())

	if !strings.Contains(dot, `[label="EMEA \"North\""];`) {
		t.Errorf("DOT label not quoted correctly\n%s", dot)
	}
}

func TestToDOT_Deterministic(t *testing.T) {
	g := buildTestGraph()
	layout := DefaultLayout()

	if ToDOT(g, layout) != ToDOT(g, layout) {
		t.Error("DOT output differs between identical calls")
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png", "pdf", "dot", "json"}); err != nil {
		t.Errorf("ValidateFormats() error: %v", err)
	}
	if err := ValidateFormats([]string{"bmp"}); err == nil {
		t.Error("ValidateFormats(bmp) = nil, want error")
	}
}
