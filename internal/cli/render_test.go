package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBasePath(t *testing.T) {
	tests := []struct {
		name   string
		output string
		input  string
		want   string
	}{
		{"no output strips input ext", "", "records.json", "records"},
		{"no output keeps dirs", "", "out/records.json", "out/records"},
		{"output with format ext stripped", "graph.svg", "records.json", "graph"},
		{"output with unrelated ext kept", "graph.v2", "records.json", "graph.v2"},
		{"bare output", "graph", "records.json", "graph"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := basePath(tt.output, tt.input); got != tt.want {
				t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
			}
		})
	}
}

func TestValidExt(t *testing.T) {
	for _, ext := range []string{".svg", ".png", ".pdf", ".dot", ".json"} {
		if !validExt(ext) {
			t.Errorf("validExt(%q) = false, want true", ext)
		}
	}
	for _, ext := range []string{".txt", ".jpeg", "", ".v2"} {
		if validExt(ext) {
			t.Errorf("validExt(%q) = true, want false", ext)
		}
	}
}

func TestWriteArtifactsSingleFormat(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "custom.svg")

	artifacts := map[string][]byte{"svg": []byte("<svg/>")}
	if err := writeArtifacts(artifacts, []string{"svg"}, out, "records.json"); err != nil {
		t.Fatalf("writeArtifacts() error = %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("expected output at %s: %v", out, err)
	}
	if string(data) != "<svg/>" {
		t.Errorf("got %q, want %q", data, "<svg/>")
	}
}

func TestWriteArtifactsMultipleFormats(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "records.json")

	artifacts := map[string][]byte{
		"dot":  []byte("digraph {}"),
		"json": []byte("{}"),
	}
	if err := writeArtifacts(artifacts, []string{"dot", "json"}, "", input); err != nil {
		t.Fatalf("writeArtifacts() error = %v", err)
	}

	for _, format := range []string{"dot", "json"} {
		path := filepath.Join(dir, "records."+format)
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected artifact at %s: %v", path, err)
		}
	}
}
