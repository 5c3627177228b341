package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/terrviz/terrviz/pkg/territory"
)

// browseCommand creates the browse command for exploring a records file in
// the terminal.
func (c *CLI) browseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse [records.json]",
		Short: "Browse a fetched territory hierarchy in the terminal",
		Long: `Browse a territory records file (produced by 'fetch') as an indented
tree. Territories unreachable from any root are listed separately.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := readRecordsFile(args[0])
			if err != nil {
				return err
			}
			model := NewTreeModel(records)
			_, err = tea.NewProgram(model, tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
}

// treeRow is one rendered line of the hierarchy.
type treeRow struct {
	id     string
	name   string
	level  int
	orphan bool
}

// TreeModel is the bubbletea model for the hierarchy browser.
type TreeModel struct {
	Rows   []treeRow
	Cursor int
	Height int
	Offset int
}

// NewTreeModel flattens records into display rows: a depth-first walk from
// each root in input order, then any territories that never received a
// level.
func NewTreeModel(records []territory.Record) TreeModel {
	levels := territory.AssignLevels(records)
	children := territory.BuildChildIndex(records)
	names := make(map[string]string, len(records))
	for _, r := range records {
		names[r.ID] = r.Name
	}

	var rows []treeRow
	seen := make(map[string]bool, len(records))

	var walk func(id string)
	walk = func(id string) {
		if seen[id] {
			return
		}
		seen[id] = true
		rows = append(rows, treeRow{id: id, name: names[id], level: levels[id]})
		for _, child := range children[id] {
			walk(child)
		}
	}

	for _, r := range records {
		if r.IsRoot() {
			walk(r.ID)
		}
	}

	for _, r := range records {
		if _, leveled := levels[r.ID]; !leveled && !seen[r.ID] {
			seen[r.ID] = true
			rows = append(rows, treeRow{id: r.ID, name: r.Name, orphan: true})
		}
	}

	return TreeModel{Rows: rows, Height: 20}
}

// Init implements tea.Model.
func (m TreeModel) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m TreeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-4, 5)
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Rows)-1 {
				m.Cursor++
			}
		case "home", "g":
			m.Cursor = 0
		case "end", "G":
			m.Cursor = len(m.Rows) - 1
		}
	}

	// Keep the cursor inside the visible window.
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
	return m, nil
}

// View implements tea.Model.
func (m TreeModel) View() string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render("Territory hierarchy") + "\n\n")

	end := min(m.Offset+m.Height, len(m.Rows))
	for i := m.Offset; i < end; i++ {
		row := m.Rows[i]

		line := strings.Repeat("  ", row.level) + row.name
		if row.orphan {
			line = row.name + " " + StyleWarning.Render("(unreachable)")
		}
		line += " " + StyleDim.Render(row.id)

		if i == m.Cursor {
			b.WriteString(StyleHighlight.Render("> "+line) + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}

	b.WriteString("\n" + StyleDim.Render(fmt.Sprintf("%d territories · ↑/↓ move · q quit", len(m.Rows))))
	return b.String()
}
