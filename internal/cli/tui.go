package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/layerview/pkg/graph"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// =============================================================================
// LayerBrowserModel - Interactive layer inspection
// =============================================================================

// LayerBrowserModel is the bubbletea model for browsing a computed layout
// one layer at a time. The selected layer's slots are listed below the
// table with relays dimmed.
type LayerBrowserModel struct {
	Layout graph.Layout
	Cursor int
	Height int
	Offset int

	rows [][]string
}

// NewLayerBrowserModel creates a browser over the layers of l.
func NewLayerBrowserModel(l graph.Layout) LayerBrowserModel {
	return LayerBrowserModel{
		Layout: l,
		Height: 15,
		rows:   layerRows(l),
	}
}

func (m LayerBrowserModel) Init() tea.Cmd {
	return nil
}

func (m LayerBrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "home", "g":
			m.Cursor, m.Offset = 0, 0
		case "end", "G":
			if len(m.rows) > 0 {
				m.Cursor = len(m.rows) - 1
				m.Offset = max(0, m.Cursor-m.Height+1)
			}
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-12, 5)
		if m.Cursor >= m.Offset+m.Height {
			m.Offset = m.Cursor - m.Height + 1
		}
	}
	return m, nil
}

func (m LayerBrowserModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Layers"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  g/G first/last  q quit"))
	b.WriteString("\n\n")

	if len(m.rows) == 0 {
		b.WriteString(listDimStyle.Render("  empty layout"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.rows))
	visible := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		visible = append(visible, append([]string{cursor}, m.rows[i]...))
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Layer", "Width", "Slots").
		Rows(visible...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(m.slotDetail())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.rows))))

	return b.String()
}

// slotDetail lists the selected layer's slots with their coordinates.
func (m LayerBrowserModel) slotDetail() string {
	var b strings.Builder
	for _, s := range m.Layout.Layers[m.Cursor] {
		line := fmt.Sprintf("  %-24s x=%-6g y=%g", s.ID, s.X, s.Y)
		if s.Dummy {
			b.WriteString(listDimStyle.Render(line + "  relay for " + s.Origin))
		} else {
			b.WriteString(StyleValue.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}
