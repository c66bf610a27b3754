package cli

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/visionspec/visionspec/pkg/errors"
	"github.com/visionspec/visionspec/pkg/recommend"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listErrorStyle    = lipgloss.NewStyle().Foreground(colorRed)
)

// =============================================================================
// ExplorerModel - Interactive room measurement explorer
// =============================================================================

// Explorer fields, in display order.
const (
	fieldDistance = iota
	fieldEye
	fieldCeiling
	fieldCount
)

var fieldLabels = [fieldCount]string{"Viewing distance", "Eye height", "Ceiling height"}

const (
	// exploreStep is the change per key press in meters.
	exploreStep = 0.05

	// exploreFineStep is the change per shifted key press in meters.
	exploreFineStep = 0.01
)

// ExplorerModel is the bubbletea model for exploring recommendations while
// adjusting the room measurements.
type ExplorerModel struct {
	Engine   *recommend.Engine
	Values   [fieldCount]float64
	Cursor   int
	Recs     []recommend.Recommendation
	Err      error
	Accepted bool
}

// NewExplorerModel creates an explorer starting at the given measurements.
func NewExplorerModel(engine *recommend.Engine, distance, eye, ceiling float64) ExplorerModel {
	m := ExplorerModel{Engine: engine, Values: [fieldCount]float64{distance, eye, ceiling}}
	m.recompute()
	return m
}

// Room returns the current measurements.
func (m ExplorerModel) Room() roomFlags {
	return roomFlags{distance: m.Values[fieldDistance], eye: m.Values[fieldEye], ceiling: m.Values[fieldCeiling]}
}

func (m *ExplorerModel) recompute() {
	room := m.Room()
	if err := room.validate(); err != nil {
		m.Err = err
		m.Recs = nil
		return
	}
	m.Err = nil
	m.Recs = m.Engine.ComputeRecommendations(room.distance, room.eye, room.ceiling)
}

func (m *ExplorerModel) adjust(delta float64) {
	v := m.Values[m.Cursor] + delta
	// Round to the centimeter so repeated steps do not drift.
	m.Values[m.Cursor] = math.Max(0, math.Round(v*100)/100)
	m.recompute()
}

func (m ExplorerModel) Init() tea.Cmd {
	return nil
}

func (m ExplorerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j", "tab":
			if m.Cursor < fieldCount-1 {
				m.Cursor++
			}
		case "right", "l", "+":
			m.adjust(exploreStep)
		case "left", "h", "-":
			m.adjust(-exploreStep)
		case "shift+right", "L":
			m.adjust(exploreFineStep)
		case "shift+left", "H":
			m.adjust(-exploreFineStep)
		case "enter":
			if m.Err != nil {
				return m, nil
			}
			m.Accepted = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m ExplorerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Explore Recommendations"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ field  ←/→ ±5 cm  H/L ±1 cm  ⏎ accept  q quit"))
	b.WriteString("\n\n")

	for i, label := range fieldLabels {
		cursor := "  "
		style := listNormalStyle
		if i == m.Cursor {
			cursor = "▸ "
			style = listSelectedStyle
		}
		b.WriteString(cursor + style.Render(fmt.Sprintf("%-18s %5.2f m", label, m.Values[i])))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.Err != nil {
		b.WriteString(listErrorStyle.Render(iconError + " " + errors.UserMessage(m.Err)))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(recommendationTable(m.Recs))
	b.WriteString("\n")
	for _, r := range m.Recs {
		if !r.WithinSpec {
			b.WriteString(listDimStyle.Render(fmt.Sprintf("  %s exceeds the catalog range", r.Regime)))
			b.WriteString("\n")
		}
	}
	return b.String()
}
