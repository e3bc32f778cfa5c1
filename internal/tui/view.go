package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/reactime/internal/model"
	"github.com/verte-zerg/reactime/internal/stats"
	"github.com/verte-zerg/reactime/internal/trial"
)

const (
	defaultWidth   = 60
	stimulusRadius = 5
	stimulusGlyph  = "█"
	stageHeight    = 2*stimulusRadius + 3
)

var (
	stimulusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#0080FF"))
	completeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
	summaryStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// View implements tea.Model.
func (m *Model) View() string {
	if m.aborted || m.finished {
		return ""
	}
	width := m.width
	if width <= 0 {
		width = defaultWidth
	}
	var body string
	switch {
	case m.finishing:
		body = lipgloss.Place(width, stageHeight, lipgloss.Center, lipgloss.Center, m.renderComplete())
	case m.session.Visible():
		body = lipgloss.Place(width, stageHeight, lipgloss.Center, lipgloss.Center, renderStimulus(stimulusRadius))
	default:
		body = lipgloss.Place(width, stageHeight, lipgloss.Center, lipgloss.Center, "")
	}
	footer := lipgloss.Place(width, 1, lipgloss.Center, lipgloss.Center, m.renderFooter())
	return body + "\n" + footer
}

// renderStimulus draws a filled disc. Terminal cells are roughly twice as
// tall as they are wide, so the horizontal radius is doubled.
func renderStimulus(radius int) string {
	cell := runewidth.StringWidth(stimulusGlyph)
	if cell < 1 {
		cell = 1
	}
	blank := strings.Repeat(" ", cell)
	r2 := float64(radius*radius) + float64(radius)/2
	lines := make([]string, 0, 2*radius+1)
	for y := -radius; y <= radius; y++ {
		var b strings.Builder
		for x := -2 * radius; x <= 2*radius; x += cell {
			dx := float64(x) / 2
			if dx*dx+float64(y*y) <= r2 {
				b.WriteString(stimulusGlyph)
			} else {
				b.WriteString(blank)
			}
		}
		lines = append(lines, b.String())
	}
	return stimulusStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) renderComplete() string {
	appear, disappear := m.session.Averages()
	summary := fmt.Sprintf("Average appearance %s s · disappearance %s s",
		stats.FormatSeconds(appear), stats.FormatSeconds(disappear))
	return lipgloss.JoinVertical(lipgloss.Center,
		completeStyle.Render("Test complete!"),
		summaryStyle.Render(summary),
		"",
		m.results.View(),
	)
}

func (m *Model) renderFooter() string {
	segments := []string{fmt.Sprintf("Trial %d/%d", m.session.Trial(), m.session.Trials())}
	switch {
	case m.finishing:
		segments = []string{fmt.Sprintf("%d trials", m.session.Trials())}
	case m.session.Phase() == trial.PhaseVisible && m.session.Holding():
		segments = append(segments, fmt.Sprintf("Keep holding %s", m.keyLabel))
	case m.session.Phase() == trial.PhaseVisible:
		segments = append(segments, fmt.Sprintf("Press %s", m.keyLabel))
	case m.session.Phase() == trial.PhaseRelease:
		segments = append(segments, fmt.Sprintf("Release %s", m.keyLabel))
	default:
		segments = append(segments, "Wait for the circle")
	}
	if misses := m.session.Misses(); misses > 0 {
		segments = append(segments, fmt.Sprintf("Missed %d", misses))
	}
	if !m.finishing {
		segments = append(segments, "esc quit")
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}

func buildResultsTable(res model.Result) table.Model {
	columns := []table.Column{
		{Title: "Trial", Width: 5},
		{Title: "Appear (s)", Width: 10},
		{Title: "Disappear (s)", Width: 13},
	}
	rows := make([]table.Row, 0, res.Trials())
	for i, appear := range res.Appear {
		disappear := "-"
		if i < len(res.Disappear) {
			disappear = stats.FormatSeconds(res.Disappear[i])
		}
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", i+1),
			stats.FormatSeconds(appear),
			disappear,
		})
	}
	// Height counts the header, so styles must be set before it.
	return table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithStyles(resultsTableStyles()),
		table.WithHeight(len(rows)+2),
		table.WithFocused(false),
	)
}

func resultsTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true)
	styles.Selected = styles.Cell
	return styles
}
