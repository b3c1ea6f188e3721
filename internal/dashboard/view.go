package dashboard

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/pentrust/internal/model"
	"github.com/verte-zerg/pentrust/internal/stats"
)

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	return tabs + "\n" + padLines(m.renderFocusSummary(), m.width)
}

func (m *Model) renderFocusSummary() string {
	if !m.hasBatch {
		return headerStyle.Render("Focus: none")
	}
	summary := fmt.Sprintf("Focus: %s (%d/%d)  Run: %s  Pages: %d",
		m.focus(), m.focusIdx+1, len(m.focuses), shortID(m.batch.RunID), m.batch.Len())
	return headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderHelp() string {
	var help string
	switch m.activeTab {
	case tabInput:
		help = "Run: ctrl+r  Clear: esc  Tabs: tab/shift+tab  Save: ctrl+s  Quit: ctrl+c"
	case tabTable:
		help = "Rows: up/down  Open: enter  Focus: f/F  Tabs: tab/shift+tab  Input: i  Save: ctrl+s  Quit: q"
	default:
		help = "Scroll: up/down/pgup/pgdn  Focus: f/F  Tabs: tab/shift+tab  Input: i  Save: ctrl+s  Quit: q"
	}
	return headerStyle.Render(truncateLine(help, m.width))
}

func (m *Model) renderFooter() string {
	if m.status == "" {
		return m.renderHelp()
	}
	var style lipgloss.Style
	switch m.statusKind {
	case statusWarn:
		style = warnStyle
	case statusError:
		style = errorStyle
	default:
		style = infoStyle
	}
	return m.renderHelp() + "\n" + style.Render(m.status)
}

func (m *Model) renderBody(height int) string {
	switch m.activeTab {
	case tabInput:
		lines := []string{headerStyle.Render("Pages to analyze (one URL or label per line)"), m.input.View()}
		return fitLines(strings.Join(lines, "\n"), m.width, height)
	case tabTable:
		if !m.hasBatch {
			return fitLines("No analysis yet.", m.width, height)
		}
		return fitLines(tableMutedStyle.Render(m.table.View()), m.width, height)
	}
	return fitLines(m.viewports[m.activeTab].View(), m.width, height)
}

func renderOverview(rep stats.Report, width int) string {
	cards := renderSummaryCards(rep.Summary, width)
	var buf bytes.Buffer
	if err := stats.RenderChartWithColor(&buf, "Clarity vs tone safety", rep.Chart, width, true); err != nil {
		return fmt.Sprintf("Failed to render chart: %v", err)
	}
	return strings.TrimRight(cards+"\n\n"+buf.String(), "\n")
}

func renderSummaryCards(s stats.Summary, width int) string {
	avg := func(f model.Field) string {
		mean, ok := s.Mean(f)
		if !ok {
			return "n/a"
		}
		return fmt.Sprintf("%d", mean)
	}
	cards := []string{
		metricCard("Pages", fmt.Sprintf("%d", s.Count)),
		metricCard("Avg clarity", avg(model.FieldClarity)),
		metricCard("Avg empathy", avg(model.FieldEmpathy)),
		metricCard("Avg WCAG", avg(model.FieldAccessibility)),
		metricCard("High risk", fmt.Sprintf("%d/%d", s.RiskCount, s.Count)),
		metricCard("Needs attention", fmt.Sprintf("%d/%d", s.AttentionCount, s.Count)),
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2], cards[3])
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[4], cards[5])
	return lipgloss.JoinVertical(lipgloss.Left, row1, row2)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

var tableWidths = []int{32, 12, 12, 24, 9, 21, 6}

func buildTable(rows []table.Row, width, height int) table.Model {
	columns := make([]table.Column, len(stats.TableHeaders))
	for i, title := range stats.TableHeaders {
		columns[i] = table.Column{Title: title, Width: tableWidths[i]}
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(maxInt(1, height-1)),
	)
	t.SetWidth(width)
	t.SetStyles(tableStyles())
	return t
}

func tableRows(records []model.Record) []table.Row {
	raw := stats.TableRows(records)
	rows := make([]table.Row, len(raw))
	for i, r := range raw {
		r[0] = stats.TruncateLabel(r[0], tableWidths[0])
		rows[i] = table.Row(r)
	}
	return rows
}

func tableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= 3 {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width, "...")
}
