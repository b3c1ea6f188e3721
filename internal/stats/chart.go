package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

type ansiColor struct {
	name string
	code string
}

const (
	chartMax            = 100.0
	minBarWidth         = 10
	maxLabelWidth       = 28
	colorReset          = "\x1b[0m"
	terminalWidthBackup = 80
)

var colorPalette = []ansiColor{
	{name: "cyan", code: "\x1b[36m"},
	{name: "yellow", code: "\x1b[33m"},
	{name: "blue", code: "\x1b[34m"},
	{name: "magenta", code: "\x1b[35m"},
	{name: "green", code: "\x1b[32m"},
}

// eighth blocks, index = filled eighths
var partialBlocks = []rune{' ', '▏', '▎', '▍', '▌', '▋', '▊', '▉'}

// RenderChart draws a grouped horizontal bar chart on a 0-100 scale.
func RenderChart(w io.Writer, title string, chart Chart, totalWidth int) error {
	return renderChart(w, title, chart, totalWidth, false)
}

// RenderChartWithColor draws the chart with optional forced color output.
func RenderChartWithColor(w io.Writer, title string, chart Chart, totalWidth int, forceColor bool) error {
	return renderChart(w, title, chart, totalWidth, forceColor)
}

func renderChart(w io.Writer, title string, chart Chart, totalWidth int, forceColor bool) error {
	if len(chart.Labels) == 0 || len(chart.Series) == 0 {
		return nil
	}
	if totalWidth <= 0 {
		totalWidth = terminalWidth()
	}
	useColor := shouldUseColor(w, forceColor)

	labelWidth := 0
	for _, label := range chart.Labels {
		if lw := runewidth.StringWidth(label); lw > labelWidth {
			labelWidth = lw
		}
	}
	if labelWidth > maxLabelWidth {
		labelWidth = maxLabelWidth
	}
	seriesWidth := 0
	for _, s := range chart.Series {
		if sw := runewidth.StringWidth(s.Name); sw > seriesWidth {
			seriesWidth = sw
		}
	}
	barWidth := BarWidthFor(totalWidth, labelWidth, seriesWidth)

	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	for i, label := range chart.Labels {
		for j, s := range chart.Series {
			if i >= len(s.Values) {
				continue
			}
			head := ""
			if j == 0 {
				head = TruncateLabel(label, labelWidth)
			}
			bar := renderBar(s.Values[i], barWidth)
			if useColor {
				bar = colorPalette[j%len(colorPalette)].code + bar + colorReset
			}
			line := fmt.Sprintf("%s  %s │%s %.0f",
				runewidth.FillRight(head, labelWidth),
				runewidth.FillRight(s.Name, seriesWidth),
				bar,
				s.Values[i])
			if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
				return err
			}
		}
	}
	if _, err := fmt.Fprintln(w, renderLegend(chart.Series, useColor)); err != nil {
		return err
	}
	return nil
}

// BarWidthFor computes the bar area left after labels and value suffix.
func BarWidthFor(totalWidth, labelWidth, seriesWidth int) int {
	if totalWidth <= 0 {
		return minBarWidth
	}
	// "label  series │bar 100"
	width := totalWidth - labelWidth - seriesWidth - 2 - 2 - 4
	if width < minBarWidth {
		width = minBarWidth
	}
	return width
}

func renderBar(value float64, width int) string {
	if width <= 0 {
		return ""
	}
	if value < 0 {
		value = 0
	}
	if value > chartMax {
		value = chartMax
	}
	eighths := int(math.Round(value / chartMax * float64(width*8)))
	full := eighths / 8
	rem := eighths % 8
	var b strings.Builder
	b.WriteString(strings.Repeat("█", full))
	if rem > 0 && full < width {
		b.WriteRune(partialBlocks[rem])
		full++
	}
	b.WriteString(strings.Repeat(" ", width-full))
	return b.String()
}

func renderLegend(series []Series, useColor bool) string {
	parts := make([]string, 0, len(series))
	for i, s := range series {
		label := "█ " + s.Name
		if useColor {
			label = colorPalette[i%len(colorPalette)].code + label + colorReset
		} else {
			label = fmt.Sprintf("%s (%s)", label, colorPalette[i%len(colorPalette)].name)
		}
		parts = append(parts, label)
	}
	return "Legend: " + strings.Join(parts, "  ")
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
