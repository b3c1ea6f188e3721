package stats

import (
	"bytes"
	"strings"
	"testing"

	"github.com/verte-zerg/pentrust/internal/model"
)

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	s := Summarize([]model.Record{rec("a", 80, 70, 90), rec("b", 60, 90, 70)})
	if err := RenderSummary(&buf, s); err != nil {
		t.Fatalf("RenderSummary failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Pages analyzed: 2", "Clarity: avg 70", "High risk (not Solid): 1/2"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestRenderSummaryEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSummary(&buf, Summarize(nil)); err != nil {
		t.Fatalf("RenderSummary failed: %v", err)
	}
	if !strings.Contains(buf.String(), "undefined") {
		t.Fatalf("expected undefined averages note, got %q", buf.String())
	}
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderTable(&buf, []model.Record{rec("https://a.com", 80, 70, 90)}); err != nil {
		t.Fatalf("RenderTable failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header and one row, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "Page / URL") || !strings.Contains(lines[1], "80 Medium") {
		t.Fatalf("unexpected table:\n%s", buf.String())
	}
}

func TestRenderDetail(t *testing.T) {
	r := rec("https://a.com", 60, 70, 80)
	r.Fixes = []model.IssueFix{{Issue: "Dense text blocks", Remedy: model.Remedy{Fix: "Split", Before: "b", After: "a"}}}
	r.Recommendations = []string{"Split"}
	var buf bytes.Buffer
	if err := RenderDetail(&buf, r); err != nil {
		t.Fatalf("RenderDetail failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Page deep-dive: https://a.com", "1. Dense text blocks", "Before: b", "- Split"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in detail:\n%s", want, out)
		}
	}
}

func TestRenderChart(t *testing.T) {
	var buf bytes.Buffer
	chart := ChartSeries([]model.Record{rec("https://a.com", 50, 100, 0), rec("b", 80, 70, 90)})
	if err := RenderChart(&buf, "Clarity vs tone safety", chart, 80); err != nil {
		t.Fatalf("RenderChart failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Clarity vs tone safety") || !strings.Contains(out, "Legend:") {
		t.Fatalf("expected title and legend:\n%s", out)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 1+2*len(model.Fields)+1 {
		t.Fatalf("expected one line per record and field, got %d", len(lines))
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("expected no color when writing to a buffer")
	}
}

func TestRenderChartEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderChart(&buf, "t", Chart{}, 80); err != nil || buf.Len() != 0 {
		t.Fatalf("expected no output for empty chart")
	}
}

func TestRenderBar(t *testing.T) {
	if got := renderBar(100, 10); got != strings.Repeat("█", 10) {
		t.Fatalf("expected full bar, got %q", got)
	}
	if got := renderBar(0, 4); got != "    " {
		t.Fatalf("expected empty bar, got %q", got)
	}
	if got := renderBar(55, 10); displayWidth(got) != 10 {
		t.Fatalf("expected padded bar width 10, got %d", displayWidth(got))
	}
	if BarWidthFor(0, 5, 5) != minBarWidth {
		t.Fatalf("expected min bar width for unknown terminal")
	}
}
