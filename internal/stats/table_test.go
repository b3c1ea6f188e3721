package stats

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Page", "Clarity", "WCAG"}
	rows := [][]string{
		{"a", "80", "Solid"},
		{"Billing portal", "7", "At risk"},
	}
	rightAlign := map[int]bool{1: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Page            Clarity  WCAG" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "a                    80  Solid" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "Billing portal        7  At risk" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableWideRunes(t *testing.T) {
	lines := formatTable([]string{"Page", "N"}, [][]string{{"検査結果", "1"}, {"ab", "2"}}, nil)
	if lines[1] != "検査結果  1" {
		t.Fatalf("unexpected wide row: %q", lines[1])
	}
	if lines[2] != "ab        2" {
		t.Fatalf("unexpected narrow row: %q", lines[2])
	}
}

func TestTruncateLabel(t *testing.T) {
	if got := TruncateLabel("https://example.com/billing", 10); displayWidth(got) > 10 {
		t.Fatalf("label too wide: %q", got)
	}
	if got := TruncateLabel("short", 10); got != "short" {
		t.Fatalf("expected untouched label, got %q", got)
	}
	if TruncateLabel("x", 0) != "" {
		t.Fatalf("expected empty label for zero width")
	}
}
