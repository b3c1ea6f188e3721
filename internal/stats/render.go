package stats

import (
	"fmt"
	"io"
	"strings"

	"github.com/verte-zerg/pentrust/internal/model"
)

// RenderSummary prints the metric tiles for a summary.
func RenderSummary(w io.Writer, s Summary) error {
	if _, err := fmt.Fprintln(w, "PenTrust snapshot"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Pages analyzed: %d\n", s.Count); err != nil {
		return err
	}
	if s.Count == 0 {
		_, err := fmt.Fprintln(w, "No pages in view; averages are undefined.")
		return err
	}
	for _, f := range model.Fields {
		mean, _ := s.Mean(f)
		spec, _ := model.Spec(f)
		best := model.BestStatus(f)
		if _, err := fmt.Fprintf(w, "%s: avg %d, %d/%d below %d, %d/%d %s\n",
			f.Label(), mean, s.Below[f], s.Count, spec.Cutoff, s.StatusCounts[f][best], s.Count, best); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "High risk (not %s): %d/%d\n", model.BestStatus(model.FieldAccessibility), s.RiskCount, s.Count); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Needs attention: %d/%d\n", s.AttentionCount, s.Count); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// TableHeaders are the columns of the summary table.
var TableHeaders = []string{"Page / URL", "Clarity", "Empathy", "WCAG", "Reading", "Visual schema", "Issues"}

// TableRows formats records as summary table rows.
func TableRows(records []model.Record) [][]string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			string(r.Identifier),
			fmt.Sprintf("%d %s", r.Scores.Clarity, r.Statuses.Clarity),
			fmt.Sprintf("%d %s", r.Scores.Empathy, r.Statuses.Empathy),
			fmt.Sprintf("%d %s", r.Scores.Accessibility, r.Statuses.Accessibility),
			string(r.ReadingLevel),
			r.VisualSchema,
			fmt.Sprintf("%d", len(r.Issues)),
		})
	}
	return rows
}

// RenderTable prints the summary table.
func RenderTable(w io.Writer, records []model.Record) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No pages analyzed.")
		return err
	}
	return RenderRows(w, TableHeaders, TableRows(records), map[int]bool{6: true})
}

// RenderRows prints an aligned plain-text table followed by a blank line.
func RenderRows(w io.Writer, headers []string, rows [][]string, rightAlignCols map[int]bool) error {
	for _, line := range formatTable(headers, rows, rightAlignCols) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// RenderDetail prints the deep-dive view of one record.
func RenderDetail(w io.Writer, r model.Record) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Page deep-dive: %s\n\n", r.Identifier)
	b.WriteString("Core metrics\n")
	for _, f := range model.Fields {
		fmt.Fprintf(&b, "  %-15s %3d  %s\n", f.Label()+":", r.Scores.Get(f), r.Statuses.Get(f))
	}
	fmt.Fprintf(&b, "  %-15s %s\n", "Reading level:", r.ReadingLevel)
	fmt.Fprintf(&b, "  %-15s %s\n\n", "Visual layout:", r.VisualSchema)
	fmt.Fprintf(&b, "Summary\n  %s\n\n", r.Summary)
	fmt.Fprintf(&b, "AI rewrite suggestion\n  %s\n\n", r.RewriteSuggestion)
	b.WriteString("Issues and fixes\n")
	if len(r.Fixes) == 0 {
		b.WriteString("  None flagged.\n")
	}
	for i, fix := range r.Fixes {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, fix.Issue)
		fmt.Fprintf(&b, "     Fix:    %s\n", fix.Remedy.Fix)
		fmt.Fprintf(&b, "     Before: %s\n", fix.Remedy.Before)
		fmt.Fprintf(&b, "     After:  %s\n", fix.Remedy.After)
	}
	b.WriteString("\nHealthcare & UX indicators\n")
	fmt.Fprintf(&b, "  Low-literacy friendliness: %s\n", r.Notes.LowLiteracy)
	fmt.Fprintf(&b, "  Tone safety: %s\n", r.Notes.ToneSafety)
	fmt.Fprintf(&b, "  Information hierarchy: %s\n", r.Notes.Hierarchy)
	fmt.Fprintf(&b, "  Visual stress: %s\n", r.Notes.VisualStress)
	if len(r.Recommendations) > 0 {
		b.WriteString("\nRecommendations for the team\n")
		for _, rec := range r.Recommendations {
			fmt.Fprintf(&b, "  - %s\n", rec)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
