package report

import (
	"fmt"
	"strings"

	"github.com/verte-zerg/pentrust/internal/model"
	"github.com/verte-zerg/pentrust/internal/stats"
)

var mdEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	"*", `\*`,
	"_", `\_`,
	"[", `\[`,
	"]", `\]`,
	"<", `\<`,
	">", `\>`,
	"|", `\|`,
	"#", `\#`,
	"\n", " ",
)

func escapeMarkdown(s string) string {
	return mdEscaper.Replace(s)
}

// Markdown renders the report as a Markdown document. User supplied
// identifiers are escaped.
func Markdown(rep stats.Report) string {
	var b strings.Builder
	b.WriteString("# PenTrust content clarity report\n\n")
	if rep.Batch.RunID != "" {
		fmt.Fprintf(&b, "- Run: `%s`\n", rep.Batch.RunID)
	}
	if !rep.Batch.CreatedAt.IsZero() {
		fmt.Fprintf(&b, "- Created: %s\n", rep.Batch.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	}
	fmt.Fprintf(&b, "- Focus: %s\n\n", escapeMarkdown(rep.Focus.String()))

	writeSnapshot(&b, rep.Summary)
	writeTable(&b, rep.Records)

	if len(rep.Records) > 0 {
		b.WriteString("## Page deep-dive\n\n")
		for _, rec := range rep.Records {
			writeDetail(&b, rec)
		}
	}
	return b.String()
}

func writeSnapshot(b *strings.Builder, s stats.Summary) {
	b.WriteString("## Snapshot\n\n")
	fmt.Fprintf(b, "- Pages analyzed: %d\n", s.Count)
	if s.Count == 0 {
		b.WriteString("- Averages: undefined\n\n")
		return
	}
	for _, f := range model.Fields {
		mean, _ := s.Mean(f)
		spec, _ := model.Spec(f)
		fmt.Fprintf(b, "- %s: avg **%d**, %d/%d below %d\n", f.Label(), mean, s.Below[f], s.Count, spec.Cutoff)
	}
	fmt.Fprintf(b, "- High risk pages: %d/%d\n", s.RiskCount, s.Count)
	fmt.Fprintf(b, "- Needs attention: %d/%d\n\n", s.AttentionCount, s.Count)
}

func writeTable(b *strings.Builder, records []model.Record) {
	b.WriteString("## Pages\n\n")
	if len(records) == 0 {
		b.WriteString("No pages analyzed.\n\n")
		return
	}
	b.WriteString("| " + strings.Join(stats.TableHeaders, " | ") + " |\n")
	sep := make([]string, len(stats.TableHeaders))
	for i := range sep {
		sep[i] = "---"
	}
	b.WriteString("| " + strings.Join(sep, " | ") + " |\n")
	for _, row := range stats.TableRows(records) {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = escapeMarkdown(cell)
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	b.WriteString("\n")
}

func writeDetail(b *strings.Builder, rec model.Record) {
	fmt.Fprintf(b, "### %s\n\n", escapeMarkdown(string(rec.Identifier)))
	for _, f := range model.Fields {
		fmt.Fprintf(b, "- %s: %d (%s)\n", f.Label(), rec.Scores.Get(f), rec.Statuses.Get(f))
	}
	fmt.Fprintf(b, "- Reading level: %s\n", rec.ReadingLevel)
	fmt.Fprintf(b, "- Visual layout: %s\n\n", rec.VisualSchema)
	if rec.Summary != "" {
		fmt.Fprintf(b, "%s\n\n", rec.Summary)
	}
	if rec.RewriteSuggestion != "" {
		fmt.Fprintf(b, "> %s\n\n", rec.RewriteSuggestion)
	}
	if len(rec.Fixes) > 0 {
		b.WriteString("#### Issues and fixes\n\n")
		for i, fix := range rec.Fixes {
			fmt.Fprintf(b, "%d. **%s**: %s\n", i+1, fix.Issue, fix.Remedy.Fix)
			fmt.Fprintf(b, "   - Before: %s\n", fix.Remedy.Before)
			fmt.Fprintf(b, "   - After: %s\n", fix.Remedy.After)
		}
		b.WriteString("\n")
	}
	b.WriteString("#### Healthcare & UX indicators\n\n")
	fmt.Fprintf(b, "- Low-literacy friendliness: %s\n", rec.Notes.LowLiteracy)
	fmt.Fprintf(b, "- Tone safety: %s\n", rec.Notes.ToneSafety)
	fmt.Fprintf(b, "- Information hierarchy: %s\n", rec.Notes.Hierarchy)
	fmt.Fprintf(b, "- Visual stress: %s\n\n", rec.Notes.VisualStress)
}
