package analyzer

import (
	"fmt"

	"github.com/verte-zerg/pentrust/internal/model"
)

func visualSchema(st model.Statuses, level model.ReadingLevel) string {
	switch {
	case st.Accessibility == model.StatusAtRisk || level == model.ReadingComplex:
		return "Content-heavy layout"
	case st.Accessibility == model.StatusPartiallyCompliant:
		return "Mixed layout"
	default:
		return "Scannable layout"
	}
}

// weakestField returns the field with the smallest margin over its cutoff.
func weakestField(scores model.Scores) model.Field {
	weakest := model.Fields[0]
	best := 0
	for i, f := range model.Fields {
		spec, _ := model.Spec(f)
		margin := scores.Get(f) - spec.Cutoff
		if i == 0 || margin < best {
			weakest = f
			best = margin
		}
	}
	return weakest
}

func summaryText(scores model.Scores, st model.Statuses, issueCount int) string {
	top := 0
	for _, f := range model.Fields {
		if st.Get(f) == model.BestStatus(f) {
			top++
		}
	}
	var overall string
	switch {
	case top == len(model.Fields):
		overall = "Content is clear, supportive and easy to scan."
	case top > 0:
		overall = "Content is generally clear but could be simplified for low-literacy readers and busy clinicians."
	default:
		overall = "Content needs a plain-language pass before it reaches patients."
	}
	weak := weakestField(scores)
	return fmt.Sprintf("%s Weakest signal: %s at %d (%s), %d issue(s) flagged.",
		overall, weak.Label(), scores.Get(weak), st.Get(weak), issueCount)
}

func rewriteSuggestion(fixes []model.IssueFix) string {
	if len(fixes) == 0 {
		return "No rewrite needed. Keep headings, short sentences and explicit next steps as the content evolves."
	}
	return fixes[0].Remedy.Fix
}

func notesFor(st model.Statuses, level model.ReadingLevel, issues []string) model.Notes {
	var n model.Notes
	switch level {
	case model.ReadingEasy:
		n.LowLiteracy = "Reads easily for most audiences. Keep sentences short as content is added."
	case model.ReadingComplex:
		n.LowLiteracy = "Reading level is high for patient-facing content. Aim for grade 6 to 8 wording."
	default:
		n.LowLiteracy = "Contains a few long, complex sentences. Consider breaking them up and using simpler vocabulary."
	}
	switch st.Empathy {
	case model.StatusLow:
		n.ToneSafety = "Tone may sound harsh or alarming in sensitive contexts. Lead with support before instructions."
	case model.StatusMedium:
		n.ToneSafety = "Tone is mostly neutral. Review for phrases that may sound alarming in sensitive contexts."
	default:
		n.ToneSafety = "Tone is warm and reassuring."
	}
	n.Hierarchy = "Key actions are easy to find."
	for _, issue := range issues {
		if issue == IssueUnclearNextSteps {
			n.Hierarchy = "Key actions could be surfaced more clearly using headings, bullets, or step-by-step structure."
			break
		}
	}
	switch st.Accessibility {
	case model.StatusAtRisk:
		n.VisualStress = "Several dense blocks of text. Extra spacing and subheadings would reduce visual fatigue."
	case model.StatusPartiallyCompliant:
		n.VisualStress = "Some sections are dense. Add spacing around key actions."
	default:
		n.VisualStress = "Layout gives the text room to breathe."
	}
	return n
}

func recommendations(fixes []model.IssueFix) []string {
	out := make([]string, 0, len(fixes))
	for _, f := range fixes {
		out = append(out, f.Remedy.Fix)
	}
	return out
}
