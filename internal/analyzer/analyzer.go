// Package analyzer produces mock content clarity records for page identifiers.
package analyzer

import (
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/pentrust/internal/model"
	"github.com/verte-zerg/pentrust/internal/scoring"
)

// DefaultIssueCap is the number of issues reported per record.
const DefaultIssueCap = 2

const readingLevelAttr = "reading_level"

// Issues raised by the trigger rules and the fallback pool.
const (
	IssueLongSentences     = "Long, complex sentences"
	IssueUnclearNextSteps  = "Unclear next steps"
	IssueDenseText         = "Dense text blocks"
	IssueMedicalJargon     = "Medical jargon"
	IssueInconsistentTerms = "Inconsistent terminology"
	IssueAlarmingTone      = "Alarming tone in sensitive areas"
)

// Rule raises Issue when the Field score is strictly below Below.
type Rule struct {
	Issue string
	Field model.Field
	Below int
}

// Rules are evaluated in priority order: clarity, guidance, accessibility.
var Rules = []Rule{
	{Issue: IssueLongSentences, Field: model.FieldClarity, Below: 70},
	{Issue: IssueUnclearNextSteps, Field: model.FieldEmpathy, Below: 75},
	{Issue: IssueDenseText, Field: model.FieldAccessibility, Below: 80},
}

// FallbackPool pads the issue list when too few rules fire.
var FallbackPool = []string{
	IssueMedicalJargon,
	IssueInconsistentTerms,
	IssueAlarmingTone,
}

var readingWeights = []float64{0.40, 0.45, 0.15}

// Analyzer derives records from a score source and a remedy table.
type Analyzer struct {
	source   scoring.ScoreSource
	remedies RemedyTable
	issueCap int
	now      func() time.Time
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithIssueCap sets the maximum issues per record. Negative values mean zero.
func WithIssueCap(n int) Option {
	return func(a *Analyzer) {
		if n < 0 {
			n = 0
		}
		a.issueCap = n
	}
}

// WithClock sets the clock used to stamp batches.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) {
		a.now = now
	}
}

// New constructs an Analyzer.
func New(source scoring.ScoreSource, remedies RemedyTable, opts ...Option) *Analyzer {
	a := &Analyzer{
		source:   source,
		remedies: remedies,
		issueCap: DefaultIssueCap,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// IssueCap returns the configured issue cap.
func (a *Analyzer) IssueCap() int {
	return a.issueCap
}

// Analyze builds the record for one identifier. It always succeeds.
func (a *Analyzer) Analyze(id model.PageIdentifier) model.Record {
	scores := a.drawScores(id)
	statuses := model.DeriveStatuses(scores)
	level := a.drawReadingLevel(id)
	issues := SelectIssues(scores, a.issueCap)
	fixes := make([]model.IssueFix, len(issues))
	for i, issue := range issues {
		fixes[i] = model.IssueFix{Issue: issue, Remedy: a.remedies.Lookup(issue)}
	}
	return model.Record{
		Identifier:        id,
		Scores:            scores,
		Statuses:          statuses,
		ReadingLevel:      level,
		VisualSchema:      visualSchema(statuses, level),
		Issues:            issues,
		Fixes:             fixes,
		Summary:           summaryText(scores, statuses, len(issues)),
		RewriteSuggestion: rewriteSuggestion(fixes),
		Notes:             notesFor(statuses, level, issues),
		Recommendations:   recommendations(fixes),
	}
}

// AnalyzeAll builds a complete batch in identifier order.
func (a *Analyzer) AnalyzeAll(ids []model.PageIdentifier) model.Batch {
	records := make([]model.Record, len(ids))
	for i, id := range ids {
		records[i] = a.Analyze(id)
	}
	return model.Batch{
		RunID:     uuid.NewString(),
		CreatedAt: a.now(),
		Records:   records,
	}
}

func (a *Analyzer) drawReadingLevel(id model.PageIdentifier) model.ReadingLevel {
	i := a.source.Choose(id, readingLevelAttr, readingWeights)
	if i < 0 || i >= len(model.ReadingLevels) {
		i = 0
	}
	return model.ReadingLevels[i]
}

func (a *Analyzer) drawScores(id model.PageIdentifier) model.Scores {
	draw := func(f model.Field) int {
		spec, _ := model.Spec(f)
		return spec.Range.Clamp(a.source.Score(id, f, spec.Range))
	}
	return model.Scores{
		Clarity:       draw(model.FieldClarity),
		Empathy:       draw(model.FieldEmpathy),
		Accessibility: draw(model.FieldAccessibility),
	}
}

// SelectIssues applies the trigger rules, pads from the fallback pool and
// truncates to limit.
func SelectIssues(scores model.Scores, limit int) []string {
	if limit <= 0 {
		return []string{}
	}
	issues := make([]string, 0, limit)
	seen := map[string]struct{}{}
	add := func(issue string) {
		if _, ok := seen[issue]; ok {
			return
		}
		seen[issue] = struct{}{}
		issues = append(issues, issue)
	}
	for _, rule := range Rules {
		if scores.Get(rule.Field) < rule.Below {
			add(rule.Issue)
		}
	}
	for _, issue := range FallbackPool {
		if len(issues) >= limit {
			break
		}
		add(issue)
	}
	if len(issues) > limit {
		issues = issues[:limit]
	}
	return issues
}
