// Package model defines shared data structures.
package model

import "time"

// PageIdentifier names one reviewed item: a URL or a free-text page label.
type PageIdentifier string

// ReadingLevel is the categorical reading difficulty of a page.
type ReadingLevel string

// Reading levels, easiest first.
const (
	ReadingEasy     ReadingLevel = "Easy"
	ReadingModerate ReadingLevel = "Moderate"
	ReadingComplex  ReadingLevel = "Complex"
)

// ReadingLevels lists the levels in draw order.
var ReadingLevels = []ReadingLevel{ReadingEasy, ReadingModerate, ReadingComplex}

// Scores holds the numeric scores of a record.
type Scores struct {
	Clarity       int `json:"clarity"`
	Empathy       int `json:"empathy"`
	Accessibility int `json:"accessibility"`
}

// Get returns the score for a field.
func (s Scores) Get(f Field) int {
	switch f {
	case FieldClarity:
		return s.Clarity
	case FieldEmpathy:
		return s.Empathy
	case FieldAccessibility:
		return s.Accessibility
	default:
		return 0
	}
}

// Statuses holds the derived status of each score.
type Statuses struct {
	Clarity       Status `json:"clarity"`
	Empathy       Status `json:"empathy"`
	Accessibility Status `json:"accessibility"`
}

// Get returns the status for a field.
func (s Statuses) Get(f Field) Status {
	switch f {
	case FieldClarity:
		return s.Clarity
	case FieldEmpathy:
		return s.Empathy
	case FieldAccessibility:
		return s.Accessibility
	default:
		return ""
	}
}

// Remedy describes how to fix an issue with a before/after sample.
type Remedy struct {
	Fix    string `json:"fix" yaml:"fix"`
	Before string `json:"before" yaml:"before"`
	After  string `json:"after" yaml:"after"`
}

// IssueFix pairs an issue with its remedy.
type IssueFix struct {
	Issue  string `json:"issue"`
	Remedy Remedy `json:"remedy"`
}

// Notes carries the healthcare and UX indicator notes of a record.
type Notes struct {
	LowLiteracy  string `json:"low_literacy"`
	ToneSafety   string `json:"tone_safety"`
	Hierarchy    string `json:"hierarchy"`
	VisualStress string `json:"visual_stress"`
}

// Record is the analysis result for one page identifier.
type Record struct {
	Identifier        PageIdentifier `json:"identifier"`
	Scores            Scores         `json:"scores"`
	Statuses          Statuses       `json:"statuses"`
	ReadingLevel      ReadingLevel   `json:"reading_level"`
	VisualSchema      string         `json:"visual_schema"`
	Issues            []string       `json:"issues"`
	Fixes             []IssueFix     `json:"fixes"`
	Summary           string         `json:"summary"`
	RewriteSuggestion string         `json:"rewrite_suggestion"`
	Notes             Notes          `json:"notes"`
	Recommendations   []string       `json:"recommendations"`
}

// Batch is the ordered set of records produced by one run.
type Batch struct {
	RunID     string    `json:"run_id"`
	CreatedAt time.Time `json:"created_at"`
	Records   []Record  `json:"records"`
}

// Len returns the number of records.
func (b Batch) Len() int {
	return len(b.Records)
}

// Identifiers returns record identifiers in batch order, duplicates included.
func (b Batch) Identifiers() []PageIdentifier {
	ids := make([]PageIdentifier, len(b.Records))
	for i, r := range b.Records {
		ids[i] = r.Identifier
	}
	return ids
}

// UniqueIdentifiers returns identifiers in order of first appearance.
func (b Batch) UniqueIdentifiers() []PageIdentifier {
	seen := make(map[PageIdentifier]struct{}, len(b.Records))
	ids := make([]PageIdentifier, 0, len(b.Records))
	for _, r := range b.Records {
		if _, ok := seen[r.Identifier]; ok {
			continue
		}
		seen[r.Identifier] = struct{}{}
		ids = append(ids, r.Identifier)
	}
	return ids
}

// Find returns the first record carrying the identifier.
func (b Batch) Find(id PageIdentifier) (Record, bool) {
	for _, r := range b.Records {
		if r.Identifier == id {
			return r, true
		}
	}
	return Record{}, false
}

// Focus narrows a view to all records or a single identifier.
type Focus struct {
	identifier PageIdentifier
	single     bool
}

// AllRecords returns the focus covering every record.
func AllRecords() Focus {
	return Focus{}
}

// FocusOn returns a focus on one identifier.
func FocusOn(id PageIdentifier) Focus {
	return Focus{identifier: id, single: true}
}

// IsAll reports whether the focus covers every record.
func (f Focus) IsAll() bool {
	return !f.single
}

// Identifier returns the focused identifier, empty for all records.
func (f Focus) Identifier() PageIdentifier {
	return f.identifier
}

func (f Focus) String() string {
	if !f.single {
		return "All pages"
	}
	return string(f.identifier)
}
