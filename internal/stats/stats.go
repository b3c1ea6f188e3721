// Package stats contains aggregation over analysis batches and text rendering.
package stats

import (
	"github.com/verte-zerg/pentrust/internal/model"
)

// Summary holds batch-level statistics for a set of records.
type Summary struct {
	Count          int                                  `json:"count"`
	Means          map[model.Field]int                  `json:"means,omitempty"`
	Below          map[model.Field]int                  `json:"below_cutoff"`
	StatusCounts   map[model.Field]map[model.Status]int `json:"status_counts"`
	RiskCount      int                                  `json:"risk_count"`
	AttentionCount int                                  `json:"attention_count"`
}

// Mean returns the truncated mean of a field. ok is false for an empty set.
func (s Summary) Mean(f model.Field) (int, bool) {
	if s.Count == 0 || s.Means == nil {
		return 0, false
	}
	v, ok := s.Means[f]
	return v, ok
}

// Filter narrows a batch to a focus. A single-identifier focus resolves to
// the first record carrying it.
func Filter(batch model.Batch, focus model.Focus) ([]model.Record, error) {
	if focus.IsAll() {
		return batch.Records, nil
	}
	rec, ok := batch.Find(focus.Identifier())
	if !ok {
		return nil, &model.UnknownSelectionError{Identifier: focus.Identifier()}
	}
	return []model.Record{rec}, nil
}

// Mean computes the integer-truncated mean of a field. ok is false when
// records is empty.
func Mean(records []model.Record, f model.Field) (mean int, ok bool) {
	if len(records) == 0 {
		return 0, false
	}
	sum := 0
	for _, r := range records {
		sum += r.Scores.Get(f)
	}
	return sum / len(records), true
}

// BelowCount counts records whose field score is strictly below the field cutoff.
func BelowCount(records []model.Record, f model.Field) int {
	spec, ok := model.Spec(f)
	if !ok {
		return 0
	}
	count := 0
	for _, r := range records {
		if r.Scores.Get(f) < spec.Cutoff {
			count++
		}
	}
	return count
}

// RiskCount counts records whose accessibility status is not the best bucket.
func RiskCount(records []model.Record) int {
	best := model.BestStatus(model.FieldAccessibility)
	count := 0
	for _, r := range records {
		if model.StatusFor(model.FieldAccessibility, r.Scores.Accessibility) != best {
			count++
		}
	}
	return count
}

// AttentionCount counts records with any field below its best bucket.
func AttentionCount(records []model.Record) int {
	count := 0
	for _, r := range records {
		for _, f := range model.Fields {
			if model.StatusFor(f, r.Scores.Get(f)) != model.BestStatus(f) {
				count++
				break
			}
		}
	}
	return count
}

// Summarize aggregates records. Means are left nil for an empty set.
func Summarize(records []model.Record) Summary {
	s := Summary{
		Count:        len(records),
		Below:        make(map[model.Field]int, len(model.Fields)),
		StatusCounts: make(map[model.Field]map[model.Status]int, len(model.Fields)),
	}
	if len(records) > 0 {
		s.Means = make(map[model.Field]int, len(model.Fields))
	}
	for _, f := range model.Fields {
		if mean, ok := Mean(records, f); ok {
			s.Means[f] = mean
		}
		s.Below[f] = BelowCount(records, f)
		counts := make(map[model.Status]int, 3)
		for _, st := range model.StatusesOf(f) {
			counts[st] = 0
		}
		for _, r := range records {
			counts[model.StatusFor(f, r.Scores.Get(f))]++
		}
		s.StatusCounts[f] = counts
	}
	s.RiskCount = RiskCount(records)
	s.AttentionCount = AttentionCount(records)
	return s
}

// SummarizeFocus filters a batch and aggregates the result.
func SummarizeFocus(batch model.Batch, focus model.Focus) (Summary, error) {
	records, err := Filter(batch, focus)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(records), nil
}
