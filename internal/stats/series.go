package stats

import (
	"sort"

	"github.com/verte-zerg/pentrust/internal/model"
)

// Series represents a named data series for charting.
type Series struct {
	Name   string    `json:"name"`
	Field  string    `json:"field"`
	Values []float64 `json:"values"`
}

// Chart holds one label per record and one series per field.
type Chart struct {
	Labels []string `json:"labels"`
	Series []Series `json:"series"`
}

// ChartSeries builds chart data for records in batch order.
func ChartSeries(records []model.Record) Chart {
	chart := Chart{
		Labels: make([]string, len(records)),
		Series: make([]Series, len(model.Fields)),
	}
	for i, r := range records {
		chart.Labels[i] = string(r.Identifier)
	}
	for j, f := range model.Fields {
		values := make([]float64, len(records))
		for i, r := range records {
			values[i] = float64(r.Scores.Get(f))
		}
		chart.Series[j] = Series{Name: f.Label(), Field: string(f), Values: values}
	}
	return chart
}

// LowestBy returns up to n records with the lowest score for a field.
// Ties keep batch order.
func LowestBy(records []model.Record, f model.Field, n int) []model.Record {
	if n <= 0 || len(records) == 0 {
		return nil
	}
	out := append([]model.Record(nil), records...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Scores.Get(f) < out[j].Scores.Get(f)
	})
	if n > len(out) {
		n = len(out)
	}
	return out[:n]
}
