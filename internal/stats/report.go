package stats

import (
	"github.com/verte-zerg/pentrust/internal/model"
)

// Report contains precomputed data for rendering one view of a batch.
type Report struct {
	Batch   model.Batch
	Focus   model.Focus
	Records []model.Record
	Summary Summary
	Chart   Chart
}

// BuildReport narrows a batch to a focus and prepares every derived view.
func BuildReport(batch model.Batch, focus model.Focus) (Report, error) {
	records, err := Filter(batch, focus)
	if err != nil {
		return Report{}, err
	}
	return Report{
		Batch:   batch,
		Focus:   focus,
		Records: records,
		Summary: Summarize(records),
		Chart:   ChartSeries(records),
	}, nil
}
