// Package session owns the state of one analysis session: the latest batch and
// the queries answered from it.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/verte-zerg/pentrust/internal/analyzer"
	"github.com/verte-zerg/pentrust/internal/input"
	"github.com/verte-zerg/pentrust/internal/model"
	"github.com/verte-zerg/pentrust/internal/stats"
)

// ErrNoBatch is returned by queries issued before the first successful run.
var ErrNoBatch = errors.New("no analysis has been run yet")

// Session holds the most recent batch produced by an analyzer.
type Session struct {
	analyzer *analyzer.Analyzer
	logger   *slog.Logger

	mu    sync.RWMutex
	batch model.Batch
	ready bool
}

// New creates an empty session. A nil logger discards output.
func New(a *analyzer.Analyzer, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Session{analyzer: a, logger: logger}
}

// Run normalizes text, analyzes every identifier and publishes the new batch.
// On error the previous batch is kept.
func (s *Session) Run(ctx context.Context, text string) (model.Batch, error) {
	if err := ctx.Err(); err != nil {
		return model.Batch{}, err
	}
	ids, err := input.Normalize(text)
	if err != nil {
		s.logger.Warn("analysis skipped", "reason", err)
		return model.Batch{}, err
	}
	batch := s.analyzer.AnalyzeAll(ids)
	if err := ctx.Err(); err != nil {
		return model.Batch{}, err
	}

	s.mu.Lock()
	s.batch = batch
	s.ready = true
	s.mu.Unlock()

	s.logger.Info("analysis complete", "run_id", batch.RunID, "pages", batch.Len())
	return batch, nil
}

// Load publishes an existing batch, for example one restored from the store.
func (s *Session) Load(batch model.Batch) {
	s.mu.Lock()
	s.batch = batch
	s.ready = true
	s.mu.Unlock()
}

// Batch returns the latest batch.
func (s *Session) Batch() (model.Batch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.ready {
		return model.Batch{}, ErrNoBatch
	}
	return s.batch, nil
}

// Summary aggregates the latest batch under a focus.
func (s *Session) Summary(focus model.Focus) (stats.Summary, error) {
	batch, err := s.Batch()
	if err != nil {
		return stats.Summary{}, err
	}
	return stats.SummarizeFocus(batch, focus)
}

// Chart returns chart series for the latest batch under a focus.
func (s *Session) Chart(focus model.Focus) (stats.Chart, error) {
	batch, err := s.Batch()
	if err != nil {
		return stats.Chart{}, err
	}
	records, err := stats.Filter(batch, focus)
	if err != nil {
		return stats.Chart{}, err
	}
	return stats.ChartSeries(records), nil
}

// Report builds every derived view of the latest batch under a focus.
func (s *Session) Report(focus model.Focus) (stats.Report, error) {
	batch, err := s.Batch()
	if err != nil {
		return stats.Report{}, err
	}
	return stats.BuildReport(batch, focus)
}

// Detail returns the first record with the given identifier.
func (s *Session) Detail(id model.PageIdentifier) (model.Record, error) {
	batch, err := s.Batch()
	if err != nil {
		return model.Record{}, err
	}
	rec, ok := batch.Find(id)
	if !ok {
		return model.Record{}, &model.UnknownSelectionError{Identifier: id}
	}
	return rec, nil
}
