package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/verte-zerg/pentrust/internal/analyzer"
	"github.com/verte-zerg/pentrust/internal/model"
	"github.com/verte-zerg/pentrust/internal/scoring"
)

func newTestAnalyzer(t *testing.T) *analyzer.Analyzer {
	t.Helper()
	remedies, err := analyzer.DefaultRemedies()
	if err != nil {
		t.Fatalf("load remedies: %v", err)
	}
	return analyzer.New(scoring.NewStable(7), remedies)
}

func TestRunEndToEnd(t *testing.T) {
	s := New(newTestAnalyzer(t), nil)
	batch, err := s.Run(context.Background(), "https://a.com\nhttps://b.com")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if batch.Len() != 2 || batch.Records[0].Identifier != "https://a.com" || batch.Records[1].Identifier != "https://b.com" {
		t.Fatalf("unexpected batch: %+v", batch.Identifiers())
	}

	summary, err := s.Summary(model.AllRecords())
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}
	if summary.Count != 2 {
		t.Fatalf("expected 2 pages, got %d", summary.Count)
	}
	clarity, ok := summary.Mean(model.FieldClarity)
	want := (batch.Records[0].Scores.Clarity + batch.Records[1].Scores.Clarity) / 2
	if !ok || clarity != want {
		t.Fatalf("expected mean clarity %d, got %d", want, clarity)
	}

	chart, err := s.Chart(model.AllRecords())
	if err != nil {
		t.Fatalf("chart failed: %v", err)
	}
	if len(chart.Labels) != 2 || len(chart.Series) != len(model.Fields) {
		t.Fatalf("unexpected chart shape: %+v", chart)
	}
	for _, series := range chart.Series {
		if len(series.Values) != 2 {
			t.Fatalf("expected 2 values in series %s", series.Name)
		}
	}

	focused, err := s.Summary(model.FocusOn("https://a.com"))
	if err != nil {
		t.Fatalf("focused summary failed: %v", err)
	}
	if focused.Count != 1 {
		t.Fatalf("expected 1 page in focus, got %d", focused.Count)
	}
	if got, _ := focused.Mean(model.FieldClarity); got != batch.Records[0].Scores.Clarity {
		t.Fatalf("expected focused mean to equal record score")
	}

	rec, err := s.Detail("https://b.com")
	if err != nil {
		t.Fatalf("detail failed: %v", err)
	}
	if rec.Identifier != "https://b.com" {
		t.Fatalf("unexpected detail record %s", rec.Identifier)
	}
}

func TestRunNoInputKeepsPreviousBatch(t *testing.T) {
	s := New(newTestAnalyzer(t), nil)
	first, err := s.Run(context.Background(), "a\nb")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if _, err := s.Run(context.Background(), "  \n\n"); !errors.Is(err, model.ErrNoInput) {
		t.Fatalf("expected ErrNoInput, got %v", err)
	}
	got, err := s.Batch()
	if err != nil {
		t.Fatalf("batch failed: %v", err)
	}
	if got.RunID != first.RunID || got.Len() != 2 {
		t.Fatalf("expected previous batch to remain")
	}
}

func TestQueriesBeforeRun(t *testing.T) {
	s := New(newTestAnalyzer(t), nil)
	if _, err := s.Batch(); !errors.Is(err, ErrNoBatch) {
		t.Fatalf("expected ErrNoBatch, got %v", err)
	}
	if _, err := s.Summary(model.AllRecords()); !errors.Is(err, ErrNoBatch) {
		t.Fatalf("expected ErrNoBatch from summary, got %v", err)
	}
	if _, err := s.Detail("a"); !errors.Is(err, ErrNoBatch) {
		t.Fatalf("expected ErrNoBatch from detail, got %v", err)
	}
}

func TestUnknownSelection(t *testing.T) {
	s := New(newTestAnalyzer(t), nil)
	if _, err := s.Run(context.Background(), "a"); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	_, err := s.Detail("missing")
	var sel *model.UnknownSelectionError
	if !errors.As(err, &sel) || sel.Identifier != "missing" {
		t.Fatalf("expected UnknownSelectionError, got %v", err)
	}
	if _, err := s.Chart(model.FocusOn("missing")); !errors.Is(err, model.ErrUnknownSelection) {
		t.Fatalf("expected ErrUnknownSelection from chart, got %v", err)
	}
}

func TestRunCanceled(t *testing.T) {
	s := New(newTestAnalyzer(t), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Run(ctx, "a"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if _, err := s.Batch(); !errors.Is(err, ErrNoBatch) {
		t.Fatalf("expected no batch after canceled run")
	}
}

func TestConcurrentRunsAndReads(t *testing.T) {
	s := New(newTestAnalyzer(t), nil)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = s.Run(context.Background(), "a\nb\nc")
		}()
		go func() {
			defer wg.Done()
			if b, err := s.Batch(); err == nil && b.Len() != 3 {
				t.Errorf("observed partial batch of %d records", b.Len())
			}
		}()
	}
	wg.Wait()
}

func TestRegistryIsolation(t *testing.T) {
	r := NewRegistry(newTestAnalyzer(t), nil)
	idA, a := r.Create()
	idB, b := r.Create()
	if idA == idB {
		t.Fatalf("expected distinct session IDs")
	}
	if r.Len() != 2 {
		t.Fatalf("expected 2 sessions, got %d", r.Len())
	}
	if _, err := a.Run(context.Background(), "https://a.com"); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if _, err := b.Batch(); !errors.Is(err, ErrNoBatch) {
		t.Fatalf("expected session B to have no batch")
	}
	got, ok := r.Get(idA)
	if !ok || got != a {
		t.Fatalf("expected to find session A")
	}
	if !r.Delete(idA) || r.Delete(idA) {
		t.Fatalf("expected delete to succeed once")
	}
	if _, ok := r.Get(idA); ok {
		t.Fatalf("expected session A to be gone")
	}
}
