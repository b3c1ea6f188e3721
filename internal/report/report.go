// Package report writes a batch view as text, JSON, Markdown or HTML.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/verte-zerg/pentrust/internal/model"
	"github.com/verte-zerg/pentrust/internal/stats"
)

// Format selects an output encoding.
type Format string

// Output formats.
const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// Formats lists the supported formats.
var Formats = []Format{FormatText, FormatJSON, FormatMarkdown, FormatHTML}

// ParseFormat validates a format name. "md" is accepted for Markdown.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "html":
		return FormatHTML, nil
	}
	return "", fmt.Errorf("unknown format %q (want text, json, markdown or html)", name)
}

// Options tune text rendering.
type Options struct {
	Width int
	Color bool
}

// Write renders rep in the requested format.
func Write(w io.Writer, format Format, rep stats.Report, opts Options) error {
	switch format {
	case FormatText:
		return writeText(w, rep, opts)
	case FormatJSON:
		return WriteJSON(w, rep)
	case FormatMarkdown:
		_, err := io.WriteString(w, Markdown(rep))
		return err
	case FormatHTML:
		return WriteHTML(w, rep)
	}
	return fmt.Errorf("unknown format %q", format)
}

func writeText(w io.Writer, rep stats.Report, opts Options) error {
	if err := stats.RenderSummary(w, rep.Summary); err != nil {
		return err
	}
	if err := stats.RenderChartWithColor(w, "Clarity vs tone safety", rep.Chart, opts.Width, opts.Color); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	if err := stats.RenderTable(w, rep.Records); err != nil {
		return err
	}
	if rep.Focus.IsAll() {
		return nil
	}
	for _, rec := range rep.Records {
		if err := stats.RenderDetail(w, rec); err != nil {
			return err
		}
	}
	return nil
}

type jsonReport struct {
	RunID     string         `json:"run_id"`
	CreatedAt time.Time      `json:"created_at"`
	Focus     string         `json:"focus"`
	Summary   stats.Summary  `json:"summary"`
	Chart     stats.Chart    `json:"chart"`
	Records   []model.Record `json:"records"`
}

// WriteJSON encodes the report with indentation.
func WriteJSON(w io.Writer, rep stats.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(jsonReport{
		RunID:     rep.Batch.RunID,
		CreatedAt: rep.Batch.CreatedAt,
		Focus:     rep.Focus.String(),
		Summary:   rep.Summary,
		Chart:     rep.Chart,
		Records:   rep.Records,
	}); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}
