package report

import (
	"bytes"
	"fmt"
	"html"
	"io"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/verte-zerg/pentrust/internal/stats"
)

var (
	md     = goldmark.New(goldmark.WithExtensions(extension.Table))
	policy = bluemonday.UGCPolicy()
)

// HTML converts the Markdown report to a sanitized HTML fragment.
func HTML(rep stats.Report) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(Markdown(rep)), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return policy.Sanitize(buf.String()), nil
}

// WriteHTML writes a standalone HTML document.
func WriteHTML(w io.Writer, rep stats.Report) error {
	body, err := HTML(rep)
	if err != nil {
		return err
	}
	title := "PenTrust report"
	if rep.Batch.RunID != "" {
		title += " " + rep.Batch.RunID
	}
	_, err = fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>%s</title>
</head>
<body>
%s</body>
</html>
`, html.EscapeString(title), body)
	return err
}
