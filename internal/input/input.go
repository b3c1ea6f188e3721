// Package input turns pasted text into page identifiers.
package input

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/verte-zerg/pentrust/internal/model"
)

// Normalize splits text into trimmed, non-blank page identifiers in their
// original order. Repeated lines are kept. It returns model.ErrNoInput when
// nothing is left.
func Normalize(text string) ([]model.PageIdentifier, error) {
	var ids []model.PageIdentifier
	for _, line := range strings.FieldsFunc(text, isLineBreak) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		ids = append(ids, model.PageIdentifier(line))
	}
	if len(ids) == 0 {
		return nil, model.ErrNoInput
	}
	return ids, nil
}

// isLineBreak matches line boundaries in pasted text, Unicode separators included.
func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}

// Read reads all of r as pasted text.
func Read(r io.Reader) (string, error) {
	var b strings.Builder
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		b.WriteString(scanner.Text())
		b.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return b.String(), nil
}

// ReadFile reads pasted text from the provided file path.
func ReadFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only input.
			_ = cerr
		}
	}()
	return Read(file)
}
