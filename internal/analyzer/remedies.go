package analyzer

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/pentrust/internal/model"
)

//go:embed remedies.yaml
var remediesYAML []byte

// RemedyTable maps issue text to its remedy.
type RemedyTable struct {
	generic  model.Remedy
	remedies map[string]model.Remedy
}

type remedyFile struct {
	Generic  model.Remedy            `yaml:"generic"`
	Remedies map[string]model.Remedy `yaml:"remedies"`
}

// ParseRemedies parses a YAML remedy table.
func ParseRemedies(data []byte) (RemedyTable, error) {
	var file remedyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return RemedyTable{}, fmt.Errorf("failed to decode remedy table: %w", err)
	}
	if file.Generic.Fix == "" {
		return RemedyTable{}, fmt.Errorf("remedy table has no generic remedy")
	}
	return RemedyTable{generic: file.Generic, remedies: file.Remedies}, nil
}

var loadDefaultRemedies = sync.OnceValues(func() (RemedyTable, error) {
	return ParseRemedies(remediesYAML)
})

// DefaultRemedies returns the embedded remedy table, parsed once.
func DefaultRemedies() (RemedyTable, error) {
	return loadDefaultRemedies()
}

// Lookup returns the remedy for an issue, or the generic remedy.
func (t RemedyTable) Lookup(issue string) model.Remedy {
	if r, ok := t.remedies[issue]; ok {
		return r
	}
	return t.generic
}

// Has reports whether the table carries a specific remedy for issue.
func (t RemedyTable) Has(issue string) bool {
	_, ok := t.remedies[issue]
	return ok
}

// Generic returns the fallback remedy.
func (t RemedyTable) Generic() model.Remedy {
	return t.generic
}
