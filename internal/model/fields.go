package model

// Field names one numeric score of a record.
type Field string

// Score fields.
const (
	FieldClarity       Field = "clarity"
	FieldEmpathy       Field = "empathy"
	FieldAccessibility Field = "accessibility"
)

// Fields lists score fields in display order.
var Fields = []Field{FieldClarity, FieldEmpathy, FieldAccessibility}

// Status is a categorical bucket derived from a score.
type Status string

// Status values.
const (
	StatusLow                Status = "Low"
	StatusMedium             Status = "Medium"
	StatusHigh               Status = "High"
	StatusAtRisk             Status = "At risk"
	StatusPartiallyCompliant Status = "Partially compliant"
	StatusSolid              Status = "Solid"
)

// Range is a closed integer interval.
type Range struct {
	Min int
	Max int
}

// Contains reports whether v lies in the range.
func (r Range) Contains(v int) bool {
	return v >= r.Min && v <= r.Max
}

// Clamp forces v into the range.
func (r Range) Clamp(v int) int {
	if v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}

// Bucket maps scores strictly below Below to Status. The last bucket of a
// spec has Below == 0 and catches everything else.
type Bucket struct {
	Below  int
	Status Status
}

// FieldSpec is the static description of a score field.
type FieldSpec struct {
	Field   Field
	Label   string
	Range   Range
	Buckets []Bucket // worst first
	Cutoff  int      // threshold counts use score < Cutoff
}

var fieldSpecs = map[Field]FieldSpec{
	FieldClarity: {
		Field: FieldClarity,
		Label: "Clarity",
		Range: Range{Min: 55, Max: 92},
		Buckets: []Bucket{
			{Below: 70, Status: StatusLow},
			{Below: 85, Status: StatusMedium},
			{Status: StatusHigh},
		},
		Cutoff: 75,
	},
	FieldEmpathy: {
		Field: FieldEmpathy,
		Label: "Empathy / tone",
		Range: Range{Min: 60, Max: 96},
		Buckets: []Bucket{
			{Below: 70, Status: StatusLow},
			{Below: 85, Status: StatusMedium},
			{Status: StatusHigh},
		},
		Cutoff: 75,
	},
	FieldAccessibility: {
		Field: FieldAccessibility,
		Label: "Accessibility",
		Range: Range{Min: 58, Max: 95},
		Buckets: []Bucket{
			{Below: 70, Status: StatusAtRisk},
			{Below: 90, Status: StatusPartiallyCompliant},
			{Status: StatusSolid},
		},
		Cutoff: 80,
	},
}

// Spec returns the static spec for a field.
func Spec(f Field) (FieldSpec, bool) {
	spec, ok := fieldSpecs[f]
	return spec, ok
}

// Label returns the display label of a field.
func (f Field) Label() string {
	if spec, ok := fieldSpecs[f]; ok {
		return spec.Label
	}
	return string(f)
}

// StatusFor buckets a score for a field.
func StatusFor(f Field, score int) Status {
	spec, ok := fieldSpecs[f]
	if !ok || len(spec.Buckets) == 0 {
		return ""
	}
	last := len(spec.Buckets) - 1
	for _, b := range spec.Buckets[:last] {
		if score < b.Below {
			return b.Status
		}
	}
	return spec.Buckets[last].Status
}

// BestStatus returns the top bucket of a field.
func BestStatus(f Field) Status {
	spec, ok := fieldSpecs[f]
	if !ok || len(spec.Buckets) == 0 {
		return ""
	}
	return spec.Buckets[len(spec.Buckets)-1].Status
}

// StatusesOf returns the bucket labels of a field, worst first.
func StatusesOf(f Field) []Status {
	spec, ok := fieldSpecs[f]
	if !ok {
		return nil
	}
	out := make([]Status, len(spec.Buckets))
	for i, b := range spec.Buckets {
		out[i] = b.Status
	}
	return out
}

// DeriveStatuses buckets every score.
func DeriveStatuses(s Scores) Statuses {
	return Statuses{
		Clarity:       StatusFor(FieldClarity, s.Clarity),
		Empathy:       StatusFor(FieldEmpathy, s.Empathy),
		Accessibility: StatusFor(FieldAccessibility, s.Accessibility),
	}
}
