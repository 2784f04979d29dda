package trec

import "fmt"

// WarningKind categorizes a non-fatal condition reported during a fill.
type WarningKind string

const (
	// WarnCapacityExceeded means the page table ran out before all line
	// items were placed.
	WarnCapacityExceeded WarningKind = "capacity-exceeded"
	// WarnSlotOutOfRange means a computed checkbox index exceeded its
	// page's declared maximum and that single checkbox was skipped.
	WarnSlotOutOfRange WarningKind = "slot-out-of-range"
	// WarnTextSlotsExhausted means items with comments remained after the
	// last text slot was consumed.
	WarnTextSlotsExhausted WarningKind = "text-slots-exhausted"
	// WarnFieldCollision means two sub-mappers produced the same field
	// name; this indicates a layout bug and fails validation.
	WarnFieldCollision WarningKind = "field-collision"
	// WarnTemplateMismatch means an assigned field name is not declared by
	// the template and the assignment was dropped.
	WarnTemplateMismatch WarningKind = "template-mismatch"
)

// Warning is a structured, non-fatal condition aggregated during a fill and
// returned to the caller alongside the field map.
type Warning struct {
	Kind   WarningKind
	Field  string
	Detail string
}

func (w Warning) String() string {
	if w.Field == "" {
		return fmt.Sprintf("%s: %s", w.Kind, w.Detail)
	}
	return fmt.Sprintf("%s (%s): %s", w.Kind, w.Field, w.Detail)
}

// sample returns up to n names for inclusion in a warning detail.
func sample(names []string, n int) []string {
	if len(names) <= n {
		return names
	}
	return names[:n]
}
