package trec

import (
	"fmt"
	"sort"
	"time"

	"github.com/binsr/inspection-report-server/internal/inspection"
)

// Filler drives the three sub-mappers and merges their output into one
// field map. Its configuration (page table, text slot list, location) is
// immutable and safe to share across generation requests; all per-request
// state lives in the FillResult.
type Filler struct {
	pages     []PageConfig
	textSlots []string
	header    *HeaderMapper
}

// NewFiller builds a Filler over the given capacity tables. Tests pass
// small synthetic tables; production uses the defaults.
func NewFiller(pages []PageConfig, textSlots []string, loc *time.Location) *Filler {
	return &Filler{
		pages:     pages,
		textSlots: textSlots,
		header:    NewHeaderMapper(loc),
	}
}

// DefaultFiller returns a Filler over the TREC template's real tables,
// rendering dates in local time.
func DefaultFiller() *Filler {
	return NewFiller(DefaultPageConfig(), DefaultTextSlots(), nil)
}

// FillResult carries the merged field map together with everything
// reportable that happened on the way: structured warnings, drop counts and
// cross-mapper collisions. Succeeded-with-drops and failed-outright are
// distinguishable: Fill always succeeds, Validate decides fatality.
type FillResult struct {
	Fields          map[string]string
	Warnings        []Warning
	DroppedItems    int
	DroppedComments int
	Collisions      []string
}

// ValidationResult partitions a fill against a template's declared field
// set.
type ValidationResult struct {
	Matched         []string
	Unmatched       []string
	MissingRequired []string
}

// Fill maps a record into template field values: header fields first, then
// comment slots, then checkbox blocks. Collisions between sub-mappers are
// recorded, not silently resolved; the later writer wins in the map but
// Validate treats any collision as fatal.
func (f *Filler) Fill(rec *inspection.Record) *FillResult {
	res := &FillResult{Fields: make(map[string]string)}

	res.merge(f.header.Map(rec))

	comments := AllocateComments(rec.Sections, f.textSlots)
	res.merge(comments.Fields)
	res.DroppedComments = len(comments.Dropped)
	if w := comments.warning(); w != nil {
		res.Warnings = append(res.Warnings, *w)
	}

	boxes := AllocateCheckboxes(rec.Sections, f.pages)
	res.merge(boxes.Fields)
	res.DroppedItems = len(boxes.Dropped)
	res.Warnings = append(res.Warnings, boxes.Warnings...)

	return res
}

// Validate checks a fill against the template's declared field names and
// the required header fields. Unmatched optional assignments are dropped
// from the result with a warning; a missing, empty or placeholder-valued
// required field, or any cross-mapper collision, fails the whole fill.
// A nil declared set skips the template partition and checks only the
// required fields.
func (f *Filler) Validate(res *FillResult, declared map[string]bool) (*ValidationResult, error) {
	v := &ValidationResult{}

	if declared != nil {
		for name := range res.Fields {
			if declared[name] {
				v.Matched = append(v.Matched, name)
			} else {
				v.Unmatched = append(v.Unmatched, name)
			}
		}
		sort.Strings(v.Matched)
		sort.Strings(v.Unmatched)
	}

	for _, name := range RequiredFields() {
		value, ok := res.Fields[name]
		if !ok || value == "" || value == inspection.Placeholder {
			v.MissingRequired = append(v.MissingRequired, name)
			continue
		}
		if declared != nil && !declared[name] {
			// A required field the template does not declare cannot
			// be written; that is fatal, unlike optional mismatches.
			v.MissingRequired = append(v.MissingRequired, name)
		}
	}

	if len(res.Collisions) > 0 {
		return v, fmt.Errorf("field collision across mappers: %v", sample(res.Collisions, 5))
	}
	if len(v.MissingRequired) > 0 {
		return v, fmt.Errorf("missing required fields: %v", v.MissingRequired)
	}

	// Optional assignments the template has no slot for are dropped, not
	// fatal.
	for _, name := range v.Unmatched {
		delete(res.Fields, name)
		res.Warnings = append(res.Warnings, Warning{
			Kind:   WarnTemplateMismatch,
			Field:  name,
			Detail: "field not declared by template, assignment dropped",
		})
	}

	return v, nil
}

// merge folds a sub-mapper's output into the result, recording collisions.
func (r *FillResult) merge(fields map[string]string) {
	for name, value := range fields {
		if _, exists := r.Fields[name]; exists {
			r.Collisions = append(r.Collisions, name)
			r.Warnings = append(r.Warnings, Warning{
				Kind:   WarnFieldCollision,
				Field:  name,
				Detail: "assigned by more than one mapper",
			})
		}
		r.Fields[name] = value
	}
}
