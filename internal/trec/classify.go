// Package trec maps a normalized inspection record onto the fixed field
// universe of the TREC inspection template: header text fields, sequential
// comment slots, and page-bounded checkbox blocks of four statuses per line
// item. The package is pure data mapping; reading and writing the template
// document itself belongs to the pdf package.
package trec

import (
	"strings"

	"github.com/binsr/inspection-report-server/internal/inspection"
)

// Status is the TREC classification of a single line item.
type Status string

const (
	StatusInspected    Status = "I"
	StatusNotInspected Status = "NI"
	StatusNotPresent   Status = "NP"
	StatusDeficient    Status = "D"
)

// statusOffsets maps a classification to its position within an item's
// 4-checkbox block. The template orders the boxes NI, I, NP, D.
var statusOffsets = map[Status]int{
	StatusNotInspected: 0,
	StatusInspected:    1,
	StatusNotPresent:   2,
	StatusDeficient:    3,
}

// Classify derives the TREC status for a line item. The checks are a
// priority order, first match wins:
//
//  1. deficiency flag set, or a comment backed by photo evidence -> D
//  2. raw status "not_present" -> NP
//  3. raw status empty or "not_inspected" -> NI
//  4. anything else -> I
//
// An item with no status, no comment and no photos is NI, not I: absence of
// evidence is not evidence of inspection.
func Classify(item inspection.LineItem) Status {
	if item.Deficient || (item.Comment != "" && len(item.Photos) > 0) {
		return StatusDeficient
	}

	switch strings.ToLower(item.Status) {
	case "not_present":
		return StatusNotPresent
	case "", "not_inspected":
		return StatusNotInspected
	}
	return StatusInspected
}
