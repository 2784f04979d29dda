package trec

import (
	"time"

	"github.com/binsr/inspection-report-server/internal/inspection"
)

// dateLayout renders an epoch-millisecond timestamp the way the template
// expects it, e.g. "01/15/2024 02:30PM".
const dateLayout = "01/02/2006 03:04PM"

// HeaderMapper converts a record's header metadata into template field
// values. The location is injected so date formatting is reproducible in
// tests; nil means local time.
type HeaderMapper struct {
	loc *time.Location
}

// NewHeaderMapper returns a mapper rendering dates in the given location.
func NewHeaderMapper(loc *time.Location) *HeaderMapper {
	if loc == nil {
		loc = time.Local
	}
	return &HeaderMapper{loc: loc}
}

// Map produces the header field values: client, date, address, inspector,
// sponsor, plus the report identifier and page count replicated into every
// page's slots. All values have passed the sanitizer by the time the record
// was parsed; values synthesized here are sanitized again before emission.
func (m *HeaderMapper) Map(rec *inspection.Record) map[string]string {
	fields := make(map[string]string, 18)

	fields[FieldClientName] = inspection.Sanitize(rec.Client.Name)
	fields[FieldInspectionDate] = m.formatDate(rec.Schedule.Date)

	address := FormatAddress(rec.Property)
	fields[FieldPropertyAddress] = address

	fields[FieldInspectorName] = inspection.Sanitize(rec.Inspector.Name)
	fields[FieldInspectorLicense] = inspection.Sanitize(rec.Inspector.ID)

	// Sponsor is optional; an absent company renders as an empty field,
	// not the placeholder.
	fields[FieldSponsorName] = inspection.Sanitize(rec.Company)
	fields[FieldSponsorLicense] = ""

	// Each interior page repeats the report identifier and total page
	// count in its own slots.
	for page := 3; page <= 6; page++ {
		fields[reportIDField(page)] = address
		fields[pageCountField(page)] = TotalPages
	}
	fields[FieldPage2Count] = TotalPages

	return fields
}

// formatDate converts epoch milliseconds to the template's date format. A
// zero timestamp renders as an empty string; required-field validation
// rejects it later.
func (m *HeaderMapper) formatDate(ms int64) string {
	if ms == 0 {
		return ""
	}
	return time.UnixMilli(ms).In(m.loc).Format(dateLayout)
}

// FormatAddress returns the property's full address, synthesizing one from
// components when the source has none: street, then "city, state", with the
// zipcode appended to the last non-empty segment. When every component is
// empty it returns the placeholder sentinel, never the empty string.
func FormatAddress(p inspection.Property) string {
	if full := inspection.Sanitize(p.FullAddress); full != "" {
		return full
	}

	street := inspection.Sanitize(p.Street)
	city := inspection.Sanitize(p.City)
	state := inspection.Sanitize(p.State)
	zip := inspection.Sanitize(p.Zipcode)

	var parts []string
	if street != "" {
		parts = append(parts, street)
	}

	cityState := ""
	switch {
	case city != "" && state != "":
		cityState = city + ", " + state
	case city != "":
		cityState = city
	case state != "":
		cityState = state
	}
	if cityState != "" {
		parts = append(parts, cityState)
	}

	if zip != "" {
		if len(parts) > 0 {
			parts[len(parts)-1] += " " + zip
		} else {
			parts = append(parts, zip)
		}
	}

	if len(parts) == 0 {
		return inspection.Placeholder
	}

	out := parts[0]
	for _, p := range parts[1:] {
		out += ", " + p
	}
	return out
}
