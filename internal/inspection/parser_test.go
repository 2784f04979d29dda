package inspection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDoc = `{
	"account": {"companyName": "Lone Star Inspections"},
	"inspection": {
		"id": "insp-001",
		"status": "completed",
		"clientInfo": {"name": "Jane Buyer", "email": "jane@example.com"},
		"inspector": {"id": "TREC-12345", "name": "Sam Inspector"},
		"address": {
			"street": "123 Main St",
			"city": "Austin",
			"state": "TX",
			"zipcode": "78701",
			"fullAddress": "123 Main St, Austin, TX 78701",
			"propertyInfo": {"squareFootage": 2150}
		},
		"schedule": {"date": 1705329000000, "startTime": 1705329000000, "endTime": 1705340000000},
		"sections": [
			{
				"id": "s2", "name": "Electrical", "order": 2, "sectionNumber": "2",
				"lineItems": [
					{"id": "i3", "name": "Panel", "order": 0, "status": "inspected",
					 "comments": [{"commentText": "double-tapped breaker", "photos": [{"url": "https://x/p.jpg"}]}]}
				]
			},
			{
				"id": "s1", "name": "Structural", "order": 1,
				"lineItems": [
					{"id": "i2", "name": "Roof", "order": 5, "status": "not_inspected"},
					{"id": "i1", "name": "Foundations", "order": 1, "isDeficient": true,
					 "comment": "hairline cracks", "photos": ["https://x/f.jpg"]}
				]
			}
		]
	}
}`

func TestParse(t *testing.T) {
	rec, stats, err := Parse([]byte(sampleDoc))
	require.NoError(t, err)

	assert.Equal(t, "insp-001", rec.ID)
	assert.Equal(t, "Jane Buyer", rec.Client.Name)
	assert.Equal(t, "TREC-12345", rec.Inspector.ID)
	assert.Equal(t, "Lone Star Inspections", rec.Company)
	assert.Equal(t, 2150, rec.Property.SquareFootage)
	assert.Equal(t, int64(1705329000000), rec.Schedule.Date)

	assert.Equal(t, 2, stats.Sections)
	assert.Equal(t, 3, stats.Items)
	assert.Zero(t, stats.SkippedSections)
	assert.Zero(t, stats.SkippedItems)
}

func TestParseSortsByOrder(t *testing.T) {
	rec, _, err := Parse([]byte(sampleDoc))
	require.NoError(t, err)

	// Sections re-sorted: Structural (order 1) before Electrical (order 2).
	require.Len(t, rec.Sections, 2)
	assert.Equal(t, "Structural", rec.Sections[0].Name)
	assert.Equal(t, "Electrical", rec.Sections[1].Name)

	// Items within Structural re-sorted: Foundations (1) before Roof (5).
	require.Len(t, rec.Sections[0].Items, 2)
	assert.Equal(t, "Foundations", rec.Sections[0].Items[0].Name)
	assert.Equal(t, "Roof", rec.Sections[0].Items[1].Name)
}

func TestParseNestedCommentFallback(t *testing.T) {
	rec, _, err := Parse([]byte(sampleDoc))
	require.NoError(t, err)

	panel := rec.Sections[1].Items[0]
	assert.Equal(t, "double-tapped breaker", panel.Comment)
	assert.Equal(t, []string{"https://x/p.jpg"}, panel.Photos)
}

func TestParseSkipsMalformedEntries(t *testing.T) {
	doc := `{
		"inspection": {
			"clientInfo": {"name": "C"},
			"sections": [
				{"lineItems": []},
				{"id": "ok", "name": "Plumbing", "lineItems": [
					{"order": 0},
					{"name": "Water Heater", "order": 1}
				]}
			]
		}
	}`

	rec, stats, err := Parse([]byte(doc))
	require.NoError(t, err)

	assert.Equal(t, 1, stats.SkippedSections)
	assert.Equal(t, 1, stats.SkippedItems)
	require.Len(t, rec.Sections, 1)
	require.Len(t, rec.Sections[0].Items, 1)
	assert.Equal(t, "Water Heater", rec.Sections[0].Items[0].Name)
}

func TestParseDefaultsOrderAndSectionNumber(t *testing.T) {
	doc := `{
		"inspection": {
			"sections": [
				{"name": "First"},
				{"name": "Second"}
			]
		}
	}`

	rec, _, err := Parse([]byte(doc))
	require.NoError(t, err)

	require.Len(t, rec.Sections, 2)
	assert.Equal(t, "First", rec.Sections[0].Name)
	assert.Equal(t, "1", rec.Sections[0].SectionNumber)
	assert.Equal(t, "Second", rec.Sections[1].Name)
	assert.Equal(t, "2", rec.Sections[1].SectionNumber)
}

func TestParseSanitizesStrings(t *testing.T) {
	doc := `{
		"inspection": {
			"clientInfo": {"name": "  O&apos;Brien &amp; Sons  "},
			"sections": []
		}
	}`

	rec, _, err := Parse([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, "O'Brien & Sons", rec.Client.Name)
}

func TestParseRejectsBadDocuments(t *testing.T) {
	_, _, err := Parse([]byte("not json"))
	assert.Error(t, err)

	_, _, err = Parse([]byte(`{"unrelated": true}`))
	assert.Error(t, err)
}

func TestParseFileMissing(t *testing.T) {
	_, _, err := ParseFile("/nonexistent/inspection.json")
	assert.Error(t, err)
}
