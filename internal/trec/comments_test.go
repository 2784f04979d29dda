package trec

import (
	"testing"

	"github.com/binsr/inspection-report-server/internal/inspection"
	"github.com/stretchr/testify/assert"
)

func TestAllocateComments(t *testing.T) {
	sections := []inspection.Section{
		{
			Name: "Structural Systems",
			Items: []inspection.LineItem{
				{Name: "Foundations", Comment: "hairline cracks at the east wall"},
				{Name: "Roof"},
				{Name: "Walls", Comment: "moisture staining"},
			},
		},
		{
			Name: "Electrical",
			Items: []inspection.LineItem{
				{Name: "Panel", Comment: "double-tapped breaker"},
			},
		},
	}

	alloc := AllocateComments(sections, []string{"Text1", "Text3", "Text4"})

	want := map[string]string{
		"Text1": "Structural Systems > Foundations: hairline cracks at the east wall",
		"Text3": "Structural Systems > Walls: moisture staining",
		"Text4": "Electrical > Panel: double-tapped breaker",
	}
	assert.Equal(t, want, alloc.Fields)
	assert.Empty(t, alloc.Dropped)
}

func TestAllocateCommentsSlotsExhausted(t *testing.T) {
	items := []inspection.LineItem{
		{Name: "a", Comment: "c1"},
		{Name: "b", Comment: "c2"},
		{Name: "c", Comment: "c3"},
		{Name: "d", Comment: "c4"},
		{Name: "e", Comment: "c5"},
	}
	sections := []inspection.Section{{Name: "S", Items: items}}

	alloc := AllocateComments(sections, []string{"Text1", "Text3", "Text4"})

	assert.Len(t, alloc.Fields, 3)
	assert.Equal(t, []string{"S > d", "S > e"}, alloc.Dropped)

	w := alloc.warning()
	if assert.NotNil(t, w) {
		assert.Equal(t, WarnTextSlotsExhausted, w.Kind)
		assert.Contains(t, w.Detail, "2 comment(s)")
	}
}

func TestAllocateCommentsNoSkipping(t *testing.T) {
	// Items without comments must not consume slots.
	sections := []inspection.Section{{
		Name: "S",
		Items: []inspection.LineItem{
			{Name: "quiet"},
			{Name: "noisy", Comment: "squeaky hinge"},
		},
	}}

	alloc := AllocateComments(sections, []string{"Text1", "Text3"})

	assert.Equal(t, map[string]string{"Text1": "S > noisy: squeaky hinge"}, alloc.Fields)
}

func TestDefaultTextSlots(t *testing.T) {
	slots := DefaultTextSlots()

	assert.Len(t, slots, 64)
	assert.Equal(t, "Text1", slots[0])
	assert.Equal(t, "Text3", slots[1])
	assert.Equal(t, "Text66", slots[len(slots)-1])
	assert.NotContains(t, slots, "Text2")
	assert.NotContains(t, slots, "Text22")
}
