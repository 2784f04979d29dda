package trec

import (
	"fmt"

	"github.com/binsr/inspection-report-server/internal/inspection"
)

// cursor is the transient allocation position threaded through a single
// checkbox run: which page config entry is current, how many items it
// already holds, and the base index of the next 4-checkbox block.
type cursor struct {
	pageIdx     int
	itemsOnPage int
	base        int
}

// CheckboxAllocation is the outcome of placing line items into the
// template's fixed-capacity checkbox pages.
type CheckboxAllocation struct {
	Fields map[string]string
	// Dropped holds labels of items that no page had room for.
	Dropped  []string
	Warnings []Warning
}

// AllocateCheckboxes walks sections and items in final sorted order and
// assigns each item a block of 4 consecutive checkbox indices on the
// current page, checking exactly the one slot matching the item's
// classification. When a page reaches its configured item capacity the
// cursor advances to the next page config entry; when the table is
// exhausted, remaining items are recorded as dropped and reported.
func AllocateCheckboxes(sections []inspection.Section, pages []PageConfig) CheckboxAllocation {
	alloc := CheckboxAllocation{Fields: make(map[string]string)}

	cur := cursor{}
	exhausted := len(pages) == 0

	for _, sec := range sections {
		for _, item := range sec.Items {
			label := fmt.Sprintf("%s > %s", sec.Name, item.Label())

			if !exhausted && cur.itemsOnPage >= pages[cur.pageIdx].ItemsPerPage {
				cur.pageIdx++
				cur.itemsOnPage = 0
				cur.base = 0
				if cur.pageIdx >= len(pages) {
					exhausted = true
				}
			}
			if exhausted {
				alloc.Dropped = append(alloc.Dropped, label)
				continue
			}

			page := pages[cur.pageIdx]
			index := cur.base + statusOffsets[Classify(item)]

			// Defensive bound check: the page config promises
			// ItemsPerPage*4-1 <= MaxIndex, but a bad table must
			// not produce out-of-range field names.
			if index <= page.MaxIndex {
				alloc.Fields[checkboxField(page.Page, index)] = CheckedValue
			} else {
				alloc.Warnings = append(alloc.Warnings, Warning{
					Kind:  WarnSlotOutOfRange,
					Field: checkboxField(page.Page, index),
					Detail: fmt.Sprintf("index %d exceeds page %d max %d for %q",
						index, page.Page, page.MaxIndex, label),
				})
			}

			cur.base += 4
			cur.itemsOnPage++
		}
	}

	if len(alloc.Dropped) > 0 {
		alloc.Warnings = append(alloc.Warnings, Warning{
			Kind: WarnCapacityExceeded,
			Detail: fmt.Sprintf("%d item(s) exceeded checkbox page capacity, e.g. %v",
				len(alloc.Dropped), sample(alloc.Dropped, 3)),
		})
	}

	return alloc
}
