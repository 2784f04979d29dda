package trec

import (
	"fmt"

	"github.com/binsr/inspection-report-server/internal/inspection"
)

// CommentAllocation is the outcome of assigning item comments to the
// template's text slots.
type CommentAllocation struct {
	Fields map[string]string
	// Dropped holds the "section > item" labels whose comments had no
	// slot left. Reportable, not fatal.
	Dropped []string
}

// AllocateComments walks sections and items in their final sorted order and
// assigns each non-empty comment the next unused slot, consuming slots
// strictly sequentially. Once slots run out the remaining comments are
// recorded as dropped.
func AllocateComments(sections []inspection.Section, slots []string) CommentAllocation {
	alloc := CommentAllocation{Fields: make(map[string]string)}

	next := 0
	for _, sec := range sections {
		for _, item := range sec.Items {
			if item.Comment == "" {
				continue
			}

			label := fmt.Sprintf("%s > %s", sec.Name, item.Label())
			if next >= len(slots) {
				alloc.Dropped = append(alloc.Dropped, label)
				continue
			}

			alloc.Fields[slots[next]] = fmt.Sprintf("%s: %s", label, item.Comment)
			next++
		}
	}

	return alloc
}

// warning summarizes a non-empty dropped list as a single structured
// warning.
func (a CommentAllocation) warning() *Warning {
	if len(a.Dropped) == 0 {
		return nil
	}
	return &Warning{
		Kind: WarnTextSlotsExhausted,
		Detail: fmt.Sprintf("%d comment(s) had no text slot left, e.g. %v",
			len(a.Dropped), sample(a.Dropped, 3)),
	}
}
