package inspection

import (
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
)

// ParseStats summarizes what a parse kept and what it had to skip. Skipped
// counts cover malformed sections/items that were dropped so their siblings
// could still be processed.
type ParseStats struct {
	Sections        int
	Items           int
	SkippedSections int
	SkippedItems    int
}

// ParseFile reads and parses an inspection JSON document from disk.
func ParseFile(path string) (*Record, *ParseStats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read inspection file: %w", err)
	}
	rec, stats, err := Parse(data)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return rec, stats, nil
}

// Parse normalizes a raw inspection document into a Record. Key lookups are
// tolerant: missing or mistyped fields fall back to defaults, and a section
// or item that cannot be identified at all is skipped, logged and counted
// rather than failing the whole record.
func Parse(data []byte) (*Record, *ParseStats, error) {
	if !gjson.ValidBytes(data) {
		return nil, nil, fmt.Errorf("inspection document is not valid JSON")
	}

	root := gjson.ParseBytes(data)
	insp := root.Get("inspection")
	if !insp.Exists() {
		return nil, nil, fmt.Errorf("inspection document has no inspection object")
	}

	stats := &ParseStats{}
	rec := &Record{
		ID:     str(insp, "id"),
		Status: str(insp, "status"),
		Client: Client{
			Name:     str(insp, "clientInfo.name"),
			Email:    str(insp, "clientInfo.email"),
			Phone:    str(insp, "clientInfo.phone"),
			UserType: str(insp, "clientInfo.userType"),
		},
		Inspector: Inspector{
			ID:    str(insp, "inspector.id"),
			Name:  str(insp, "inspector.name"),
			Email: str(insp, "inspector.email"),
			Phone: str(insp, "inspector.phone"),
		},
		Property: Property{
			Street:        str(insp, "address.street"),
			City:          str(insp, "address.city"),
			State:         str(insp, "address.state"),
			Zipcode:       str(insp, "address.zipcode"),
			FullAddress:   str(insp, "address.fullAddress"),
			SquareFootage: intOr(insp, "address.propertyInfo.squareFootage", 0),
		},
		Schedule: Schedule{
			Date:      insp.Get("schedule.date").Int(),
			StartTime: insp.Get("schedule.startTime").Int(),
			EndTime:   insp.Get("schedule.endTime").Int(),
		},
		Company: str(root, "account.companyName"),
	}

	rec.Sections = parseSections(insp.Get("sections"), stats)
	return rec, stats, nil
}

func parseSections(sections gjson.Result, stats *ParseStats) []Section {
	var out []Section

	idx := -1
	sections.ForEach(func(_, raw gjson.Result) bool {
		idx++
		sec := Section{
			ID:            str(raw, "id"),
			Name:          str(raw, "name"),
			SectionNumber: str(raw, "sectionNumber"),
			Order:         intOr(raw, "order", idx),
		}
		if sec.ID == "" && sec.Name == "" {
			log.Printf("Skipping malformed section %d: no id or name", idx)
			stats.SkippedSections++
			return true
		}
		if sec.SectionNumber == "" {
			sec.SectionNumber = fmt.Sprintf("%d", idx+1)
		}
		sec.Items = parseItems(raw.Get("lineItems"), stats)
		out = append(out, sec)
		stats.Sections++
		return true
	})

	// Insertion order in the source is not authoritative.
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

func parseItems(items gjson.Result, stats *ParseStats) []LineItem {
	var out []LineItem

	idx := -1
	items.ForEach(func(_, raw gjson.Result) bool {
		idx++
		item := LineItem{
			ID:        str(raw, "id"),
			Name:      str(raw, "name"),
			Title:     str(raw, "title"),
			Order:     intOr(raw, "order", idx),
			Status:    str(raw, "status", "inspectionStatus"),
			Deficient: raw.Get("isDeficient").Bool(),
			Comment:   str(raw, "comment"),
			Photos:    urls(raw.Get("photos")),
			Videos:    urls(raw.Get("videos")),
		}
		if item.Name == "" && item.Title == "" {
			log.Printf("Skipping malformed line item %d: no name or title", idx)
			stats.SkippedItems++
			return true
		}

		// Comment text and media may also live on nested comment entries.
		raw.Get("comments").ForEach(func(_, c gjson.Result) bool {
			if item.Comment == "" {
				item.Comment = str(c, "text", "commentText", "content")
			}
			item.Photos = append(item.Photos, urls(c.Get("photos"))...)
			item.Videos = append(item.Videos, urls(c.Get("videos"))...)
			return true
		})

		out = append(out, item)
		stats.Items++
		return true
	})

	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// str returns the first non-empty sanitized string among the given keys.
func str(v gjson.Result, keys ...string) string {
	for _, k := range keys {
		if s := Sanitize(v.Get(k).String()); s != "" {
			return s
		}
	}
	return ""
}

// intOr returns the integer at key, or def when the key is absent.
func intOr(v gjson.Result, key string, def int) int {
	if r := v.Get(key); r.Exists() {
		return int(r.Int())
	}
	return def
}

// urls flattens a media reference array whose entries are either plain URL
// strings or objects carrying a url key.
func urls(v gjson.Result) []string {
	var out []string
	v.ForEach(func(_, e gjson.Result) bool {
		var u string
		if e.Type == gjson.String {
			u = e.String()
		} else {
			u = e.Get("url").String()
		}
		if u = strings.TrimSpace(u); u != "" {
			out = append(out, u)
		}
		return true
	})
	return out
}
