package resource

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// RawItem is one scraped or hand-written entry of a category-keyed import file.
type RawItem struct {
	Title string `json:"title"`
	Text  string `json:"text"`
	URL   string `json:"url"`
}

// ImportSet maps a category label to its raw items.
type ImportSet map[string][]RawItem

// Categories returns the category labels in sorted order.
func (s ImportSet) Categories() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ParseImport decodes a {"category": [{title, text, url}, ...]} document.
// Categories whose value is not a list and items that are not objects are skipped.
func ParseImport(data []byte) (ImportSet, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("decode import file: %w", err)
	}

	set := make(ImportSet, len(top))
	for category, raw := range top {
		var elems []json.RawMessage
		if isNull(raw) {
			continue
		}
		if err := json.Unmarshal(raw, &elems); err != nil {
			continue
		}
		items := make([]RawItem, 0, len(elems))
		for _, e := range elems {
			var it RawItem
			if isNull(e) {
				continue
			}
			if err := json.Unmarshal(e, &it); err != nil {
				continue
			}
			items = append(items, it)
		}
		set[category] = items
	}
	return set, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
