package resource

import "strings"

// Filter narrows catalog listings. Zero value matches everything.
type Filter struct {
	Category string // exact match
	Search   string // case-insensitive substring of title, description or category
}

// IsZero reports whether the filter matches everything.
func (f Filter) IsZero() bool {
	return f.Category == "" && strings.TrimSpace(f.Search) == ""
}

// Matches reports whether r passes the filter.
func (f Filter) Matches(r *Resource) bool {
	if f.Category != "" && r.category != f.Category {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Search))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(r.title), q) ||
		strings.Contains(strings.ToLower(r.description), q) ||
		strings.Contains(strings.ToLower(r.category), q)
}
