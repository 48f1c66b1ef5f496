package places

import "strings"

// AllCategories is the category filter value that matches every place.
const AllCategories = "all"

// Filter narrows the working list. An empty or "all" Category keeps every
// category and an unknown one matches nothing. Query matches name or
// description case-insensitively.
type Filter struct {
	Category string
	Query    string
}

// Match reports whether p passes the filter.
func (f Filter) Match(p *Place) bool {
	if c := strings.TrimSpace(f.Category); c != "" && !strings.EqualFold(c, AllCategories) {
		if want, ok := ParseCategory(c); !ok || p.Category != want {
			return false
		}
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name), q) ||
		strings.Contains(strings.ToLower(p.Description), q)
}

// Apply returns the places passing f, in their original order.
func Apply(list []*Place, f Filter) []*Place {
	out := make([]*Place, 0, len(list))
	for _, p := range list {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out
}
