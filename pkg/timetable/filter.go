package timetable

import (
	"regexp"
	"strings"
)

var tokenSplit = regexp.MustCompile(`[^A-Za-z0-9:]+`)

// Filter selects the rows belonging to one group key. A combined key such as
// "6" carries several members and matches a row tagged with any of them.
type Filter struct {
	Key     string
	Members []string
}

// Filter resolves key against the combined-group table.
func (r Rules) Filter(key string) Filter {
	k := strings.ToUpper(strings.TrimSpace(key))
	members, ok := r.Combined[k]
	if !ok || len(members) == 0 {
		return Filter{Key: k, Members: []string{k}}
	}
	up := make([]string, 0, len(members))
	for _, m := range members {
		up = append(up, strings.ToUpper(strings.TrimSpace(m)))
	}
	return Filter{Key: k, Members: up}
}

// IsCombined reports whether the filter aggregates more than one group.
func (f Filter) IsCombined() bool {
	return len(f.Members) > 1
}

// Tokens splits a group field on anything that is not a letter, digit or
// colon and upper-cases the pieces.
func Tokens(field string) []string {
	parts := tokenSplit.Split(field, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		out = append(out, strings.ToUpper(p))
	}
	return out
}

// Matches reports whether the group field names one of the filter members,
// either exactly or as a sub-section such as "6A:1".
func (f Filter) Matches(field string) bool {
	for _, t := range Tokens(field) {
		for _, m := range f.Members {
			if m == "" {
				continue
			}
			if t == m || strings.HasPrefix(t, m+":") {
				return true
			}
		}
	}
	return false
}
