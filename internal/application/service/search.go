package service

import "strings"

// matches reports whether term occurs, case-insensitively, in any column.
// An empty term matches everything.
func matches(term string, columns ...string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	for _, c := range columns {
		if strings.Contains(strings.ToLower(c), term) {
			return true
		}
	}
	return false
}
