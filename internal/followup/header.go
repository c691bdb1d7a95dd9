package followup

import (
	"fmt"
	"strings"
)

var headerKeywords = []string{
	"policy", "name", "date", "amount", "agent", "mobile", "phone", "status",
	"premium", "due", "branch", "plan", "term", "mode", "fup", "doc", "customer",
	"remarks", "sum", "s.a", "address", "sr", "no.",
}

var policyHeaders = map[string]bool{
	"policy":        true,
	"policy no":     true,
	"policy no.":    true,
	"policy number": true,
	"pol no":        true,
	"polno":         true,
}

// layouts guessed from the column count of common LIC due lists
var knownLayouts = map[int][]string{
	5: {"Policy No", "Name", "Due Date", "Premium", "Mode"},
	7: {"Policy No", "Name", "Plan/Term", "Mode", "FUP", "Premium", "Agent"},
	9: {"Sr No", "Policy No", "Name", "DOC", "Plan/Term", "Mode", "FUP", "Premium", "Mobile"},
}

// detectHeader counts cells containing a header keyword. A row is a header
// with two or more hits, or when a cell is exactly a policy header.
func detectHeader(row []string) (bool, int) {
	hits := 0
	exact := false
	for _, cell := range row {
		c := strings.ToLower(strings.TrimSpace(cell))
		if c == "" {
			continue
		}
		if policyPattern.MatchString(c) {
			// a policy number is data, never a header
			return false, 0
		}
		if policyHeaders[c] {
			exact = true
		}
		for _, kw := range headerKeywords {
			if strings.Contains(c, kw) {
				hits++
				break
			}
		}
	}
	return exact || hits >= 2, hits
}

// headerNames cleans a detected header row, padding to width and
// de-duplicating repeated names
func headerNames(row []string, width int) []string {
	names := make([]string, width)
	seen := make(map[string]int, width)
	for i := 0; i < width; i++ {
		name := ""
		if i < len(row) {
			name = strings.Join(strings.Fields(row[i]), " ")
		}
		if name == "" {
			name = fmt.Sprintf("Col %d", i+1)
		}
		if n := seen[name]; n > 0 {
			seen[name]++
			name = fmt.Sprintf("%s (%d)", name, n+1)
		} else {
			seen[name] = 1
		}
		names[i] = name
	}
	return names
}

func synthesizeHeaders(width int) []string {
	if layout, ok := knownLayouts[width]; ok {
		return append([]string(nil), layout...)
	}
	names := make([]string, width)
	for i := range names {
		names[i] = fmt.Sprintf("Col %d", i+1)
	}
	return names
}

// policyColumn picks the header naming a policy, else the column with the
// most policy-number tokens. Returns -1 when nothing matches.
func policyColumn(headers []string, body [][]string) int {
	for i, h := range headers {
		if strings.Contains(strings.ToLower(h), "policy") || policyHeaders[strings.ToLower(h)] {
			return i
		}
	}
	best, bestCount := -1, 0
	for i := range headers {
		count := 0
		for _, row := range body {
			if i < len(row) && policyPattern.MatchString(row[i]) {
				count++
			}
		}
		if count > bestCount {
			best, bestCount = i, count
		}
	}
	return best
}
