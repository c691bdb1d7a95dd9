package followup

import (
	"encoding/csv"
	"regexp"
	"strings"
)

var multiSpace = regexp.MustCompile(`\s{2,}`)

// Delimiter names the split rule chosen for a text paste
type Delimiter string

const (
	DelimTab        Delimiter = "tab"
	DelimComma      Delimiter = "comma"
	DelimMultiSpace Delimiter = "spaces"
)

// TextParser parses delimited text pastes
type TextParser struct{}

// Parse splits lines with the delimiter chosen for the paste
func (TextParser) Parse(input string) (*ParseResult, error) {
	lines := splitLines(input)
	if len(lines) == 0 {
		return nil, ErrEmptyInput
	}

	delim := ChooseDelimiter(lines)
	var grid [][]string
	switch delim {
	case DelimTab:
		for _, l := range lines {
			grid = append(grid, strings.Split(l, "\t"))
		}
	case DelimComma:
		r := csv.NewReader(strings.NewReader(strings.Join(lines, "\n")))
		r.FieldsPerRecord = -1
		r.LazyQuotes = true
		r.TrimLeadingSpace = true
		records, err := r.ReadAll()
		if err != nil {
			// fall back to a plain split; pastes are not strict CSV
			for _, l := range lines {
				grid = append(grid, strings.Split(l, ","))
			}
		} else {
			grid = records
		}
	default:
		for _, l := range lines {
			grid = append(grid, multiSpace.Split(strings.TrimSpace(l), -1))
		}
	}

	return buildResult("text/"+string(delim), grid)
}

// ChooseDelimiter picks tab if any line has one, comma if every line splits
// into the same number (two or more) of comma fields, else runs of spaces.
func ChooseDelimiter(lines []string) Delimiter {
	for _, l := range lines {
		if strings.Contains(l, "\t") {
			return DelimTab
		}
	}
	n := -1
	for _, l := range lines {
		c := commaFields(l)
		if c < 2 || (n != -1 && c != n) {
			return DelimMultiSpace
		}
		n = c
	}
	return DelimComma
}

// commaFields counts comma-separated fields, ignoring commas inside quotes
func commaFields(line string) int {
	n, quoted := 1, false
	for _, r := range line {
		switch {
		case r == '"':
			quoted = !quoted
		case r == ',' && !quoted:
			n++
		}
	}
	return n
}

func splitLines(input string) []string {
	input = strings.ReplaceAll(input, "\r\n", "\n")
	input = strings.ReplaceAll(input, "\r", "\n")
	var out []string
	for _, l := range strings.Split(input, "\n") {
		if strings.TrimSpace(l) != "" {
			out = append(out, l)
		}
	}
	return out
}
