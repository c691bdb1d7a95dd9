// Package followup parses spreadsheet pastes into follow-up rows and merges
// them into the follow-up book.
package followup

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrEmptyInput is returned for a blank paste
	ErrEmptyInput = errors.New("nothing to import")
	// ErrNoRows is returned when no row carries a policy number
	ErrNoRows = errors.New("no rows with a policy number")
)

var policyPattern = regexp.MustCompile(`\b\d{8,10}\b`)

// HeaderDecision records how column names were obtained
type HeaderDecision string

const (
	HeaderDetected    HeaderDecision = "detected"
	HeaderSynthesized HeaderDecision = "synthesized"
)

// Row is one parsed data row
type Row struct {
	Line     int
	PolicyNo string
	Cells    map[string]string
}

// SkippedRow is a data row that could not be imported
type SkippedRow struct {
	Line   int
	Reason string
	Raw    string
}

// ParseResult is everything a parser learned about one paste
type ParseResult struct {
	Format         string
	Headers        []string
	HeaderDecision HeaderDecision
	HeaderHits     int
	PolicyColumn   string
	Rows           []Row
	Skipped        []SkippedRow
}

// Parser turns raw input into rows
type Parser interface {
	Parse(input string) (*ParseResult, error)
}

// ParserFunc adapts a function to Parser
type ParserFunc func(input string) (*ParseResult, error)

// Parse calls f
func (f ParserFunc) Parse(input string) (*ParseResult, error) {
	return f(input)
}

// Detect picks the parser for a paste: HTML table markup or delimited text
func Detect(input string) Parser {
	lower := strings.ToLower(input)
	if strings.Contains(lower, "<table") || strings.Contains(lower, "<tr") {
		return HTMLParser{}
	}
	return TextParser{}
}

// Parse detects the input format and parses it
func Parse(input string) (*ParseResult, error) {
	return Detect(input).Parse(input)
}

// buildResult runs header detection and policy extraction over a cell grid
func buildResult(format string, grid [][]string) (*ParseResult, error) {
	grid = dropBlankRows(grid)
	if len(grid) == 0 {
		return nil, ErrEmptyInput
	}

	res := &ParseResult{Format: format}
	width := 0
	for _, row := range grid {
		if len(row) > width {
			width = len(row)
		}
	}

	first := 0
	isHeader, hits := detectHeader(grid[0])
	res.HeaderHits = hits
	if isHeader {
		res.Headers = headerNames(grid[0], width)
		res.HeaderDecision = HeaderDetected
		first = 1
	} else {
		res.Headers = synthesizeHeaders(width)
		res.HeaderDecision = HeaderSynthesized
	}

	body := grid[first:]
	col := policyColumn(res.Headers, body)
	if col >= 0 {
		res.PolicyColumn = res.Headers[col]
	}

	for i, cells := range body {
		line := first + i + 1
		policyNo := extractPolicy(cells, col)
		if policyNo == "" {
			res.Skipped = append(res.Skipped, SkippedRow{
				Line:   line,
				Reason: "no 8-10 digit policy number",
				Raw:    strings.Join(cells, " | "),
			})
			continue
		}
		row := Row{Line: line, PolicyNo: policyNo, Cells: make(map[string]string, len(res.Headers))}
		for j, h := range res.Headers {
			if j < len(cells) {
				row.Cells[h] = strings.TrimSpace(cells[j])
			} else {
				row.Cells[h] = ""
			}
		}
		res.Rows = append(res.Rows, row)
	}

	if len(res.Rows) == 0 {
		return res, fmt.Errorf("%w (%d skipped)", ErrNoRows, len(res.Skipped))
	}
	return res, nil
}

func extractPolicy(cells []string, col int) string {
	if col >= 0 && col < len(cells) {
		if m := policyPattern.FindString(cells[col]); m != "" {
			return m
		}
	}
	for _, c := range cells {
		if m := policyPattern.FindString(c); m != "" {
			return m
		}
	}
	return ""
}

func dropBlankRows(grid [][]string) [][]string {
	out := grid[:0:0]
	for _, row := range grid {
		for _, c := range row {
			if strings.TrimSpace(c) != "" {
				out = append(out, row)
				break
			}
		}
	}
	return out
}
