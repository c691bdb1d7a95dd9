package followup

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HTMLParser parses table markup copied from a spreadsheet or web page
type HTMLParser struct{}

// Parse reads the first table's rows. th and td cells are both taken, and
// colspan is expanded so columns stay aligned.
func (HTMLParser) Parse(input string) (*ParseResult, error) {
	if strings.TrimSpace(input) == "" {
		return nil, ErrEmptyInput
	}
	doc, err := html.Parse(strings.NewReader(input))
	if err != nil {
		return nil, err
	}

	table := findFirst(doc, atom.Table)
	if table == nil {
		table = doc
	}

	var grid [][]string
	walk(table, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.DataAtom == atom.Table && n != table {
			return false
		}
		if n.Type == html.ElementNode && n.DataAtom == atom.Tr {
			grid = append(grid, rowCells(n))
			return false
		}
		return true
	})

	return buildResult("html", grid)
}

func rowCells(tr *html.Node) []string {
	var cells []string
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || (c.DataAtom != atom.Td && c.DataAtom != atom.Th) {
			continue
		}
		text := strings.Join(strings.Fields(textContent(c)), " ")
		cells = append(cells, text)
		for i := 1; i < colspan(c); i++ {
			cells = append(cells, "")
		}
	}
	return cells
}

func colspan(n *html.Node) int {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, "colspan") {
			span := 0
			for _, r := range a.Val {
				if r < '0' || r > '9' {
					break
				}
				span = span*10 + int(r-'0')
			}
			if span > 1 && span < 100 {
				return span
			}
		}
	}
	return 1
}

func textContent(n *html.Node) string {
	var b strings.Builder
	walk(n, func(c *html.Node) bool {
		switch {
		case c.Type == html.TextNode:
			b.WriteString(c.Data)
		case c.Type == html.ElementNode && c.DataAtom == atom.Br:
			b.WriteString(" ")
		}
		return true
	})
	return b.String()
}

func findFirst(n *html.Node, a atom.Atom) *html.Node {
	var found *html.Node
	walk(n, func(c *html.Node) bool {
		if found != nil {
			return false
		}
		if c.Type == html.ElementNode && c.DataAtom == a {
			found = c
			return false
		}
		return true
	})
	return found
}

// walk visits n and its descendants depth-first; fn returns false to skip children
func walk(n *html.Node, fn func(*html.Node) bool) {
	if !fn(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}
