package port

import "context"

// Sheet is one worksheet of an exported workbook
type Sheet struct {
	Name    string
	Headers []string
	Rows    [][]string
}

// WorkbookWriter renders sheets into a spreadsheet file
type WorkbookWriter interface {
	Write(ctx context.Context, sheets []Sheet) ([]byte, error)
}
