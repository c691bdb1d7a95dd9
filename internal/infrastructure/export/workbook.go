// Package export renders desk collections into an xlsx workbook.
package export

import (
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/garyjia/lic-claimdesk/internal/application/port"
)

const (
	maxSheetName = 31
	minColWidth  = 10
	maxColWidth  = 60
)

// WorkbookWriter implements port.WorkbookWriter with excelize
type WorkbookWriter struct {
	logger *zap.Logger
}

// NewWorkbookWriter creates a new WorkbookWriter
func NewWorkbookWriter(logger *zap.Logger) *WorkbookWriter {
	return &WorkbookWriter{logger: logger}
}

// Write builds one worksheet per sheet, header row in bold and frozen
func (w *WorkbookWriter) Write(ctx context.Context, sheets []port.Sheet) ([]byte, error) {
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets to write")
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDEBF7"}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	first := f.GetSheetName(0)
	for i, sheet := range sheets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := sheetName(sheet.Name)
		if i == 0 {
			if err := f.SetSheetName(first, name); err != nil {
				return nil, fmt.Errorf("failed to rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("failed to add sheet %q: %w", name, err)
		}
		if err := w.fill(f, name, sheet, headerStyle); err != nil {
			return nil, err
		}
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	w.logger.Debug("Workbook rendered", zap.Int("sheets", len(sheets)), zap.Int("bytes", buf.Len()))
	return buf.Bytes(), nil
}

func (w *WorkbookWriter) fill(f *excelize.File, name string, sheet port.Sheet, headerStyle int) error {
	widths := make([]int, len(sheet.Headers))
	header := make([]interface{}, len(sheet.Headers))
	for i, h := range sheet.Headers {
		header[i] = h
		widths[i] = len(h)
	}
	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header of %q: %w", name, err)
	}

	for r, row := range sheet.Rows {
		cells := make([]interface{}, len(row))
		for i, v := range row {
			cells[i] = v
			if i < len(widths) && len(v) > widths[i] {
				widths[i] = len(v)
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(name, cell, &cells); err != nil {
			return fmt.Errorf("failed to write row %d of %q: %w", r+2, name, err)
		}
	}

	if len(sheet.Headers) == 0 {
		return nil
	}
	if err := f.SetRowStyle(name, 1, 1, headerStyle); err != nil {
		w.logger.Warn("Failed to style header", zap.String("sheet", name), zap.Error(err))
	}
	if err := f.SetPanes(name, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		w.logger.Warn("Failed to freeze header", zap.String("sheet", name), zap.Error(err))
	}
	for i, width := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(name, col, col, clampWidth(width)); err != nil {
			w.logger.Warn("Failed to size column", zap.String("sheet", name), zap.String("column", col), zap.Error(err))
		}
	}
	return nil
}

// sheetName strips characters Excel rejects and enforces the length limit
func sheetName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case '[', ']', ':', '*', '?', '/', '\\':
			return '-'
		}
		return r
	}, strings.TrimSpace(name))
	if name == "" {
		name = "Sheet"
	}
	if r := []rune(name); len(r) > maxSheetName {
		name = string(r[:maxSheetName])
	}
	return name
}

func clampWidth(chars int) float64 {
	w := chars + 2
	if w < minColWidth {
		w = minColWidth
	}
	if w > maxColWidth {
		w = maxColWidth
	}
	return float64(w)
}
