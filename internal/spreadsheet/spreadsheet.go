// Package spreadsheet reads and writes simple header-plus-rows tables in xlsx
// workbooks.
package spreadsheet

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

const DateFormat = "dd/mm/yyyy"

// Table is the first row of a sheet as Header and every following row as
// Rows. Rows may be shorter than Header when trailing cells are empty.
type Table struct {
	Header []string
	Rows   [][]string
}

// Cell returns the trimmed value of column col in row, or "" when the row is
// too short.
func (t *Table) Cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

// ReadFirstSheet parses an xlsx stream and returns its first sheet.
func ReadFirstSheet(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("planilha ilegível: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("planilha sem abas")
	}
	return ReadSheet(f, sheets[0])
}

// HasSheet reports whether the workbook contains the named sheet.
func HasSheet(f *excelize.File, sheet string) bool {
	idx, err := f.GetSheetIndex(sheet)
	return err == nil && idx >= 0
}

// ReadSheet returns the raw cell values of a sheet, so dates come back as
// Excel serial numbers and numbers without display formatting.
func ReadSheet(f *excelize.File, sheet string) (*Table, error) {
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("aba %q ilegível: %w", sheet, err)
	}

	t := &Table{}
	if len(rows) == 0 {
		return t, nil
	}

	t.Header = make([]string, len(rows[0]))
	for i, h := range rows[0] {
		t.Header[i] = strings.TrimSpace(h)
	}
	for _, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// WriteSheet writes header and rows starting at A1. time.Time values get the
// dd/mm/yyyy date style; nil values leave the cell empty.
func WriteSheet(f *excelize.File, sheet string, header []string, rows [][]any) error {
	dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: strPtr(DateFormat)})
	if err != nil {
		return err
	}

	for col, h := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStr(sheet, cell, h); err != nil {
			return err
		}
	}

	for r, row := range rows {
		for col, v := range row {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, r+2)
			if err != nil {
				return err
			}
			switch val := v.(type) {
			case string:
				// strings stay strings, barcodes must not turn into numbers
				err = f.SetCellStr(sheet, cell, val)
			case time.Time:
				if err = f.SetCellValue(sheet, cell, val); err == nil {
					err = f.SetCellStyle(sheet, cell, cell, dateStyle)
				}
			default:
				err = f.SetCellValue(sheet, cell, val)
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func strPtr(s string) *string { return &s }

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"02/01/2006",
	"2/1/2006",
	"02/01/2006 15:04:05",
	"02-01-2006",
}

// ParseDate accepts ISO dates, Brazilian dd/mm/yyyy dates and Excel serial
// numbers. The result is midnight UTC of that day, or nil when s is not a
// date.
func ParseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d := DateOnly(t)
			return &d
		}
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial >= 1 {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			d := DateOnly(t)
			return &d
		}
	}
	return nil
}

// DateOnly drops the clock part of t.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseQuantity converts a cell into a whole quantity, truncating fractions.
// ok is false when the cell is not numeric or outside the int32 range.
func ParseQuantity(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	f = math.Trunc(f)
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, false
	}
	return int(f), true
}
