package inventory

import (
	"strings"

	"estoque-backend/internal/models"
	"estoque-backend/internal/spreadsheet"

	"github.com/xuri/excelize/v2"
)

// ExportWorkbook renders products as a single Estoque sheet with the display
// columns.
func ExportWorkbook(products []models.Product) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetStock); err != nil {
		return nil, err
	}

	rows := make([][]any, 0, len(products))
	for _, p := range products {
		var expiry any
		if p.Expiry != nil {
			expiry = *p.Expiry
		}
		rows = append(rows, []any{p.Barcode, p.Name, p.Brand, expiry, p.Quantity})
	}

	if err := spreadsheet.WriteSheet(f, SheetStock, DisplayColumns, rows); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportFileName is the download name of a branch export.
func ExportFileName(branch string) string {
	return "estoque_" + strings.ReplaceAll(branch, " ", "_") + ".xlsx"
}
