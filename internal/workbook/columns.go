package workbook

import (
	"strings"

	"estoque-backend/internal/inventory"
	"estoque-backend/internal/models"
	"estoque-backend/internal/spreadsheet"
)

// headerAliases maps lower-cased stored headers to canonical columns. Older
// files were written with unaccented or differently named headers.
var headerAliases = map[string]string{
	"filial":           inventory.ColBranch,
	"código de barras": inventory.ColBarcode,
	"codigo de barras": inventory.ColBarcode,
	"nome":             inventory.ColName,
	"marca":            inventory.ColBrand,
	"validade":         inventory.ColExpiry,
	"quantidade":       inventory.ColQuantity,
	"observações":      inventory.ColNotes,
	"observacoes":      inventory.ColNotes,
}

// legacyNameHeaders are merged into Nome and then dropped.
var legacyNameHeaders = []string{"nome do produto", "produto"}

type columnIndex struct {
	canonical map[string]int
	legacy    []int
}

func indexColumns(header []string) columnIndex {
	idx := columnIndex{canonical: make(map[string]int)}
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if col, ok := headerAliases[key]; ok {
			if _, dup := idx.canonical[col]; !dup {
				idx.canonical[col] = i
			}
			continue
		}
		for _, legacy := range legacyNameHeaders {
			if key == legacy {
				idx.legacy = append(idx.legacy, i)
			}
		}
	}
	return idx
}

// normalizeRows converts a stored Estoque table into products in canonical
// form. A missing Filial column puts every row in the default branch; other
// missing columns read as empty. IDs are the 1-based row positions.
func normalizeRows(t *spreadsheet.Table) []models.Product {
	idx := indexColumns(t.Header)
	get := func(row []string, col string) string {
		i, ok := idx.canonical[col]
		if !ok {
			return ""
		}
		return t.Cell(row, i)
	}

	products := make([]models.Product, 0, len(t.Rows))
	for _, row := range t.Rows {
		name := get(row, inventory.ColName)
		if name == "" {
			for _, i := range idx.legacy {
				if v := t.Cell(row, i); v != "" {
					name = v
					break
				}
			}
		}

		branch := inventory.DefaultBranch
		if _, ok := idx.canonical[inventory.ColBranch]; ok {
			branch = get(row, inventory.ColBranch)
		}

		qty, _ := spreadsheet.ParseQuantity(get(row, inventory.ColQuantity))
		if qty < 0 {
			qty = 0
		}

		products = append(products, models.Product{
			ID:         uint(len(products) + 1),
			BranchName: branch,
			Barcode:    get(row, inventory.ColBarcode),
			Name:       name,
			Brand:      get(row, inventory.ColBrand),
			Expiry:     spreadsheet.ParseDate(get(row, inventory.ColExpiry)),
			Quantity:   qty,
			Notes:      get(row, inventory.ColNotes),
		})
	}
	return products
}

// stockRows renders products in StockColumns order.
func stockRows(products []models.Product) [][]any {
	rows := make([][]any, 0, len(products))
	for _, p := range products {
		var expiry any
		if p.Expiry != nil {
			expiry = *p.Expiry
		}
		rows = append(rows, []any{p.BranchName, p.Barcode, p.Name, p.Brand, expiry, p.Quantity, p.Notes})
	}
	return rows
}

// distinctBranches lists the branch names used by products in first-seen
// order, or the default branch when there are none.
func distinctBranches(products []models.Product) []string {
	seen := make(map[string]bool)
	var names []string
	for _, p := range products {
		if p.BranchName == "" || seen[p.BranchName] {
			continue
		}
		seen[p.BranchName] = true
		names = append(names, p.BranchName)
	}
	if len(names) == 0 {
		names = []string{inventory.DefaultBranch}
	}
	return names
}
