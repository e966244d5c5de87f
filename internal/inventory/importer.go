package inventory

import (
	"strings"

	"estoque-backend/internal/models"
	"estoque-backend/internal/spreadsheet"
)

// importSynonyms maps lower-cased header names to canonical columns.
var importSynonyms = map[string]string{
	"código de barras": ColBarcode,
	"codigo de barras": ColBarcode,
	"codigo_barras":    ColBarcode,
	"código_barras":    ColBarcode,
	"barcode":          ColBarcode,
	"ean":              ColBarcode,
	"nome":             ColName,
	"nome do produto":  ColName,
	"produto":          ColName,
	"name":             ColName,
	"marca":            ColBrand,
	"brand":            ColBrand,
	"validade":         ColExpiry,
	"data de validade": ColExpiry,
	"expiry":           ColExpiry,
	"quantidade":       ColQuantity,
	"qtd":              ColQuantity,
	"qtde":             ColQuantity,
	"quantity":         ColQuantity,
}

// mapImportHeader returns the column index of every canonical column found in
// header. The first matching header wins.
func mapImportHeader(header []string) map[string]int {
	found := make(map[string]int)
	for i, h := range header {
		canonical, ok := importSynonyms[strings.ToLower(strings.TrimSpace(h))]
		if !ok {
			continue
		}
		if _, dup := found[canonical]; !dup {
			found[canonical] = i
		}
	}
	return found
}

// MapImportTable converts an uploaded sheet into products of branch. Rows with
// a blank name or a quantity that is not a number above zero are dropped and
// counted in rejected. Only a missing Name or Quantity column fails the whole
// table.
func MapImportTable(t *spreadsheet.Table, branch string) (products []models.Product, rejected int, err error) {
	cols := mapImportHeader(t.Header)
	if _, ok := cols[ColName]; !ok {
		return nil, 0, ErrNoNameColumn
	}
	if _, ok := cols[ColQuantity]; !ok {
		return nil, 0, ErrNoQuantityColumn
	}

	get := func(row []string, col string) string {
		idx, ok := cols[col]
		if !ok {
			return ""
		}
		return t.Cell(row, idx)
	}

	products = make([]models.Product, 0, len(t.Rows))
	for _, row := range t.Rows {
		name := get(row, ColName)
		qty, ok := spreadsheet.ParseQuantity(get(row, ColQuantity))
		if name == "" || !ok || qty <= 0 {
			rejected++
			continue
		}
		products = append(products, models.Product{
			BranchName: branch,
			Barcode:    get(row, ColBarcode),
			Name:       name,
			Brand:      get(row, ColBrand),
			Expiry:     spreadsheet.ParseDate(get(row, ColExpiry)),
			Quantity:   qty,
		})
	}
	return products, rejected, nil
}
