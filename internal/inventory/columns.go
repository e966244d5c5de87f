package inventory

// DefaultBranch is used when no branch list exists yet and as the branch of
// legacy rows that have none.
const DefaultBranch = "Principal"

// UnknownBranch labels products whose branch can no longer be resolved.
const UnknownBranch = "(filial desconhecida)"

// Workbook sheet names.
const (
	SheetStock    = "Estoque"
	SheetBranches = "Filiais"
)

// Canonical column headers.
const (
	ColBranch   = "Filial"
	ColBarcode  = "Código de Barras"
	ColName     = "Nome"
	ColBrand    = "Marca"
	ColExpiry   = "Validade"
	ColQuantity = "Quantidade"
	ColNotes    = "Observações"
)

// StockColumns is the persisted column order of the Estoque sheet.
var StockColumns = []string{ColBranch, ColBarcode, ColName, ColBrand, ColExpiry, ColQuantity, ColNotes}

// DisplayColumns are the columns shown to staff and round-tripped by
// export/import. Branch and notes are never exported.
var DisplayColumns = []string{ColBarcode, ColName, ColBrand, ColExpiry, ColQuantity}
