package workbook

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"estoque-backend/internal/inventory"
	"estoque-backend/internal/models"
	"estoque-backend/internal/spreadsheet"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var ctx = context.Background()

func newStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "estoque.xlsx")
	return NewStore(path, nil), path
}

func TestMissingFileIsEmptyWithDefaultBranch(t *testing.T) {
	s, path := newStore(t)

	branches, err := s.ListBranches(ctx)
	require.NoError(t, err)
	require.Len(t, branches, 1)
	assert.Equal(t, inventory.DefaultBranch, branches[0].Name)

	ps, err := s.ListProducts(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, ps)

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "reads must not create the file")
}

func TestInsertAndListProducts(t *testing.T) {
	s, path := newStore(t)
	_, err := s.CreateBranch(ctx, "Centro")
	require.NoError(t, err)

	expiry := time.Date(2025, 11, 30, 0, 0, 0, 0, time.UTC)
	batch := []models.Product{
		{Barcode: "0789", Name: "Whey", Brand: "Growth", Expiry: &expiry, Quantity: 3, Notes: "prateleira 2"},
		{Name: "Creatina", Quantity: 1},
	}
	require.NoError(t, s.InsertProducts(ctx, "Centro", batch))
	assert.Equal(t, uint(1), batch[0].ID)
	assert.Equal(t, uint(2), batch[1].ID)

	require.NoError(t, s.InsertProducts(ctx, inventory.DefaultBranch, []models.Product{{Name: "BCAA", Quantity: 5}}))

	ps, err := s.ListProducts(ctx, "Centro")
	require.NoError(t, err)
	require.Len(t, ps, 2)
	assert.Equal(t, "0789", ps[0].Barcode)
	assert.Equal(t, "Whey", ps[0].Name)
	assert.Equal(t, "Growth", ps[0].Brand)
	require.NotNil(t, ps[0].Expiry)
	assert.True(t, expiry.Equal(*ps[0].Expiry))
	assert.Equal(t, 3, ps[0].Quantity)
	assert.Equal(t, "prateleira 2", ps[0].Notes)
	assert.Nil(t, ps[1].Expiry)

	err = s.InsertProducts(ctx, "Norte", []models.Product{{Name: "X", Quantity: 1}})
	assert.ErrorIs(t, err, inventory.ErrBranchNotFound)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{inventory.SheetStock, inventory.SheetBranches}, f.GetSheetList())
	table, err := spreadsheet.ReadSheet(f, inventory.SheetStock)
	require.NoError(t, err)
	assert.Equal(t, inventory.StockColumns, table.Header)
}

func TestBranchRules(t *testing.T) {
	s, _ := newStore(t)

	_, err := s.CreateBranch(ctx, "Centro")
	require.NoError(t, err)
	_, err = s.CreateBranch(ctx, "Centro")
	assert.ErrorIs(t, err, inventory.ErrDuplicateBranch)

	require.NoError(t, s.InsertProducts(ctx, "Centro", []models.Product{{Name: "Whey", Quantity: 1}, {Name: "BCAA", Quantity: 1}}))
	require.NoError(t, s.InsertProducts(ctx, inventory.DefaultBranch, []models.Product{{Name: "Creatina", Quantity: 1}}))

	removed, err := s.DeleteBranch(ctx, "Centro")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	branches, err := s.ListBranches(ctx)
	require.NoError(t, err)
	require.Len(t, branches, 1)
	assert.Equal(t, inventory.DefaultBranch, branches[0].Name)

	ps, err := s.ListProducts(ctx, "")
	require.NoError(t, err)
	require.Len(t, ps, 1)
	assert.Equal(t, "Creatina", ps[0].Name)

	_, err = s.DeleteBranch(ctx, inventory.DefaultBranch)
	assert.ErrorIs(t, err, inventory.ErrLastBranch)
	_, err = s.DeleteBranch(ctx, "Centro")
	assert.ErrorIs(t, err, inventory.ErrBranchNotFound)
}

func TestDeleteProductsByPosition(t *testing.T) {
	s, _ := newStore(t)
	require.NoError(t, s.InsertProducts(ctx, inventory.DefaultBranch, []models.Product{
		{Name: "A", Quantity: 1}, {Name: "B", Quantity: 1}, {Name: "C", Quantity: 1},
	}))

	n, err := s.DeleteProducts(ctx, []uint{2, 99})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	ps, err := s.ListProducts(ctx, inventory.DefaultBranch)
	require.NoError(t, err)
	require.Len(t, ps, 2)
	assert.Equal(t, "A", ps[0].Name)
	assert.Equal(t, "C", ps[1].Name)
	assert.Equal(t, uint(2), ps[1].ID)

	n, err = s.DeleteProducts(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func writeLegacy(t *testing.T, path string, rows [][]any) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &r))
	}
	require.NoError(t, f.SaveAs(path))
}

func TestLegacyWorkbookIsMigratedOnce(t *testing.T) {
	s, path := newStore(t)
	writeLegacy(t, path, [][]any{
		{"Código de Barras", "Produto", "Marca", "Validade", "Quantidade"},
		{"111", "Whey Protein", "Growth", "2025-10-01", 2},
		{"222", "Creatina", "Max", "", 7},
	})

	ps, err := s.ListProducts(ctx, "")
	require.NoError(t, err)
	require.Len(t, ps, 2)
	for _, p := range ps {
		assert.Equal(t, inventory.DefaultBranch, p.BranchName)
	}
	assert.Equal(t, "Whey Protein", ps[0].Name)
	assert.Equal(t, "Creatina", ps[1].Name)
	require.NotNil(t, ps[0].Expiry)
	assert.Equal(t, "2025-10-01", ps[0].Expiry.Format("2006-01-02"))
	assert.Equal(t, 7, ps[1].Quantity)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{inventory.SheetStock, inventory.SheetBranches}, f.GetSheetList())

	table, err := spreadsheet.ReadSheet(f, inventory.SheetStock)
	require.NoError(t, err)
	assert.Equal(t, inventory.StockColumns, table.Header)
	assert.Equal(t, inventory.DefaultBranch, table.Cell(table.Rows[0], 0))
	assert.Equal(t, "Whey Protein", table.Cell(table.Rows[0], 2))

	branches, err := spreadsheet.ReadSheet(f, inventory.SheetBranches)
	require.NoError(t, err)
	require.Len(t, branches.Rows, 1)
	assert.Equal(t, inventory.DefaultBranch, branches.Cell(branches.Rows[0], 0))
}

func TestLegacyWorkbookWithBranchColumn(t *testing.T) {
	s, path := newStore(t)
	writeLegacy(t, path, [][]any{
		{"Filial", "Nome do Produto", "Nome", "Quantidade"},
		{"Centro", "Whey", "", 1},
		{"Norte", "antigo", "BCAA", 2},
		{"Centro", "Creatina", "", "x"},
	})

	branches, err := s.ListBranches(ctx)
	require.NoError(t, err)
	require.Len(t, branches, 2)
	assert.Equal(t, "Centro", branches[0].Name)
	assert.Equal(t, "Norte", branches[1].Name)

	ps, err := s.ListProducts(ctx, "Centro")
	require.NoError(t, err)
	require.Len(t, ps, 2)
	assert.Equal(t, "Whey", ps[0].Name)
	assert.Equal(t, 0, ps[1].Quantity)

	ps, err = s.ListProducts(ctx, "Norte")
	require.NoError(t, err)
	require.Len(t, ps, 1)
	assert.Equal(t, "BCAA", ps[0].Name)
}

func TestCorruptFileIsAnError(t *testing.T) {
	s, path := newStore(t)
	require.NoError(t, os.WriteFile(path, []byte("not xlsx"), 0o644))

	_, err := s.ListBranches(ctx)
	assert.Error(t, err)
}

func TestUnknownBranchListsNoProducts(t *testing.T) {
	s, path := newStore(t)

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", inventory.SheetStock))
	require.NoError(t, spreadsheet.WriteSheet(f, inventory.SheetStock, inventory.StockColumns, [][]any{
		{"Principal", "", "Whey", "", nil, 1, ""},
		{"Fantasma", "", "Órfão", "", nil, 2, ""},
	}))
	_, err := f.NewSheet(inventory.SheetBranches)
	require.NoError(t, err)
	require.NoError(t, spreadsheet.WriteSheet(f, inventory.SheetBranches, []string{inventory.ColBranch}, [][]any{{"Principal"}}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	ps, err := s.ListProducts(ctx, "Fantasma")
	require.NoError(t, err)
	assert.NotNil(t, ps)
	assert.Empty(t, ps)

	all, err := s.ListProducts(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Empty(t, all[1].BranchName)
}
