// Package workbook stores the inventory in a single xlsx file with an Estoque
// sheet of products and a Filiais sheet of branch names.
package workbook

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"estoque-backend/internal/inventory"
	"estoque-backend/internal/models"
	"estoque-backend/internal/spreadsheet"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

type Store struct {
	path string
	log  *zap.Logger
	mu   sync.Mutex
}

var _ inventory.Store = (*Store)(nil)

func NewStore(path string, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{path: path, log: log}
}

type state struct {
	branches []string
	products []models.Product
}

func (st *state) hasBranch(name string) bool {
	return slices.Contains(st.branches, name)
}

// load reads the file. A missing file is an empty inventory with the default
// branch. A legacy file without a Filiais sheet is rewritten in the current
// layout before load returns.
func (s *Store) load() (*state, error) {
	f, err := excelize.OpenFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return &state{branches: []string{inventory.DefaultBranch}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("planilha %s ilegível: %w", s.path, err)
	}
	defer f.Close()

	legacy := !spreadsheet.HasSheet(f, inventory.SheetBranches)

	stockSheet := inventory.SheetStock
	if !spreadsheet.HasSheet(f, stockSheet) {
		stockSheet = f.GetSheetName(0)
	}
	table, err := spreadsheet.ReadSheet(f, stockSheet)
	if err != nil {
		return nil, err
	}
	st := &state{products: normalizeRows(table)}

	if legacy {
		st.branches = distinctBranches(st.products)
		if err := s.save(st); err != nil {
			return nil, fmt.Errorf("migração da planilha antiga falhou: %w", err)
		}
		s.log.Info("legacy workbook migrated",
			zap.String("path", s.path),
			zap.Int("products", len(st.products)),
			zap.Strings("branches", st.branches))
		return st, nil
	}

	branchTable, err := spreadsheet.ReadSheet(f, inventory.SheetBranches)
	if err != nil {
		return nil, err
	}
	for _, row := range branchTable.Rows {
		name := branchTable.Cell(row, 0)
		if name != "" && !st.hasBranch(name) {
			st.branches = append(st.branches, name)
		}
	}
	if len(st.branches) == 0 {
		st.branches = []string{inventory.DefaultBranch}
	}
	return st, nil
}

// save writes st to a temporary file next to the target and renames it over
// the target, so readers never see a half-written workbook.
func (s *Store) save(st *state) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), inventory.SheetStock); err != nil {
		return err
	}
	if err := spreadsheet.WriteSheet(f, inventory.SheetStock, inventory.StockColumns, stockRows(st.products)); err != nil {
		return err
	}

	if _, err := f.NewSheet(inventory.SheetBranches); err != nil {
		return err
	}
	branchRows := make([][]any, 0, len(st.branches))
	for _, b := range st.branches {
		branchRows = append(branchRows, []any{b})
	}
	if err := spreadsheet.WriteSheet(f, inventory.SheetBranches, []string{inventory.ColBranch}, branchRows); err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".estoque-*.xlsx")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := f.Write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, s.path)
}

func (s *Store) ListBranches(ctx context.Context) ([]models.Branch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load()
	if err != nil {
		return nil, err
	}
	return toBranches(st.branches), nil
}

// Branch ids are 1-based positions in the Filiais sheet.
func toBranches(names []string) []models.Branch {
	out := make([]models.Branch, 0, len(names))
	for i, n := range names {
		out = append(out, models.Branch{ID: uint(i + 1), Name: n})
	}
	return out
}

func (s *Store) CreateBranch(ctx context.Context, name string) (*models.Branch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load()
	if err != nil {
		return nil, err
	}
	if st.hasBranch(name) {
		return nil, inventory.ErrDuplicateBranch
	}

	st.branches = append(st.branches, name)
	if err := s.save(st); err != nil {
		return nil, err
	}
	return &models.Branch{ID: uint(len(st.branches)), Name: name}, nil
}

func (s *Store) DeleteBranch(ctx context.Context, name string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load()
	if err != nil {
		return 0, err
	}
	if !st.hasBranch(name) {
		return 0, inventory.ErrBranchNotFound
	}
	if len(st.branches) <= 1 {
		return 0, inventory.ErrLastBranch
	}

	before := len(st.products)
	st.products = slices.DeleteFunc(st.products, func(p models.Product) bool {
		return p.BranchName == name
	})
	st.branches = slices.DeleteFunc(st.branches, func(b string) bool { return b == name })

	if err := s.save(st); err != nil {
		return 0, err
	}
	return before - len(st.products), nil
}

func (s *Store) ListProducts(ctx context.Context, branch string) ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load()
	if err != nil {
		return nil, err
	}
	if branch != "" {
		if !st.hasBranch(branch) {
			return []models.Product{}, nil
		}
		return inventory.FilterBranch(st.products, branch), nil
	}

	// Rows naming a branch missing from Filiais are unresolved.
	for i := range st.products {
		if !st.hasBranch(st.products[i].BranchName) {
			st.products[i].BranchName = ""
		}
	}
	return st.products, nil
}

func (s *Store) InsertProducts(ctx context.Context, branch string, products []models.Product) error {
	if len(products) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load()
	if err != nil {
		return err
	}
	if !st.hasBranch(branch) {
		return inventory.ErrBranchNotFound
	}

	for i := range products {
		products[i].ID = uint(len(st.products) + 1)
		products[i].BranchName = branch
		products[i].Name = strings.TrimSpace(products[i].Name)
		st.products = append(st.products, products[i])
	}
	return s.save(st)
}

// DeleteProducts removes rows by position. Positions of later rows shift
// down afterwards.
func (s *Store) DeleteProducts(ctx context.Context, ids []uint) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load()
	if err != nil {
		return 0, err
	}

	before := len(st.products)
	st.products = slices.DeleteFunc(st.products, func(p models.Product) bool {
		return slices.Contains(ids, p.ID)
	})
	removed := before - len(st.products)
	if removed == 0 {
		return 0, nil
	}
	if err := s.save(st); err != nil {
		return 0, err
	}
	return removed, nil
}
