package inventory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"estoque-backend/internal/audit"
	"estoque-backend/internal/metrics"
	"estoque-backend/internal/models"
	"estoque-backend/internal/spreadsheet"

	"go.uber.org/zap"
)

type Service struct {
	store Store
	audit audit.Recorder
	log   *zap.Logger
	now   func() time.Time
}

type Option func(*Service)

// WithClock replaces time.Now for the expiring view.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(store Store, rec audit.Recorder, log *zap.Logger, opts ...Option) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Service{store: store, audit: rec, log: log, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Branches returns branch names in insertion order. On a backend failure it
// returns the default branch together with an ErrUnavailable error, so callers
// can still render something.
func (s *Service) Branches(ctx context.Context) ([]string, error) {
	branches, err := s.store.ListBranches(ctx)
	if err != nil {
		s.log.Warn("listing branches failed", zap.Error(err))
		return []string{DefaultBranch}, unavailable(err)
	}
	if len(branches) == 0 {
		return []string{DefaultBranch}, nil
	}

	names := make([]string, 0, len(branches))
	for _, b := range branches {
		names = append(names, b.Name)
	}
	return names, nil
}

// Snapshot returns the branch list, the resolved selection and the selected
// branch's products. A selection that is empty or no longer exists falls back
// to the first branch.
func (s *Service) Snapshot(ctx context.Context, selected string) (*Snapshot, error) {
	branches, berr := s.Branches(ctx)

	if !slices.Contains(branches, selected) {
		selected = branches[0]
	}

	products, perr := s.Products(ctx, selected)
	snap := &Snapshot{
		Branches: branches,
		Selected: selected,
		Products: products,
		Degraded: berr != nil || perr != nil,
	}
	return snap, errors.Join(berr, perr)
}

// refresh builds the snapshot returned by a mutation. A failed re-read is
// carried in Snapshot.Degraded, not as an error, because the mutation itself
// succeeded.
func (s *Service) refresh(ctx context.Context, selected string) *Snapshot {
	snap, _ := s.Snapshot(ctx, selected)
	return snap
}

func (s *Service) AddBranch(ctx context.Context, sess Session, name string) (*Snapshot, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyBranchName
	}

	branches, err := s.store.ListBranches(ctx)
	if err != nil {
		return nil, unavailable(err)
	}
	for _, b := range branches {
		if b.Name == name {
			return nil, ErrDuplicateBranch
		}
	}

	created, err := s.store.CreateBranch(ctx, name)
	if err != nil {
		return nil, storeErr(err)
	}

	metrics.BranchMutations.WithLabelValues(string(models.AuditActionCreate)).Inc()
	s.record(ctx, sess, audit.Entry{
		Branch:      name,
		EntityType:  audit.EntityBranch,
		EntityID:    created.ID,
		Action:      models.AuditActionCreate,
		Description: fmt.Sprintf("Filial %s criada", name),
		After:       created,
	})
	s.log.Info("branch created", zap.String("branch", name), zap.String("user", sess.Username))

	selected := sess.Branch
	if selected == "" {
		selected = name
	}
	return s.refresh(ctx, selected), nil
}

// RemoveBranch deletes a branch with all of its products. The last branch can
// never be removed. When the removed branch was the selected one, the returned
// snapshot selects the first remaining branch.
func (s *Service) RemoveBranch(ctx context.Context, sess Session, name string) (*Snapshot, error) {
	branches, err := s.store.ListBranches(ctx)
	if err != nil {
		return nil, unavailable(err)
	}

	idx := slices.IndexFunc(branches, func(b models.Branch) bool { return b.Name == name })
	if idx < 0 {
		return nil, ErrBranchNotFound
	}
	if len(branches) <= 1 {
		return nil, ErrLastBranch
	}

	removed, err := s.store.DeleteBranch(ctx, name)
	if err != nil {
		return nil, storeErr(err)
	}

	metrics.BranchMutations.WithLabelValues(string(models.AuditActionDelete)).Inc()
	metrics.ProductsRemoved.Add(float64(removed))
	s.record(ctx, sess, audit.Entry{
		Branch:      name,
		EntityType:  audit.EntityBranch,
		EntityID:    branches[idx].ID,
		Action:      models.AuditActionDelete,
		Description: fmt.Sprintf("Filial %s excluída com %d produto(s)", name, removed),
		Before:      branches[idx],
	})
	s.log.Info("branch deleted",
		zap.String("branch", name),
		zap.Int("products_removed", removed),
		zap.String("user", sess.Username))

	// Snapshot falls back to the first branch when the selection is gone.
	return s.refresh(ctx, sess.Branch), nil
}

// Products returns one branch's products sorted by expiry then quantity. A
// backend failure yields an empty list and an ErrUnavailable error.
func (s *Service) Products(ctx context.Context, branch string) ([]models.Product, error) {
	ps, err := s.store.ListProducts(ctx, branch)
	if err != nil {
		s.log.Warn("listing products failed", zap.String("branch", branch), zap.Error(err))
		return []models.Product{}, unavailable(err)
	}
	if ps == nil {
		ps = []models.Product{}
	}
	SortProducts(ps)
	return ps, nil
}

// AllProducts returns the products of every branch in storage order.
// Products whose branch cannot be resolved are labeled UnknownBranch.
func (s *Service) AllProducts(ctx context.Context) ([]models.Product, error) {
	ps, err := s.store.ListProducts(ctx, "")
	if err != nil {
		s.log.Warn("listing all products failed", zap.Error(err))
		return []models.Product{}, unavailable(err)
	}
	if ps == nil {
		ps = []models.Product{}
	}
	for i := range ps {
		if ps[i].BranchName == "" {
			ps[i].BranchName = UnknownBranch
		}
	}
	return ps, nil
}

// NewProduct holds the add-product form fields.
type NewProduct struct {
	Branch   string
	Barcode  string
	Name     string
	Brand    string
	Expiry   *time.Time
	Quantity int
	Notes    string
}

func (s *Service) AddProduct(ctx context.Context, sess Session, in NewProduct) (*Snapshot, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, ErrEmptyProductName
	}
	if in.Quantity < 0 {
		return nil, ErrNegativeQuantity
	}
	if err := s.requireBranch(ctx, in.Branch); err != nil {
		return nil, err
	}

	p := models.Product{
		BranchName: in.Branch,
		Barcode:    strings.TrimSpace(in.Barcode),
		Name:       in.Name,
		Brand:      strings.TrimSpace(in.Brand),
		Quantity:   in.Quantity,
		Notes:      strings.TrimSpace(in.Notes),
	}
	if in.Expiry != nil {
		d := spreadsheet.DateOnly(*in.Expiry)
		p.Expiry = &d
	}

	batch := []models.Product{p}
	if err := s.store.InsertProducts(ctx, in.Branch, batch); err != nil {
		return nil, storeErr(err)
	}

	metrics.ProductsAdded.WithLabelValues(metrics.SourceForm).Inc()
	s.record(ctx, sess, audit.Entry{
		Branch:      in.Branch,
		EntityType:  audit.EntityProduct,
		EntityID:    batch[0].ID,
		Action:      models.AuditActionCreate,
		Description: fmt.Sprintf("Produto %s adicionado (qtd %d)", p.Name, p.Quantity),
		After:       batch[0],
	})
	s.log.Info("product added",
		zap.String("branch", in.Branch),
		zap.String("name", p.Name),
		zap.Int("quantity", p.Quantity),
		zap.String("user", sess.Username))

	return s.refresh(ctx, in.Branch), nil
}

func (s *Service) requireBranch(ctx context.Context, name string) error {
	branches, err := s.store.ListBranches(ctx)
	if err != nil {
		return unavailable(err)
	}
	for _, b := range branches {
		if b.Name == name {
			return nil
		}
	}
	return ErrBranchNotFound
}

// RemoveProducts deletes the given products of the session's branch. Ids of
// other branches are ignored. An empty id list changes nothing.
func (s *Service) RemoveProducts(ctx context.Context, sess Session, ids []uint) (*Snapshot, error) {
	if len(ids) == 0 {
		return s.refresh(ctx, sess.Branch), nil
	}
	if err := s.requireBranch(ctx, sess.Branch); err != nil {
		return nil, err
	}

	// The rows are also kept for the audit trail.
	owned, err := s.store.ListProducts(ctx, sess.Branch)
	if err != nil {
		return nil, unavailable(err)
	}
	var before []models.Product
	var scoped []uint
	for _, p := range owned {
		if slices.Contains(ids, p.ID) {
			before = append(before, p)
			scoped = append(scoped, p.ID)
		}
	}
	if len(scoped) == 0 {
		return s.refresh(ctx, sess.Branch), nil
	}

	removed, err := s.store.DeleteProducts(ctx, scoped)
	if err != nil {
		return nil, storeErr(err)
	}

	metrics.ProductsRemoved.Add(float64(removed))
	for _, p := range before {
		s.record(ctx, sess, audit.Entry{
			Branch:      p.BranchName,
			EntityType:  audit.EntityProduct,
			EntityID:    p.ID,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Produto %s removido", p.Name),
			Before:      p,
		})
	}
	s.log.Info("products removed",
		zap.Int("requested", len(ids)),
		zap.Int("removed", removed),
		zap.String("user", sess.Username))

	return s.refresh(ctx, sess.Branch), nil
}

func (s *Service) Search(ctx context.Context, branch, term string) ([]models.Product, error) {
	ps, err := s.Products(ctx, branch)
	return SearchProducts(ps, term), err
}

// Expiring lists the branch's products expiring within days from today.
// Negative windows are treated as zero.
func (s *Service) Expiring(ctx context.Context, branch string, days int) ([]models.Product, error) {
	if days < 0 {
		days = 0
	}
	ps, err := s.Products(ctx, branch)
	return ExpiringProducts(ps, days, s.now()), err
}

func (s *Service) Summary(ctx context.Context, branch string) (Summary, error) {
	ps, err := s.Products(ctx, branch)
	return SummarizeProducts(ps), err
}

// Export renders the branch's products as an xlsx workbook. Unlike the read
// views it fails on a backend error, so a download never silently comes back
// empty.
func (s *Service) Export(ctx context.Context, branch string) ([]byte, error) {
	if err := s.requireBranch(ctx, branch); err != nil {
		return nil, err
	}
	ps, err := s.Products(ctx, branch)
	if err != nil {
		return nil, err
	}
	return ExportWorkbook(ps)
}

type ImportResult struct {
	Imported int       `json:"imported"`
	Rejected int       `json:"rejected"`
	Snapshot *Snapshot `json:"snapshot"`
}

// Import appends every valid row of the uploaded workbook's first sheet to
// branch. Invalid rows are dropped and counted; the import fails only when the
// file is unreadable, lacks a Name or Quantity column, or has no valid rows.
func (s *Service) Import(ctx context.Context, sess Session, branch string, r io.Reader) (*ImportResult, error) {
	if err := s.requireBranch(ctx, branch); err != nil {
		return nil, err
	}

	table, err := spreadsheet.ReadFirstSheet(r)
	if err != nil {
		s.log.Info("import file unreadable", zap.String("branch", branch), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}

	products, rejected, err := MapImportTable(table, branch)
	if err != nil {
		return nil, err
	}
	metrics.ImportRowsRejected.Add(float64(rejected))
	if len(products) == 0 {
		return nil, ErrNoValidRows
	}

	if err := s.store.InsertProducts(ctx, branch, products); err != nil {
		return nil, storeErr(err)
	}

	metrics.ProductsAdded.WithLabelValues(metrics.SourceImport).Add(float64(len(products)))
	s.record(ctx, sess, audit.Entry{
		Branch:      branch,
		EntityType:  audit.EntityProduct,
		Action:      models.AuditActionImport,
		Description: fmt.Sprintf("%d produto(s) importado(s), %d linha(s) ignorada(s)", len(products), rejected),
		After:       products,
	})
	s.log.Info("products imported",
		zap.String("branch", branch),
		zap.Int("imported", len(products)),
		zap.Int("rejected", rejected),
		zap.String("user", sess.Username))

	return &ImportResult{
		Imported: len(products),
		Rejected: rejected,
		Snapshot: s.refresh(ctx, branch),
	}, nil
}

// record never fails the mutation it describes.
func (s *Service) record(ctx context.Context, sess Session, e audit.Entry) {
	if s.audit == nil {
		return
	}
	e.UserID = sess.UserID
	e.UserName = sess.Username
	if err := s.audit.Record(ctx, e); err != nil {
		s.log.Warn("audit record failed",
			zap.String("entity_type", e.EntityType),
			zap.String("action", string(e.Action)),
			zap.Error(err))
	}
}
