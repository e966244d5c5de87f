package database

import (
	"context"
	"errors"

	"estoque-backend/internal/inventory"
	"estoque-backend/internal/models"

	"gorm.io/gorm"
)

// Store is the database implementation of inventory.Store.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

var _ inventory.Store = (*Store)(nil)

func (s *Store) ListBranches(ctx context.Context) ([]models.Branch, error) {
	var branches []models.Branch
	err := s.db.WithContext(ctx).Order("id").Find(&branches).Error
	return branches, err
}

func (s *Store) CreateBranch(ctx context.Context, name string) (*models.Branch, error) {
	branch := &models.Branch{Name: name}
	err := s.db.WithContext(ctx).Create(branch).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, inventory.ErrDuplicateBranch
	}
	if err != nil {
		return nil, err
	}
	return branch, nil
}

// DeleteBranch removes the branch and its products in one transaction, so a
// failure never leaves orphaned products behind.
func (s *Store) DeleteBranch(ctx context.Context, name string) (int, error) {
	var removed int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var branch models.Branch
		err := tx.Where("nome = ?", name).First(&branch).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return inventory.ErrBranchNotFound
		}
		if err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.Branch{}).Count(&count).Error; err != nil {
			return err
		}
		if count <= 1 {
			return inventory.ErrLastBranch
		}

		res := tx.Where("filial_id = ?", branch.ID).Delete(&models.Product{})
		if res.Error != nil {
			return res.Error
		}
		removed = res.RowsAffected

		return tx.Delete(&branch).Error
	})
	if err != nil {
		return 0, err
	}
	return int(removed), nil
}

func (s *Store) findBranch(ctx context.Context, name string) (*models.Branch, error) {
	var branch models.Branch
	err := s.db.WithContext(ctx).Where("nome = ?", name).First(&branch).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, inventory.ErrBranchNotFound
	}
	if err != nil {
		return nil, err
	}
	return &branch, nil
}

// ListProducts returns products in insertion order. Products whose filial_id
// no longer resolves keep an empty BranchName.
func (s *Store) ListProducts(ctx context.Context, branch string) ([]models.Product, error) {
	names := make(map[uint]string)
	q := s.db.WithContext(ctx).Order("id")

	if branch != "" {
		b, err := s.findBranch(ctx, branch)
		if errors.Is(err, inventory.ErrBranchNotFound) {
			return []models.Product{}, nil
		}
		if err != nil {
			return nil, err
		}
		names[b.ID] = b.Name
		q = q.Where("filial_id = ?", b.ID)
	} else {
		branches, err := s.ListBranches(ctx)
		if err != nil {
			return nil, err
		}
		for _, b := range branches {
			names[b.ID] = b.Name
		}
	}

	var products []models.Product
	if err := q.Find(&products).Error; err != nil {
		return nil, err
	}
	for i := range products {
		products[i].BranchName = names[products[i].BranchID]
	}
	return products, nil
}

func (s *Store) InsertProducts(ctx context.Context, branch string, products []models.Product) error {
	if len(products) == 0 {
		return nil
	}
	b, err := s.findBranch(ctx, branch)
	if err != nil {
		return err
	}

	for i := range products {
		products[i].ID = 0
		products[i].BranchID = b.ID
		products[i].BranchName = b.Name
	}
	return s.db.WithContext(ctx).Create(&products).Error
}

func (s *Store) DeleteProducts(ctx context.Context, ids []uint) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := s.db.WithContext(ctx).Where("id IN ?", ids).Delete(&models.Product{})
	return int(res.RowsAffected), res.Error
}
