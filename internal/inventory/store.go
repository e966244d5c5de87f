package inventory

import (
	"context"

	"estoque-backend/internal/models"
)

// Store persists branches and products. Implementations: workbook (xlsx file)
// and database (gorm). Branches are addressed by name because the workbook
// layout has no branch ids.
type Store interface {
	// ListBranches returns branches in insertion order.
	ListBranches(ctx context.Context) ([]models.Branch, error)
	CreateBranch(ctx context.Context, name string) (*models.Branch, error)
	// DeleteBranch removes the branch and all of its products and returns the
	// number of products removed with it.
	DeleteBranch(ctx context.Context, name string) (int, error)

	// ListProducts returns the products of one branch, or of every branch when
	// branch is empty. BranchName is set on every product it can resolve.
	ListProducts(ctx context.Context, branch string) ([]models.Product, error)
	// InsertProducts appends products to branch and sets their IDs.
	InsertProducts(ctx context.Context, branch string, products []models.Product) error
	DeleteProducts(ctx context.Context, ids []uint) (int, error)
}
