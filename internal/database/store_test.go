package database

import (
	"context"
	"fmt"
	"testing"
	"time"

	"estoque-backend/internal/inventory"
	"estoque-backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var ctx = context.Background()

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", t.Name())
	db, err := open(sqlite.Open(dsn), gormlogger.Silent)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, Migrate(db, zap.NewNop()))
	return db
}

func TestMigrateSeedsDefaultBranchOnce(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, Migrate(db, zap.NewNop()))

	branches, err := NewStore(db).ListBranches(ctx)
	require.NoError(t, err)
	require.Len(t, branches, 1)
	assert.Equal(t, inventory.DefaultBranch, branches[0].Name)
}

func TestCreateBranchDuplicate(t *testing.T) {
	s := NewStore(newTestDB(t))

	b, err := s.CreateBranch(ctx, "Centro")
	require.NoError(t, err)
	assert.NotZero(t, b.ID)

	_, err = s.CreateBranch(ctx, "Centro")
	assert.ErrorIs(t, err, inventory.ErrDuplicateBranch)
}

func TestInsertAndListProducts(t *testing.T) {
	s := NewStore(newTestDB(t))
	_, err := s.CreateBranch(ctx, "Centro")
	require.NoError(t, err)

	expiry := time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC)
	batch := []models.Product{
		{Barcode: "789", Name: "Whey", Brand: "Growth", Expiry: &expiry, Quantity: 2},
		{Name: "Creatina", Quantity: 4, Notes: "caixa fechada"},
	}
	require.NoError(t, s.InsertProducts(ctx, "Centro", batch))
	assert.NotZero(t, batch[0].ID)
	assert.NotZero(t, batch[1].ID)

	require.NoError(t, s.InsertProducts(ctx, inventory.DefaultBranch, []models.Product{{Name: "BCAA", Quantity: 1}}))

	ps, err := s.ListProducts(ctx, "Centro")
	require.NoError(t, err)
	require.Len(t, ps, 2)
	assert.Equal(t, "Centro", ps[0].BranchName)
	assert.Equal(t, "Whey", ps[0].Name)
	require.NotNil(t, ps[0].Expiry)
	assert.Equal(t, "2025-08-15", ps[0].Expiry.Format("2006-01-02"))
	assert.Nil(t, ps[1].Expiry)
	assert.Equal(t, "caixa fechada", ps[1].Notes)

	all, err := s.ListProducts(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	ps, err = s.ListProducts(ctx, "Norte")
	require.NoError(t, err)
	assert.Empty(t, ps)

	err = s.InsertProducts(ctx, "Norte", []models.Product{{Name: "X", Quantity: 1}})
	assert.ErrorIs(t, err, inventory.ErrBranchNotFound)
}

func TestDeleteBranchCascades(t *testing.T) {
	s := NewStore(newTestDB(t))
	_, err := s.CreateBranch(ctx, "Centro")
	require.NoError(t, err)
	require.NoError(t, s.InsertProducts(ctx, "Centro", []models.Product{{Name: "Whey", Quantity: 1}, {Name: "BCAA", Quantity: 2}}))
	require.NoError(t, s.InsertProducts(ctx, inventory.DefaultBranch, []models.Product{{Name: "Creatina", Quantity: 3}}))

	removed, err := s.DeleteBranch(ctx, "Centro")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	all, err := s.ListProducts(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Creatina", all[0].Name)

	_, err = s.DeleteBranch(ctx, inventory.DefaultBranch)
	assert.ErrorIs(t, err, inventory.ErrLastBranch)

	branches, err := s.ListBranches(ctx)
	require.NoError(t, err)
	assert.Len(t, branches, 1)

	_, err = s.DeleteBranch(ctx, "Centro")
	assert.ErrorIs(t, err, inventory.ErrBranchNotFound)
}

func TestDeleteProducts(t *testing.T) {
	s := NewStore(newTestDB(t))
	batch := []models.Product{{Name: "A", Quantity: 1}, {Name: "B", Quantity: 1}}
	require.NoError(t, s.InsertProducts(ctx, inventory.DefaultBranch, batch))

	n, err := s.DeleteProducts(ctx, []uint{batch[0].ID, 9999})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = s.DeleteProducts(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, n)

	ps, err := s.ListProducts(ctx, inventory.DefaultBranch)
	require.NoError(t, err)
	require.Len(t, ps, 1)
	assert.Equal(t, "B", ps[0].Name)
}

func TestServiceOverDatabase(t *testing.T) {
	db := newTestDB(t)
	svc := inventory.NewService(NewStore(db), nil, nil)
	sess := inventory.Session{Username: "admin", Branch: inventory.DefaultBranch}

	_, err := svc.AddBranch(ctx, sess, "Centro")
	require.NoError(t, err)
	_, err = svc.AddProduct(ctx, sess, inventory.NewProduct{Branch: "Centro", Name: "Whey", Quantity: 2})
	require.NoError(t, err)

	sess.Branch = "Centro"
	snap, err := svc.RemoveBranch(ctx, sess, "Centro")
	require.NoError(t, err)
	assert.Equal(t, inventory.DefaultBranch, snap.Selected)
	assert.Equal(t, []string{inventory.DefaultBranch}, snap.Branches)

	var count int64
	require.NoError(t, db.Model(&models.Product{}).Count(&count).Error)
	assert.Zero(t, count)
}
