package auth

import (
	"context"
	"errors"

	"estoque-backend/internal/models"

	"gorm.io/gorm"
)

var ErrUserNotFound = errors.New("usuário não encontrado")

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *UserRepository) UpdatePasswordHash(ctx context.Context, id uint, hash string) error {
	return r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("senha", hash).Error
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Count(&n).Error
	return n, err
}

// EnsureDefaultAdmin creates an admin account when the user table is empty.
// It reports whether a user was created.
func (r *UserRepository) EnsureDefaultAdmin(ctx context.Context, username, password string) (bool, error) {
	if password == "" {
		return false, nil
	}
	n, err := r.Count(ctx)
	if err != nil || n > 0 {
		return false, err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return false, err
	}
	user := &models.User{
		Username:     username,
		PasswordHash: hash,
		Level:        models.LevelAdmin,
	}
	if err := r.Create(ctx, user); err != nil {
		return false, err
	}
	return true, nil
}
