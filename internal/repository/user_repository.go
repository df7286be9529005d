package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"dispatch/internal/model"
	"dispatch/internal/query"
)

// UserRepository defines user persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context, f query.Filters, ord query.Ordering, p query.Page) ([]model.User, error)
	Count(ctx context.Context, f query.Filters) (int64, error)
	ListActiveByRole(ctx context.Context, role model.Role) ([]model.User, error)
	CountTotal(ctx context.Context) (int64, error)
	CountActive(ctx context.Context) (int64, error)
	CountActiveByRole(ctx context.Context) (map[model.Role]int64, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context, f query.Filters, ord query.Ordering, p query.Page) ([]model.User, error) {
	var users []model.User
	tx := r.db.WithContext(ctx).Model(&model.User{})
	tx = f.Apply(tx)
	tx = ord.Apply(tx)
	tx = p.Apply(tx)
	if err := tx.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) Count(ctx context.Context, f query.Filters) (int64, error) {
	var n int64
	tx := r.db.WithContext(ctx).Model(&model.User{})
	if err := f.Apply(tx).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *userRepository) ListActiveByRole(ctx context.Context, role model.Role) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).
		Where("role = ? AND active = ?", role, true).
		Order("created_at DESC").Order("id ASC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) CountTotal(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.User{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *userRepository) CountActive(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("active = ?", true).Count(&n).Error
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (r *userRepository) CountActiveByRole(ctx context.Context) (map[model.Role]int64, error) {
	var rows []struct {
		Role  model.Role
		Count int64
	}
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Select("role, COUNT(*) AS count").
		Where("active = ?", true).
		Group("role").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[model.Role]int64, len(rows))
	for _, row := range rows {
		counts[row.Role] = row.Count
	}
	return counts, nil
}
