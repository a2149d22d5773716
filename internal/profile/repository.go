// File: internal/profile/repository.go
package profile

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"linkfolio_backend/internal/common"
)

// Repository defines persistence operations for profiles.
type Repository interface {
	Create(ctx context.Context, p *Profile) error
	FindByID(ctx context.Context, id string) (*Profile, error)
	FindByUsername(ctx context.Context, username string) (*Profile, error)
	// UpdateFields applies a partial column update keyed by snake_case
	// column names. All profile mutation is partial, so there is no
	// whole-row update.
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM-based profile repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, p *Profile) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		if isDuplicateKeyError(err) {
			return common.ErrConflict.WithDetails("profile already exists or username is taken")
		}
		return err
	}
	return nil
}

func (r *gormRepository) FindByID(ctx context.Context, id string) (*Profile, error) {
	var p Profile
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("profile not found")
		}
		return nil, err
	}
	return &p, nil
}

func (r *gormRepository) FindByUsername(ctx context.Context, username string) (*Profile, error) {
	var p Profile
	err := r.db.WithContext(ctx).First(&p, "username = ?", username).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("profile not found")
		}
		return nil, err
	}
	return &p, nil
}

func (r *gormRepository) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&Profile{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails("profile not found")
	}
	return nil
}

// isDuplicateKeyError detects unique-constraint violations across the
// translated GORM error and the raw driver messages (postgres and sqlite).
func isDuplicateKeyError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "unique constraint")
}
