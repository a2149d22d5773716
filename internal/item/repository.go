// File: internal/item/repository.go
package item

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"linkfolio_backend/internal/common"
)

// Repository defines persistence operations for promotional items.
type Repository interface {
	Create(ctx context.Context, it *PromotionalItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*PromotionalItem, error)
	ListByUser(ctx context.Context, userID string) ([]PromotionalItem, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
	Update(ctx context.Context, it *PromotionalItem) error
	Delete(ctx context.Context, id uuid.UUID, userID string) error
	// UpdatePosition writes one item's position. Reorder applies these
	// sequentially in ascending target order.
	UpdatePosition(ctx context.Context, id uuid.UUID, position int) error
	// UserIDsWithPositionGaps returns creators whose item positions are no
	// longer the dense set 0..count-1: shifted off zero, gapped at the top,
	// or carrying duplicates.
	UserIDsWithPositionGaps(ctx context.Context) ([]string, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM-based item repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, it *PromotionalItem) error {
	return r.db.WithContext(ctx).Create(it).Error
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*PromotionalItem, error) {
	var it PromotionalItem
	err := r.db.WithContext(ctx).First(&it, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("item not found")
		}
		return nil, err
	}
	return &it, nil
}

func (r *gormRepository) ListByUser(ctx context.Context, userID string) ([]PromotionalItem, error) {
	var items []PromotionalItem
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("position ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *gormRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&PromotionalItem{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *gormRepository) Update(ctx context.Context, it *PromotionalItem) error {
	result := r.db.WithContext(ctx).Model(&PromotionalItem{}).Where("id = ?", it.ID).Updates(it)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails("item not found")
	}
	return nil
}

func (r *gormRepository) Delete(ctx context.Context, id uuid.UUID, userID string) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&PromotionalItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails("item not found")
	}
	return nil
}

func (r *gormRepository) UpdatePosition(ctx context.Context, id uuid.UUID, position int) error {
	result := r.db.WithContext(ctx).
		Model(&PromotionalItem{}).
		Where("id = ?", id).
		Update("position", position)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails("item not found")
	}
	return nil
}

func (r *gormRepository) UserIDsWithPositionGaps(ctx context.Context) ([]string, error) {
	var userIDs []string
	err := r.db.WithContext(ctx).
		Model(&PromotionalItem{}).
		Select("user_id").
		Group("user_id").
		// The distinct-count disjunct catches duplicate positions with intact
		// endpoints, e.g. {0,2,2,3} after a reorder died mid-sequence.
		Having("MAX(position) <> COUNT(*) - 1 OR MIN(position) <> 0 OR COUNT(DISTINCT position) <> COUNT(*)").
		Pluck("user_id", &userIDs).Error
	if err != nil {
		return nil, err
	}
	return userIDs, nil
}
