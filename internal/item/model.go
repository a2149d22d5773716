// File: internal/item/model.go
package item

import (
	"time"

	"github.com/google/uuid"
)

// ItemType distinguishes the two promotional item kinds.
type ItemType string

const (
	TypeProduct ItemType = "product"
	TypeCoupon  ItemType = "coupon"
)

// AspectRatio constrains how the item card renders.
const (
	AspectSquare   = "1:1"
	AspectPortrait = "9:16"
)

// PromotionalItem is one entry in a creator's ordered item list. Position is
// dense per creator: a list of n items always occupies positions 0..n-1
// except transiently after a delete, until compaction runs.
type PromotionalItem struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID      string    `gorm:"column:user_id;type:varchar(128);not null;index:idx_items_user_position,priority:1"`
	Title       string    `gorm:"type:varchar(150);not null"`
	Description *string   `gorm:"type:text"`
	Image       *string   `gorm:"type:text"`
	URL         string    `gorm:"column:url;type:text;not null"`
	Type        ItemType  `gorm:"type:varchar(16);not null;default:'product'"`
	CouponCode  *string   `gorm:"column:coupon_code;type:varchar(64)"`
	Discount    *string   `gorm:"type:varchar(64)"`
	Category    *string   `gorm:"type:varchar(64)"`
	AspectRatio string    `gorm:"column:aspect_ratio;type:varchar(8);not null;default:'1:1'"`
	Position    int       `gorm:"not null;index:idx_items_user_position,priority:2"`
	CreatedAt   time.Time `gorm:"column:created_at;not null;default:current_timestamp"`
	UpdatedAt   time.Time `gorm:"column:updated_at;not null;default:current_timestamp"`
}

// TableName specifies the table name for the PromotionalItem model.
func (PromotionalItem) TableName() string {
	return "promotional_items"
}

// --- DTOs ---

// CreateItemRequest defines the payload for creating a promotional item.
type CreateItemRequest struct {
	Title       string  `json:"title" binding:"required,max=150"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	Image       *string `json:"image"`
	URL         string  `json:"url" binding:"required,url"`
	Type        string  `json:"type" binding:"required,oneof=product coupon"`
	CouponCode  *string `json:"coupon_code" binding:"omitempty,max=64"`
	Discount    *string `json:"discount" binding:"omitempty,max=64"`
	Category    *string `json:"category" binding:"omitempty,max=64"`
	AspectRatio *string `json:"aspect_ratio" binding:"omitempty,oneof=1:1 9:16"`
}

// UpdateItemRequest defines a partial item update. Position is deliberately
// absent; ordering changes go through the reorder endpoints.
type UpdateItemRequest struct {
	Title       *string `json:"title" binding:"omitempty,max=150"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	Image       *string `json:"image"`
	URL         *string `json:"url" binding:"omitempty,url"`
	CouponCode  *string `json:"coupon_code" binding:"omitempty,max=64"`
	Discount    *string `json:"discount" binding:"omitempty,max=64"`
	Category    *string `json:"category" binding:"omitempty,max=64"`
	AspectRatio *string `json:"aspect_ratio" binding:"omitempty,oneof=1:1 9:16"`
}

// ReorderRequest carries the full desired ordering, first to last.
type ReorderRequest struct {
	ItemIDs []uuid.UUID `json:"item_ids" binding:"required,min=1"`
}

// MoveRequest names the item the moved item should land in front of.
type MoveRequest struct {
	TargetID uuid.UUID `json:"target_id" binding:"required"`
}

// ItemResponse is the API shape of a promotional item. The list order is the
// response order; position is not exposed.
type ItemResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	Image       *string   `json:"image,omitempty"`
	URL         string    `json:"url"`
	Type        ItemType  `json:"type"`
	CouponCode  *string   `json:"coupon_code,omitempty"`
	Discount    *string   `json:"discount,omitempty"`
	Category    *string   `json:"category,omitempty"`
	AspectRatio string    `json:"aspect_ratio"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToItemResponse converts a model to its API shape.
func ToItemResponse(it *PromotionalItem) ItemResponse {
	return ItemResponse{
		ID:          it.ID,
		Title:       it.Title,
		Description: it.Description,
		Image:       it.Image,
		URL:         it.URL,
		Type:        it.Type,
		CouponCode:  it.CouponCode,
		Discount:    it.Discount,
		Category:    it.Category,
		AspectRatio: it.AspectRatio,
		CreatedAt:   it.CreatedAt,
		UpdatedAt:   it.UpdatedAt,
	}
}

// ToItemResponses converts an ordered slice of models.
func ToItemResponses(items []PromotionalItem) []ItemResponse {
	out := make([]ItemResponse, 0, len(items))
	for i := range items {
		out = append(out, ToItemResponse(&items[i]))
	}
	return out
}
