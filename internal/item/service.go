// File: internal/item/service.go
package item

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"linkfolio_backend/internal/common"
)

// Service defines business logic operations for promotional items.
type Service interface {
	Create(ctx context.Context, userID string, req CreateItemRequest) (*PromotionalItem, error)
	List(ctx context.Context, userID string) ([]PromotionalItem, error)
	Update(ctx context.Context, userID string, id uuid.UUID, req UpdateItemRequest) (*PromotionalItem, error)
	Delete(ctx context.Context, userID string, id uuid.UUID) error
	// Reorder persists a full new ordering for the creator's list. The id set
	// must match the stored set exactly.
	Reorder(ctx context.Context, userID string, orderedIDs []uuid.UUID) error
	// CompactPositions renumbers every creator whose positions have gaps.
	CompactPositions(ctx context.Context) (int, error)
}

// ServiceImplementation implements the Service interface.
type ServiceImplementation struct {
	repo   Repository
	logger *zap.Logger
}

// NewService creates a new item service.
func NewService(repo Repository, logger *zap.Logger) *ServiceImplementation {
	return &ServiceImplementation{repo: repo, logger: logger}
}

// Create validates the request and appends the item at the end of the
// creator's list. Nothing is persisted when validation fails.
func (s *ServiceImplementation) Create(ctx context.Context, userID string, req CreateItemRequest) (*PromotionalItem, error) {
	if err := validateCreate(&req); err != nil {
		return nil, common.ErrBadRequest.WithDetails(err.Error())
	}

	count, err := s.repo.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	it := &PromotionalItem{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Image:       req.Image,
		URL:         req.URL,
		Type:        ItemType(req.Type),
		Category:    req.Category,
		AspectRatio: AspectSquare,
		Position:    int(count),
	}
	if req.AspectRatio != nil {
		it.AspectRatio = *req.AspectRatio
	}
	if it.Type == TypeCoupon {
		it.CouponCode = req.CouponCode
		it.Discount = req.Discount
	}

	if err := s.repo.Create(ctx, it); err != nil {
		s.logger.Error("Item creation failed", zap.String("userID", userID), zap.Error(err))
		return nil, err
	}
	s.logger.Info("Item created",
		zap.String("userID", userID), zap.String("itemID", it.ID.String()), zap.Int("position", it.Position))
	return it, nil
}

// List returns the creator's items in display order.
func (s *ServiceImplementation) List(ctx context.Context, userID string) ([]PromotionalItem, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Update applies a partial edit. Position is never touched here; ordering
// changes go through Reorder.
func (s *ServiceImplementation) Update(ctx context.Context, userID string, id uuid.UUID, req UpdateItemRequest) (*PromotionalItem, error) {
	it, err := s.ownedItem(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, common.ErrBadRequest.WithDetails("title must not be empty")
		}
		it.Title = title
	}
	if req.Description != nil {
		it.Description = req.Description
	}
	if req.Image != nil {
		it.Image = req.Image
	}
	if req.URL != nil {
		url := strings.TrimSpace(*req.URL)
		if url == "" {
			return nil, common.ErrBadRequest.WithDetails("url must not be empty")
		}
		it.URL = url
	}
	if req.Category != nil {
		it.Category = req.Category
	}
	if req.AspectRatio != nil {
		it.AspectRatio = *req.AspectRatio
	}
	if it.Type == TypeCoupon {
		if req.CouponCode != nil {
			it.CouponCode = req.CouponCode
		}
		if req.Discount != nil {
			it.Discount = req.Discount
		}
	}

	if err := s.repo.Update(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

// Delete removes an item. Remaining positions are left as-is; the gap is
// tolerated by readers and closed by the compaction job.
func (s *ServiceImplementation) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return err
	}
	s.logger.Info("Item deleted", zap.String("userID", userID), zap.String("itemID", id.String()))
	return nil
}

// Reorder persists orderedIDs as the new display order. Writes are issued
// one item at a time in ascending target position; items already at their
// target are skipped. On a mid-sequence failure the durable prefix is
// reported via PersistenceError and the remaining writes are not attempted.
func (s *ServiceImplementation) Reorder(ctx context.Context, userID string, orderedIDs []uuid.UUID) error {
	current, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := sameIDSet(current, orderedIDs); err != nil {
		return common.ErrBadRequest.WithDetails(err.Error())
	}

	positions := make(map[uuid.UUID]int, len(current))
	for i := range current {
		positions[current[i].ID] = current[i].Position
	}

	attempted := 0
	for pos, id := range orderedIDs {
		if positions[id] != pos {
			attempted++
		}
	}

	succeeded := 0
	for pos, id := range orderedIDs {
		if positions[id] == pos {
			continue
		}
		if err := s.repo.UpdatePosition(ctx, id, pos); err != nil {
			s.logger.Error("Reorder aborted mid-sequence",
				zap.String("userID", userID),
				zap.String("itemID", id.String()),
				zap.Int("succeeded", succeeded),
				zap.Int("attempted", attempted),
				zap.Error(err))
			return &PersistenceError{
				Op:        "reorder",
				Succeeded: succeeded,
				Attempted: attempted,
				FailedID:  id,
				Err:       err,
			}
		}
		succeeded++
	}

	s.logger.Info("Items reordered",
		zap.String("userID", userID), zap.Int("updates", succeeded), zap.Int("items", len(orderedIDs)))
	return nil
}

// CompactPositions renumbers creators whose lists have position gaps,
// preserving relative order. Returns the number of creators touched.
func (s *ServiceImplementation) CompactPositions(ctx context.Context) (int, error) {
	userIDs, err := s.repo.UserIDsWithPositionGaps(ctx)
	if err != nil {
		return 0, err
	}

	compacted := 0
	for _, userID := range userIDs {
		items, err := s.repo.ListByUser(ctx, userID)
		if err != nil {
			s.logger.Error("Compaction: listing failed", zap.String("userID", userID), zap.Error(err))
			continue
		}
		ok := true
		for pos := range items {
			if items[pos].Position == pos {
				continue
			}
			if err := s.repo.UpdatePosition(ctx, items[pos].ID, pos); err != nil {
				s.logger.Error("Compaction: position write failed",
					zap.String("userID", userID), zap.String("itemID", items[pos].ID.String()), zap.Error(err))
				ok = false
				break
			}
		}
		if ok {
			compacted++
		}
	}
	return compacted, nil
}

func (s *ServiceImplementation) ownedItem(ctx context.Context, userID string, id uuid.UUID) (*PromotionalItem, error) {
	it, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if it.UserID != userID {
		// Do not leak existence of other creators' items.
		return nil, common.ErrNotFound.WithDetails("item not found")
	}
	return it, nil
}

func validateCreate(req *CreateItemRequest) error {
	if strings.TrimSpace(req.Title) == "" {
		return &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if strings.TrimSpace(req.URL) == "" {
		return &ValidationError{Field: "url", Reason: "must not be empty"}
	}
	if ItemType(req.Type) == TypeCoupon {
		if req.CouponCode == nil || strings.TrimSpace(*req.CouponCode) == "" {
			return &ValidationError{Field: "coupon_code", Reason: "required for coupon items"}
		}
	}
	return nil
}

// sameIDSet verifies orderedIDs is a permutation of the stored items.
func sameIDSet(current []PromotionalItem, orderedIDs []uuid.UUID) error {
	if len(current) != len(orderedIDs) {
		return &ValidationError{Field: "item_ids", Reason: "must contain every item exactly once"}
	}
	have := make([]string, 0, len(current))
	want := make([]string, 0, len(orderedIDs))
	for i := range current {
		have = append(have, current[i].ID.String())
	}
	seen := make(map[uuid.UUID]bool, len(orderedIDs))
	for _, id := range orderedIDs {
		if seen[id] {
			return &ValidationError{Field: "item_ids", Reason: "contains duplicate ids"}
		}
		seen[id] = true
		want = append(want, id.String())
	}
	sort.Strings(have)
	sort.Strings(want)
	for i := range have {
		if have[i] != want[i] {
			return &ValidationError{Field: "item_ids", Reason: "does not match the stored item set"}
		}
	}
	return nil
}
