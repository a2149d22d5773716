package item

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"linkfolio_backend/internal/common"
)

// MockItemRepository is a testify mock of the Repository interface.
type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) Create(ctx context.Context, it *PromotionalItem) error {
	args := m.Called(ctx, it)
	return args.Error(0)
}

func (m *MockItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*PromotionalItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*PromotionalItem), args.Error(1)
}

func (m *MockItemRepository) ListByUser(ctx context.Context, userID string) ([]PromotionalItem, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]PromotionalItem), args.Error(1)
}

func (m *MockItemRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockItemRepository) Update(ctx context.Context, it *PromotionalItem) error {
	args := m.Called(ctx, it)
	return args.Error(0)
}

func (m *MockItemRepository) Delete(ctx context.Context, id uuid.UUID, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *MockItemRepository) UpdatePosition(ctx context.Context, id uuid.UUID, position int) error {
	args := m.Called(ctx, id, position)
	return args.Error(0)
}

func (m *MockItemRepository) UserIDsWithPositionGaps(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func newTestService(repo Repository) *ServiceImplementation {
	logger := zap.NewNop()
	return NewService(repo, logger)
}

func itemsWithPositions(userID string, n int) []PromotionalItem {
	items := make([]PromotionalItem, n)
	for i := range items {
		items[i] = PromotionalItem{
			ID:       uuid.New(),
			UserID:   userID,
			Title:    "Item",
			URL:      "https://example.com",
			Type:     TypeProduct,
			Position: i,
		}
	}
	return items
}

func idsOf(items []PromotionalItem) []uuid.UUID {
	ids := make([]uuid.UUID, len(items))
	for i := range items {
		ids[i] = items[i].ID
	}
	return ids
}

func TestItemService_Create_AppendsAtEnd(t *testing.T) {
	mockRepo := new(MockItemRepository)
	svc := newTestService(mockRepo)

	mockRepo.On("CountByUser", mock.Anything, "user-1").Return(int64(3), nil)
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*item.PromotionalItem")).Return(nil)

	it, err := svc.Create(context.Background(), "user-1", CreateItemRequest{
		Title: "My Shoes",
		URL:   "https://shop.example/shoes",
		Type:  "product",
	})

	require.NoError(t, err)
	assert.Equal(t, 3, it.Position, "new item goes after the current last position")
	assert.NotEqual(t, uuid.Nil, it.ID, "id is assigned before the insert")
	assert.Equal(t, AspectSquare, it.AspectRatio)
	mockRepo.AssertExpectations(t)
}

func TestItemService_Create_ValidationFailsBeforePersistence(t *testing.T) {
	mockRepo := new(MockItemRepository)
	svc := newTestService(mockRepo)

	tests := []struct {
		name string
		req  CreateItemRequest
	}{
		{"empty title", CreateItemRequest{Title: "   ", URL: "https://x.example", Type: "product"}},
		{"empty url", CreateItemRequest{Title: "Ok", URL: "  ", Type: "product"}},
		{"coupon without code", CreateItemRequest{Title: "Deal", URL: "https://x.example", Type: "coupon"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), "user-1", tt.req)
			require.Error(t, err)
			apiErr, ok := common.IsAPIError(err)
			require.True(t, ok)
			assert.Equal(t, common.ErrBadRequest.Code, apiErr.Code)
		})
	}

	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	mockRepo.AssertNotCalled(t, "CountByUser", mock.Anything, mock.Anything)
}

func TestItemService_Create_ProductIgnoresCouponFields(t *testing.T) {
	mockRepo := new(MockItemRepository)
	svc := newTestService(mockRepo)

	mockRepo.On("CountByUser", mock.Anything, "user-1").Return(int64(0), nil)
	mockRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	code := "SAVE20"
	discount := "20%"
	it, err := svc.Create(context.Background(), "user-1", CreateItemRequest{
		Title:      "Shoes",
		URL:        "https://shop.example/shoes",
		Type:       "product",
		CouponCode: &code,
		Discount:   &discount,
	})

	require.NoError(t, err)
	assert.Nil(t, it.CouponCode)
	assert.Nil(t, it.Discount)
}

func TestItemService_Update_NeverTouchesPosition(t *testing.T) {
	mockRepo := new(MockItemRepository)
	svc := newTestService(mockRepo)

	stored := &PromotionalItem{
		ID:       uuid.New(),
		UserID:   "user-1",
		Title:    "Old",
		URL:      "https://x.example",
		Type:     TypeProduct,
		Position: 4,
	}
	mockRepo.On("FindByID", mock.Anything, stored.ID).Return(stored, nil)
	mockRepo.On("Update", mock.Anything, mock.MatchedBy(func(it *PromotionalItem) bool {
		return it.Position == 4
	})).Return(nil)

	title := "New"
	it, err := svc.Update(context.Background(), "user-1", stored.ID, UpdateItemRequest{Title: &title})

	require.NoError(t, err)
	assert.Equal(t, "New", it.Title)
	assert.Equal(t, 4, it.Position)
	mockRepo.AssertExpectations(t)
}

func TestItemService_Update_RejectsEmptyURL(t *testing.T) {
	mockRepo := new(MockItemRepository)
	svc := newTestService(mockRepo)

	stored := &PromotionalItem{
		ID:     uuid.New(),
		UserID: "user-1",
		Title:  "Shoes",
		URL:    "https://old.example",
		Type:   TypeProduct,
	}
	mockRepo.On("FindByID", mock.Anything, stored.ID).Return(stored, nil)

	for _, url := range []string{"", "   "} {
		emptyURL := url
		_, err := svc.Update(context.Background(), "user-1", stored.ID, UpdateItemRequest{URL: &emptyURL})
		require.Error(t, err)
		apiErr, ok := common.IsAPIError(err)
		require.True(t, ok)
		assert.Equal(t, common.ErrBadRequest.Code, apiErr.Code)
	}

	// Nothing may reach storage, so the stored url cannot silently diverge
	// from what the caller is told.
	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	assert.Equal(t, "https://old.example", stored.URL)
}

func TestItemService_Update_RejectsForeignItem(t *testing.T) {
	mockRepo := new(MockItemRepository)
	svc := newTestService(mockRepo)

	stored := &PromotionalItem{ID: uuid.New(), UserID: "someone-else"}
	mockRepo.On("FindByID", mock.Anything, stored.ID).Return(stored, nil)

	title := "New"
	_, err := svc.Update(context.Background(), "user-1", stored.ID, UpdateItemRequest{Title: &title})

	require.Error(t, err)
	assert.True(t, common.IsNotFound(err), "foreign items look like they do not exist")
	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestItemService_Delete_DoesNotRenumber(t *testing.T) {
	mockRepo := new(MockItemRepository)
	svc := newTestService(mockRepo)

	id := uuid.New()
	mockRepo.On("Delete", mock.Anything, id, "user-1").Return(nil)

	err := svc.Delete(context.Background(), "user-1", id)

	require.NoError(t, err)
	mockRepo.AssertNotCalled(t, "UpdatePosition", mock.Anything, mock.Anything, mock.Anything)
}

func TestItemService_Reorder_WritesOnlyChangedPositions(t *testing.T) {
	mockRepo := new(MockItemRepository)
	svc := newTestService(mockRepo)

	items := itemsWithPositions("user-1", 4)
	mockRepo.On("ListByUser", mock.Anything, "user-1").Return(items, nil)

	// Move the last item to the front: every position changes.
	newOrder := []uuid.UUID{items[3].ID, items[0].ID, items[1].ID, items[2].ID}
	for pos, id := range newOrder {
		mockRepo.On("UpdatePosition", mock.Anything, id, pos).Return(nil).Once()
	}

	err := svc.Reorder(context.Background(), "user-1", newOrder)

	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestItemService_Reorder_IdenticalOrderWritesNothing(t *testing.T) {
	mockRepo := new(MockItemRepository)
	svc := newTestService(mockRepo)

	items := itemsWithPositions("user-1", 3)
	mockRepo.On("ListByUser", mock.Anything, "user-1").Return(items, nil)

	err := svc.Reorder(context.Background(), "user-1", idsOf(items))

	require.NoError(t, err)
	mockRepo.AssertNotCalled(t, "UpdatePosition", mock.Anything, mock.Anything, mock.Anything)
}

func TestItemService_Reorder_RejectsWrongIDSet(t *testing.T) {
	mockRepo := new(MockItemRepository)
	svc := newTestService(mockRepo)

	items := itemsWithPositions("user-1", 3)
	mockRepo.On("ListByUser", mock.Anything, "user-1").Return(items, nil)

	tests := []struct {
		name string
		ids  []uuid.UUID
	}{
		{"missing item", idsOf(items)[:2]},
		{"unknown item", []uuid.UUID{items[0].ID, items[1].ID, uuid.New()}},
		{"duplicate item", []uuid.UUID{items[0].ID, items[1].ID, items[1].ID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Reorder(context.Background(), "user-1", tt.ids)
			require.Error(t, err)
			apiErr, ok := common.IsAPIError(err)
			require.True(t, ok)
			assert.Equal(t, common.ErrBadRequest.Code, apiErr.Code)
		})
	}

	mockRepo.AssertNotCalled(t, "UpdatePosition", mock.Anything, mock.Anything, mock.Anything)
}

func TestItemService_Reorder_PartialFailureReportsDurablePrefix(t *testing.T) {
	mockRepo := new(MockItemRepository)
	svc := newTestService(mockRepo)

	items := itemsWithPositions("user-1", 5)
	mockRepo.On("ListByUser", mock.Anything, "user-1").Return(items, nil)

	// Full reversal: the middle item keeps its position, so four writes are
	// needed. The third of them fails.
	newOrder := []uuid.UUID{items[4].ID, items[3].ID, items[2].ID, items[1].ID, items[0].ID}
	mockRepo.On("UpdatePosition", mock.Anything, items[4].ID, 0).Return(nil).Once()
	mockRepo.On("UpdatePosition", mock.Anything, items[3].ID, 1).Return(nil).Once()
	dbErr := errors.New("connection reset")
	mockRepo.On("UpdatePosition", mock.Anything, items[1].ID, 3).Return(dbErr).Once()

	err := svc.Reorder(context.Background(), "user-1", newOrder)

	require.Error(t, err)
	var pe *PersistenceError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 2, pe.Succeeded)
	assert.Equal(t, 4, pe.Attempted)
	assert.Equal(t, items[1].ID, pe.FailedID)
	assert.ErrorIs(t, err, dbErr)
	// The write after the failure is not attempted.
	mockRepo.AssertNotCalled(t, "UpdatePosition", mock.Anything, items[0].ID, 4)
}

func TestItemService_CompactPositions_ClosesGaps(t *testing.T) {
	mockRepo := new(MockItemRepository)
	svc := newTestService(mockRepo)

	// Positions 0, 2, 5 after two deletes; compaction renumbers to 0, 1, 2.
	items := itemsWithPositions("user-1", 3)
	items[1].Position = 2
	items[2].Position = 5

	mockRepo.On("UserIDsWithPositionGaps", mock.Anything).Return([]string{"user-1"}, nil)
	mockRepo.On("ListByUser", mock.Anything, "user-1").Return(items, nil)
	mockRepo.On("UpdatePosition", mock.Anything, items[1].ID, 1).Return(nil).Once()
	mockRepo.On("UpdatePosition", mock.Anything, items[2].ID, 2).Return(nil).Once()

	compacted, err := svc.CompactPositions(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, compacted)
	// Position 0 was already correct and is not rewritten.
	mockRepo.AssertNotCalled(t, "UpdatePosition", mock.Anything, items[0].ID, 0)
	mockRepo.AssertExpectations(t)
}

func TestItemService_CompactPositions_NothingToDo(t *testing.T) {
	mockRepo := new(MockItemRepository)
	svc := newTestService(mockRepo)

	mockRepo.On("UserIDsWithPositionGaps", mock.Anything).Return([]string{}, nil)

	compacted, err := svc.CompactPositions(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, compacted)
	mockRepo.AssertNotCalled(t, "ListByUser", mock.Anything, mock.Anything)
}
