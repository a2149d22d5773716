package profile

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"linkfolio_backend/internal/common"
	"linkfolio_backend/internal/shared"
)

// MockProfileRepository is a testify mock of the Repository interface.
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) Create(ctx context.Context, p *Profile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProfileRepository) FindByID(ctx context.Context, id string) (*Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Profile), args.Error(1)
}

func (m *MockProfileRepository) FindByUsername(ctx context.Context, username string) (*Profile, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Profile), args.Error(1)
}

func (m *MockProfileRepository) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func newTestProfileService(repo Repository) *ServiceImplementation {
	return NewService(repo, zap.NewNop())
}

func TestProfileService_Resolve_ReturnsExistingProfile(t *testing.T) {
	mockRepo := new(MockProfileRepository)
	svc := newTestProfileService(mockRepo)

	stored := &Profile{ID: "uid-1", Username: "jane", Email: "jane@example.com", SocialLinks: SocialLinks{}}
	mockRepo.On("FindByID", mock.Anything, "uid-1").Return(stored, nil)

	prof, err := svc.Resolve(context.Background(), shared.Identity{ID: "uid-1", Email: "jane@example.com"})

	require.NoError(t, err)
	assert.Equal(t, "jane", prof.Username)
	assert.Equal(t, StateReady, svc.State("uid-1"))
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProfileService_Resolve_BootstrapsOnFirstSignIn(t *testing.T) {
	mockRepo := new(MockProfileRepository)
	svc := newTestProfileService(mockRepo)

	mockRepo.On("FindByID", mock.Anything, "uid-1").Return(nil, common.ErrNotFound)
	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(p *Profile) bool {
		return p.ID == "uid-1" && p.Username == "jane_doe" && p.Name == "Jane Doe" && p.SocialLinks != nil
	})).Return(nil)

	prof, err := svc.Resolve(context.Background(), shared.Identity{ID: "uid-1", Email: "jane.doe@example.com"})

	require.NoError(t, err)
	assert.Equal(t, "jane_doe", prof.Username)
	assert.Equal(t, "Jane Doe", prof.Name)
	assert.Equal(t, StateReady, svc.State("uid-1"))
	mockRepo.AssertExpectations(t)
}

func TestProfileService_Resolve_IdempotentUnderConcurrentBootstrap(t *testing.T) {
	mockRepo := new(MockProfileRepository)
	svc := newTestProfileService(mockRepo)

	// First read misses, the insert loses the race, the re-read finds the
	// winner's row.
	winner := &Profile{ID: "uid-1", Username: "jane", Email: "jane@example.com", SocialLinks: SocialLinks{}}
	mockRepo.On("FindByID", mock.Anything, "uid-1").Return(nil, common.ErrNotFound).Once()
	mockRepo.On("Create", mock.Anything, mock.Anything).Return(common.ErrConflict).Once()
	mockRepo.On("FindByID", mock.Anything, "uid-1").Return(winner, nil).Once()

	prof, err := svc.Resolve(context.Background(), shared.Identity{ID: "uid-1", Email: "jane@example.com"})

	require.NoError(t, err)
	assert.Equal(t, "jane", prof.Username)
	assert.Equal(t, StateReady, svc.State("uid-1"))
	mockRepo.AssertExpectations(t)
}

func TestProfileService_Resolve_UsernameCollisionRetriesWithSuffix(t *testing.T) {
	mockRepo := new(MockProfileRepository)
	svc := newTestProfileService(mockRepo)

	mockRepo.On("FindByID", mock.Anything, "ABCDEF123").Return(nil, common.ErrNotFound).Twice()
	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(p *Profile) bool {
		return p.Username == "jane"
	})).Return(common.ErrConflict).Once()
	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(p *Profile) bool {
		return p.Username == "jane_abcdef"
	})).Return(nil).Once()

	prof, err := svc.Resolve(context.Background(), shared.Identity{ID: "ABCDEF123", Email: "jane@example.com"})

	require.NoError(t, err)
	assert.Equal(t, "jane_abcdef", prof.Username)
	mockRepo.AssertExpectations(t)
}

func TestProfileService_Resolve_CreationFailureIsReported(t *testing.T) {
	mockRepo := new(MockProfileRepository)
	svc := newTestProfileService(mockRepo)

	dbErr := errors.New("disk full")
	mockRepo.On("FindByID", mock.Anything, "uid-1").Return(nil, common.ErrNotFound)
	mockRepo.On("Create", mock.Anything, mock.Anything).Return(dbErr)

	_, err := svc.Resolve(context.Background(), shared.Identity{ID: "uid-1", Email: "jane@example.com"})

	require.Error(t, err)
	var ce *CreationError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "uid-1", ce.IdentityID)
	assert.ErrorIs(t, err, dbErr)
	assert.Equal(t, StateFailed, svc.State("uid-1"))
}

func TestProfileService_State_UnknownIdentity(t *testing.T) {
	svc := newTestProfileService(new(MockProfileRepository))
	assert.Equal(t, StateUninitialized, svc.State("never-seen"))
}

func TestProfileService_Update_PartialFields(t *testing.T) {
	mockRepo := new(MockProfileRepository)
	svc := newTestProfileService(mockRepo)

	name := "  New Name  "
	mockRepo.On("UpdateFields", mock.Anything, "uid-1", mock.MatchedBy(func(fields map[string]interface{}) bool {
		_, hasBio := fields["bio"]
		return fields["name"] == "New Name" && !hasBio
	})).Return(nil)
	updated := &Profile{ID: "uid-1", Username: "jane", Name: "New Name", SocialLinks: SocialLinks{}}
	mockRepo.On("FindByID", mock.Anything, "uid-1").Return(updated, nil)

	prof, err := svc.Update(context.Background(), "uid-1", UpdateProfileRequest{Name: &name})

	require.NoError(t, err)
	assert.Equal(t, "New Name", prof.Name)
	mockRepo.AssertExpectations(t)
}

func TestProfileService_Update_EmptyRequestSkipsWrite(t *testing.T) {
	mockRepo := new(MockProfileRepository)
	svc := newTestProfileService(mockRepo)

	stored := &Profile{ID: "uid-1", Username: "jane", SocialLinks: SocialLinks{}}
	mockRepo.On("FindByID", mock.Anything, "uid-1").Return(stored, nil)

	_, err := svc.Update(context.Background(), "uid-1", UpdateProfileRequest{})

	require.NoError(t, err)
	mockRepo.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything, mock.Anything)
}

func TestUsernameFromEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		uid   string
		want  string
	}{
		{"simple local part", "jane@example.com", "uid", "jane"},
		{"dots become underscores", "jane.doe@example.com", "uid", "jane_doe"},
		{"mixed case lowered", "Jane.Doe@example.com", "uid", "jane_doe"},
		{"hyphens become underscores", "jane-doe@example.com", "uid", "jane_doe"},
		{"no email falls back to uid", "", "XYZ12345", "creator_xyz123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, usernameFromEmail(tt.email, tt.uid))
		})
	}
}

func TestDisplayNameFromUsername(t *testing.T) {
	assert.Equal(t, "Jane Doe", displayNameFromUsername("jane_doe"))
	assert.Equal(t, "Jane", displayNameFromUsername("jane"))
}
