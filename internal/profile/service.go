// File: internal/profile/service.go
package profile

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/gosimple/slug"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"linkfolio_backend/internal/common"
	"linkfolio_backend/internal/shared"
)

// BootstrapState describes where an identity is in the profile bootstrap
// lifecycle.
type BootstrapState string

const (
	StateUninitialized BootstrapState = "uninitialized"
	StateResolving     BootstrapState = "resolving"
	StateReady         BootstrapState = "ready"
	StateFailed        BootstrapState = "failed"
)

// CreationError reports that bootstrap could neither find nor create a
// profile for the identity. The caller must not treat the session as ready.
type CreationError struct {
	IdentityID string
	Err        error
}

func (e *CreationError) Error() string {
	return fmt.Sprintf("profile creation failed for identity %s: %v", e.IdentityID, e.Err)
}

func (e *CreationError) Unwrap() error {
	return e.Err
}

// Service defines business logic operations for profiles.
type Service interface {
	shared.ProfileService
	Update(ctx context.Context, id string, req UpdateProfileRequest) (*shared.Profile, error)
	GetByUsername(ctx context.Context, username string) (*shared.Profile, error)
	// Refresh re-reads a profile from storage, bypassing any caller-held copy.
	Refresh(ctx context.Context, id string) (*shared.Profile, error)
	// State reports the bootstrap state for an identity.
	State(identityID string) BootstrapState
}

// ServiceImplementation implements the Service interface.
type ServiceImplementation struct {
	repo   Repository
	logger *zap.Logger

	mu     sync.Mutex
	states map[string]BootstrapState
}

// NewService creates a new profile service.
func NewService(repo Repository, logger *zap.Logger) *ServiceImplementation {
	return &ServiceImplementation{
		repo:   repo,
		logger: logger,
		states: make(map[string]BootstrapState),
	}
}

// Resolve returns the profile for an authenticated identity, creating it on
// first sign-in. A concurrent first sign-in racing this call loses the insert
// and re-reads the winner's row, so both callers observe the same profile.
func (s *ServiceImplementation) Resolve(ctx context.Context, identity shared.Identity) (*shared.Profile, error) {
	s.setState(identity.ID, StateResolving)

	existing, err := s.repo.FindByID(ctx, identity.ID)
	if err == nil {
		s.setState(identity.ID, StateReady)
		return DBToShared(existing), nil
	}
	if !common.IsNotFound(err) {
		s.setState(identity.ID, StateFailed)
		return nil, err
	}

	created, err := s.createDefault(ctx, identity)
	if err != nil {
		s.setState(identity.ID, StateFailed)
		s.logger.Error("Profile bootstrap failed", zap.String("identityID", identity.ID), zap.Error(err))
		return nil, &CreationError{IdentityID: identity.ID, Err: err}
	}

	s.setState(identity.ID, StateReady)
	s.logger.Info("Profile bootstrapped",
		zap.String("identityID", identity.ID), zap.String("username", created.Username))
	return DBToShared(created), nil
}

func (s *ServiceImplementation) createDefault(ctx context.Context, identity shared.Identity) (*Profile, error) {
	username := usernameFromEmail(identity.Email, identity.ID)

	p := &Profile{
		ID:          identity.ID,
		Username:    username,
		Email:       identity.Email,
		Name:        displayNameFromUsername(username),
		SocialLinks: SocialLinks{},
	}

	err := s.repo.Create(ctx, p)
	if err == nil {
		return p, nil
	}
	if !common.IsConflict(err) {
		return nil, err
	}

	// A conflict is either a concurrent bootstrap of the same identity or a
	// username collision with another creator. Re-reading by ID tells them
	// apart.
	existing, findErr := s.repo.FindByID(ctx, identity.ID)
	if findErr == nil {
		return existing, nil
	}
	if !common.IsNotFound(findErr) {
		return nil, findErr
	}

	// Username collision. Retry once with a UID-derived suffix.
	p.Username = collisionUsername(username, identity.ID)
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// GetByID retrieves a profile by its identity ID.
func (s *ServiceImplementation) GetByID(ctx context.Context, id string) (*shared.Profile, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return DBToShared(p), nil
}

// GetByUsername retrieves a profile by its public username.
func (s *ServiceImplementation) GetByUsername(ctx context.Context, username string) (*shared.Profile, error) {
	p, err := s.repo.FindByUsername(ctx, strings.ToLower(strings.TrimSpace(username)))
	if err != nil {
		return nil, err
	}
	return DBToShared(p), nil
}

// Refresh re-reads a profile from storage.
func (s *ServiceImplementation) Refresh(ctx context.Context, id string) (*shared.Profile, error) {
	return s.GetByID(ctx, id)
}

// Update applies a partial update. Nil request fields leave the stored value
// untouched.
func (s *ServiceImplementation) Update(ctx context.Context, id string, req UpdateProfileRequest) (*shared.Profile, error) {
	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Bio != nil {
		fields["bio"] = *req.Bio
	}
	if req.ProfilePicture != nil {
		fields["profile_picture"] = *req.ProfilePicture
	}
	if req.Categories != nil {
		fields["categories"] = pq.StringArray(req.Categories)
	}

	if len(fields) > 0 {
		if err := s.repo.UpdateFields(ctx, id, fields); err != nil {
			return nil, err
		}
	}
	return s.Refresh(ctx, id)
}

// State reports the bootstrap state for an identity. Identities never seen by
// Resolve are StateUninitialized.
func (s *ServiceImplementation) State(identityID string) BootstrapState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.states[identityID]; ok {
		return st
	}
	return StateUninitialized
}

func (s *ServiceImplementation) setState(identityID string, st BootstrapState) {
	s.mu.Lock()
	s.states[identityID] = st
	s.mu.Unlock()
}

// usernameFromEmail derives a default username from the email local part.
// Identities without an email fall back to a UID-derived name.
func usernameFromEmail(email, uid string) string {
	local := email
	if at := strings.Index(email, "@"); at >= 0 {
		local = email[:at]
	}
	candidate := strings.ReplaceAll(slug.Make(local), "-", "_")
	if candidate == "" {
		candidate = "creator_" + uidFragment(uid)
	}
	if len(candidate) > 40 {
		candidate = candidate[:40]
	}
	return candidate
}

func displayNameFromUsername(username string) string {
	cleaned := strings.ReplaceAll(username, "_", " ")
	words := strings.Fields(cleaned)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func collisionUsername(base, uid string) string {
	return base + "_" + uidFragment(uid)
}

func uidFragment(uid string) string {
	frag := strings.ToLower(uid)
	if len(frag) > 6 {
		frag = frag[:6]
	}
	return frag
}
