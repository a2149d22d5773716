// File: internal/profile/links.go
package profile

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"linkfolio_backend/internal/common"
	"linkfolio_backend/internal/shared"
)

// LinkEditor edits the social-links map of a profile. Writes are full-map
// replacements built from a fresh read, serialized per profile so concurrent
// edits to different platforms cannot drop each other's entries.
type LinkEditor struct {
	repo   Repository
	logger *zap.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewLinkEditor creates a LinkEditor backed by the profile repository.
func NewLinkEditor(repo Repository, logger *zap.Logger) *LinkEditor {
	return &LinkEditor{
		repo:   repo,
		logger: logger,
		locks:  make(map[string]*sync.Mutex),
	}
}

// SetLink stores the handle for a platform, overwriting any previous value.
// The handle is trimmed and must be non-empty; the platform key may be any
// non-empty string, known or free-form.
func (e *LinkEditor) SetLink(ctx context.Context, profileID, platform, handle string) (*shared.Profile, error) {
	platform = strings.TrimSpace(platform)
	handle = strings.TrimSpace(handle)
	if platform == "" {
		return nil, common.ErrBadRequest.WithDetails("platform must not be empty")
	}
	if handle == "" {
		return nil, common.ErrBadRequest.WithDetails("handle must not be empty")
	}

	return e.mutate(ctx, profileID, func(links SocialLinks) {
		links[platform] = handle
	})
}

// DeleteLink removes the platform entry. Deleting an absent platform is a
// no-op and succeeds.
func (e *LinkEditor) DeleteLink(ctx context.Context, profileID, platform string) (*shared.Profile, error) {
	platform = strings.TrimSpace(platform)
	if platform == "" {
		return nil, common.ErrBadRequest.WithDetails("platform must not be empty")
	}

	return e.mutate(ctx, profileID, func(links SocialLinks) {
		delete(links, platform)
	})
}

func (e *LinkEditor) mutate(ctx context.Context, profileID string, apply func(SocialLinks)) (*shared.Profile, error) {
	lock := e.lockFor(profileID)
	lock.Lock()
	defer lock.Unlock()

	current, err := e.repo.FindByID(ctx, profileID)
	if err != nil {
		return nil, err
	}

	links := make(SocialLinks, len(current.SocialLinks)+1)
	for k, v := range current.SocialLinks {
		links[k] = v
	}
	apply(links)

	if err := e.repo.UpdateFields(ctx, profileID, map[string]interface{}{"social_links": links}); err != nil {
		e.logger.Error("Social links update failed", zap.String("profileID", profileID), zap.Error(err))
		return nil, err
	}

	updated, err := e.repo.FindByID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	return DBToShared(updated), nil
}

func (e *LinkEditor) lockFor(profileID string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	if l, ok := e.locks[profileID]; ok {
		return l
	}
	l := &sync.Mutex{}
	e.locks[profileID] = l
	return l
}
