// Package session holds the signed-in identity for one client session and
// broadcasts sign-in state transitions to subscribers. It replaces the
// ambient auth-context singleton of the original dashboard with an explicit
// object that collaborators are handed.
package session

import (
	"context"
	"sync"

	firebaseauth "firebase.google.com/go/v4/auth"
	"go.uber.org/zap"

	"linkfolio_backend/internal/shared"
)

// Verifier abstracts the auth provider operations the session needs.
// *firebase.FirebaseService satisfies it.
type Verifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*firebaseauth.Token, error)
	RevokeRefreshTokens(ctx context.Context, uid string) error
}

// ChangeHandler is invoked on every sign-in state transition with the new identity,
// or nil on sign-out.
type ChangeHandler func(identity *shared.Identity)

// Session tracks at most one active identity at a time.
type Session struct {
	verifier Verifier
	logger   *zap.Logger

	mu       sync.Mutex
	current  *shared.Identity
	handlers []ChangeHandler
}

// New creates a session with no active identity.
func New(verifier Verifier, logger *zap.Logger) *Session {
	return &Session{
		verifier: verifier,
		logger:   logger,
	}
}

// Current returns a copy of the signed-in identity, or nil if unauthenticated.
func (s *Session) Current() *shared.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	identity := *s.current
	return &identity
}

// OnChange registers a handler invoked on every subsequent state transition.
func (s *Session) OnChange(h ChangeHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers = append(s.handlers, h)
}

// SignIn verifies the provider ID token and activates the resulting identity,
// replacing any previously active one. Handlers observe the new identity.
func (s *Session) SignIn(ctx context.Context, idToken string) (*shared.Identity, error) {
	token, err := s.verifier.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, err
	}

	identity := IdentityFromToken(token)

	s.mu.Lock()
	s.current = &identity
	handlers := append([]ChangeHandler(nil), s.handlers...)
	s.mu.Unlock()

	s.logger.Info("Session signed in", zap.String("uid", identity.ID))
	notify(handlers, &identity)

	result := identity
	return &result, nil
}

// Resume activates an already-verified identity without a token exchange,
// e.g. when the bearer token was validated by middleware.
func (s *Session) Resume(identity shared.Identity) {
	s.mu.Lock()
	s.current = &identity
	handlers := append([]ChangeHandler(nil), s.handlers...)
	s.mu.Unlock()

	notify(handlers, &identity)
}

// SignOut clears the active identity and notifies handlers. Remote revocation
// may fail; local state is cleared regardless and the error is returned so the
// caller is never failed silently.
func (s *Session) SignOut(ctx context.Context) error {
	s.mu.Lock()
	current := s.current
	s.current = nil
	handlers := append([]ChangeHandler(nil), s.handlers...)
	s.mu.Unlock()

	var revokeErr error
	if current != nil {
		if err := s.verifier.RevokeRefreshTokens(ctx, current.ID); err != nil {
			s.logger.Warn("Refresh token revocation failed during sign-out; local state cleared anyway",
				zap.String("uid", current.ID), zap.Error(err))
			revokeErr = err
		}
	}

	notify(handlers, nil)
	return revokeErr
}

// IdentityFromToken extracts the identity carried by a verified provider token.
func IdentityFromToken(token *firebaseauth.Token) shared.Identity {
	identity := shared.Identity{ID: token.UID}
	if email, ok := token.Claims["email"].(string); ok {
		identity.Email = email
	}
	return identity
}

func notify(handlers []ChangeHandler, identity *shared.Identity) {
	for _, h := range handlers {
		h(identity)
	}
}
