// File: internal/middleware/auth.go
package middleware

import (
	"context"
	"strings"

	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"linkfolio_backend/internal/common"
	"linkfolio_backend/internal/shared"
)

const (
	// AuthorizationHeader is the header name for authorization token
	AuthorizationHeader = "Authorization"
	// AuthorizationTypeBearer is the prefix for Bearer tokens
	AuthorizationTypeBearer = "Bearer"
	// IdentityKey is the context key for the authenticated identity
	IdentityKey = "identity"
	// ProfileKey is the context key for the resolved profile
	ProfileKey = "profile"
)

// TokenVerifier abstracts ID token verification for the middleware.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*firebaseauth.Token, error)
}

// AuthMiddleware verifies the bearer ID token and resolves the caller's
// profile, bootstrapping it on first sign-in. Downstream handlers read both
// from the context.
func AuthMiddleware(verifier TokenVerifier, profiles shared.ProfileService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthorizationHeader)
		if authHeader == "" {
			logger.Debug("Authorization header missing")
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Authorization header is required."))
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], AuthorizationTypeBearer) {
			logger.Debug("Authorization header format invalid", zap.String("header", authHeader))
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Authorization header format must be 'Bearer <token>'."))
			return
		}

		token, err := verifier.VerifyIDToken(c.Request.Context(), parts[1])
		if err != nil {
			logger.Warn("ID token verification failed", zap.Error(err))
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Invalid or expired token."))
			return
		}

		identity := shared.Identity{ID: token.UID}
		if email, ok := token.Claims["email"].(string); ok {
			identity.Email = email
		}

		prof, err := profiles.Resolve(c.Request.Context(), identity)
		if err != nil {
			logger.Error("Profile resolution failed during auth",
				zap.String("identityID", identity.ID), zap.Error(err))
			common.RespondWithError(c, common.ErrInternalServer.WithDetails("Could not resolve your profile."))
			return
		}

		c.Set(IdentityKey, identity)
		c.Set(ProfileKey, prof)

		logger.Debug("Request authenticated",
			zap.String("identityID", identity.ID),
			zap.String("username", prof.Username),
		)

		c.Next()
	}
}

// GetIdentityFromContext retrieves the authenticated identity from the Gin
// context. The second return is false when no identity is set.
func GetIdentityFromContext(c *gin.Context) (shared.Identity, bool) {
	val, exists := c.Get(IdentityKey)
	if !exists {
		return shared.Identity{}, false
	}
	identity, ok := val.(shared.Identity)
	return identity, ok
}

// GetProfileFromContext retrieves the resolved profile from the Gin context.
// Returns nil if the request is unauthenticated.
func GetProfileFromContext(c *gin.Context) *shared.Profile {
	val, exists := c.Get(ProfileKey)
	if !exists {
		return nil
	}
	prof, ok := val.(*shared.Profile)
	if !ok {
		return nil
	}
	return prof
}
