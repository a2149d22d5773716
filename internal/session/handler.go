// File: internal/session/handler.go
package session

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"linkfolio_backend/internal/common"
	"linkfolio_backend/internal/middleware"
	"linkfolio_backend/internal/shared"
)

// LoginRequest carries the provider ID token obtained by the client SDK.
type LoginRequest struct {
	IDToken string `json:"id_token" binding:"required"`
}

// Handler struct holds dependencies for auth session handlers.
type Handler struct {
	verifier Verifier
	profiles shared.ProfileService
	logger   *zap.Logger
}

// NewHandler creates a new session handler.
func NewHandler(verifier Verifier, profiles shared.ProfileService, logger *zap.Logger) *Handler {
	return &Handler{
		verifier: verifier,
		profiles: profiles,
		logger:   logger,
	}
}

// RegisterRoutes sets up the auth routes.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/login", h.login)

		authenticated := authGroup.Group("")
		authenticated.Use(authMW)
		{
			authenticated.GET("/me", h.me)
			authenticated.POST("/signout", h.signOut)
		}
	}
}

// login exchanges a provider ID token for the caller's profile, creating the
// profile on first sign-in.
func (h *Handler) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	sess := New(h.verifier, h.logger)

	var prof *shared.Profile
	var resolveErr error
	sess.OnChange(func(identity *shared.Identity) {
		if identity == nil {
			return
		}
		prof, resolveErr = h.profiles.Resolve(c.Request.Context(), *identity)
	})

	if _, err := sess.SignIn(c.Request.Context(), req.IDToken); err != nil {
		h.logger.Warn("Sign-in failed", zap.Error(err))
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Invalid or expired token."))
		return
	}
	if resolveErr != nil {
		h.logger.Error("Profile resolution failed during login", zap.Error(resolveErr))
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("Could not resolve your profile."))
		return
	}

	common.RespondOK(c, "Signed in successfully.", shared.ToProfileResponse(prof))
}

// me returns the caller's own profile.
func (h *Handler) me(c *gin.Context) {
	prof := middleware.GetProfileFromContext(c)
	if prof == nil {
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("Profile missing from context."))
		return
	}
	common.RespondOK(c, "Profile retrieved successfully.", shared.ToProfileResponse(prof))
}

// signOut revokes the caller's refresh tokens. The session always ends from
// the caller's point of view; a failed revocation is reported in the payload
// rather than failing the request.
func (h *Handler) signOut(c *gin.Context) {
	identity, ok := middleware.GetIdentityFromContext(c)
	if !ok {
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("Identity missing from context."))
		return
	}

	sess := New(h.verifier, h.logger)
	sess.Resume(identity)

	revoked := true
	if err := sess.SignOut(c.Request.Context()); err != nil {
		revoked = false
	}

	common.RespondOK(c, "Signed out.", gin.H{"revoked": revoked})
}
