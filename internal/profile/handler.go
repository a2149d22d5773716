// File: internal/profile/handler.go
package profile

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"linkfolio_backend/internal/common"
	"linkfolio_backend/internal/item"
	"linkfolio_backend/internal/middleware"
	"linkfolio_backend/internal/shared"
)

// ItemLister provides the ordered promotional items for the public creator
// page. *item.ServiceImplementation satisfies it.
type ItemLister interface {
	List(ctx context.Context, userID string) ([]item.PromotionalItem, error)
}

// Handler struct holds dependencies for profile handlers.
type Handler struct {
	service Service
	links   *LinkEditor
	items   ItemLister
	logger  *zap.Logger
}

// NewHandler creates a new profile handler.
func NewHandler(service Service, links *LinkEditor, items ItemLister, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		links:   links,
		items:   items,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routes for profile operations.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	router.GET("/creators/:username", h.getByUsername)

	profileGroup := router.Group("/profile")
	profileGroup.Use(authMW)
	{
		profileGroup.PATCH("", h.update)
		profileGroup.PUT("/social-links/:platform", h.setLink)
		profileGroup.DELETE("/social-links/:platform", h.deleteLink)
	}
}

// getByUsername serves the public creator page payload: the profile plus its
// items in display order.
func (h *Handler) getByUsername(c *gin.Context) {
	username := c.Param("username")
	prof, err := h.service.GetByUsername(c.Request.Context(), username)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	items, err := h.items.List(c.Request.Context(), prof.ID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	response := gin.H{
		"profile": shared.ToProfileResponse(prof),
		"items":   item.ToItemResponses(items),
	}
	common.RespondOK(c, "Creator profile retrieved successfully.", response)
}

func (h *Handler) update(c *gin.Context) {
	prof := middleware.GetProfileFromContext(c)
	if prof == nil {
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("Profile missing from context."))
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Profile update: Invalid request body", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	updated, err := h.service.Update(c.Request.Context(), prof.ID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Profile updated successfully.", shared.ToProfileResponse(updated))
}

func (h *Handler) setLink(c *gin.Context) {
	prof := middleware.GetProfileFromContext(c)
	if prof == nil {
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("Profile missing from context."))
		return
	}

	var req SetLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	updated, err := h.links.SetLink(c.Request.Context(), prof.ID, c.Param("platform"), req.Handle)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Social link saved successfully.", shared.ToProfileResponse(updated))
}

func (h *Handler) deleteLink(c *gin.Context) {
	prof := middleware.GetProfileFromContext(c)
	if prof == nil {
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("Profile missing from context."))
		return
	}

	updated, err := h.links.DeleteLink(c.Request.Context(), prof.ID, c.Param("platform"))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Social link removed successfully.", shared.ToProfileResponse(updated))
}
