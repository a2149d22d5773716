// File: internal/item/handler.go
package item

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"linkfolio_backend/internal/common"
	"linkfolio_backend/internal/middleware"
	"linkfolio_backend/internal/reorder"
)

// Handler struct holds dependencies for item handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new item handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes sets up the routes for item operations. All item routes
// require authentication.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	itemGroup := router.Group("/items")
	itemGroup.Use(authMW)
	{
		itemGroup.GET("", h.list)
		itemGroup.POST("", h.create)
		itemGroup.PATCH("/:id", h.update)
		itemGroup.DELETE("/:id", h.delete)
		itemGroup.PUT("/reorder", h.reorder)
		itemGroup.POST("/:id/move", h.move)
	}
}

func (h *Handler) list(c *gin.Context) {
	prof := middleware.GetProfileFromContext(c)
	if prof == nil {
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("Profile missing from context."))
		return
	}
	items, err := h.service.List(c.Request.Context(), prof.ID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Items retrieved successfully.", ToItemResponses(items))
}

func (h *Handler) create(c *gin.Context) {
	prof := middleware.GetProfileFromContext(c)
	if prof == nil {
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("Profile missing from context."))
		return
	}

	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Item creation: Invalid request body", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	it, err := h.service.Create(c.Request.Context(), prof.ID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Item created successfully.", ToItemResponse(it))
}

func (h *Handler) update(c *gin.Context) {
	prof := middleware.GetProfileFromContext(c)
	if prof == nil {
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("Profile missing from context."))
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid item ID format."))
		return
	}

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	it, err := h.service.Update(c.Request.Context(), prof.ID, id, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Item updated successfully.", ToItemResponse(it))
}

func (h *Handler) delete(c *gin.Context) {
	prof := middleware.GetProfileFromContext(c)
	if prof == nil {
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("Profile missing from context."))
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid item ID format."))
		return
	}

	if err := h.service.Delete(c.Request.Context(), prof.ID, id); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Item deleted successfully.", nil)
}

// reorder applies a full explicit ordering from the client.
func (h *Handler) reorder(c *gin.Context) {
	prof := middleware.GetProfileFromContext(c)
	if prof == nil {
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("Profile missing from context."))
		return
	}

	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	if err := h.service.Reorder(c.Request.Context(), prof.ID, req.ItemIDs); err != nil {
		h.respondReorderError(c, err)
		return
	}

	items, err := h.service.List(c.Request.Context(), prof.ID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Items reordered successfully.", ToItemResponses(items))
}

// move relocates one item immediately before another, running the same
// interaction sequence the dashboard's drag gesture performs.
func (h *Handler) move(c *gin.Context) {
	prof := middleware.GetProfileFromContext(c)
	if prof == nil {
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("Profile missing from context."))
		return
	}
	sourceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid item ID format."))
		return
	}

	var req MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	items, err := h.service.List(c.Request.Context(), prof.ID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	ids := make([]uuid.UUID, 0, len(items))
	found := false
	for i := range items {
		ids = append(ids, items[i].ID)
		if items[i].ID == sourceID {
			found = true
		}
	}
	if !found {
		common.RespondWithError(c, common.ErrNotFound.WithDetails("item not found"))
		return
	}

	userID := prof.ID
	ctrl := reorder.NewController(ids, reorder.ReordererFunc(func(ctx context.Context, ordered []uuid.UUID) error {
		return h.service.Reorder(ctx, userID, ordered)
	}))

	ctrl.Select(sourceID)
	ctrl.DragStart(sourceID)
	ctrl.DragOver(req.TargetID)
	if err := ctrl.Drop(c.Request.Context(), req.TargetID); err != nil {
		h.respondReorderError(c, err)
		return
	}

	updated, err := h.service.List(c.Request.Context(), prof.ID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Item moved successfully.", ToItemResponses(updated))
}

// respondReorderError maps reorder failures to API errors. A partial
// persistence failure is surfaced with how much of the new order was applied.
func (h *Handler) respondReorderError(c *gin.Context, err error) {
	var pe *PersistenceError
	if errors.As(err, &pe) {
		apiErr := common.NewAPIError(500, "REORDER_PARTIAL_FAILURE",
			"The new order was only partially saved.")
		apiErr.Details = gin.H{
			"succeeded": pe.Succeeded,
			"attempted": pe.Attempted,
			"failed_id": pe.FailedID.String(),
		}
		common.RespondWithError(c, apiErr)
		return
	}
	common.RespondWithError(c, err)
}
