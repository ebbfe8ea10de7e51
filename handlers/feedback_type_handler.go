package handlers

import (
	"net/http"
	"strings"

	apperrors "github.com/feedbackhq/feedback-collector/errors"
	"github.com/feedbackhq/feedback-collector/store"
	"github.com/feedbackhq/feedback-collector/types"
	"github.com/feedbackhq/feedback-collector/validation"
	"github.com/gin-gonic/gin"
)

// FeedbackTypeHandler handles category management. All mutations are
// owner-checked; the public listing only ever shows active types.
type FeedbackTypeHandler struct {
	typeStore store.FeedbackTypeStore
}

// NewFeedbackTypeHandler creates a new FeedbackTypeHandler.
func NewFeedbackTypeHandler(typeStore store.FeedbackTypeStore) *FeedbackTypeHandler {
	return &FeedbackTypeHandler{typeStore: typeStore}
}

func feedbackTypeRules(req *types.FeedbackTypeCreate) []apperrors.FieldError {
	return validation.Run(
		validation.MinLength("name", req.Name, 2, "Name must be at least 2 characters"),
		validation.OptionalHexColor("color", req.Color, "Color must be a valid hex color"),
	)
}

// ListActiveTypes godoc
// @Summary      List active feedback types
// @Description  Public endpoint: active types, optionally filtered by name substring
// @Tags         feedback-types
// @Produce      json
// @Param        search  query  string  false  "Name substring"
// @Success      200  {array}  types.FeedbackType
// @Router       /feedback-types [get]
func (h *FeedbackTypeHandler) ListActiveTypes(c *gin.Context) {
	feedbackTypes, err := h.typeStore.ListActiveTypes(c.Request.Context(), c.Query("search"))
	if err != nil {
		_ = c.Error(apperrors.NewDatabaseError(err))
		return
	}
	c.JSON(http.StatusOK, feedbackTypes)
}

// ListAdminTypes godoc
// @Summary      List caller's feedback types
// @Description  Admin endpoint: every type the caller created, active or not
// @Tags         feedback-types
// @Produce      json
// @Param        search  query  string  false  "Name substring"
// @Success      200  {array}  types.FeedbackType
// @Router       /feedback-types/admin [get]
func (h *FeedbackTypeHandler) ListAdminTypes(c *gin.Context) {
	adminID, ok := requireUserID(c)
	if !ok {
		return
	}

	feedbackTypes, err := h.typeStore.ListTypesByOwner(c.Request.Context(), adminID, c.Query("search"))
	if err != nil {
		_ = c.Error(apperrors.NewDatabaseError(err))
		return
	}
	c.JSON(http.StatusOK, feedbackTypes)
}

// CreateType godoc
// @Summary      Create feedback type
// @Description  Admin endpoint: names are globally unique, case-insensitively
// @Tags         feedback-types
// @Accept       json
// @Produce      json
// @Param        body  body  types.FeedbackTypeCreate  true  "Feedback type payload"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Router       /feedback-types [post]
func (h *FeedbackTypeHandler) CreateType(c *gin.Context) {
	adminID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req types.FeedbackTypeCreate
	if !bindJSONOrError(c, &req) {
		return
	}

	if fields := feedbackTypeRules(&req); len(fields) > 0 {
		_ = c.Error(apperrors.ValidationFailed(fields...))
		return
	}

	exists, err := h.typeStore.NameExists(c.Request.Context(), req.Name, "")
	if err != nil {
		_ = c.Error(apperrors.NewDatabaseError(err))
		return
	}
	if exists {
		_ = c.Error(apperrors.Conflict("Feedback type with this name already exists"))
		return
	}

	ft := &types.FeedbackType{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		IsActive:    true,
		Color:       defaulted(req.Color, types.DefaultTypeColor),
		Icon:        defaulted(req.Icon, types.DefaultTypeIcon),
		CreatedBy:   adminID,
	}

	id, err := h.typeStore.CreateType(c.Request.Context(), ft)
	if err != nil {
		if appErr, ok := err.(*apperrors.AppError); ok {
			_ = c.Error(appErr)
		} else {
			_ = c.Error(apperrors.NewDatabaseError(err))
		}
		return
	}
	ft.ID = id

	c.JSON(http.StatusCreated, gin.H{
		"message":      "Feedback type created successfully",
		"feedbackType": ft,
	})
}

// UpdateType godoc
// @Summary      Update feedback type
// @Description  Admin endpoint: only the creator may update; rename re-checks uniqueness
// @Tags         feedback-types
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "Feedback type ID"
// @Param        body  body  types.FeedbackTypeCreate  true  "Feedback type payload"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /feedback-types/{id} [put]
func (h *FeedbackTypeHandler) UpdateType(c *gin.Context) {
	adminID, ok := requireUserID(c)
	if !ok {
		return
	}
	typeID := c.Param("id")

	var req types.FeedbackTypeCreate
	if !bindJSONOrError(c, &req) {
		return
	}

	if fields := feedbackTypeRules(&req); len(fields) > 0 {
		_ = c.Error(apperrors.ValidationFailed(fields...))
		return
	}

	// Ownership first: a foreign id answers 404 before any name probing.
	ft, err := h.typeStore.GetOwnedType(c.Request.Context(), typeID, adminID)
	if err != nil {
		if appErr, ok := err.(*apperrors.AppError); ok {
			_ = c.Error(appErr)
		} else {
			_ = c.Error(apperrors.NewDatabaseError(err))
		}
		return
	}

	exists, err := h.typeStore.NameExists(c.Request.Context(), req.Name, typeID)
	if err != nil {
		_ = c.Error(apperrors.NewDatabaseError(err))
		return
	}
	if exists {
		_ = c.Error(apperrors.Conflict("Feedback type with this name already exists"))
		return
	}

	ft.Name = strings.TrimSpace(req.Name)
	ft.Description = strings.TrimSpace(req.Description)
	ft.Color = defaulted(req.Color, types.DefaultTypeColor)
	ft.Icon = defaulted(req.Icon, types.DefaultTypeIcon)

	if err := h.typeStore.UpdateType(c.Request.Context(), ft); err != nil {
		if appErr, ok := err.(*apperrors.AppError); ok {
			_ = c.Error(appErr)
		} else {
			_ = c.Error(apperrors.NewDatabaseError(err))
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Feedback type updated successfully",
		"feedbackType": ft,
	})
}

// ToggleType godoc
// @Summary      Toggle feedback type
// @Description  Admin endpoint: flips visibility; existing feedback is untouched
// @Tags         feedback-types
// @Produce      json
// @Param        id  path  string  true  "Feedback type ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /feedback-types/{id}/toggle [patch]
func (h *FeedbackTypeHandler) ToggleType(c *gin.Context) {
	adminID, ok := requireUserID(c)
	if !ok {
		return
	}

	ft, err := h.typeStore.ToggleType(c.Request.Context(), c.Param("id"), adminID)
	if err != nil {
		if appErr, ok := err.(*apperrors.AppError); ok {
			_ = c.Error(appErr)
		} else {
			_ = c.Error(apperrors.NewDatabaseError(err))
		}
		return
	}

	verb := "deactivated"
	if ft.IsActive {
		verb = "activated"
	}
	c.JSON(http.StatusOK, gin.H{
		"message":      "Feedback type " + verb + " successfully",
		"feedbackType": ft,
	})
}

// DeleteType godoc
// @Summary      Delete feedback type
// @Description  Admin endpoint: removes the type; its feedback is orphaned, not cascaded
// @Tags         feedback-types
// @Produce      json
// @Param        id  path  string  true  "Feedback type ID"
// @Success      200  {object}  types.MessageResponse
// @Failure      404  {object}  map[string]interface{}
// @Router       /feedback-types/{id} [delete]
func (h *FeedbackTypeHandler) DeleteType(c *gin.Context) {
	adminID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.typeStore.DeleteType(c.Request.Context(), c.Param("id"), adminID); err != nil {
		if appErr, ok := err.(*apperrors.AppError); ok {
			_ = c.Error(appErr)
		} else {
			_ = c.Error(apperrors.NewDatabaseError(err))
		}
		return
	}

	c.JSON(http.StatusOK, types.MessageResponse{Message: "Feedback type deleted successfully"})
}

func defaulted(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return strings.TrimSpace(value)
}
