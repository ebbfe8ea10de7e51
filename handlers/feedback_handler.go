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

// FeedbackHandler handles public submission and the admin feedback queries.
type FeedbackHandler struct {
	feedbackStore store.FeedbackStore
	typeStore     store.FeedbackTypeStore
}

// NewFeedbackHandler creates a new FeedbackHandler.
func NewFeedbackHandler(feedbackStore store.FeedbackStore, typeStore store.FeedbackTypeStore) *FeedbackHandler {
	return &FeedbackHandler{feedbackStore: feedbackStore, typeStore: typeStore}
}

// SubmitFeedback godoc
// @Summary      Submit feedback
// @Description  Public endpoint: validates the submission and persists it under an active feedback type
// @Tags         feedback
// @Accept       json
// @Produce      json
// @Param        body  body      types.FeedbackCreate  true  "Feedback payload"
// @Success      201   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]interface{}
// @Router       /feedback [post]
func (h *FeedbackHandler) SubmitFeedback(c *gin.Context) {
	var req types.FeedbackCreate
	if !bindJSONOrError(c, &req) {
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Message = strings.TrimSpace(req.Message)
	req.Type = strings.TrimSpace(req.Type)

	// Field-shape validation runs in full before storage is touched, so the
	// client gets every failing field at once.
	fields := validation.Run(
		validation.OptionalMinLength("name", req.Name, 2, "Name must be at least 2 characters if provided"),
		validation.OptionalEmail("email", req.Email, "Please provide a valid email if provided"),
		validation.Required("type", req.Type, "Feedback type is required"),
		validation.MinLength("message", req.Message, 10, "Message must be at least 10 characters"),
		validation.IntRange("rating", req.Rating, 1, 5, "Rating must be between 1 and 5"),
	)
	if len(fields) > 0 {
		_ = c.Error(apperrors.ValidationFailed(fields...))
		return
	}

	// The type must resolve to an active FeedbackType at this moment; later
	// deactivation does not affect the record.
	feedbackType, err := h.typeStore.FindActiveByName(c.Request.Context(), req.Type)
	if err != nil {
		_ = c.Error(apperrors.NewDatabaseError(err))
		return
	}
	if feedbackType == nil {
		_ = c.Error(apperrors.InvalidFeedbackType())
		return
	}

	fb := &types.Feedback{
		Name:           req.Name,
		Email:          strings.ToLower(req.Email),
		Type:           req.Type,
		FeedbackTypeID: feedbackType.ID,
		Message:        req.Message,
		Rating:         req.Rating,
	}

	id, err := h.feedbackStore.CreateFeedback(c.Request.Context(), fb)
	if err != nil {
		_ = c.Error(apperrors.NewDatabaseError(err))
		return
	}
	fb.ID = id

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Feedback submitted successfully",
		"feedback": fb,
	})
}

// ListFeedback godoc
// @Summary      List feedback
// @Description  Admin endpoint: pages through feedback under the caller's feedback types
// @Tags         feedback
// @Produce      json
// @Param        page    query  int     false  "Page number"
// @Param        limit   query  int     false  "Page size"
// @Param        type    query  string  false  "Type name substring"
// @Param        rating  query  int     false  "Exact rating"
// @Param        search  query  string  false  "Free-text search over name/email/message"
// @Success      200  {object}  types.FeedbackListResponse
// @Failure      401  {object}  map[string]interface{}
// @Router       /feedback [get]
func (h *FeedbackHandler) ListFeedback(c *gin.Context) {
	adminID, ok := requireUserID(c)
	if !ok {
		return
	}

	filter := parseFeedbackFilter(c)
	page, limit := parsePagination(c)

	items, total, err := h.feedbackStore.ListFeedback(c.Request.Context(), adminID, filter, page, limit)
	if err != nil {
		_ = c.Error(apperrors.NewDatabaseError(err))
		return
	}

	// Page total and hasNext come from the same count the page query used;
	// the two can never drift.
	totalPages := (total + limit - 1) / limit
	skip := (page - 1) * limit

	c.JSON(http.StatusOK, types.FeedbackListResponse{
		Feedbacks: items,
		Pagination: types.Pagination{
			Current: page,
			Total:   totalPages,
			HasNext: skip+len(items) < total,
			HasPrev: page > 1,
		},
	})
}

// GetStats godoc
// @Summary      Feedback statistics
// @Description  Admin endpoint: aggregates over the caller's feedback types
// @Tags         feedback
// @Produce      json
// @Success      200  {object}  types.FeedbackStats
// @Failure      401  {object}  map[string]interface{}
// @Router       /feedback/stats [get]
func (h *FeedbackHandler) GetStats(c *gin.Context) {
	adminID, ok := requireUserID(c)
	if !ok {
		return
	}

	stats, err := h.feedbackStore.GetStats(c.Request.Context(), adminID)
	if err != nil {
		_ = c.Error(apperrors.NewDatabaseError(err))
		return
	}

	c.JSON(http.StatusOK, stats)
}

// DeleteFeedback godoc
// @Summary      Delete feedback
// @Description  Admin endpoint: deletes one record if it falls under the caller's feedback types
// @Tags         feedback
// @Produce      json
// @Param        id  path  string  true  "Feedback ID"
// @Success      200  {object}  types.MessageResponse
// @Failure      404  {object}  map[string]interface{}
// @Router       /admin/feedback/{id} [delete]
func (h *FeedbackHandler) DeleteFeedback(c *gin.Context) {
	adminID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.feedbackStore.DeleteFeedback(c.Request.Context(), c.Param("id"), adminID); err != nil {
		if appErr, ok := err.(*apperrors.AppError); ok {
			_ = c.Error(appErr)
		} else {
			_ = c.Error(apperrors.NewDatabaseError(err))
		}
		return
	}

	c.JSON(http.StatusOK, types.MessageResponse{Message: "Feedback deleted successfully"})
}
