// Package handlers contains the gin HTTP handlers for every endpoint.
// Handlers attach *errors.AppError values to the context; the error-handling
// middleware maps them onto the response taxonomy.
package handlers

import (
	"strconv"
	"strings"

	apperrors "github.com/feedbackhq/feedback-collector/errors"
	"github.com/feedbackhq/feedback-collector/middleware"
	"github.com/feedbackhq/feedback-collector/types"
	"github.com/gin-gonic/gin"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// bindJSONOrError binds the request body and reports a validation error on
// failure. Returns false when the caller should bail out.
func bindJSONOrError(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		_ = c.Error(apperrors.InvalidPayload(err.Error()))
		return false
	}
	return true
}

// requireUserID pulls the authenticated admin id set by the auth middleware.
func requireUserID(c *gin.Context) (string, bool) {
	userID := c.GetString(string(middleware.UserIDKey))
	if userID == "" {
		_ = c.Error(apperrors.Unauthorized("authorization_required", "Authorization required"))
		return "", false
	}
	return userID, true
}

// parseFeedbackFilter reads the shared type/rating/search query parameters
// used by the list, export, and (for symmetry) stats endpoints.
func parseFeedbackFilter(c *gin.Context) types.FeedbackFilter {
	filter := types.FeedbackFilter{
		TypeName: strings.TrimSpace(c.Query("type")),
		Search:   strings.TrimSpace(c.Query("search")),
	}
	if ratingStr := c.Query("rating"); ratingStr != "" {
		if rating, err := strconv.Atoi(ratingStr); err == nil {
			filter.Rating = &rating
		}
	}
	return filter
}

// parsePagination reads page/limit with defaults and a limit ceiling.
func parsePagination(c *gin.Context) (page, limit int) {
	page = defaultPage
	limit = defaultLimit
	if v, err := strconv.Atoi(c.Query("page")); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		limit = v
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}
