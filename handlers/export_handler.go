package handlers

import (
	"fmt"
	"net/http"
	"time"

	apperrors "github.com/feedbackhq/feedback-collector/errors"
	"github.com/feedbackhq/feedback-collector/export"
	"github.com/feedbackhq/feedback-collector/logger"
	"github.com/feedbackhq/feedback-collector/store"
	"github.com/feedbackhq/feedback-collector/types"
	"github.com/gin-gonic/gin"
)

// ExportHandler streams the caller's feedback as downloadable documents.
type ExportHandler struct {
	feedbackStore store.FeedbackStore
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(feedbackStore store.FeedbackStore) *ExportHandler {
	return &ExportHandler{feedbackStore: feedbackStore}
}

// ExportCSV godoc
// @Summary      Export feedback as CSV
// @Description  Admin endpoint: all matching feedback under the caller's types, newest first
// @Tags         export
// @Produce      text/csv
// @Param        type    query  string  false  "Type name substring"
// @Param        rating  query  int     false  "Exact rating"
// @Param        search  query  string  false  "Free-text search"
// @Success      200  {string}  string
// @Failure      404  {object}  map[string]interface{}
// @Router       /admin/export/csv [get]
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	h.export(c, "csv", "text/csv", export.CSV)
}

// ExportPDF godoc
// @Summary      Export feedback as PDF
// @Description  Admin endpoint: all matching feedback under the caller's types, newest first
// @Tags         export
// @Produce      application/pdf
// @Param        type    query  string  false  "Type name substring"
// @Param        rating  query  int     false  "Exact rating"
// @Param        search  query  string  false  "Free-text search"
// @Success      200  {string}  string
// @Failure      404  {object}  map[string]interface{}
// @Router       /admin/export/pdf [get]
func (h *ExportHandler) ExportPDF(c *gin.Context) {
	h.export(c, "pdf", "application/pdf", export.PDF)
}

func (h *ExportHandler) export(c *gin.Context, ext, contentType string, render func([]types.FeedbackExportRow) ([]byte, error)) {
	adminID, ok := requireUserID(c)
	if !ok {
		return
	}

	filter := parseFeedbackFilter(c)

	rows, err := h.feedbackStore.ExportFeedback(c.Request.Context(), adminID, filter)
	if err != nil {
		if appErr, ok := err.(*apperrors.AppError); ok {
			_ = c.Error(appErr)
		} else {
			_ = c.Error(apperrors.NewDatabaseError(err))
		}
		return
	}

	body, err := render(rows)
	if err != nil {
		logger.GetLogger().Errorw("Export rendering failed", "format", ext, "error", err)
		_ = c.Error(apperrors.InternalServerError("Failed to generate export"))
		return
	}

	filename := fmt.Sprintf("feedback-export-%s.%s", time.Now().Format("2006-01-02"), ext)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, contentType, body)
}
