package handlers

import (
	"context"
	"net/http"

	"github.com/feedbackhq/feedback-collector/logger"
	"github.com/feedbackhq/feedback-collector/types"
	"github.com/gin-gonic/gin"
)

// Pinger is the slice of the database pool the health check needs.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports liveness and database readiness.
type HealthHandler struct {
	db Pinger
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// Liveness godoc
// @Summary      Liveness probe
// @Tags         health
// @Produce      json
// @Success      200  {object}  types.StatusResponse
// @Router       /health [get]
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, types.StatusResponse{
		Status:  "OK",
		Message: "Feedback Collector API is running",
	})
}

// Readiness godoc
// @Summary      Readiness probe
// @Description  Verifies database connectivity
// @Tags         health
// @Produce      json
// @Success      200  {object}  types.StatusResponse
// @Failure      503  {object}  types.StatusResponse
// @Router       /health/ready [get]
func (h *HealthHandler) Readiness(c *gin.Context) {
	if err := h.db.Ping(c.Request.Context()); err != nil {
		logger.GetLogger().Errorw("Readiness check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, types.StatusResponse{
			Status:  "UNAVAILABLE",
			Message: "Database is not reachable",
		})
		return
	}
	c.JSON(http.StatusOK, types.StatusResponse{
		Status:  "OK",
		Message: "All systems operational",
	})
}
