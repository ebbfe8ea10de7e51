// Package router wires the gin engine: middleware chain, route groups, and
// the handler dependencies behind them.
package router

import (
	"time"

	"github.com/feedbackhq/feedback-collector/config"
	"github.com/feedbackhq/feedback-collector/handlers"
	"github.com/feedbackhq/feedback-collector/middleware"
	"github.com/feedbackhq/feedback-collector/services"
	"github.com/feedbackhq/feedback-collector/store"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies holds everything the router needs to build the handler set.
type Dependencies struct {
	Config        *config.Config
	UserStore     store.UserStore
	TypeStore     store.FeedbackTypeStore
	FeedbackStore store.FeedbackStore
	RateLimiter   services.RateLimiterInterface
	DBPinger      handlers.Pinger
}

// SetupRouter builds the gin engine with the full route table.
func SetupRouter(deps Dependencies) *gin.Engine {
	if deps.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(&deps.Config.Server))

	authHandler := handlers.NewAuthHandler(deps.UserStore, &deps.Config.JWT, &deps.Config.Admin)
	feedbackHandler := handlers.NewFeedbackHandler(deps.FeedbackStore, deps.TypeStore)
	typeHandler := handlers.NewFeedbackTypeHandler(deps.TypeStore)
	exportHandler := handlers.NewExportHandler(deps.FeedbackStore)
	healthHandler := handlers.NewHealthHandler(deps.DBPinger)

	adminAuth := middleware.AdminAuthMiddleware(&deps.Config.JWT, deps.UserStore)
	submitLimit := middleware.EndpointRateLimiter(deps.RateLimiter, deps.Config.RateLimit.SubmitPerMinute, time.Minute)
	authLimit := middleware.EndpointRateLimiter(deps.RateLimiter, deps.Config.RateLimit.AuthPerMinute, time.Minute)

	r.GET("/health", healthHandler.Liveness)
	r.GET("/health/ready", healthHandler.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	{
		auth := r.Group("/auth")
		{
			auth.POST("/register", authLimit, authHandler.Register)
			auth.POST("/login", authLimit, authHandler.Login)
			auth.GET("/me", adminAuth, authHandler.Me)
		}

		feedback := r.Group("/feedback")
		{
			feedback.POST("", submitLimit, feedbackHandler.SubmitFeedback)
			feedback.GET("", adminAuth, feedbackHandler.ListFeedback)
			feedback.GET("/stats", adminAuth, feedbackHandler.GetStats)
		}

		feedbackTypes := r.Group("/feedback-types")
		{
			feedbackTypes.GET("", typeHandler.ListActiveTypes)
			feedbackTypes.GET("/admin", adminAuth, typeHandler.ListAdminTypes)
			feedbackTypes.POST("", adminAuth, typeHandler.CreateType)
			feedbackTypes.PUT("/:id", adminAuth, typeHandler.UpdateType)
			feedbackTypes.PATCH("/:id/toggle", adminAuth, typeHandler.ToggleType)
			feedbackTypes.DELETE("/:id", adminAuth, typeHandler.DeleteType)
		}

		admin := r.Group("/admin", adminAuth)
		{
			admin.DELETE("/feedback/:id", feedbackHandler.DeleteFeedback)
			admin.GET("/export/csv", exportHandler.ExportCSV)
			admin.GET("/export/pdf", exportHandler.ExportPDF)
		}
	}

	return r
}
