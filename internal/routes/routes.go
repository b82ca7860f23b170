package routes

import (
	"github.com/gin-gonic/gin"

	"viewing-scheduler-server/internal/catalog"
	"viewing-scheduler-server/internal/config"
	"viewing-scheduler-server/internal/handlers"
	"viewing-scheduler-server/internal/middleware"
	"viewing-scheduler-server/internal/store"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, repo store.Repository, cat *catalog.Catalog, cfg *config.Config) {
	// Initialize handlers
	appointmentHandler := handlers.NewAppointmentHandler(repo, cat, cfg.Location)
	calendarHandler := handlers.NewCalendarHandler(repo, cat, cfg.Location)
	catalogHandler := handlers.NewCatalogHandler(cat)

	var limiter *middleware.RateLimiter
	if cfg.RateLimit.RPS > 0 {
		limiter = middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}

	health := func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	}

	// Public routes (no authentication required)
	public := router.Group("/api/v1")
	{
		public.GET("/health", health)
	}

	// Authenticated routes
	private := router.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(cfg.Auth), middleware.RateLimit(limiter))
	{
		private.GET("/agents", catalogHandler.GetAgents)
		private.GET("/agents/:id", catalogHandler.GetAgentByID)
		private.GET("/properties", catalogHandler.GetProperties)
		private.GET("/properties/:id", catalogHandler.GetPropertyByID)

		appointmentRoutes := private.Group("/appointments")
		{
			appointmentRoutes.GET("", appointmentHandler.GetAppointments)
			appointmentRoutes.GET("/:id", appointmentHandler.GetAppointmentByID)
			appointmentRoutes.POST("", appointmentHandler.CreateAppointment)
			appointmentRoutes.PUT("/:id", appointmentHandler.UpdateAppointment)
			appointmentRoutes.PATCH("/:id", appointmentHandler.PatchAppointment)
			appointmentRoutes.DELETE("/:id", appointmentHandler.DeleteAppointment)
		}

		private.GET("/calendar", calendarHandler.GetCalendar)
		private.GET("/calendar/navigate", calendarHandler.Navigate)
		private.GET("/calendar.ics", calendarHandler.ExportICS)
	}

	// Simple health check endpoint
	router.GET("/health", health)
}
