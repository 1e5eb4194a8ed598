package routes

import (
	"net/http"
	"time"

	"agenda-backend/config"
	"agenda-backend/controllers"
	"agenda-backend/middleware"
	"agenda-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter(ctl *controllers.Controller, limiter *middleware.RateLimiter) *gin.Engine {
	r := gin.New()
	r.Use(utils.ErrorHandler())

	origins := config.AllowedOrigins()
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	r.Use(cors.New(cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		AllowOriginFunc: func(origin string) bool {
			return allowed[origin]
		},
		MaxAge: 12 * time.Hour,
	}))

	r.Use(config.PerformanceLogger())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := r.Group("/auth")
	{
		auth.POST("/register", ctl.Register)
		auth.POST("/login", ctl.Login)
		auth.POST("/logout", ctl.Logout)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", ctl.Me)
		auth.GET("/profile", ctl.GetProfile)
		auth.PUT("/profile", ctl.UpdateProfile)
		auth.DELETE("/account", ctl.DeleteAccount)
	}

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	{
		// Service routes
		services := api.Group("/services")
		{
			services.POST("", ctl.CreateService)
			services.GET("", ctl.GetServices)
			services.GET("/:id", ctl.GetService)
			services.PUT("/:id", ctl.UpdateService)
			services.DELETE("/:id", ctl.DeleteService)
		}

		// Availability routes
		availability := api.Group("/availability")
		{
			availability.GET("", ctl.PreviewAvailability)
			availability.GET("/template", ctl.GetTemplate)
			availability.PUT("/template", ctl.SetTemplate)
			availability.DELETE("/template", ctl.DeleteTemplate)
			availability.GET("/exceptions", ctl.ListExceptions)
			availability.PUT("/exceptions/:date", ctl.SetException)
			availability.DELETE("/exceptions/:date", ctl.DeleteException)
		}

		// Booking routes
		bookings := api.Group("/bookings")
		{
			bookings.GET("", ctl.GetBookings)
			bookings.DELETE("/:id", ctl.DeleteBooking)
		}

		api.GET("/reports", ctl.GetReportAnalytics)
		api.GET("/dashboard", ctl.GetDashboardOverview)
	}

	public := r.Group("")
	public.Use(middleware.RateLimitMiddleware(limiter))
	{
		page := public.Group("/p/:provider")
		{
			page.GET("", ctl.PublicProfile)
			page.GET("/availability", ctl.PublicAvailability)
			page.POST("/availability", ctl.PublicAvailability)
			page.POST("/bookings", ctl.PublicReserve)
			page.GET("/bookings", ctl.PublicLookup)
			page.POST("/bookings/:id/cancel", ctl.PublicCancel)
		}
		public.POST("/bookings/cancel", ctl.CancelWithToken)
	}

	return r
}
