package transport

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/eventdesk/eventdesk/internal/transport/middleware"
)

func InitRoutes(
	eventHandler *EventHandler,
	registrationHandler *RegistrationHandler,
	userHandler *UserHandler,
	notificationHandler *NotificationHandler,
	requestTimeout time.Duration,
) *gin.Engine {

	router := gin.New()

	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, X-User-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Middleware
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.Timeout(requestTimeout))

	// API routes
	api := router.Group("/api/v1")
	{
		// Event routes
		events := api.Group("/events")
		{
			events.GET("", eventHandler.GetUpcomingEvents)
			events.GET("/:id", eventHandler.GetEvent)

			authorized := events.Group("", middleware.Identity())
			{
				authorized.POST("", eventHandler.CreateEvent)
				authorized.PUT("/:id", eventHandler.UpdateEvent)
				authorized.DELETE("/:id", eventHandler.DeleteEvent)
			}
		}

		// Registration routes, all caller-scoped
		registrations := api.Group("/registrations", middleware.Identity())
		{
			registrations.POST("/register", registrationHandler.Register)
			registrations.GET("/my-registrations", registrationHandler.GetMyRegistrations)
			registrations.PUT("/cancel/:id", registrationHandler.Cancel)
			registrations.GET("/check/:event_id", registrationHandler.CheckRegistration)
			registrations.GET("/event/:event_id", registrationHandler.GetEventRegistrations)
			registrations.PUT("/update-status/:id", registrationHandler.UpdateStatus)
			registrations.PUT("/confirm-payment/:id", registrationHandler.ConfirmPayment)
		}

		// User routes
		users := api.Group("/users")
		{
			users.POST("/register", userHandler.RegisterUser)
			users.GET("/:id", userHandler.GetUser)
			users.GET("/me/attended", middleware.Identity(), userHandler.GetAttendedEvents)
		}

		// Notification routes
		notifications := api.Group("/notifications", middleware.Identity())
		{
			notifications.GET("", notificationHandler.GetMyNotifications)
			notifications.PUT("/:id/read", notificationHandler.MarkRead)
		}

		// Admin routes
		admin := api.Group("/admin")
		{
			admin.GET("/events", eventHandler.GetAllEvents)
		}
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	return router
}
