package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/brewpoints/loyalty-backend/internal/config"
	"github.com/brewpoints/loyalty-backend/internal/handlers"
	"github.com/brewpoints/loyalty-backend/internal/logger"
	"github.com/brewpoints/loyalty-backend/internal/middleware"
	"github.com/brewpoints/loyalty-backend/pkg/jwt"
)

// HandlerDependencies collects the handlers the router wires up
type HandlerDependencies struct {
	AuthHandler         *handlers.AuthHandler
	CustomerHandler     *handlers.CustomerHandler
	NotificationHandler *handlers.NotificationHandler
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, log *logger.Logger, tokens *jwt.TokenManager, deps HandlerDependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware(log))

	// Public routes
	public := router.Group("/api/v1")
	{
		public.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{"status": "ok"})
		})

		auth := public.Group("/auth")
		{
			auth.POST("/login", deps.AuthHandler.Login)
			auth.POST("/logout", deps.AuthHandler.Logout)
			auth.POST("/refresh", deps.AuthHandler.Refresh)
		}
	}

	// Protected routes
	protected := router.Group("/api/v1")
	protected.Use(middleware.JWTAuthMiddleware(tokens))
	{
		customer := protected.Group("/customer")
		{
			customer.GET("/profile", deps.CustomerHandler.GetProfile)
		}

		subscription := protected.Group("/subscription")
		{
			subscription.POST("/start", deps.CustomerHandler.StartSubscription)
			subscription.POST("/stop", deps.CustomerHandler.StopSubscription)
		}

		protected.POST("/payments", deps.CustomerHandler.ProcessBillPayment)
		protected.GET("/transactions", deps.CustomerHandler.GetTransactions)

		rewards := protected.Group("/rewards")
		{
			rewards.POST("/redeem", deps.CustomerHandler.RedeemRewards)
		}

		offerRoutes := protected.Group("/offers")
		{
			offerRoutes.GET("", deps.CustomerHandler.GetOffers)
			offerRoutes.POST("/:id/redeem", deps.CustomerHandler.RedeemOffer)
		}

		notifications := protected.Group("/notifications")
		{
			notifications.GET("", deps.NotificationHandler.GetNotifications)
			notifications.POST("/:id/read", deps.NotificationHandler.MarkAsRead)
			notifications.POST("/read-all", deps.NotificationHandler.MarkAllAsRead)
			notifications.DELETE("/:id", deps.NotificationHandler.DeleteNotification)
			notifications.GET("/preferences", deps.NotificationHandler.GetPreferences)
			notifications.PATCH("/preferences", deps.NotificationHandler.UpdatePreferences)
			notifications.POST("/push-token", deps.NotificationHandler.RegisterPushToken)
		}
	}

	return router
}
