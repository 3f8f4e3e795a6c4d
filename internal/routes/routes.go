package routes

import (
	"net/http"

	"easypro-api/internal/handlers"
	"easypro-api/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Dependencies are the stateful handlers built once per process.
type Dependencies struct {
	Plagiarism *handlers.PlagiarismHandler
}

func SetupRoutes(deps Dependencies) *gin.Engine {
	ginRouter := gin.New()
	ginRouter.Use(gin.Logger(), middleware.Recovery(), middleware.CORS())

	// Liveness
	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "EasyPro API is running",
		})
	})

	api := ginRouter.Group("/easyPro")

	plagiarism := api.Group("/plagiarism")
	{
		plagiarism.POST("/check", deps.Plagiarism.RateLimit(), deps.Plagiarism.Check)
		plagiarism.GET("/health", deps.Plagiarism.Health)
		plagiarism.GET("/stats", deps.Plagiarism.Stats)
	}

	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/register", handlers.Register)
		authRoutes.POST("/login", handlers.Login)
	}

	users := api.Group("/users")
	{
		users.GET("/me", middleware.ProtectUser(), handlers.GetMe)
		users.GET("", middleware.ProtectAdmin(), handlers.GetAllUsers)
	}

	orders := api.Group("/orders", middleware.ProtectUser())
	{
		orders.POST("", handlers.CreateOrder)
		orders.GET("/user/:userId", handlers.GetOrdersByUser)
		orders.GET("/:orderId", handlers.GetOrderByID)
		orders.PATCH("/:orderId/status", middleware.ProtectAdmin(), handlers.UpdateOrderStatus)
		orders.PATCH("/:orderId/assign", middleware.ProtectAdmin(), handlers.AssignWriter)
	}

	writers := api.Group("/writers", middleware.ProtectAdmin())
	{
		writers.GET("", handlers.GetWriters)
		writers.GET("/:id", handlers.GetWriter)
		writers.POST("", handlers.CreateWriter)
		writers.PUT("/:id", handlers.UpdateWriter)
		writers.DELETE("/:id", handlers.DeleteWriter)
	}

	resources := api.Group("/resources")
	{
		resources.GET("", handlers.GetResources)
		resources.GET("/:id", handlers.GetResource)
		resources.POST("", middleware.ProtectAdmin(), handlers.CreateResource)
		resources.PUT("/:id", middleware.ProtectAdmin(), handlers.UpdateResource)
		resources.DELETE("/:id", middleware.ProtectAdmin(), handlers.DeleteResource)
	}

	reviews := api.Group("/reviews")
	{
		reviews.POST("", middleware.ProtectUser(), handlers.CreateReview)
		reviews.GET("/writer/:writerId", handlers.GetWriterReviews)
	}

	// Realtime order events; browsers pass the token as ?token=
	api.GET("/ws", middleware.ProtectUser(), handlers.OrderEvents)

	return ginRouter
}
