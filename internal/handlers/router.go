package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// NewRouter wires middleware and all API routes onto a gin engine.
func NewRouter(auth *AuthHandler, events *EventHandler, apps *ApplicationHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())

	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
	})

	authRoutes := r.Group("/auth")
	{
		authRoutes.POST("/register", auth.Register)
		authRoutes.POST("/login", auth.Login)
		authRoutes.GET("/me", auth.Me)
		authRoutes.PUT("/profile", auth.UpdateProfile)
		authRoutes.POST("/reset-password", auth.ResetPassword)
	}

	eventRoutes := r.Group("/events")
	{
		eventRoutes.GET("", events.List)
		eventRoutes.POST("", events.Create)
		eventRoutes.GET("/:id", events.Get)
		eventRoutes.PATCH("/:id", events.Patch)
		eventRoutes.PUT("/:id", events.Replace)
		eventRoutes.DELETE("/:id", events.Delete)
		eventRoutes.POST("/:id/select", events.Select)
	}

	appRoutes := r.Group("/applications")
	{
		appRoutes.GET("", apps.List)
		appRoutes.POST("", apps.Create)
		appRoutes.GET("/:id", apps.Get)
		appRoutes.PATCH("/:id", apps.Patch)
	}

	return r
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	}
}
