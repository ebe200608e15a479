package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dahby/13-14-relationship-mapping/internal/middleware"
	"github.com/dahby/13-14-relationship-mapping/internal/service"
)

// HealthCheck returns the health status of the API
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "Food API is running",
	})
}

// RegisterRoutes registers all API routes. limiter may be nil.
func RegisterRoutes(router *gin.Engine, foodService service.IFoodService, limiter *middleware.RateLimiter) {
	router.GET("/health", HealthCheck)

	var foodHandler *FoodHandler
	if limiter != nil {
		foodHandler = NewFoodHandlerWithRateLimit(foodService, limiter)
	} else {
		foodHandler = NewFoodHandler(foodService)
	}

	foodHandler.RegisterRoutes(router.Group("/api"))
}
