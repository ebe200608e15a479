package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dahby/13-14-relationship-mapping/internal/middleware"
	"github.com/dahby/13-14-relationship-mapping/internal/models"
	"github.com/dahby/13-14-relationship-mapping/internal/service"
	"github.com/dahby/13-14-relationship-mapping/internal/types"
)

// FoodHandler serves the /food resource
type FoodHandler struct {
	foodService  service.IFoodService
	writeLimiter *middleware.RateLimiter
}

// NewFoodHandler creates a FoodHandler without rate limiting
func NewFoodHandler(foodService service.IFoodService) *FoodHandler {
	return &FoodHandler{foodService: foodService}
}

// NewFoodHandlerWithRateLimit creates a FoodHandler whose mutating routes pass through limiter
func NewFoodHandlerWithRateLimit(foodService service.IFoodService, limiter *middleware.RateLimiter) *FoodHandler {
	return &FoodHandler{
		foodService:  foodService,
		writeLimiter: limiter,
	}
}

// RegisterRoutes mounts the food routes. The id-less variants exist so the
// service decides how a missing identifier is reported.
func (h *FoodHandler) RegisterRoutes(router *gin.RouterGroup) {
	food := router.Group("/food")
	{
		food.POST("", h.write(h.CreateFood)...)
		food.GET("", h.GetFood)
		food.GET("/:id", h.GetFood)
		food.PUT("", h.write(h.UpdateFood)...)
		food.PUT("/:id", h.write(h.UpdateFood)...)
		food.DELETE("", h.write(h.DeleteFood)...)
		food.DELETE("/:id", h.write(h.DeleteFood)...)
	}
}

func (h *FoodHandler) write(handler gin.HandlerFunc) []gin.HandlerFunc {
	if h.writeLimiter == nil {
		return []gin.HandlerFunc{handler}
	}
	return []gin.HandlerFunc{h.writeLimiter.Middleware(), handler}
}

func (h *FoodHandler) CreateFood(c *gin.Context) {
	var req types.CreateFoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err).SetType(gin.ErrorTypeBind)
		return
	}

	food, err := h.foodService.CreateFood(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, food)
}

func (h *FoodHandler) GetFood(c *gin.Context) {
	food, err := h.foodService.GetFood(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, food)
}

func (h *FoodHandler) UpdateFood(c *gin.Context) {
	// An unknown target is reported before the body is looked at.
	if _, err := models.ParseFoodID(c.Param("id")); err != nil {
		_ = c.Error(&service.NotFoundError{ID: c.Param("id")})
		return
	}

	var req types.UpdateFoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err).SetType(gin.ErrorTypeBind)
		return
	}

	food, err := h.foodService.UpdateFood(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, food)
}

func (h *FoodHandler) DeleteFood(c *gin.Context) {
	if err := h.foodService.DeleteFood(c.Request.Context(), c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}
