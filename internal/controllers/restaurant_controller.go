package controllers

import (
	"net/http"

	"github.com/franciscosanchezn/pizza-restaurants-api/internal/metrics"
	"github.com/franciscosanchezn/pizza-restaurants-api/internal/models"
	"github.com/franciscosanchezn/pizza-restaurants-api/internal/services"
	"github.com/gin-gonic/gin"
)

// RestaurantController handles HTTP requests related to restaurants
type RestaurantController interface {
	// GetAllRestaurants lists every restaurant without its pizzas
	GetAllRestaurants(c *gin.Context)
	// GetRestaurantByID returns a restaurant with the pizzas it sells
	GetRestaurantByID(c *gin.Context)
	// DeleteRestaurant deletes a restaurant and its restaurant pizzas
	DeleteRestaurant(c *gin.Context)
}

type restaurantController struct {
	service services.RestaurantService
	metrics *metrics.Manager
}

// NewRestaurantController creates a new instance of RestaurantController.
// A nil metrics manager disables the domain counters.
func NewRestaurantController(service services.RestaurantService, m *metrics.Manager) RestaurantController {
	return &restaurantController{service: service, metrics: m}
}

// GetAllRestaurants godoc
// @Summary Get all restaurants
// @Description Get a list of all restaurants, without their pizzas
// @Tags restaurants
// @Produce json
// @Success 200 {array} models.RestaurantSummary
// @Failure 500 {object} map[string]string
// @Router /restaurants [get]
func (c *restaurantController) GetAllRestaurants(ctx *gin.Context) {
	restaurants, err := c.service.GetAllRestaurants(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, models.RestaurantSummaries(restaurants))
}

// GetRestaurantByID godoc
// @Summary Get restaurant by ID
// @Description Get a restaurant together with the pizzas it sells and their prices
// @Tags restaurants
// @Produce json
// @Param id path int true "Restaurant ID"
// @Success 200 {object} models.RestaurantDetail
// @Failure 404 {object} models.NotFoundResponse
// @Failure 500 {object} map[string]string
// @Router /restaurants/{id} [get]
func (c *restaurantController) GetRestaurantByID(ctx *gin.Context) {
	id, ok := parseRestaurantID(ctx)
	if !ok {
		respondRestaurantNotFound(ctx)
		return
	}

	restaurant, err := c.service.GetRestaurantByID(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, restaurant.Detail())
}

// DeleteRestaurant godoc
// @Summary Delete a restaurant
// @Description Delete a restaurant after deleting the restaurant pizzas it owns
// @Tags restaurants
// @Param id path int true "Restaurant ID"
// @Success 204 "Restaurant deleted"
// @Failure 401 {object} models.OAuth2Error
// @Failure 403 {object} map[string]string
// @Failure 404 {object} models.NotFoundResponse
// @Failure 500 {object} map[string]string
// @Security BearerAuth
// @Router /restaurants/{id} [delete]
func (c *restaurantController) DeleteRestaurant(ctx *gin.Context) {
	id, ok := parseRestaurantID(ctx)
	if !ok {
		respondRestaurantNotFound(ctx)
		return
	}

	if err := c.service.DeleteRestaurant(ctx.Request.Context(), id); err != nil {
		respondError(ctx, err)
		return
	}

	c.metrics.RecordRestaurantDeleted()
	log.WithField("restaurant_id", id).Info("Restaurant deleted")
	ctx.Status(http.StatusNoContent)
}
