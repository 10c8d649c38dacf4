package controllers

import (
	"errors"
	"net/http"

	"github.com/franciscosanchezn/pizza-restaurants-api/internal/metrics"
	"github.com/franciscosanchezn/pizza-restaurants-api/internal/models"
	"github.com/franciscosanchezn/pizza-restaurants-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RestaurantPizzaController handles HTTP requests that price pizzas at restaurants
type RestaurantPizzaController interface {
	// CreateRestaurantPizza creates a restaurant pizza
	CreateRestaurantPizza(c *gin.Context)
}

// CreateRestaurantPizzaRequest is the body of POST /restaurant_pizzas.
// Zero values fail the required check. Ids must be JSON integers, so 1.0 is
// rejected like any other wrong type.
type CreateRestaurantPizzaRequest struct {
	Price        float64 `json:"price" binding:"required" example:"12.5"`
	PizzaID      uint    `json:"pizza_id" binding:"required" example:"1"`
	RestaurantID uint    `json:"restaurant_id" binding:"required" example:"1"`
}

type restaurantPizzaController struct {
	service services.RestaurantPizzaService
	metrics *metrics.Manager
}

// NewRestaurantPizzaController creates a new instance of RestaurantPizzaController
func NewRestaurantPizzaController(service services.RestaurantPizzaService, m *metrics.Manager) RestaurantPizzaController {
	return &restaurantPizzaController{service: service, metrics: m}
}

// CreateRestaurantPizza godoc
// @Summary Create a restaurant pizza
// @Description Sell an existing pizza at an existing restaurant for a price between 1 and 30
// @Tags restaurant_pizzas
// @Accept json
// @Produce json
// @Param restaurant_pizza body CreateRestaurantPizzaRequest true "Restaurant pizza"
// @Success 201 {object} models.RestaurantPizzaCreated
// @Failure 400 {object} models.ValidationErrorResponse
// @Failure 401 {object} models.OAuth2Error
// @Failure 403 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Security BearerAuth
// @Router /restaurant_pizzas [post]
func (c *restaurantPizzaController) CreateRestaurantPizza(ctx *gin.Context) {
	var req CreateRestaurantPizzaRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.WithError(err).Debug("Restaurant pizza request rejected")
		c.metrics.RecordValidationFailure("request")
		respondValidationErrors(ctx)
		return
	}

	created, err := c.service.CreateRestaurantPizza(ctx.Request.Context(), models.RestaurantPizza{
		Price:        req.Price,
		PizzaID:      req.PizzaID,
		RestaurantID: req.RestaurantID,
	})
	if err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			log.WithFields(logrus.Fields{
				"field":  verr.Field,
				"reason": verr.Reason,
			}).Debug("Restaurant pizza failed validation")
			c.metrics.RecordValidationFailure(verr.Field)
		}
		respondError(ctx, err)
		return
	}

	c.metrics.RecordRestaurantPizzaCreated()
	ctx.JSON(http.StatusCreated, created.Created())
}
