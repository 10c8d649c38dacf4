package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/franciscosanchezn/pizza-restaurants-api/internal/models"
	"gorm.io/gorm"
)

// RestaurantPizzaService creates the prices linking pizzas to restaurants
type RestaurantPizzaService interface {
	// CreateRestaurantPizza validates and stores rp, then returns it with its
	// Pizza and Restaurant loaded. Invalid input yields a *models.ValidationError.
	CreateRestaurantPizza(ctx context.Context, rp models.RestaurantPizza) (models.RestaurantPizza, error)
}

type restaurantPizzaService struct {
	db *gorm.DB
}

func NewRestaurantPizzaService(db *gorm.DB) RestaurantPizzaService {
	return &restaurantPizzaService{db: db}
}

func (s *restaurantPizzaService) CreateRestaurantPizza(ctx context.Context, rp models.RestaurantPizza) (models.RestaurantPizza, error) {
	rp.ID = 0
	rp.Pizza = nil
	rp.Restaurant = nil
	if err := rp.Validate(); err != nil {
		return models.RestaurantPizza{}, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := mustExist(tx, &models.Pizza{}, rp.PizzaID, "pizza_id"); err != nil {
			return err
		}
		if err := mustExist(tx, &models.Restaurant{}, rp.RestaurantID, "restaurant_id"); err != nil {
			return err
		}
		return tx.Create(&rp).Error
	})
	if err != nil {
		if models.IsValidationError(err) {
			return models.RestaurantPizza{}, err
		}
		return models.RestaurantPizza{}, fmt.Errorf("create restaurant pizza: %w", err)
	}

	var created models.RestaurantPizza
	if err := s.db.WithContext(ctx).Preload("Pizza").Preload("Restaurant").First(&created, rp.ID).Error; err != nil {
		return models.RestaurantPizza{}, fmt.Errorf("load restaurant pizza %d: %w", rp.ID, err)
	}
	return created, nil
}

// mustExist returns a validation error for field when no row of model has id
func mustExist(tx *gorm.DB, model any, id uint, field string) error {
	err := tx.Select("id").First(model, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewValidationError(field, "does not reference an existing row")
	}
	return err
}
