package services

import (
	"context"
	"fmt"

	"github.com/franciscosanchezn/pizza-restaurants-api/internal/cache"
	"github.com/franciscosanchezn/pizza-restaurants-api/internal/models"
	"gorm.io/gorm"
)

// PizzaService provides methods to interact with the pizza table
type PizzaService interface {
	// GetAllPizzas retrieves all pizzas from the database
	GetAllPizzas(ctx context.Context) ([]models.Pizza, error)
}

// pizzaService is the implementation of the PizzaService interface
type pizzaService struct {
	db    *gorm.DB
	cache cache.Cache
}

// NewPizzaService creates a new instance of PizzaService.
// A nil cache disables caching.
func NewPizzaService(db *gorm.DB, c cache.Cache) PizzaService {
	if c == nil {
		c = cache.Noop{}
	}
	return &pizzaService{db: db, cache: c}
}

func (s *pizzaService) GetAllPizzas(ctx context.Context) ([]models.Pizza, error) {
	var pizzas []models.Pizza
	if found, err := s.cache.Get(ctx, cache.KeyPizzas, &pizzas); err == nil && found {
		return pizzas, nil
	} else if err != nil {
		log.WithError(err).Warn("Pizza listing cache read failed")
	}

	pizzas = []models.Pizza{}
	if err := s.db.WithContext(ctx).Order("id").Find(&pizzas).Error; err != nil {
		return nil, fmt.Errorf("list pizzas: %w", err)
	}

	if err := s.cache.Set(ctx, cache.KeyPizzas, pizzas); err != nil {
		log.WithError(err).Warn("Pizza listing cache write failed")
	}
	return pizzas, nil
}
