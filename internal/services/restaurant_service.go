package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/franciscosanchezn/pizza-restaurants-api/internal/cache"
	"github.com/franciscosanchezn/pizza-restaurants-api/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// RestaurantService provides methods to interact with the restaurant table
type RestaurantService interface {
	// GetAllRestaurants retrieves all restaurants, without their pizzas
	GetAllRestaurants(ctx context.Context) ([]models.Restaurant, error)
	// GetRestaurantByID retrieves a restaurant with its restaurant pizzas and their pizzas
	GetRestaurantByID(ctx context.Context, id uint) (models.Restaurant, error)
	// DeleteRestaurant deletes a restaurant after deleting the restaurant pizzas it owns
	DeleteRestaurant(ctx context.Context, id uint) error
}

// restaurantService is the implementation of the RestaurantService interface
type restaurantService struct {
	db    *gorm.DB
	cache cache.Cache

	// generation is bumped on every invalidation. A listing read only fills the
	// cache when no invalidation happened while it queried the database.
	mu         sync.Mutex
	generation uint64
}

// NewRestaurantService creates a new instance of RestaurantService.
// A nil cache disables caching.
func NewRestaurantService(db *gorm.DB, c cache.Cache) RestaurantService {
	if c == nil {
		c = cache.Noop{}
	}
	return &restaurantService{db: db, cache: c}
}

func (s *restaurantService) GetAllRestaurants(ctx context.Context) ([]models.Restaurant, error) {
	var restaurants []models.Restaurant
	if found, err := s.cache.Get(ctx, cache.KeyRestaurants, &restaurants); err == nil && found {
		return restaurants, nil
	} else if err != nil {
		log.WithError(err).Warn("Restaurant listing cache read failed")
	}

	generation := s.currentGeneration()
	restaurants = []models.Restaurant{}
	if err := s.db.WithContext(ctx).Order("id").Find(&restaurants).Error; err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}

	s.fillListing(ctx, generation, restaurants)
	return restaurants, nil
}

func (s *restaurantService) GetRestaurantByID(ctx context.Context, id uint) (models.Restaurant, error) {
	var restaurant models.Restaurant
	err := s.db.WithContext(ctx).
		Preload("RestaurantPizzas", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("RestaurantPizzas.Pizza").
		First(&restaurant, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Restaurant{}, models.ErrRestaurantNotFound
	}
	if err != nil {
		return models.Restaurant{}, fmt.Errorf("get restaurant %d: %w", id, err)
	}
	return restaurant, nil
}

// DeleteRestaurant removes the owned restaurant pizzas first, then the restaurant,
// in a single transaction. No database level cascade is relied upon.
func (s *restaurantService) DeleteRestaurant(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var restaurant models.Restaurant
		if err := tx.First(&restaurant, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrRestaurantNotFound
			}
			return err
		}

		result := tx.Where("restaurant_id = ?", id).Delete(&models.RestaurantPizza{})
		if result.Error != nil {
			return fmt.Errorf("delete restaurant pizzas: %w", result.Error)
		}

		if err := tx.Delete(&restaurant).Error; err != nil {
			return fmt.Errorf("delete restaurant: %w", err)
		}

		log.WithFields(logrus.Fields{
			"restaurant_id":             id,
			"restaurant_pizzas_removed": result.RowsAffected,
		}).Debug("Restaurant deleted")
		return nil
	})
	if err != nil {
		if errors.Is(err, models.ErrRestaurantNotFound) {
			return err
		}
		return fmt.Errorf("delete restaurant %d: %w", id, err)
	}

	s.invalidateListing(ctx)
	return nil
}

func (s *restaurantService) currentGeneration() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// fillListing stores restaurants unless the listing was invalidated after generation was read
func (s *restaurantService) fillListing(ctx context.Context, generation uint64, restaurants []models.Restaurant) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != generation {
		log.Debug("Restaurant listing changed during read, skipping cache write")
		return
	}
	if err := s.cache.Set(ctx, cache.KeyRestaurants, restaurants); err != nil {
		log.WithError(err).Warn("Restaurant listing cache write failed")
	}
}

func (s *restaurantService) invalidateListing(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	if err := s.cache.Delete(ctx, cache.KeyRestaurants); err != nil {
		log.WithError(err).Warn("Restaurant listing cache invalidation failed")
	}
}
