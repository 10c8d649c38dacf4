// Package testutil holds helpers shared by package tests.
package testutil

import (
	"context"
	"sync"
	"testing"

	"github.com/franciscosanchezn/pizza-restaurants-api/internal/database"
	"github.com/franciscosanchezn/pizza-restaurants-api/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewTestDB opens a migrated in-memory sqlite database with foreign keys enabled
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := database.InitDatabase(database.DatabaseConfig{Driver: database.DriverSQLite, Path: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// Fixtures are the rows created by SeedFixtures
type Fixtures struct {
	Restaurants      []models.Restaurant
	Pizzas           []models.Pizza
	RestaurantPizzas []models.RestaurantPizza
}

// SeedFixtures inserts two restaurants, two pizzas and three prices.
// Restaurant 1 sells both pizzas, restaurant 2 sells the first one.
func SeedFixtures(t testing.TB, db *gorm.DB) Fixtures {
	t.Helper()
	f := Fixtures{
		Restaurants: []models.Restaurant{
			{Name: "Karen's Pizza Shack", Address: "address1"},
			{Name: "Sanjay's Pizza", Address: "address2"},
		},
		Pizzas: []models.Pizza{
			{Name: "Emma", Ingredients: "Dough, Tomato Sauce, Cheese"},
			{Name: "Geri", Ingredients: "Dough, Tomato Sauce, Cheese, Pepperoni"},
		},
	}
	require.NoError(t, db.Create(&f.Restaurants).Error)
	require.NoError(t, db.Create(&f.Pizzas).Error)

	f.RestaurantPizzas = []models.RestaurantPizza{
		{Price: 10, PizzaID: f.Pizzas[0].ID, RestaurantID: f.Restaurants[0].ID},
		{Price: 12, PizzaID: f.Pizzas[1].ID, RestaurantID: f.Restaurants[0].ID},
		{Price: 8, PizzaID: f.Pizzas[0].ID, RestaurantID: f.Restaurants[1].ID},
	}
	require.NoError(t, db.Create(&f.RestaurantPizzas).Error)
	return f
}

// MemoryCache is an in-process cache.Cache for tests
type MemoryCache struct {
	mu     sync.Mutex
	values map[string]any
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{values: map[string]any{}}
}

func (m *MemoryCache) Get(_ context.Context, key string, dest any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.values[key]
	if !ok {
		return false, nil
	}
	switch d := dest.(type) {
	case *[]models.Restaurant:
		*d = value.([]models.Restaurant)
	case *[]models.Pizza:
		*d = value.([]models.Pizza)
	default:
		return false, nil
	}
	return true, nil
}

func (m *MemoryCache) Set(_ context.Context, key string, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryCache) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.values, key)
	}
	return nil
}

// Has reports whether key is currently stored
func (m *MemoryCache) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.values[key]
	return ok
}
