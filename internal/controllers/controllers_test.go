package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/franciscosanchezn/pizza-restaurants-api/internal/metrics"
	"github.com/franciscosanchezn/pizza-restaurants-api/internal/models"
	"github.com/franciscosanchezn/pizza-restaurants-api/internal/services"
	"github.com/franciscosanchezn/pizza-restaurants-api/internal/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router   *gin.Engine
	db       *gorm.DB
	fixtures testutil.Fixtures
	metrics  *metrics.Manager
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	db := testutil.NewTestDB(t)
	fixtures := testutil.SeedFixtures(t, db)
	m := metrics.NewManager()

	restaurants := NewRestaurantController(services.NewRestaurantService(db, nil), m)
	pizzas := NewPizzaController(services.NewPizzaService(db, nil))
	restaurantPizzas := NewRestaurantPizzaController(services.NewRestaurantPizzaService(db), m)
	health := NewHealthController(db)

	router := gin.New()
	router.GET("/", Index)
	router.GET("/health", health.Check)
	router.GET("/restaurants", restaurants.GetAllRestaurants)
	router.GET("/restaurants/:id", restaurants.GetRestaurantByID)
	router.DELETE("/restaurants/:id", restaurants.DeleteRestaurant)
	router.GET("/pizzas", pizzas.GetAllPizzas)
	router.POST("/restaurant_pizzas", restaurantPizzas.CreateRestaurantPizza)

	return &testServer{router: router, db: db, fixtures: fixtures, metrics: m}
}

func (s *testServer) do(method, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) postJSON(t *testing.T, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	return s.do(http.MethodPost, path, body)
}

func (s *testServer) countRestaurantPizzas(t *testing.T) int64 {
	t.Helper()
	var count int64
	require.NoError(t, s.db.Model(&models.RestaurantPizza{}).Count(&count).Error)
	return count
}

func TestIndex(t *testing.T) {
	s := setupTestServer(t)

	w := s.do(http.MethodGet, "/", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Equal(t, "<h1>Code challenge</h1>", w.Body.String())
}

func TestHealth(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		s := setupTestServer(t)

		w := s.do(http.MethodGet, "/health", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "healthy", body["status"])
		assert.Equal(t, ServiceName, body["service"])
	})

	t.Run("database closed", func(t *testing.T) {
		s := setupTestServer(t)
		sqlDB, err := s.db.DB()
		require.NoError(t, err)
		require.NoError(t, sqlDB.Close())

		w := s.do(http.MethodGet, "/health", nil)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), "unhealthy")
	})
}

func TestGetAllRestaurants(t *testing.T) {
	s := setupTestServer(t)

	w := s.do(http.MethodGet, "/restaurants", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var body []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body, 2)
	assert.Equal(t, "Karen's Pizza Shack", body[0]["name"])
	assert.Equal(t, "address1", body[0]["address"])
	for _, restaurant := range body {
		assert.Len(t, restaurant, 3)
		assert.NotContains(t, restaurant, "restaurant_pizzas")
	}
}

func TestGetAllRestaurantsEmpty(t *testing.T) {
	db := testutil.NewTestDB(t)
	router := gin.New()
	router.GET("/restaurants", NewRestaurantController(services.NewRestaurantService(db, nil), nil).GetAllRestaurants)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/restaurants", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestGetRestaurantByID(t *testing.T) {
	s := setupTestServer(t)
	karen := s.fixtures.Restaurants[0]

	t.Run("returns restaurant pizzas with nested pizza", func(t *testing.T) {
		w := s.do(http.MethodGet, fmt.Sprintf("/restaurants/%d", karen.ID), nil)

		require.Equal(t, http.StatusOK, w.Code)
		var body models.RestaurantDetail
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, karen.ID, body.ID)
		assert.Equal(t, "Karen's Pizza Shack", body.Name)
		require.Len(t, body.RestaurantPizzas, 2)
		first := body.RestaurantPizzas[0]
		assert.Equal(t, 10.0, first.Price)
		assert.Equal(t, karen.ID, first.RestaurantID)
		require.NotNil(t, first.Pizza)
		assert.Equal(t, "Emma", first.Pizza.Name)
		assert.Equal(t, "Dough, Tomato Sauce, Cheese", first.Pizza.Ingredients)
	})

	t.Run("restaurant without pizzas has empty list", func(t *testing.T) {
		lonely := models.Restaurant{Name: "Kiki's Pizza", Address: "address3"}
		require.NoError(t, s.db.Create(&lonely).Error)

		w := s.do(http.MethodGet, fmt.Sprintf("/restaurants/%d", lonely.ID), nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, fmt.Sprintf(`{"id":%d,"name":"Kiki's Pizza","address":"address3","restaurant_pizzas":[]}`, lonely.ID), w.Body.String())
	})

	for _, path := range []string{"/restaurants/9999", "/restaurants/0", "/restaurants/abc", "/restaurants/-1"} {
		t.Run("not found "+path, func(t *testing.T) {
			w := s.do(http.MethodGet, path, nil)

			assert.Equal(t, http.StatusNotFound, w.Code)
			assert.JSONEq(t, `{"error":"Restaurant not found"}`, w.Body.String())
		})
	}
}

func TestDeleteRestaurant(t *testing.T) {
	s := setupTestServer(t)
	karen := s.fixtures.Restaurants[0]
	sanjay := s.fixtures.Restaurants[1]

	w := s.do(http.MethodDelete, fmt.Sprintf("/restaurants/%d", karen.ID), nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
	assert.Equal(t, int64(1), s.countRestaurantPizzas(t))
	assert.Equal(t, 1.0, counterValue(t, s.metrics, "pizza_api_restaurants_deleted_total"))

	w = s.do(http.MethodGet, fmt.Sprintf("/restaurants/%d", karen.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodDelete, fmt.Sprintf("/restaurants/%d", karen.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Restaurant not found"}`, w.Body.String())

	w = s.do(http.MethodGet, fmt.Sprintf("/restaurants/%d", sanjay.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body models.RestaurantDetail
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.RestaurantPizzas, 1)

	w = s.do(http.MethodGet, "/pizzas", nil)
	var pizzas []models.PizzaSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pizzas))
	assert.Len(t, pizzas, 2)
}

func TestDeleteRestaurantNotFound(t *testing.T) {
	s := setupTestServer(t)

	for _, path := range []string{"/restaurants/9999", "/restaurants/abc"} {
		w := s.do(http.MethodDelete, path, nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error":"Restaurant not found"}`, w.Body.String())
	}
	assert.Equal(t, int64(3), s.countRestaurantPizzas(t))
}

func TestGetAllPizzas(t *testing.T) {
	s := setupTestServer(t)

	w := s.do(http.MethodGet, "/pizzas", nil)

	require.Equal(t, http.StatusOK, w.Code)
	expected := fmt.Sprintf(`[
		{"id":%d,"name":"Emma","ingredients":"Dough, Tomato Sauce, Cheese"},
		{"id":%d,"name":"Geri","ingredients":"Dough, Tomato Sauce, Cheese, Pepperoni"}
	]`, s.fixtures.Pizzas[0].ID, s.fixtures.Pizzas[1].ID)
	assert.JSONEq(t, expected, w.Body.String())
}

func TestCreateRestaurantPizza(t *testing.T) {
	s := setupTestServer(t)
	pizza := s.fixtures.Pizzas[1]
	restaurant := s.fixtures.Restaurants[1]

	payload := map[string]any{"price": 12.5, "pizza_id": pizza.ID, "restaurant_id": restaurant.ID}
	w := s.postJSON(t, "/restaurant_pizzas", payload)

	require.Equal(t, http.StatusCreated, w.Code)
	var created models.RestaurantPizzaCreated
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotZero(t, created.ID)
	assert.Equal(t, 12.5, created.Price)
	assert.Equal(t, pizza.ID, created.PizzaID)
	assert.Equal(t, restaurant.ID, created.RestaurantID)
	assert.Equal(t, models.PizzaSummary{ID: pizza.ID, Name: "Geri", Ingredients: "Dough, Tomato Sauce, Cheese, Pepperoni"}, created.Pizza)
	assert.Equal(t, models.RestaurantSummary{ID: restaurant.ID, Name: "Sanjay's Pizza", Address: "address2"}, created.Restaurant)

	again := s.postJSON(t, "/restaurant_pizzas", payload)
	require.Equal(t, http.StatusCreated, again.Code)
	var second models.RestaurantPizzaCreated
	require.NoError(t, json.Unmarshal(again.Body.Bytes(), &second))
	assert.NotEqual(t, created.ID, second.ID)

	assert.Equal(t, int64(5), s.countRestaurantPizzas(t))
	assert.Equal(t, 2.0, counterValue(t, s.metrics, "pizza_api_restaurant_pizzas_created_total"))
}

func TestCreateRestaurantPizzaValidation(t *testing.T) {
	s := setupTestServer(t)
	pizzaID := s.fixtures.Pizzas[0].ID
	restaurantID := s.fixtures.Restaurants[0].ID

	testCases := []struct {
		name string
		body string
	}{
		{name: "zero price", body: fmt.Sprintf(`{"price":0,"pizza_id":%d,"restaurant_id":%d}`, pizzaID, restaurantID)},
		{name: "missing price", body: fmt.Sprintf(`{"pizza_id":%d,"restaurant_id":%d}`, pizzaID, restaurantID)},
		{name: "missing pizza_id", body: fmt.Sprintf(`{"price":5,"restaurant_id":%d}`, restaurantID)},
		{name: "missing restaurant_id", body: fmt.Sprintf(`{"price":5,"pizza_id":%d}`, pizzaID)},
		{name: "price above range", body: fmt.Sprintf(`{"price":31,"pizza_id":%d,"restaurant_id":%d}`, pizzaID, restaurantID)},
		{name: "price below range", body: fmt.Sprintf(`{"price":0.5,"pizza_id":%d,"restaurant_id":%d}`, pizzaID, restaurantID)},
		{name: "unknown pizza", body: fmt.Sprintf(`{"price":5,"pizza_id":9999,"restaurant_id":%d}`, restaurantID)},
		{name: "unknown restaurant", body: fmt.Sprintf(`{"price":5,"pizza_id":%d,"restaurant_id":9999}`, pizzaID)},
		{name: "wrong type", body: fmt.Sprintf(`{"price":"cheap","pizza_id":%d,"restaurant_id":%d}`, pizzaID, restaurantID)},
		{name: "fractional literal id", body: fmt.Sprintf(`{"price":5,"pizza_id":%d.0,"restaurant_id":%d}`, pizzaID, restaurantID)},
		{name: "negative id", body: fmt.Sprintf(`{"price":5,"pizza_id":-1,"restaurant_id":%d}`, restaurantID)},
		{name: "malformed json", body: `{"price":`},
		{name: "empty body", body: ``},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(http.MethodPost, "/restaurant_pizzas", []byte(tt.body))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.JSONEq(t, `{"errors":["validation errors"]}`, w.Body.String())
		})
	}

	assert.Equal(t, int64(3), s.countRestaurantPizzas(t))
	assert.Equal(t, 0.0, counterValue(t, s.metrics, "pizza_api_restaurant_pizzas_created_total"))
}

func TestCreateRestaurantPizzaPriceBounds(t *testing.T) {
	s := setupTestServer(t)

	for _, price := range []float64{models.MinPrice, models.MaxPrice} {
		w := s.postJSON(t, "/restaurant_pizzas", map[string]any{
			"price":         price,
			"pizza_id":      s.fixtures.Pizzas[0].ID,
			"restaurant_id": s.fixtures.Restaurants[1].ID,
		})
		assert.Equal(t, http.StatusCreated, w.Code, "price %v", price)
	}
}

func TestInternalErrorBody(t *testing.T) {
	s := setupTestServer(t)
	sqlDB, err := s.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	w := s.do(http.MethodGet, "/pizzas", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, w.Body.String())
}

// counterValue sums every sample of the named counter in the manager's registry
func counterValue(t *testing.T, m *metrics.Manager, name string) float64 {
	t.Helper()
	families, err := m.Registry().Gather()
	require.NoError(t, err)
	var total float64
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, metric := range family.GetMetric() {
			total += metric.GetCounter().GetValue()
		}
	}
	return total
}
