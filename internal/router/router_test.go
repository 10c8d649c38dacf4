package router

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/franciscosanchezn/pizza-restaurants-api/internal/config"
	"github.com/franciscosanchezn/pizza-restaurants-api/internal/middleware"
	"github.com/franciscosanchezn/pizza-restaurants-api/internal/models"
	"github.com/franciscosanchezn/pizza-restaurants-api/internal/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupRouter(t *testing.T, authEnabled bool) (*gin.Engine, *gorm.DB, testutil.Fixtures) {
	t.Helper()
	db := testutil.NewTestDB(t)
	fixtures := testutil.SeedFixtures(t, db)

	conf := config.Default()
	conf.AuthEnabled = authEnabled
	conf.JWTSecret = "router-test-secret"

	for _, c := range []struct{ id, secret, role string }{
		{"dev-client", "dev-secret-123", models.RoleAdmin},
		{"user-client", "user-secret-123", models.RoleUser},
	} {
		client := &models.OAuthClient{ID: c.id, Name: c.id, Role: c.role}
		require.NoError(t, client.SetSecret(c.secret))
		require.NoError(t, db.Create(client).Error)
	}

	return SetupRouter(Dependencies{Config: conf, DB: db}), db, fixtures
}

func serve(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func fetchToken(t *testing.T, router http.Handler, clientID, secret string) string {
	t.Helper()
	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {clientID},
		"client_secret": {secret},
	}
	req := httptest.NewRequest(http.MethodPost, "/oauth/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := serve(router, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	token, ok := body["access_token"].(string)
	require.True(t, ok)
	return token
}

func restaurantPizzaRequest(f testutil.Fixtures, token string) *http.Request {
	body := fmt.Sprintf(`{"price":12.5,"pizza_id":%d,"restaurant_id":%d}`, f.Pizzas[0].ID, f.Restaurants[1].ID)
	req := httptest.NewRequest(http.MethodPost, "/restaurant_pizzas", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestPublicRoutes(t *testing.T) {
	router, _, f := setupRouter(t, false)

	testCases := []struct {
		path   string
		status int
	}{
		{"/", http.StatusOK},
		{"/health", http.StatusOK},
		{"/restaurants", http.StatusOK},
		{fmt.Sprintf("/restaurants/%d", f.Restaurants[0].ID), http.StatusOK},
		{"/restaurants/9999", http.StatusNotFound},
		{"/pizzas", http.StatusOK},
		{"/swagger/index.html", http.StatusOK},
		{"/clients", http.StatusNotFound},
	}

	for _, tt := range testCases {
		t.Run(tt.path, func(t *testing.T) {
			w := serve(router, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.status, w.Code)
			assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
		})
	}
}

func TestWritesOpenWhenAuthDisabled(t *testing.T) {
	router, _, f := setupRouter(t, false)

	w := serve(router, restaurantPizzaRequest(f, ""))
	assert.Equal(t, http.StatusCreated, w.Code)

	w = serve(router, httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/restaurants/%d", f.Restaurants[0].ID), nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestWritesRequireAdminWhenAuthEnabled(t *testing.T) {
	router, db, f := setupRouter(t, true)
	deletePath := fmt.Sprintf("/restaurants/%d", f.Restaurants[0].ID)

	t.Run("reads stay public", func(t *testing.T) {
		w := serve(router, httptest.NewRequest(http.MethodGet, "/restaurants", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing token", func(t *testing.T) {
		w := serve(router, restaurantPizzaRequest(f, ""))
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		w = serve(router, httptest.NewRequest(http.MethodDelete, deletePath, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("user role is forbidden", func(t *testing.T) {
		token := fetchToken(t, router, "user-client", "user-secret-123")

		w := serve(router, restaurantPizzaRequest(f, token))
		assert.Equal(t, http.StatusForbidden, w.Code)

		req := httptest.NewRequest(http.MethodDelete, deletePath, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w = serve(router, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("admin role is allowed", func(t *testing.T) {
		token := fetchToken(t, router, "dev-client", "dev-secret-123")

		w := serve(router, restaurantPizzaRequest(f, token))
		assert.Equal(t, http.StatusCreated, w.Code)

		req := httptest.NewRequest(http.MethodDelete, deletePath, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w = serve(router, req)
		assert.Equal(t, http.StatusNoContent, w.Code)

		req = httptest.NewRequest(http.MethodGet, "/clients", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w = serve(router, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	var count int64
	require.NoError(t, db.Model(&models.Restaurant{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestMetricsEndpoint(t *testing.T) {
	router, _, _ := setupRouter(t, false)

	serve(router, httptest.NewRequest(http.MethodGet, "/pizzas", nil))
	w := serve(router, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `pizza_api_http_requests_total{method="GET",route="/pizzas",status="200"} 1`)
}

func TestCORSHeaders(t *testing.T) {
	router, _, _ := setupRouter(t, false)

	req := httptest.NewRequest(http.MethodGet, "/pizzas", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := serve(router, req)

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
