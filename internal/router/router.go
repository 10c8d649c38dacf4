package router

import (
	_ "github.com/franciscosanchezn/pizza-restaurants-api/docs" // Import generated docs
	"github.com/franciscosanchezn/pizza-restaurants-api/internal/auth"
	"github.com/franciscosanchezn/pizza-restaurants-api/internal/cache"
	"github.com/franciscosanchezn/pizza-restaurants-api/internal/config"
	"github.com/franciscosanchezn/pizza-restaurants-api/internal/controllers"
	"github.com/franciscosanchezn/pizza-restaurants-api/internal/metrics"
	"github.com/franciscosanchezn/pizza-restaurants-api/internal/middleware"
	"github.com/franciscosanchezn/pizza-restaurants-api/internal/models"
	"github.com/franciscosanchezn/pizza-restaurants-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.InfoLevel)
}

// SetLogLevel adjusts the verbosity of the access log
func SetLogLevel(level logrus.Level) {
	log.SetLevel(level)
}

// Dependencies are the shared resources the routes are built from.
// Cache and Metrics may be nil.
type Dependencies struct {
	Config  *config.Config
	DB      *gorm.DB
	Cache   cache.Cache
	Metrics *metrics.Manager
	OAuth   *auth.OAuthService
}

// SetupRouter initializes the Gin router with its middleware and routes
func SetupRouter(deps Dependencies) *gin.Engine {
	if deps.Metrics == nil {
		deps.Metrics = metrics.NewManager()
	}
	if deps.OAuth == nil {
		deps.OAuth = auth.NewOAuthService(deps.DB, deps.Config.JWTSecret)
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(log),
		middleware.Metrics(deps.Metrics),
		middleware.CORS(deps.Config.CORSAllowedOrigins),
	)

	setupRoutes(router, deps)
	return router
}

// setupRoutes defines the routes for the Gin router
func setupRoutes(router *gin.Engine, deps Dependencies) {
	restaurantController := controllers.NewRestaurantController(
		services.NewRestaurantService(deps.DB, deps.Cache), deps.Metrics)
	pizzaController := controllers.NewPizzaController(services.NewPizzaService(deps.DB, deps.Cache))
	restaurantPizzaController := controllers.NewRestaurantPizzaController(
		services.NewRestaurantPizzaService(deps.DB), deps.Metrics)
	healthController := controllers.NewHealthController(deps.DB)

	// Operational endpoints
	router.GET("/", controllers.Index)
	router.GET("/health", healthController.Check)
	router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Token endpoint for the client credentials grant
	router.POST("/oauth/token", deps.OAuth.HandleToken)

	// Public reads
	router.GET("/restaurants", restaurantController.GetAllRestaurants)
	router.GET("/restaurants/:id", restaurantController.GetRestaurantByID)
	router.GET("/pizzas", pizzaController.GetAllPizzas)

	// Writes, guarded by an admin token when auth is enabled
	guard := writeGuard(deps.Config)
	router.DELETE("/restaurants/:id", append(guard, restaurantController.DeleteRestaurant)...)
	router.POST("/restaurant_pizzas", append(guard, restaurantPizzaController.CreateRestaurantPizza)...)

	if deps.Config.AuthEnabled {
		clientController := controllers.NewClientController(services.NewClientService(deps.DB))
		clients := router.Group("/clients", guard...)
		{
			clients.POST("", clientController.CreateClient)
			clients.GET("", clientController.ListClients)
			clients.DELETE("/:id", clientController.DeleteClient)
		}
	}
}

// writeGuard returns the handlers placed in front of mutating routes
func writeGuard(conf *config.Config) []gin.HandlerFunc {
	if !conf.AuthEnabled {
		return nil
	}
	return []gin.HandlerFunc{
		middleware.OAuth2Auth([]byte(conf.JWTSecret)),
		middleware.RequireRole(models.RoleAdmin),
	}
}
