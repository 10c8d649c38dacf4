package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/franciscosanchezn/pizza-restaurants-api/internal/auth"
	"github.com/franciscosanchezn/pizza-restaurants-api/internal/cache"
	"github.com/franciscosanchezn/pizza-restaurants-api/internal/config"
	"github.com/franciscosanchezn/pizza-restaurants-api/internal/controllers"
	"github.com/franciscosanchezn/pizza-restaurants-api/internal/database"
	"github.com/franciscosanchezn/pizza-restaurants-api/internal/metrics"
	"github.com/franciscosanchezn/pizza-restaurants-api/internal/router"
	"github.com/franciscosanchezn/pizza-restaurants-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const shutdownTimeout = 5 * time.Second

var configuration *config.Config

// @title Pizza Restaurants API
// @version 1.0
// @description Restaurants, pizzas and the prices restaurants sell them at
// @host localhost:5555
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Load environment variables
	loadDotenvFile()

	// Initialize logger
	setUpLogger()

	// Load configuration
	configuration = loadConfig()
	applyLogLevel(configuration.LogLevel)

	// Initialize database connection
	db := setupDatabase(configuration)

	// Metrics and the optional listing cache
	metricsManager := metrics.NewManager(
		metrics.WithGoCollectors(),
		metrics.WithHistogramBuckets(metrics.APILatencyBuckets),
		metrics.WithHistogramBuckets(configuration.LatencyBuckets),
	)
	listingCache, closeCache := setupCache(configuration, metricsManager)
	defer closeCache()

	// Token server, dropping tokens that expired while the service was down
	oauthService := auth.NewOAuthService(db, configuration.JWTSecret)
	if purged, err := oauthService.PurgeExpiredTokens(context.Background()); err != nil {
		log.WithError(err).Warn("Failed to purge expired tokens")
	} else if purged > 0 {
		log.Infof("Purged %d expired tokens", purged)
	}

	if configuration.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize Gin router
	engine := router.SetupRouter(router.Dependencies{
		Config:  configuration,
		DB:      db,
		Cache:   listingCache,
		Metrics: metricsManager,
		OAuth:   oauthService,
	})

	// Start the server
	srv := &http.Server{
		Addr:              configuration.Address(),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	runServer(srv)
}

// checkPanicErr checks if an error occurred and panics if it did
func checkPanicErr(err error) {
	if err != nil {
		panic(err)
	}
}

// loadDotenvFile loads environment variables from a .env file
// If the file is not found, it will log a warning and use system environment variables
func loadDotenvFile() {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, using system environment variables")
	}
}

// setUpLogger initializes the logger with a JSON formatter and sets the log level based on the environment
func setUpLogger() {
	log.SetFormatter(&log.JSONFormatter{})
	log.SetLevel(config.LevelForEnvironment(config.GetEnvWithDefault("APP_ENV", "development")))
}

// applyLogLevel propagates the configured level to every package logger
func applyLogLevel(value string) {
	level, err := log.ParseLevel(value)
	checkPanicErr(err)
	log.SetLevel(level)
	database.SetLogLevel(level)
	services.SetLogLevel(level)
	controllers.SetLogLevel(level)
	auth.SetLogLevel(level)
	router.SetLogLevel(level)
}

// loadConfig loads the application configuration
// It returns a Config struct or panics if there is an error
func loadConfig() *config.Config {
	conf, err := config.LoadConfig()
	checkPanicErr(err)
	return conf
}

// setupDatabase connects, migrates and, when enabled, seeds the database
func setupDatabase(conf *config.Config) *gorm.DB {
	dbConfig, err := database.ParseDatabaseURI(conf.DatabaseURI)
	checkPanicErr(err)

	db, err := database.InitDatabase(dbConfig)
	checkPanicErr(err)
	checkPanicErr(database.Migrate(db))

	if conf.SeedOnStart {
		_, err := database.SeedIfEmpty(db)
		checkPanicErr(err)
	}
	return db
}

// setupCache connects to Redis when REDIS_URL is set. The service keeps
// running without a cache when Redis cannot be reached.
func setupCache(conf *config.Config, m *metrics.Manager) (cache.Cache, func()) {
	if conf.RedisURL == "" {
		log.Info("REDIS_URL not set, listing cache disabled")
		return cache.Noop{}, func() {}
	}

	redisCache, err := cache.NewRedisCache(conf.RedisURL, conf.CacheTTL)
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, listing cache disabled")
		return cache.Noop{}, func() {}
	}

	log.WithField("ttl", conf.CacheTTL.String()).Info("Listing cache enabled")
	return cache.Instrumented(redisCache, m), func() {
		if err := redisCache.Close(); err != nil {
			log.WithError(err).Warn("Failed to close redis client")
		}
	}
}

// runServer serves until SIGINT or SIGTERM, then drains in-flight requests
func runServer(srv *http.Server) {
	go func() {
		log.Infof("Starting server on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Server shutdown failed")
	}
	log.Info("Server stopped")
}
