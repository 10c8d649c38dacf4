package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/franciscosanchezn/pizza-restaurants-api/internal/database"
	"github.com/franciscosanchezn/pizza-restaurants-api/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ServiceName is reported by the health endpoint
const ServiceName = "pizza-restaurants-api"

const indexPage = "<h1>Code challenge</h1>"

// Index godoc
// @Summary Index page
// @Tags health
// @Produce html
// @Success 200 {string} string "<h1>Code challenge</h1>"
// @Router / [get]
func Index(ctx *gin.Context) {
	ctx.Data(http.StatusOK, "text/html; charset=utf-8", []byte(indexPage))
}

// HealthController reports whether the service can reach its database
type HealthController struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewHealthController(db *gorm.DB) *HealthController {
	return &HealthController{db: db, timeout: 2 * time.Second}
}

// Check godoc
// @Summary Health check
// @Description Check if the service is running and its database answers
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthController) Check(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), h.timeout)
	defer cancel()

	timestamp := time.Now().UTC().Format(time.RFC3339)
	if err := database.Ping(pingCtx, h.db); err != nil {
		log.WithError(err).Error("Health check failed")
		ctx.JSON(http.StatusServiceUnavailable, gin.H{
			"status":    "unhealthy",
			"timestamp": timestamp,
			"service":   ServiceName,
			"error":     models.NewAPIError(models.ErrDatabaseDown, "database is not reachable"),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": timestamp,
		"service":   ServiceName,
	})
}
