package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/franciscosanchezn/pizza-restaurants-api/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// parseRestaurantID reads the :id path parameter. Ids that cannot name a row report false.
func parseRestaurantID(ctx *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func respondRestaurantNotFound(ctx *gin.Context) {
	ctx.JSON(http.StatusNotFound, models.NotFoundResponse{Error: models.MsgRestaurantNotFound})
}

func respondValidationErrors(ctx *gin.Context) {
	ctx.JSON(http.StatusBadRequest, models.NewValidationErrorResponse())
}

// respondError maps service errors onto the public error bodies
func respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrRestaurantNotFound):
		respondRestaurantNotFound(ctx)
	case models.IsValidationError(err):
		respondValidationErrors(ctx)
	default:
		log.WithError(err).WithFields(logrus.Fields{
			"method": ctx.Request.Method,
			"path":   ctx.Request.URL.Path,
		}).Error("Request failed")
		_ = ctx.Error(err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": models.MsgInternalError})
	}
}
