package controllers

import (
	"errors"
	"net/http"

	"agenda-backend/services"
	"agenda-backend/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// StatusFor maps a service error kind to its HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrSlotConflict), errors.Is(err, services.ErrDuplicate):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondServiceError writes err with the status of its kind. Unknown errors
// are logged and hidden behind fallback.
func respondServiceError(c *gin.Context, err error, fallback string) {
	status := StatusFor(err)
	if errors.Is(err, services.ErrSlotConflict) {
		c.AbortWithStatusJSON(status, gin.H{"error": err.Error(), "code": "slot_conflict"})
		return
	}
	if status == http.StatusInternalServerError {
		utils.GetLogger().Error(fallback, zap.String("path", c.Request.URL.Path), zap.Error(err))
		c.AbortWithStatusJSON(status, gin.H{"error": fallback})
		return
	}
	utils.RespondWithError(c, status, err.Error())
}
