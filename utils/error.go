package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RespondWithError aborts the request with {"error": message}.
func RespondWithError(c *gin.Context, status int, message string) {
	if status >= http.StatusInternalServerError {
		GetLogger().Error(message, zap.String("path", c.Request.URL.Path))
	}
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// ErrorHandler catches panics and returns a structured 500
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				GetLogger().Error("Unhandled panic", zap.Any("error", err))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "Internal Server Error",
				})
			}
		}()
		c.Next()
	}
}
