// controllers/report.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetReportAnalytics returns the booking summary of the provider
func (ctl *Controller) GetReportAnalytics(c *gin.Context) {
	auth, ok := owner(c)
	if !ok {
		return
	}

	summary, err := ctl.Reports.Summary(c.Request.Context(), auth.ProviderID, ctl.now())
	if err != nil {
		respondServiceError(c, err, "Failed to build report")
		return
	}
	c.JSON(http.StatusOK, summary)
}
