package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (ctl *Controller) GetDashboardOverview(c *gin.Context) {
	auth, ok := owner(c)
	if !ok {
		return
	}

	overview, err := ctl.Reports.Dashboard(c.Request.Context(), auth.ProviderID, ctl.now())
	if err != nil {
		respondServiceError(c, err, "Failed to build dashboard")
		return
	}
	c.JSON(http.StatusOK, overview)
}
