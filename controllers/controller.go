package controllers

import (
	"net/http"
	"time"

	"agenda-backend/services"
	"agenda-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Controller holds the services every handler works through.
type Controller struct {
	Providers    *services.ProviderService
	Catalog      *services.CatalogService
	Availability *services.AvailabilityService
	Ledger       *services.Ledger
	Reports      *services.ReportService

	now func() time.Time
}

// New wires the services on db. cache and tokens may be nil.
func New(db *gorm.DB, cache services.TemplateCache, tokens *utils.CancelTokens) *Controller {
	availability := services.NewAvailabilityService(db, cache)
	return &Controller{
		Providers:    services.NewProviderService(db, cache),
		Catalog:      services.NewCatalogService(db),
		Availability: availability,
		Ledger:       services.NewLedger(db, availability, tokens),
		Reports:      services.NewReportService(db, availability),
		now:          time.Now,
	}
}

// owner returns the authenticated provider or aborts with 401.
func owner(c *gin.Context) (utils.AuthContext, bool) {
	auth, ok := utils.AuthFromContext(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "Provider not found in context")
		return utils.AuthContext{}, false
	}
	return auth, true
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid "+name+" format")
		return uuid.Nil, false
	}
	return id, true
}
