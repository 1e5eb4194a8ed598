// controllers/service.go
package controllers

import (
	"net/http"

	"agenda-backend/services"
	"agenda-backend/utils"

	"github.com/gin-gonic/gin"
)

// CreateService adds a service to the provider's catalog
func (ctl *Controller) CreateService(c *gin.Context) {
	auth, ok := owner(c)
	if !ok {
		return
	}

	var input services.ServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	service, err := ctl.Catalog.Create(c.Request.Context(), auth.ProviderID, input)
	if err != nil {
		respondServiceError(c, err, "Failed to create service")
		return
	}

	c.JSON(http.StatusCreated, service)
}

// GetServices retrieves all services of the provider, active or not
func (ctl *Controller) GetServices(c *gin.Context) {
	auth, ok := owner(c)
	if !ok {
		return
	}

	list, err := ctl.Catalog.List(c.Request.Context(), auth.ProviderID)
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve services")
		return
	}

	c.JSON(http.StatusOK, list)
}

// GetService retrieves a specific service by ID
func (ctl *Controller) GetService(c *gin.Context) {
	auth, ok := owner(c)
	if !ok {
		return
	}
	serviceID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	service, err := ctl.Catalog.Get(c.Request.Context(), auth.ProviderID, serviceID)
	if err != nil {
		respondServiceError(c, err, "Database error")
		return
	}

	c.JSON(http.StatusOK, service)
}

// UpdateService updates an existing service
func (ctl *Controller) UpdateService(c *gin.Context) {
	auth, ok := owner(c)
	if !ok {
		return
	}
	serviceID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var input services.ServiceUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	service, err := ctl.Catalog.Update(c.Request.Context(), auth.ProviderID, serviceID, input)
	if err != nil {
		respondServiceError(c, err, "Failed to update service")
		return
	}

	c.JSON(http.StatusOK, service)
}

// DeleteService removes a service; past bookings keep its title
func (ctl *Controller) DeleteService(c *gin.Context) {
	auth, ok := owner(c)
	if !ok {
		return
	}
	serviceID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := ctl.Catalog.Delete(c.Request.Context(), auth.ProviderID, serviceID); err != nil {
		respondServiceError(c, err, "Failed to delete service")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Service deleted successfully"})
}
