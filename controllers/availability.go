package controllers

import (
	"net/http"

	"agenda-backend/services"
	"agenda-backend/utils"

	"github.com/gin-gonic/gin"
)

type ExceptionInput struct {
	Active       *bool    `json:"active"`
	BlockedSlots []string `json:"blockedSlots"`
}

func (ctl *Controller) GetTemplate(c *gin.Context) {
	auth, ok := owner(c)
	if !ok {
		return
	}

	tpl, err := ctl.Availability.GetTemplate(c.Request.Context(), auth.ProviderID)
	if err != nil {
		respondServiceError(c, err, "Failed to load availability template")
		return
	}
	c.JSON(http.StatusOK, tpl)
}

func (ctl *Controller) SetTemplate(c *gin.Context) {
	auth, ok := owner(c)
	if !ok {
		return
	}

	var input services.TemplateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	tpl, err := ctl.Availability.SetTemplate(c.Request.Context(), auth.ProviderID, input)
	if err != nil {
		respondServiceError(c, err, "Failed to save availability template")
		return
	}
	c.JSON(http.StatusOK, tpl)
}

func (ctl *Controller) DeleteTemplate(c *gin.Context) {
	auth, ok := owner(c)
	if !ok {
		return
	}

	if err := ctl.Availability.DeleteTemplate(c.Request.Context(), auth.ProviderID); err != nil {
		respondServiceError(c, err, "Failed to delete availability template")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Availability template deleted"})
}

func (ctl *Controller) ListExceptions(c *gin.Context) {
	auth, ok := owner(c)
	if !ok {
		return
	}

	list, err := ctl.Availability.ListExceptions(c.Request.Context(), auth.ProviderID, c.Query("from"), c.Query("to"))
	if err != nil {
		respondServiceError(c, err, "Failed to list exceptions")
		return
	}
	c.JSON(http.StatusOK, list)
}

// SetException upserts the override for :date. An omitted "active" means the
// day stays open.
func (ctl *Controller) SetException(c *gin.Context) {
	auth, ok := owner(c)
	if !ok {
		return
	}

	var input ExceptionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	active := input.Active == nil || *input.Active

	exc, err := ctl.Availability.SetException(c.Request.Context(), auth.ProviderID, c.Param("date"), active, input.BlockedSlots)
	if err != nil {
		respondServiceError(c, err, "Failed to save exception")
		return
	}
	c.JSON(http.StatusOK, exc)
}

func (ctl *Controller) DeleteException(c *gin.Context) {
	auth, ok := owner(c)
	if !ok {
		return
	}

	if err := ctl.Availability.DeleteException(c.Request.Context(), auth.ProviderID, c.Param("date")); err != nil {
		respondServiceError(c, err, "Failed to delete exception")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Exception deleted"})
}

// PreviewAvailability shows the owner what clients see for ?date=.
func (ctl *Controller) PreviewAvailability(c *gin.Context) {
	auth, ok := owner(c)
	if !ok {
		return
	}

	slots, err := ctl.Availability.Available(c.Request.Context(), auth.ProviderID, c.Query("date"))
	if err != nil {
		respondServiceError(c, err, "Failed to resolve availability")
		return
	}
	c.JSON(http.StatusOK, slots)
}
