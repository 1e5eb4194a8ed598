package controllers

import (
	"net/http"

	"agenda-backend/services"
	"agenda-backend/utils"

	"github.com/gin-gonic/gin"
)

func (ctl *Controller) GetProfile(c *gin.Context) {
	auth, ok := owner(c)
	if !ok {
		return
	}

	provider, err := ctl.Providers.Get(c.Request.Context(), auth.ProviderID)
	if err != nil {
		respondServiceError(c, err, "Failed to load profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"username":    provider.Username,
		"displayName": provider.DisplayName,
		"slug":        provider.Slug,
		"lastLogin":   provider.LastLogin,
		"createdAt":   provider.CreatedAt,
	})
}

func (ctl *Controller) UpdateProfile(c *gin.Context) {
	auth, ok := owner(c)
	if !ok {
		return
	}

	var input services.ProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	provider, err := ctl.Providers.UpdateProfile(c.Request.Context(), auth.ProviderID, input)
	if err != nil {
		respondServiceError(c, err, "Failed to update profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Profile updated",
		"provider": providerView(provider),
	})
}
