// controllers/auth.go
package controllers

import (
	"net/http"

	"agenda-backend/config"
	"agenda-backend/models"
	"agenda-backend/services"
	"agenda-backend/utils"

	"github.com/gin-gonic/gin"
)

type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func providerView(p *models.Provider) gin.H {
	return gin.H{
		"id":          p.ID,
		"username":    p.Username,
		"displayName": p.DisplayName,
		"slug":        p.Slug,
	}
}

// issueSession signs a token for p and mirrors it into the "token" cookie.
func issueSession(c *gin.Context, p *models.Provider) (string, bool) {
	token, err := utils.GenerateToken(p.ID.String())
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token")
		return "", false
	}

	c.SetCookie(
		"token",
		token,
		int(utils.TokenTTL().Seconds()),
		"/",
		"",
		config.IsProduction(),
		true,
	)
	return token, true
}

func (ctl *Controller) Register(c *gin.Context) {
	var input services.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	provider, err := ctl.Providers.Register(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err, "Failed to create provider")
		return
	}

	token, ok := issueSession(c, provider)
	if !ok {
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Registration successful",
		"token":    token,
		"provider": providerView(provider),
	})
}

func (ctl *Controller) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	provider, err := ctl.Providers.Authenticate(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		respondServiceError(c, err, "Database error")
		return
	}

	token, ok := issueSession(c, provider)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":    token,
		"provider": providerView(provider),
	})
}

func (ctl *Controller) Me(c *gin.Context) {
	auth, ok := owner(c)
	if !ok {
		return
	}

	provider, err := ctl.Providers.Get(c.Request.Context(), auth.ProviderID)
	if err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "Provider not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"provider": providerView(provider)})
}

// clearSession expires the "token" cookie.
func clearSession(c *gin.Context) {
	c.SetCookie("token", "", -1, "/", "", config.IsProduction(), true)
}

// Logout ends a browser session. Bearer tokens stay valid until they expire.
func (ctl *Controller) Logout(c *gin.Context) {
	clearSession(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// DeleteAccount removes the provider and all of its data.
func (ctl *Controller) DeleteAccount(c *gin.Context) {
	auth, ok := owner(c)
	if !ok {
		return
	}

	if err := ctl.Providers.Delete(c.Request.Context(), auth.ProviderID); err != nil {
		respondServiceError(c, err, "Failed to delete account")
		return
	}

	clearSession(c)
	c.JSON(http.StatusOK, gin.H{"message": "Account deleted"})
}
