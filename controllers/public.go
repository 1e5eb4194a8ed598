package controllers

import (
	"net/http"

	"agenda-backend/models"
	"agenda-backend/services"
	"agenda-backend/utils"

	"github.com/gin-gonic/gin"
)

type availabilityRequest struct {
	Date string `json:"date" binding:"required"`
}

type phoneRequest struct {
	Phone string `json:"phone" binding:"required"`
}

type tokenRequest struct {
	Token string `json:"token" binding:"required"`
}

// publicProvider resolves :provider (slug or id) or aborts with 404.
func (ctl *Controller) publicProvider(c *gin.Context) (*models.Provider, bool) {
	provider, err := ctl.Providers.FindByRef(c.Request.Context(), c.Param("provider"))
	if err != nil {
		respondServiceError(c, err, "Failed to load provider")
		return nil, false
	}
	return provider, true
}

// PublicProfile is the booking page header: the provider and its active services.
func (ctl *Controller) PublicProfile(c *gin.Context) {
	provider, ok := ctl.publicProvider(c)
	if !ok {
		return
	}

	list, err := ctl.Catalog.ListActive(c.Request.Context(), provider.ID)
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve services")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"provider": gin.H{
			"id":          provider.ID,
			"displayName": provider.DisplayName,
			"slug":        provider.Slug,
		},
		"services": list,
	})
}

// PublicAvailability answers with the open "HH:MM" slots. The date comes
// from ?date= on GET and from the JSON body on POST.
func (ctl *Controller) PublicAvailability(c *gin.Context) {
	provider, ok := ctl.publicProvider(c)
	if !ok {
		return
	}

	date := c.Query("date")
	if c.Request.Method == http.MethodPost {
		var input availabilityRequest
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
			return
		}
		date = input.Date
	}

	slots, err := ctl.Availability.Available(c.Request.Context(), provider.ID, date)
	if err != nil {
		respondServiceError(c, err, "Failed to resolve availability")
		return
	}
	c.JSON(http.StatusOK, slots)
}

func (ctl *Controller) PublicReserve(c *gin.Context) {
	provider, ok := ctl.publicProvider(c)
	if !ok {
		return
	}

	var input services.ReserveInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	res, err := ctl.Ledger.Reserve(c.Request.Context(), provider.ID, input)
	if err != nil {
		respondServiceError(c, err, "Failed to create booking")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Booking confirmed",
		"booking":     res.Booking,
		"cancelToken": res.CancelToken,
		"provider":    provider.DisplayName,
	})
}

// PublicLookup lists the caller's bookings with this provider by ?phone=.
func (ctl *Controller) PublicLookup(c *gin.Context) {
	provider, ok := ctl.publicProvider(c)
	if !ok {
		return
	}

	bookings, err := ctl.Ledger.Lookup(c.Request.Context(), c.Query("phone"), &provider.ID)
	if err != nil {
		respondServiceError(c, err, "Failed to look up bookings")
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func (ctl *Controller) PublicCancel(c *gin.Context) {
	provider, ok := ctl.publicProvider(c)
	if !ok {
		return
	}
	bookingID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var input phoneRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if err := ctl.Ledger.Cancel(c.Request.Context(), provider.ID, bookingID, input.Phone); err != nil {
		respondServiceError(c, err, "Failed to cancel booking")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Booking cancelled"})
}

func (ctl *Controller) CancelWithToken(c *gin.Context) {
	var input tokenRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if err := ctl.Ledger.CancelWithToken(c.Request.Context(), input.Token); err != nil {
		respondServiceError(c, err, "Failed to cancel booking")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Booking cancelled"})
}
