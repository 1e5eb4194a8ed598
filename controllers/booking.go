package controllers

import (
	"net/http"

	"agenda-backend/services"

	"github.com/gin-gonic/gin"
)

// GetBookings lists the provider's agenda, optionally filtered by ?date and ?phone.
func (ctl *Controller) GetBookings(c *gin.Context) {
	auth, ok := owner(c)
	if !ok {
		return
	}

	filter := services.BookingFilter{
		Date:  c.Query("date"),
		From:  c.Query("from"),
		Phone: c.Query("phone"),
	}
	bookings, err := ctl.Ledger.ListForProvider(c.Request.Context(), auth.ProviderID, filter)
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve bookings")
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func (ctl *Controller) DeleteBooking(c *gin.Context) {
	auth, ok := owner(c)
	if !ok {
		return
	}
	bookingID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := ctl.Ledger.DeleteByOwner(c.Request.Context(), auth.ProviderID, bookingID); err != nil {
		respondServiceError(c, err, "Failed to delete booking")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Booking deleted"})
}
