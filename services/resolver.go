package services

import (
	"time"

	"agenda-backend/models"
	"agenda-backend/utils"

	"github.com/google/uuid"
)

// DayInput is everything needed to resolve one provider's open slots on one date.
type DayInput struct {
	ProviderID uuid.UUID
	Date       time.Time
	Template   *models.AvailabilityTemplate
	Exception  *models.DateException
	Bookings   []models.Booking
}

// ResolveSlots returns the bookable "HH:MM" labels for the day, ascending and
// without duplicates. It never touches storage.
func ResolveSlots(in DayInput) []string {
	open := offered(in.Date, in.Template, in.Exception)
	if len(open) == 0 {
		return []string{}
	}

	day := utils.FormatDate(in.Date)
	for _, b := range in.Bookings {
		if b.ProviderID != in.ProviderID || b.Date != day {
			continue
		}
		if c, err := ParseClock(b.Time); err == nil {
			delete(open, c)
		}
	}

	clocks := make([]Clock, 0, len(open))
	for c := range open {
		clocks = append(clocks, c)
	}
	return formatClocks(clocks)
}

// offered is the template for the date minus the exception, bookings ignored.
func offered(date time.Time, tpl *models.AvailabilityTemplate, exc *models.DateException) map[Clock]struct{} {
	if tpl == nil {
		return nil
	}

	weekday := WeekdayIndex(date)
	allowed := false
	for _, w := range tpl.Weekdays {
		if w == weekday {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil
	}

	if exc != nil && exc.Date == utils.FormatDate(date) && !exc.Active {
		return nil
	}

	open := make(map[Clock]struct{}, len(tpl.Slots))
	for _, label := range tpl.Slots {
		if c, err := ParseClock(label); err == nil {
			open[c] = struct{}{}
		}
	}

	if exc != nil && exc.Date == utils.FormatDate(date) {
		for _, label := range exc.BlockedSlots {
			if c, err := ParseClock(label); err == nil {
				delete(open, c)
			}
		}
	}
	return open
}
