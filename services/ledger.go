package services

import (
	"context"
	"errors"
	"strings"

	"agenda-backend/models"
	"agenda-backend/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Ledger is the only writer of bookings. Slot exclusivity is enforced by
// idx_bookings_slot, never by a read-then-write check.
type Ledger struct {
	db           *gorm.DB
	availability *AvailabilityService
	tokens       *utils.CancelTokens
}

// NewLedger wires the ledger. tokens may be nil, in which case reservations
// carry no cancellation token.
func NewLedger(db *gorm.DB, availability *AvailabilityService, tokens *utils.CancelTokens) *Ledger {
	return &Ledger{db: db, availability: availability, tokens: tokens}
}

type ReserveInput struct {
	ServiceID     uuid.UUID `json:"serviceId"`
	Date          string    `json:"date"`
	Time          string    `json:"time"`
	CustomerName  string    `json:"customerName"`
	CustomerPhone string    `json:"customerPhone"`
}

type Reservation struct {
	Booking     models.Booking `json:"booking"`
	CancelToken string         `json:"cancelToken,omitempty"`
}

// BookingFilter narrows an owner's booking list. Zero values match everything.
type BookingFilter struct {
	Date  string
	From  string
	Phone string
}

// Reserve books a slot for a customer. A concurrent or earlier booking of the
// same (provider, date, time) yields ErrSlotConflict.
func (l *Ledger) Reserve(ctx context.Context, providerID uuid.UUID, in ReserveInput) (*Reservation, error) {
	name := strings.TrimSpace(in.CustomerName)
	if name == "" {
		return nil, validationf("customer name is required")
	}
	if !utils.ValidatePhone(in.CustomerPhone) {
		return nil, validationf("customer phone is invalid")
	}
	phone := utils.NormalizePhone(in.CustomerPhone)

	day, err := ParseDate(in.Date)
	if err != nil {
		return nil, err
	}
	clock, err := ParseClock(in.Time)
	if err != nil {
		return nil, err
	}
	if in.ServiceID == uuid.Nil {
		return nil, validationf("service is required")
	}

	booking := models.Booking{
		ProviderID:    providerID,
		CustomerName:  name,
		CustomerPhone: phone,
		Date:          utils.FormatDate(day),
		Time:          clock.String(),
	}

	err = l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureProvider(tx, providerID); err != nil {
			return err
		}

		var svc models.Service
		err := tx.Where("id = ? AND provider_id = ?", in.ServiceID, providerID).First(&svc).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("service")
		}
		if err != nil {
			return err
		}
		if !svc.IsActive {
			return validationf("service is not active")
		}

		offered, err := l.availability.offeredOn(ctx, tx, providerID, booking.Date)
		if err != nil {
			return err
		}
		if !offered[booking.Time] {
			return validationf("slot %s on %s is not offered", booking.Time, booking.Date)
		}

		booking.ServiceID = &svc.ID
		booking.ServiceTitle = svc.Title
		return tx.Create(&booking).Error
	})
	if isUniqueViolation(err) {
		utils.GetLogger().Info("slot conflict",
			zap.String("provider_id", providerID.String()),
			zap.String("date", booking.Date),
			zap.String("time", booking.Time))
		return nil, ErrSlotConflict
	}
	if err != nil {
		return nil, err
	}

	res := &Reservation{Booking: booking}
	if l.tokens != nil {
		token, err := l.tokens.Issue(booking.ID, booking.CustomerPhone)
		if err != nil {
			utils.GetLogger().Error("failed to issue cancel token", zap.Error(err))
		} else {
			res.CancelToken = token
		}
	}

	utils.GetLogger().Info("booking reserved",
		zap.String("booking_id", booking.ID.String()),
		zap.String("provider_id", providerID.String()),
		zap.String("date", booking.Date),
		zap.String("time", booking.Time))
	return res, nil
}

// Cancel removes a booking of providerID when phone matches the phone it was
// made with. A mismatch is reported as not found so ids cannot be probed.
func (l *Ledger) Cancel(ctx context.Context, providerID, bookingID uuid.UUID, phone string) error {
	return l.cancel(ctx, &providerID, bookingID, phone)
}

func (l *Ledger) cancel(ctx context.Context, providerID *uuid.UUID, bookingID uuid.UUID, phone string) error {
	normalized := utils.NormalizePhone(phone)
	if normalized == "" {
		return validationf("phone is required")
	}

	q := l.db.WithContext(ctx).Where("id = ? AND customer_phone = ?", bookingID, normalized)
	if providerID != nil {
		q = q.Where("provider_id = ?", *providerID)
	}
	res := q.Delete(&models.Booking{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound("booking")
	}
	utils.GetLogger().Info("booking cancelled", zap.String("booking_id", bookingID.String()))
	return nil
}

// CancelWithToken cancels the booking a token was issued for. The token
// identifies the booking on its own, so no provider is needed.
func (l *Ledger) CancelWithToken(ctx context.Context, token string) error {
	if l.tokens == nil {
		return validationf("cancellation tokens are not enabled")
	}
	bookingID, phone, err := l.tokens.Verify(token)
	if err != nil {
		return validationf("%v", err)
	}
	return l.cancel(ctx, nil, bookingID, phone)
}

// Lookup lists a phone's bookings by date and time. A nil provider searches
// every tenant.
func (l *Ledger) Lookup(ctx context.Context, phone string, providerID *uuid.UUID) ([]models.Booking, error) {
	normalized := utils.NormalizePhone(phone)
	if normalized == "" {
		return nil, validationf("phone is required")
	}

	q := l.db.WithContext(ctx).Where("customer_phone = ?", normalized)
	if providerID != nil {
		q = q.Where("provider_id = ?", *providerID)
	}

	bookings := []models.Booking{}
	if err := q.Order("date ASC, time ASC").Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (l *Ledger) ListForProvider(ctx context.Context, providerID uuid.UUID, f BookingFilter) ([]models.Booking, error) {
	q := l.db.WithContext(ctx).Where("provider_id = ?", providerID)
	if f.Date != "" {
		day, err := ParseDate(f.Date)
		if err != nil {
			return nil, err
		}
		q = q.Where("date = ?", utils.FormatDate(day))
	}
	if f.From != "" {
		day, err := ParseDate(f.From)
		if err != nil {
			return nil, err
		}
		q = q.Where("date >= ?", utils.FormatDate(day))
	}
	if f.Phone != "" {
		q = q.Where("customer_phone = ?", utils.NormalizePhone(f.Phone))
	}

	bookings := []models.Booking{}
	if err := q.Order("date ASC, time ASC").Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// DeleteByOwner lets a provider drop one of its own bookings.
func (l *Ledger) DeleteByOwner(ctx context.Context, providerID, bookingID uuid.UUID) error {
	res := l.db.WithContext(ctx).
		Where("id = ? AND provider_id = ?", bookingID, providerID).
		Delete(&models.Booking{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound("booking")
	}
	return nil
}

// PurgeBefore deletes every booking dated strictly before date.
func (l *Ledger) PurgeBefore(ctx context.Context, date string) (int64, error) {
	day, err := ParseDate(date)
	if err != nil {
		return 0, err
	}
	res := l.db.WithContext(ctx).Where("date < ?", utils.FormatDate(day)).Delete(&models.Booking{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
