package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Booking reserves one slot. idx_bookings_slot is the storage-level guarantee
// that a (provider, date, time) is held by at most one booking.
type Booking struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	ProviderID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_bookings_slot,priority:1" json:"providerId"`
	ServiceID     *uuid.UUID `gorm:"type:uuid;index" json:"serviceId"`
	ServiceTitle  string     `gorm:"type:varchar(100)" json:"serviceTitle"`
	CustomerName  string     `gorm:"type:varchar(100);not null" json:"customerName"`
	CustomerPhone string     `gorm:"type:varchar(20);not null;index" json:"customerPhone"`
	Date          string     `gorm:"type:varchar(10);not null;uniqueIndex:idx_bookings_slot,priority:2" json:"date"`
	Time          string     `gorm:"type:varchar(5);not null;uniqueIndex:idx_bookings_slot,priority:3" json:"time"`
	CreatedAt     time.Time  `json:"createdAt"`

	Provider *Provider `gorm:"foreignKey:ProviderID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Service  *Service  `gorm:"foreignKey:ServiceID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"-"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return
}
