package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AvailabilityTemplate is the recurring weekly definition, one row per provider.
// Weekdays use 0=Monday..6=Sunday; Slots are "HH:MM" labels kept sorted.
type AvailabilityTemplate struct {
	ID         uuid.UUID                   `gorm:"type:uuid;primary_key" json:"id"`
	ProviderID uuid.UUID                   `gorm:"type:uuid;uniqueIndex;not null" json:"providerId"`
	Weekdays   datatypes.JSONSlice[int]    `json:"weekdays"`
	Slots      datatypes.JSONSlice[string] `json:"slots"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Provider *Provider `gorm:"foreignKey:ProviderID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}

func (t *AvailabilityTemplate) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return
}

// DateException overrides the template for one calendar date.
type DateException struct {
	ID           uuid.UUID                   `gorm:"type:uuid;primary_key" json:"id"`
	ProviderID   uuid.UUID                   `gorm:"type:uuid;not null;uniqueIndex:idx_exceptions_day,priority:1" json:"providerId"`
	Date         string                      `gorm:"type:varchar(10);not null;uniqueIndex:idx_exceptions_day,priority:2" json:"date"`
	Active       bool                        `gorm:"not null" json:"active"`
	BlockedSlots datatypes.JSONSlice[string] `json:"blockedSlots"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Provider *Provider `gorm:"foreignKey:ProviderID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}

func (e *DateException) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return
}
