package models

import (
	"agenda-backend/utils"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Provider is a tenant: one hairdresser or barber with a public booking page.
type Provider struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Username    string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"`
	DisplayName string    `gorm:"type:varchar(150);not null" json:"displayName"`
	Slug        string    `gorm:"type:varchar(150);uniqueIndex;not null" json:"slug"`
	Password    string    `gorm:"not null" json:"-"`

	LastLogin *time.Time `json:"lastLogin,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`

	Services   []Service             `gorm:"foreignKey:ProviderID" json:"-"`
	Template   *AvailabilityTemplate `gorm:"foreignKey:ProviderID" json:"-"`
	Exceptions []DateException       `gorm:"foreignKey:ProviderID" json:"-"`
	Bookings   []Booking             `gorm:"foreignKey:ProviderID" json:"-"`
}

// Initialize UUID and hash the plain password before creating
func (p *Provider) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	hashed, err := utils.HashPassword(p.Password)
	if err != nil {
		return err
	}
	p.Password = hashed
	return
}
