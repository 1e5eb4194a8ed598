package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Service struct {
	ID         uuid.UUID           `gorm:"type:uuid;primary_key" json:"id"`
	ProviderID uuid.UUID           `gorm:"type:uuid;index;not null" json:"providerId"`
	Title      string              `gorm:"type:varchar(100);not null" json:"title"`
	Duration   int                 `gorm:"not null" json:"duration"` // in minutes
	Price      decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"price"`
	IsActive   bool                `gorm:"not null" json:"isActive"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Provider *Provider `gorm:"foreignKey:ProviderID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}

func (s *Service) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}
