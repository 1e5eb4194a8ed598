package services

import (
	"context"
	"errors"
	"strings"

	"agenda-backend/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const maxTitleLength = 100

// CatalogService manages the services a provider offers. Every call is
// scoped to the owning provider.
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

type ServiceInput struct {
	Title    string           `json:"title"`
	Duration DurationInput    `json:"duration"`
	Price    *decimal.Decimal `json:"price"`
	IsActive *bool            `json:"isActive"`
}

// ServiceUpdate leaves nil fields untouched. ClearPrice removes the price.
type ServiceUpdate struct {
	Title      *string          `json:"title"`
	Duration   *DurationInput   `json:"duration"`
	Price      *decimal.Decimal `json:"price"`
	ClearPrice bool             `json:"clearPrice"`
	IsActive   *bool            `json:"isActive"`
}

func validTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", validationf("title is required")
	}
	if len(title) > maxTitleLength {
		return "", validationf("title must be at most %d characters", maxTitleLength)
	}
	return title, nil
}

func validPrice(p *decimal.Decimal) (decimal.NullDecimal, error) {
	if p == nil {
		return decimal.NullDecimal{}, nil
	}
	if p.IsNegative() {
		return decimal.NullDecimal{}, validationf("price must not be negative")
	}
	return decimal.NewNullDecimal(p.Round(2)), nil
}

func (s *CatalogService) Create(ctx context.Context, providerID uuid.UUID, in ServiceInput) (*models.Service, error) {
	title, err := validTitle(in.Title)
	if err != nil {
		return nil, err
	}
	price, err := validPrice(in.Price)
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	if err := ensureProvider(db, providerID); err != nil {
		return nil, err
	}

	svc := models.Service{
		ProviderID: providerID,
		Title:      title,
		Duration:   in.Duration.Minutes,
		Price:      price,
		IsActive:   in.IsActive == nil || *in.IsActive,
	}
	if err := db.Create(&svc).Error; err != nil {
		return nil, err
	}
	return &svc, nil
}

func (s *CatalogService) List(ctx context.Context, providerID uuid.UUID) ([]models.Service, error) {
	services := []models.Service{}
	err := s.db.WithContext(ctx).
		Where("provider_id = ?", providerID).
		Order("title ASC").
		Find(&services).Error
	return services, err
}

// ListActive is the public catalog.
func (s *CatalogService) ListActive(ctx context.Context, providerID uuid.UUID) ([]models.Service, error) {
	services := []models.Service{}
	err := s.db.WithContext(ctx).
		Where("provider_id = ? AND is_active = ?", providerID, true).
		Order("title ASC").
		Find(&services).Error
	return services, err
}

// Get returns NotFound for a service owned by another provider.
func (s *CatalogService) Get(ctx context.Context, providerID, id uuid.UUID) (*models.Service, error) {
	var svc models.Service
	err := s.db.WithContext(ctx).
		Where("id = ? AND provider_id = ?", id, providerID).
		First(&svc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("service")
	}
	if err != nil {
		return nil, err
	}
	return &svc, nil
}

func (s *CatalogService) Update(ctx context.Context, providerID, id uuid.UUID, in ServiceUpdate) (*models.Service, error) {
	svc, err := s.Get(ctx, providerID, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Title != nil {
		title, err := validTitle(*in.Title)
		if err != nil {
			return nil, err
		}
		updates["title"] = title
	}
	if in.Duration != nil {
		updates["duration"] = in.Duration.Minutes
	}
	switch {
	case in.ClearPrice:
		updates["price"] = decimal.NullDecimal{}
	case in.Price != nil:
		price, err := validPrice(in.Price)
		if err != nil {
			return nil, err
		}
		updates["price"] = price
	}
	if in.IsActive != nil {
		updates["is_active"] = *in.IsActive
	}
	if len(updates) == 0 {
		return svc, nil
	}

	if err := s.db.WithContext(ctx).Model(svc).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.Get(ctx, providerID, id)
}

// Delete removes the service. Bookings keep their copied title and lose the
// reference.
func (s *CatalogService) Delete(ctx context.Context, providerID, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Service{}).
			Where("id = ? AND provider_id = ?", id, providerID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return notFound("service")
		}

		if err := tx.Model(&models.Booking{}).
			Where("service_id = ?", id).
			Update("service_id", nil).Error; err != nil {
			return err
		}
		return tx.Where("id = ? AND provider_id = ?", id, providerID).Delete(&models.Service{}).Error
	})
}
