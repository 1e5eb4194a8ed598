package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"agenda-backend/models"
	"agenda-backend/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const minPasswordLength = 8

type ProviderService struct {
	db    *gorm.DB
	cache TemplateCache
}

func NewProviderService(db *gorm.DB, cache TemplateCache) *ProviderService {
	return &ProviderService{db: db, cache: cache}
}

type RegisterInput struct {
	Username    string `json:"username" binding:"required"`
	DisplayName string `json:"displayName"`
	Password    string `json:"password" binding:"required"`
}

type ProfileInput struct {
	DisplayName *string `json:"displayName"`
	Password    *string `json:"password"`
}

// Register creates a provider account with a unique public slug.
func (s *ProviderService) Register(ctx context.Context, in RegisterInput) (*models.Provider, error) {
	username := strings.ToLower(strings.TrimSpace(in.Username))
	if username == "" {
		return nil, validationf("username is required")
	}
	if len(in.Password) < minPasswordLength {
		return nil, validationf("password must be at least %d characters", minPasswordLength)
	}
	display := strings.TrimSpace(in.DisplayName)
	if display == "" {
		display = username
	}

	db := s.db.WithContext(ctx)
	var existing int64
	if err := db.Model(&models.Provider{}).Where("username = ?", username).Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, fmt.Errorf("%w: username %q", ErrDuplicate, username)
	}

	slug, err := s.freeSlug(db, display, username)
	if err != nil {
		return nil, err
	}

	provider := models.Provider{
		Username:    username,
		DisplayName: display,
		Slug:        slug,
		Password:    in.Password,
	}
	if err := db.Create(&provider).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: username %q", ErrDuplicate, username)
		}
		return nil, err
	}

	utils.GetLogger().Info("provider registered",
		zap.String("provider_id", provider.ID.String()),
		zap.String("slug", provider.Slug))
	return &provider, nil
}

func (s *ProviderService) freeSlug(db *gorm.DB, candidates ...string) (string, error) {
	base := ""
	for _, c := range candidates {
		if base = utils.Slugify(c); base != "" {
			break
		}
	}
	if base == "" {
		base = "provider"
	}

	var taken []string
	if err := db.Model(&models.Provider{}).
		Where("slug = ? OR slug LIKE ?", base, base+"-%").
		Pluck("slug", &taken).Error; err != nil {
		return "", err
	}
	used := make(map[string]bool, len(taken))
	for _, t := range taken {
		used[t] = true
	}

	slug := base
	for n := 2; used[slug]; n++ {
		slug = fmt.Sprintf("%s-%d", base, n)
	}
	return slug, nil
}

// Authenticate checks credentials and stamps the login time.
func (s *ProviderService) Authenticate(ctx context.Context, username, password string) (*models.Provider, error) {
	db := s.db.WithContext(ctx)

	var provider models.Provider
	err := db.Where("username = ?", strings.ToLower(strings.TrimSpace(username))).First(&provider).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	if !utils.CheckPasswordHash(password, provider.Password) {
		return nil, ErrUnauthorized
	}

	now := time.Now().UTC()
	provider.LastLogin = &now
	if err := db.Model(&provider).Update("last_login", now).Error; err != nil {
		utils.GetLogger().Warn("failed to update last login", zap.Error(err))
	}
	return &provider, nil
}

func (s *ProviderService) Get(ctx context.Context, id uuid.UUID) (*models.Provider, error) {
	var provider models.Provider
	err := s.db.WithContext(ctx).First(&provider, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("provider")
	}
	if err != nil {
		return nil, err
	}
	return &provider, nil
}

// FindByRef resolves a public reference, either a provider id or its slug.
func (s *ProviderService) FindByRef(ctx context.Context, ref string) (*models.Provider, error) {
	if id, err := uuid.Parse(ref); err == nil {
		return s.Get(ctx, id)
	}

	var provider models.Provider
	err := s.db.WithContext(ctx).First(&provider, "slug = ?", strings.ToLower(ref)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("provider")
	}
	if err != nil {
		return nil, err
	}
	return &provider, nil
}

// UpdateProfile changes the display name and/or password. The slug is stable.
func (s *ProviderService) UpdateProfile(ctx context.Context, id uuid.UUID, in ProfileInput) (*models.Provider, error) {
	provider, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.DisplayName != nil {
		display := strings.TrimSpace(*in.DisplayName)
		if display == "" {
			return nil, validationf("display name must not be empty")
		}
		updates["display_name"] = display
	}
	if in.Password != nil {
		if len(*in.Password) < minPasswordLength {
			return nil, validationf("password must be at least %d characters", minPasswordLength)
		}
		hashed, err := utils.HashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		updates["password"] = hashed
	}
	if len(updates) == 0 {
		return provider, nil
	}

	if err := s.db.WithContext(ctx).Model(provider).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes the provider and everything it owns in one transaction.
func (s *ProviderService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		owned := []interface{}{
			&models.Booking{},
			&models.DateException{},
			&models.AvailabilityTemplate{},
			&models.Service{},
		}
		for _, model := range owned {
			if err := tx.Where("provider_id = ?", id).Delete(model).Error; err != nil {
				return err
			}
		}

		res := tx.Delete(&models.Provider{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return notFound("provider")
		}
		return nil
	})
	if err != nil {
		return err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, id)
	}
	utils.GetLogger().Info("provider deleted", zap.String("provider_id", id.String()))
	return nil
}
