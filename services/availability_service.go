package services

import (
	"context"
	"errors"
	"sort"
	"time"

	"agenda-backend/models"
	"agenda-backend/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AvailabilityService struct {
	db    *gorm.DB
	cache TemplateCache
}

// NewAvailabilityService wires the store. cache may be nil.
func NewAvailabilityService(db *gorm.DB, cache TemplateCache) *AvailabilityService {
	return &AvailabilityService{db: db, cache: cache}
}

// TemplateInput carries either explicit slot labels or a start/end/interval
// range. Ranges are expanded to labels before storage.
type TemplateInput struct {
	Weekdays []int    `json:"weekdays"`
	Slots    []string `json:"slots"`
	Start    string   `json:"start"`
	End      string   `json:"end"`
	Interval int      `json:"interval"`
}

func (in TemplateInput) canonical() ([]int, []string, error) {
	seen := map[int]bool{}
	weekdays := make([]int, 0, len(in.Weekdays))
	for _, w := range in.Weekdays {
		if w < 0 || w > 6 {
			return nil, nil, validationf("weekday must be 0 (Monday) to 6 (Sunday), got %d", w)
		}
		if !seen[w] {
			seen[w] = true
			weekdays = append(weekdays, w)
		}
	}
	sort.Ints(weekdays)

	hasRange := in.Start != "" || in.End != "" || in.Interval != 0
	switch {
	case len(in.Slots) > 0 && hasRange:
		return nil, nil, validationf("give either slots or start/end/interval, not both")
	case hasRange:
		slots, err := GenerateSlots(in.Start, in.End, in.Interval)
		if err != nil {
			return nil, nil, err
		}
		return weekdays, slots, nil
	default:
		slots, err := NormalizeSlotLabels(in.Slots)
		if err != nil {
			return nil, nil, err
		}
		return weekdays, slots, nil
	}
}

// SetTemplate replaces the provider's weekly template.
func (s *AvailabilityService) SetTemplate(ctx context.Context, providerID uuid.UUID, in TemplateInput) (*models.AvailabilityTemplate, error) {
	weekdays, slots, err := in.canonical()
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	if err := ensureProvider(db, providerID); err != nil {
		return nil, err
	}

	tpl := models.AvailabilityTemplate{
		ProviderID: providerID,
		Weekdays:   datatypes.JSONSlice[int](weekdays),
		Slots:      datatypes.JSONSlice[string](slots),
	}
	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "provider_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"weekdays", "slots", "updated_at"}),
	}).Create(&tpl).Error
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, providerID)

	var saved models.AvailabilityTemplate
	if err := db.Where("provider_id = ?", providerID).First(&saved).Error; err != nil {
		return nil, err
	}
	// A reader that missed before the commit may have cached the old row.
	s.invalidate(ctx, providerID)
	utils.GetLogger().Info("availability template saved",
		zap.String("provider_id", providerID.String()),
		zap.Ints("weekdays", weekdays),
		zap.Int("slots", len(slots)))
	return &saved, nil
}

func (s *AvailabilityService) GetTemplate(ctx context.Context, providerID uuid.UUID) (*models.AvailabilityTemplate, error) {
	tpl, err := s.loadTemplate(ctx, s.db.WithContext(ctx), providerID)
	if err != nil {
		return nil, err
	}
	if tpl == nil {
		return nil, notFound("availability template")
	}
	return tpl, nil
}

func (s *AvailabilityService) DeleteTemplate(ctx context.Context, providerID uuid.UUID) error {
	res := s.db.WithContext(ctx).Where("provider_id = ?", providerID).Delete(&models.AvailabilityTemplate{})
	if res.Error != nil {
		return res.Error
	}
	s.invalidate(ctx, providerID)
	if res.RowsAffected == 0 {
		return notFound("availability template")
	}
	return nil
}

// SetException creates or replaces the override for one date.
func (s *AvailabilityService) SetException(ctx context.Context, providerID uuid.UUID, date string, active bool, blocked []string) (*models.DateException, error) {
	day, err := ParseDate(date)
	if err != nil {
		return nil, err
	}
	labels, err := NormalizeSlotLabels(blocked)
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	if err := ensureProvider(db, providerID); err != nil {
		return nil, err
	}

	exc := models.DateException{
		ProviderID:   providerID,
		Date:         utils.FormatDate(day),
		Active:       active,
		BlockedSlots: datatypes.JSONSlice[string](labels),
	}
	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "provider_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"active", "blocked_slots", "updated_at"}),
	}).Create(&exc).Error
	if err != nil {
		return nil, err
	}

	var saved models.DateException
	if err := db.Where("provider_id = ? AND date = ?", providerID, exc.Date).First(&saved).Error; err != nil {
		return nil, err
	}
	return &saved, nil
}

// ListExceptions returns overrides ordered by date. Empty bounds are open.
func (s *AvailabilityService) ListExceptions(ctx context.Context, providerID uuid.UUID, from, to string) ([]models.DateException, error) {
	q := s.db.WithContext(ctx).Where("provider_id = ?", providerID)
	if from != "" {
		day, err := ParseDate(from)
		if err != nil {
			return nil, err
		}
		q = q.Where("date >= ?", utils.FormatDate(day))
	}
	if to != "" {
		day, err := ParseDate(to)
		if err != nil {
			return nil, err
		}
		q = q.Where("date <= ?", utils.FormatDate(day))
	}

	exceptions := []models.DateException{}
	if err := q.Order("date ASC").Find(&exceptions).Error; err != nil {
		return nil, err
	}
	return exceptions, nil
}

func (s *AvailabilityService) DeleteException(ctx context.Context, providerID uuid.UUID, date string) error {
	day, err := ParseDate(date)
	if err != nil {
		return err
	}
	res := s.db.WithContext(ctx).
		Where("provider_id = ? AND date = ?", providerID, utils.FormatDate(day)).
		Delete(&models.DateException{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound("date exception")
	}
	return nil
}

// Available resolves the open slots of a provider for a date.
func (s *AvailabilityService) Available(ctx context.Context, providerID uuid.UUID, date string) ([]string, error) {
	day, err := ParseDate(date)
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	if err := ensureProvider(db, providerID); err != nil {
		return nil, err
	}

	in, err := s.dayInput(ctx, db, providerID, day, true)
	if err != nil {
		return nil, err
	}
	if err := db.Where("provider_id = ? AND date = ?", providerID, utils.FormatDate(day)).
		Find(&in.Bookings).Error; err != nil {
		return nil, err
	}
	return ResolveSlots(in), nil
}

// offeredOn lists the slots the template and exception offer on day,
// regardless of bookings. db may be a transaction. The template is read from
// db, never from the cache.
func (s *AvailabilityService) offeredOn(ctx context.Context, db *gorm.DB, providerID uuid.UUID, day string) (map[string]bool, error) {
	t, err := ParseDate(day)
	if err != nil {
		return nil, err
	}
	in, err := s.dayInput(ctx, db, providerID, t, false)
	if err != nil {
		return nil, err
	}
	out := map[string]bool{}
	for c := range offered(in.Date, in.Template, in.Exception) {
		out[c.String()] = true
	}
	return out, nil
}

func (s *AvailabilityService) dayInput(ctx context.Context, db *gorm.DB, providerID uuid.UUID, day time.Time, cached bool) (DayInput, error) {
	in := DayInput{ProviderID: providerID, Date: day}

	var (
		tpl *models.AvailabilityTemplate
		err error
	)
	if cached {
		tpl, err = s.loadTemplate(ctx, db, providerID)
	} else {
		tpl, err = readTemplate(db, providerID)
	}
	if err != nil {
		return in, err
	}
	in.Template = tpl

	var exc models.DateException
	err = db.Where("provider_id = ? AND date = ?", providerID, utils.FormatDate(day)).First(&exc).Error
	switch {
	case err == nil:
		in.Exception = &exc
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return in, err
	}
	return in, nil
}

// loadTemplate returns nil without error when the provider has no template.
func (s *AvailabilityService) loadTemplate(ctx context.Context, db *gorm.DB, providerID uuid.UUID) (*models.AvailabilityTemplate, error) {
	if s.cache != nil {
		if tpl, ok := s.cache.Get(ctx, providerID); ok {
			return tpl, nil
		}
	}

	tpl, err := readTemplate(db, providerID)
	if err != nil || tpl == nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(ctx, tpl)
	}
	return tpl, nil
}

func readTemplate(db *gorm.DB, providerID uuid.UUID) (*models.AvailabilityTemplate, error) {
	var tpl models.AvailabilityTemplate
	err := db.Where("provider_id = ?", providerID).First(&tpl).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (s *AvailabilityService) invalidate(ctx context.Context, providerID uuid.UUID) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, providerID)
	}
}

func ensureProvider(db *gorm.DB, providerID uuid.UUID) error {
	var count int64
	if err := db.Model(&models.Provider{}).Where("id = ?", providerID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return notFound("provider")
	}
	return nil
}
