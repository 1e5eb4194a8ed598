package services

import (
	"context"
	"strconv"
	"time"

	"agenda-backend/models"
	"agenda-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const topServicesLimit = 5

// ReportService aggregates a provider's bookings. Dates are stored as
// YYYY-MM-DD text so substr works the same on postgres and sqlite.
type ReportService struct {
	db           *gorm.DB
	availability *AvailabilityService
}

func NewReportService(db *gorm.DB, availability *AvailabilityService) *ReportService {
	return &ReportService{db: db, availability: availability}
}

type ReportSummary struct {
	TotalBookings    int64            `json:"totalBookings"`
	YearBookings     int64            `json:"yearBookings"`
	MonthBookings    int64            `json:"monthBookings"`
	MonthGrowth      float64          `json:"monthGrowth"`
	BestMonth        *MonthCount      `json:"bestMonth"`
	TopServices      []ServiceSummary `json:"topServices"`
	TodayBookings    int64            `json:"todayBookings"`
	UpcomingBookings int64            `json:"upcomingBookings"`
}

type MonthCount struct {
	Month string `json:"month"`
	Count int64  `json:"count"`
}

type ServiceSummary struct {
	Title string `json:"title"`
	Count int64  `json:"count"`
}

type DashboardOverview struct {
	Date           string           `json:"date"`
	TodayAgenda    []models.Booking `json:"todayAgenda"`
	OpenSlotsToday []string         `json:"openSlotsToday"`
	NextSevenDays  int64            `json:"nextSevenDays"`
	ActiveServices int64            `json:"activeServices"`
}

// Summary reports booking volume as of now.
func (s *ReportService) Summary(ctx context.Context, providerID uuid.UUID, now time.Time) (*ReportSummary, error) {
	db := s.db.WithContext(ctx)
	scoped := func() *gorm.DB {
		return db.Model(&models.Booking{}).Where("provider_id = ?", providerID)
	}

	out := &ReportSummary{TopServices: []ServiceSummary{}}
	if err := scoped().Count(&out.TotalBookings).Error; err != nil {
		return nil, err
	}

	year := strconv.Itoa(now.Year())
	if err := scoped().Where("substr(date, 1, 4) = ?", year).Count(&out.YearBookings).Error; err != nil {
		return nil, err
	}

	thisMonth := now.Format("2006-01")
	lastMonth := time.Date(now.Year(), now.Month()-1, 1, 0, 0, 0, 0, now.Location()).Format("2006-01")
	var previous int64
	if err := scoped().Where("substr(date, 1, 7) = ?", thisMonth).Count(&out.MonthBookings).Error; err != nil {
		return nil, err
	}
	if err := scoped().Where("substr(date, 1, 7) = ?", lastMonth).Count(&previous).Error; err != nil {
		return nil, err
	}
	out.MonthGrowth = growthPercentage(float64(out.MonthBookings), float64(previous))

	var months []struct {
		Month string
		Total int64
	}
	if err := scoped().
		Select("substr(date, 6, 2) AS month, COUNT(*) AS total").
		Group("substr(date, 6, 2)").
		Order("total DESC, month ASC").
		Limit(1).
		Scan(&months).Error; err != nil {
		return nil, err
	}
	if len(months) == 1 {
		if n, err := strconv.Atoi(months[0].Month); err == nil && n >= 1 && n <= 12 {
			out.BestMonth = &MonthCount{Month: time.Month(n).String(), Count: months[0].Total}
		}
	}

	if err := scoped().
		Select("service_title AS title, COUNT(*) AS count").
		Group("service_title").
		Order("count DESC, title ASC").
		Limit(topServicesLimit).
		Scan(&out.TopServices).Error; err != nil {
		return nil, err
	}

	today := utils.FormatDate(now)
	if err := scoped().Where("date = ?", today).Count(&out.TodayBookings).Error; err != nil {
		return nil, err
	}
	if err := scoped().Where("date > ?", today).Count(&out.UpcomingBookings).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Dashboard is the provider's view of today.
func (s *ReportService) Dashboard(ctx context.Context, providerID uuid.UUID, now time.Time) (*DashboardOverview, error) {
	db := s.db.WithContext(ctx)
	today := utils.FormatDate(now)
	weekEnd := utils.FormatDate(now.AddDate(0, 0, 7))

	out := &DashboardOverview{Date: today, TodayAgenda: []models.Booking{}}
	if err := db.Where("provider_id = ? AND date = ?", providerID, today).
		Order("time ASC").
		Find(&out.TodayAgenda).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Booking{}).
		Where("provider_id = ? AND date > ? AND date <= ?", providerID, today, weekEnd).
		Count(&out.NextSevenDays).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Service{}).
		Where("provider_id = ? AND is_active = ?", providerID, true).
		Count(&out.ActiveServices).Error; err != nil {
		return nil, err
	}

	open, err := s.availability.Available(ctx, providerID, today)
	if err != nil {
		return nil, err
	}
	out.OpenSlotsToday = open
	return out, nil
}

func growthPercentage(current, previous float64) float64 {
	if previous == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	return ((current - previous) / previous) * 100
}
