package services

import (
	"context"
	"path/filepath"
	"testing"

	"agenda-backend/config"
	"agenda-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := config.OpenDB("sqlite", filepath.Join(t.TempDir(), "agenda.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedProvider(t *testing.T, db *gorm.DB, username string) *models.Provider {
	t.Helper()
	p, err := NewProviderService(db, nil).Register(context.Background(), RegisterInput{
		Username: username,
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return p
}

func seedService(t *testing.T, db *gorm.DB, providerID uuid.UUID, title string) *models.Service {
	t.Helper()
	svc, err := NewCatalogService(db).Create(context.Background(), providerID, ServiceInput{
		Title:    title,
		Duration: DurationInput{Minutes: 30},
	})
	if err != nil {
		t.Fatalf("create service %s: %v", title, err)
	}
	return svc
}

// everyDay opens all weekdays at the given slots.
func everyDay(t *testing.T, db *gorm.DB, providerID uuid.UUID, slots ...string) {
	t.Helper()
	_, err := NewAvailabilityService(db, nil).SetTemplate(context.Background(), providerID, TemplateInput{
		Weekdays: []int{0, 1, 2, 3, 4, 5, 6},
		Slots:    slots,
	})
	if err != nil {
		t.Fatalf("set template: %v", err)
	}
}
