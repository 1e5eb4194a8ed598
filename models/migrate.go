package models

import "gorm.io/gorm"

// AutoMigrate creates or updates every table of the booking core.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Provider{},
		&Service{},
		&AvailabilityTemplate{},
		&DateException{},
		&Booking{},
	)
}
