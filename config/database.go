package config

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var DB *gorm.DB

// ConnectDB opens the configured database and stores it in DB.
func ConnectDB() error {
	db, err := OpenDB(AppConfig.DBDriver, AppConfig.DBURL)
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("db.DB(): %w", err)
	}
	if AppConfig.DBDriver == "sqlite" {
		// sqlite has a single writer; one connection keeps transactions serialized
		sqlDB.SetMaxOpenConns(1)
	} else {
		if AppConfig.DBMaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(AppConfig.DBMaxOpenConns)
		}
		if AppConfig.DBMaxIdleConns > 0 {
			sqlDB.SetMaxIdleConns(AppConfig.DBMaxIdleConns)
		}
		if AppConfig.DBConnMaxLifetimeM > 0 {
			sqlDB.SetConnMaxLifetime(time.Duration(AppConfig.DBConnMaxLifetimeM) * time.Minute)
		}
	}

	DB = db
	return nil
}

// OpenDB opens a gorm handle for driver "postgres" or "sqlite".
func OpenDB(driver, dsn string) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	var dialector gorm.Dialector
	switch driver {
	case "", "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("gorm open: %w", err)
	}
	return db, nil
}
