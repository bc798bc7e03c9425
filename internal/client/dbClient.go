package client

import (
	"fmt"
	"time"

	"application-portal/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// InitDB opens the record store and migrates the schema. sqlite is the
// default for local runs; mysql for deployments.
func InitDB(driver, url string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "mysql":
		dialector = mysql.Open(url)
	case "sqlite":
		dialector = sqlite.Open(url)
	default:
		return nil, fmt.Errorf("unsupported db driver: %s", driver)
	}

	// TranslateError surfaces unique-constraint violations as
	// gorm.ErrDuplicatedKey across drivers
	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// Connection pool (important for webhooks)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(
		&model.Applicant{},
		&model.ApplicationField{},
		&model.Payment{},
		&model.WebhookEvent{},
	); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	return db, nil
}
