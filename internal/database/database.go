package database

import (
	"time"

	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/bolsinho/bolsinho/internal/model"
)

// Connect opens the Postgres connection, configures the pool and migrates
// the schema. Schema management beyond AutoMigrate is out of scope.
func Connect(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get database instance")
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&model.StockQuote{},
		&model.User{},
		&model.Category{},
		&model.Transaction{},
		&model.Budget{},
		&model.Goal{},
		&model.ChatMessage{},
		&model.Alert{},
	); err != nil {
		return nil, errors.Wrap(err, "failed to migrate database")
	}

	return db, nil
}
