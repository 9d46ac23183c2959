package database

import (
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/ttestive/projeto-final-web/config"
	"github.com/ttestive/projeto-final-web/models"
)

// Connect opens the Postgres pool and creates the schema. A missing database
// is a startup failure, not a runtime condition.
func Connect(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Student{},
		&models.Grade{},
		&models.Attendance{},
	); err != nil {
		log.Fatalf("auto migrate failed: %v", err)
	}

	return db
}
