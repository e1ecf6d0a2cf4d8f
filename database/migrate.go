package database

import (
	"gorm.io/gorm"

	"folio_backend/internal/models"
)

// AutoMigrate выполняет миграцию всех моделей.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Review{},
		&models.ReviewComment{},
	)
}
