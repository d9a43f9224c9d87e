package db

import (
	"fmt"

	"github.com/caiqy/claude-usage-hub/internal/models"
	"gorm.io/gorm"
)

// Migrate applies the schema for all persisted models.
func Migrate(conn *gorm.DB) error {
	if conn == nil {
		return fmt.Errorf("db: nil connection")
	}
	return conn.AutoMigrate(&models.StatusRecord{})
}
