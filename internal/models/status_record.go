package models

import (
	"time"

	"gorm.io/datatypes"
)

// StatusRecord stores one hub status snapshot keyed by its storage path.
// Each refresh fully replaces the payload; there is no history.
type StatusRecord struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Path string `gorm:"type:text;not null;uniqueIndex"` // Storage path, e.g. hub_status/token_usage/claude.

	Data datatypes.JSON `gorm:"type:jsonb;not null;default:'{}'"` // Snapshot payload.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}

// TableName overrides the default table name.
func (StatusRecord) TableName() string {
	return "hub_status"
}
