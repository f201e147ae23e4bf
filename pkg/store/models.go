package store

import (
	"time"

	"gorm.io/datatypes"
)

// GORM models used for persistence.

type RecommendationModel struct {
	ID         uint           `gorm:"primaryKey"`
	UserText   string         `gorm:"type:text;not null"`
	AIResponse datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt  time.Time      `gorm:"not null;index"`
}

type UserModel struct {
	ID           string    `gorm:"primaryKey"`
	Email        string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	CreatedAt    time.Time `gorm:"not null"`
}
