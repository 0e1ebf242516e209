package db_models

import "github.com/google/uuid"

type Traveler struct {
	BaseModel
	ItineraryID uuid.UUID `gorm:"type:uuid;not null;index"`
	OwnerID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Name        string    `gorm:"not null"`
	Phone       string    `gorm:"not null"`
	Email       *string
	Language    string `gorm:"size:8;not null;default:'en'"`
	IsPrimary   bool   `gorm:"not null;default:false"`
}
