package db_models

import "github.com/google/uuid"

type NotificationLog struct {
	BaseModel
	OwnerID           uuid.UUID `gorm:"type:uuid;not null;index"`
	ItineraryID       uuid.UUID `gorm:"type:uuid;not null;index"`
	TravelerID        uuid.UUID `gorm:"type:uuid;not null"`
	Channel           string    `gorm:"size:16;not null"`
	Phone             string
	Success           bool `gorm:"not null;index"`
	ProviderMessageID string
	Error             string `gorm:"type:text"`
}
