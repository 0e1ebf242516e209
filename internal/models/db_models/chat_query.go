package db_models

import "github.com/google/uuid"

type ChatQuery struct {
	BaseModel
	OwnerID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	ItineraryID *uuid.UUID `gorm:"type:uuid"`
	Message     string     `gorm:"type:text;not null"`
	Reply       string     `gorm:"type:text"`
	Provider    string     `gorm:"size:16"`
}
