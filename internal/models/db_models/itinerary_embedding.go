package db_models

import (
	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

const EmbeddingDimensions = 1536

type ItineraryEmbedding struct {
	BaseModel
	ItineraryID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	OwnerID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Content     string          `gorm:"type:text"`
	Embedding   pgvector.Vector `gorm:"type:vector(1536)"`
}
