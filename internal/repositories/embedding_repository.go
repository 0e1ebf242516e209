package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	dbm "itinera/internal/models/db_models"
)

// MinSimilarity drops matches whose cosine similarity is at or below this value.
const MinSimilarity = 0.3

type EmbeddingRepository interface {
	UpsertItineraryEmbedding(ctx context.Context, embedding *dbm.ItineraryEmbedding) error
	// NearestItineraryIDs returns ids ordered by cosine distance, closest first.
	NearestItineraryIDs(ctx context.Context, ownerID uuid.UUID, vector pgvector.Vector, limit int) ([]uuid.UUID, error)
}

type embeddingRepository struct {
	db *gorm.DB
}

func NewEmbeddingRepository(db *gorm.DB) EmbeddingRepository {
	return &embeddingRepository{db: db}
}

func (r *embeddingRepository) UpsertItineraryEmbedding(ctx context.Context, embedding *dbm.ItineraryEmbedding) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "itinerary_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"content", "embedding", "updated_at"}),
		}).
		Create(embedding).Error
}

func (r *embeddingRepository) NearestItineraryIDs(ctx context.Context, ownerID uuid.UUID, vector pgvector.Vector, limit int) ([]uuid.UUID, error) {
	if limit <= 0 || limit > DefaultListLimit {
		limit = DefaultListLimit
	}

	query := `
        SELECT itinerary_id
        FROM itinerary_embeddings
        WHERE owner_id = ?
          AND deleted_at IS NULL
          AND (1 - (embedding <=> ?)) > ?
        ORDER BY embedding <=> ?
        LIMIT ?
    `

	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Raw(query, ownerID, vector, MinSimilarity, vector, limit).
		Scan(&ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
