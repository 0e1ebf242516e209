package repositories

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbm "itinera/internal/models/db_models"
)

const DefaultListLimit = 50

// ItinerarySummaryRow is an itinerary plus its live traveler count.
type ItinerarySummaryRow struct {
	dbm.Itinerary
	TravelerCount int64 `gorm:"column:traveler_count"`
}

type ItineraryRepository interface {
	CreateItinerary(ctx context.Context, itinerary *dbm.Itinerary) error
	// FindOwnedItinerary returns nil, nil when the itinerary is missing, deleted or owned by someone else.
	FindOwnedItinerary(ctx context.Context, ownerID, itineraryID uuid.UUID) (*dbm.Itinerary, error)
	ListItinerarySummaries(ctx context.Context, ownerID uuid.UUID, limit int) ([]ItinerarySummaryRow, error)
	ListItinerarySummariesByIDs(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) ([]ItinerarySummaryRow, error)
	SearchItinerarySummaries(ctx context.Context, ownerID uuid.UUID, query string, limit int) ([]ItinerarySummaryRow, error)
	UpdateItineraryStatus(ctx context.Context, ownerID, itineraryID uuid.UUID, status dbm.ItineraryStatus) error
	// SoftDeleteOwnedItinerary returns the deleted record, or nil, nil when nothing matched.
	SoftDeleteOwnedItinerary(ctx context.Context, ownerID, itineraryID uuid.UUID) (*dbm.Itinerary, error)
}

type itineraryRepository struct {
	db *gorm.DB
}

func NewItineraryRepository(db *gorm.DB) ItineraryRepository {
	return &itineraryRepository{db: db}
}

// Counts only travelers that are referenced by the itinerary and belong to it.
const travelerCountColumn = `(SELECT COUNT(*) FROM travelers t
	WHERE t.itinerary_id = itineraries.id
	  AND t.owner_id = itineraries.owner_id
	  AND t.deleted_at IS NULL
	  AND t.id::text = ANY(itineraries.traveler_ids)) AS traveler_count`

func (r *itineraryRepository) summaries(ctx context.Context, ownerID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&dbm.Itinerary{}).
		Select("itineraries.*, "+travelerCountColumn).
		Where("itineraries.owner_id = ? AND itineraries.deleted_at IS NULL", ownerID)
}

func (r *itineraryRepository) CreateItinerary(ctx context.Context, itinerary *dbm.Itinerary) error {
	return r.db.WithContext(ctx).Create(itinerary).Error
}

func (r *itineraryRepository) FindOwnedItinerary(ctx context.Context, ownerID, itineraryID uuid.UUID) (*dbm.Itinerary, error) {
	var itinerary dbm.Itinerary
	err := r.db.WithContext(ctx).
		First(&itinerary, "id = ? AND owner_id = ?", itineraryID, ownerID).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &itinerary, nil
}

func (r *itineraryRepository) ListItinerarySummaries(ctx context.Context, ownerID uuid.UUID, limit int) ([]ItinerarySummaryRow, error) {
	if limit <= 0 || limit > DefaultListLimit {
		limit = DefaultListLimit
	}

	var rows []ItinerarySummaryRow
	err := r.summaries(ctx, ownerID).
		Order("itineraries.created_at DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *itineraryRepository) ListItinerarySummariesByIDs(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) ([]ItinerarySummaryRow, error) {
	if len(ids) == 0 {
		return []ItinerarySummaryRow{}, nil
	}

	var rows []ItinerarySummaryRow
	err := r.summaries(ctx, ownerID).
		Where("itineraries.id IN ?", ids).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	// keep the caller's ranking
	pos := make(map[uuid.UUID]int, len(ids))
	for i, id := range ids {
		pos[id] = i
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return pos[rows[i].ID] < pos[rows[j].ID]
	})
	return rows, nil
}

func (r *itineraryRepository) SearchItinerarySummaries(ctx context.Context, ownerID uuid.UUID, query string, limit int) ([]ItinerarySummaryRow, error) {
	if limit <= 0 || limit > DefaultListLimit {
		limit = DefaultListLimit
	}
	pattern := "%" + escapeLike(strings.TrimSpace(query)) + "%"

	var rows []ItinerarySummaryRow
	err := r.summaries(ctx, ownerID).
		Where("(itineraries.title ILIKE ? OR itineraries.destination ILIKE ?)", pattern, pattern).
		Order("itineraries.created_at DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *itineraryRepository) UpdateItineraryStatus(ctx context.Context, ownerID, itineraryID uuid.UUID, status dbm.ItineraryStatus) error {
	res := r.db.WithContext(ctx).
		Model(&dbm.Itinerary{}).
		Where("id = ? AND owner_id = ?", itineraryID, ownerID).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *itineraryRepository) SoftDeleteOwnedItinerary(ctx context.Context, ownerID, itineraryID uuid.UUID) (*dbm.Itinerary, error) {
	var deleted *dbm.Itinerary

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var itinerary dbm.Itinerary
		if err := tx.First(&itinerary, "id = ? AND owner_id = ?", itineraryID, ownerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		res := tx.Delete(&itinerary)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 1 {
			deleted = &itinerary
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
