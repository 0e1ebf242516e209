package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbm "itinera/internal/models/db_models"
)

// TravelerRepository keeps the travelers table and each itinerary's
// traveler_ids list in step: every write touches both inside one transaction,
// record first and reference second.
type TravelerRepository interface {
	// CreateTravelerAndLink returns gorm.ErrRecordNotFound when the itinerary
	// is gone; nothing is written in that case.
	CreateTravelerAndLink(ctx context.Context, traveler *dbm.Traveler) error
	ListTravelersByItinerary(ctx context.Context, ownerID, itineraryID uuid.UUID) ([]dbm.Traveler, error)
	// ResolveTravelerReferences loads the travelers named in itinerary.TravelerIDs, oldest first.
	ResolveTravelerReferences(ctx context.Context, itinerary *dbm.Itinerary) ([]dbm.Traveler, error)
	// DeleteTravelerAndUnlink reports false when no traveler matched.
	DeleteTravelerAndUnlink(ctx context.Context, ownerID, itineraryID, travelerID uuid.UUID) (bool, error)
}

type travelerRepository struct {
	db *gorm.DB
}

func NewTravelerRepository(db *gorm.DB) TravelerRepository {
	return &travelerRepository{db: db}
}

func (r *travelerRepository) CreateTravelerAndLink(ctx context.Context, traveler *dbm.Traveler) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if traveler.IsPrimary {
			err := tx.Model(&dbm.Traveler{}).
				Where("itinerary_id = ? AND is_primary = ?", traveler.ItineraryID, true).
				Update("is_primary", false).Error
			if err != nil {
				return err
			}
		}

		if err := tx.Create(traveler).Error; err != nil {
			return err
		}

		res := tx.Model(&dbm.Itinerary{}).
			Where("id = ? AND owner_id = ?", traveler.ItineraryID, traveler.OwnerID).
			Update("traveler_ids", gorm.Expr("array_append(traveler_ids, ?::text)", traveler.ID.String()))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *travelerRepository) ListTravelersByItinerary(ctx context.Context, ownerID, itineraryID uuid.UUID) ([]dbm.Traveler, error) {
	var travelers []dbm.Traveler
	err := r.db.WithContext(ctx).
		Where("itinerary_id = ? AND owner_id = ?", itineraryID, ownerID).
		Order("created_at DESC").
		Find(&travelers).Error
	return travelers, err
}

func (r *travelerRepository) ResolveTravelerReferences(ctx context.Context, itinerary *dbm.Itinerary) ([]dbm.Traveler, error) {
	if len(itinerary.TravelerIDs) == 0 {
		return []dbm.Traveler{}, nil
	}

	var travelers []dbm.Traveler
	err := r.db.WithContext(ctx).
		Where("id::text IN ? AND itinerary_id = ? AND owner_id = ?",
			[]string(itinerary.TravelerIDs), itinerary.ID, itinerary.OwnerID).
		Order("created_at ASC").
		Find(&travelers).Error
	return travelers, err
}

func (r *travelerRepository) DeleteTravelerAndUnlink(ctx context.Context, ownerID, itineraryID, travelerID uuid.UUID) (bool, error) {
	deleted := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Unscoped().
			Where("id = ? AND itinerary_id = ? AND owner_id = ?", travelerID, itineraryID, ownerID).
			Delete(&dbm.Traveler{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		deleted = true

		return tx.Model(&dbm.Itinerary{}).
			Where("id = ? AND owner_id = ?", itineraryID, ownerID).
			Update("traveler_ids", gorm.Expr("array_remove(traveler_ids, ?::text)", travelerID.String())).Error
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}
