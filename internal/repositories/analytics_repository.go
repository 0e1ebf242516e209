package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbm "itinera/internal/models/db_models"
)

type AnalyticsRepository interface {
	CountItineraries(ctx context.Context, ownerID uuid.UUID) (int64, error)
	CountItinerariesByStatus(ctx context.Context, ownerID uuid.UUID, status dbm.ItineraryStatus) (int64, error)
	// CountLiveTravelers ignores travelers whose itinerary was deleted.
	CountLiveTravelers(ctx context.Context, ownerID uuid.UUID) (int64, error)
	CountNotifications(ctx context.Context, ownerID uuid.UUID, success bool) (int64, error)
	CountChatQueries(ctx context.Context, ownerID uuid.UUID) (int64, error)
}

type analyticsRepository struct {
	db *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) CountItineraries(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&dbm.Itinerary{}).
		Where("owner_id = ?", ownerID).
		Count(&n).Error
	return n, err
}

func (r *analyticsRepository) CountItinerariesByStatus(ctx context.Context, ownerID uuid.UUID, status dbm.ItineraryStatus) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&dbm.Itinerary{}).
		Where("owner_id = ? AND status = ?", ownerID, status).
		Count(&n).Error
	return n, err
}

func (r *analyticsRepository) CountLiveTravelers(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&dbm.Traveler{}).
		Joins("JOIN itineraries i ON i.id = travelers.itinerary_id AND i.deleted_at IS NULL").
		Where("travelers.owner_id = ?", ownerID).
		Count(&n).Error
	return n, err
}

func (r *analyticsRepository) CountNotifications(ctx context.Context, ownerID uuid.UUID, success bool) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&dbm.NotificationLog{}).
		Where("owner_id = ? AND success = ?", ownerID, success).
		Count(&n).Error
	return n, err
}

func (r *analyticsRepository) CountChatQueries(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&dbm.ChatQuery{}).
		Where("owner_id = ?", ownerID).
		Count(&n).Error
	return n, err
}
