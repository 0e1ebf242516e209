package repositories

import (
	"context"

	"gorm.io/gorm"

	dbm "itinera/internal/models/db_models"
)

type NotificationLogRepository interface {
	CreateNotificationLog(ctx context.Context, entry *dbm.NotificationLog) error
}

type notificationLogRepository struct {
	db *gorm.DB
}

func NewNotificationLogRepository(db *gorm.DB) NotificationLogRepository {
	return &notificationLogRepository{db: db}
}

func (r *notificationLogRepository) CreateNotificationLog(ctx context.Context, entry *dbm.NotificationLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}
