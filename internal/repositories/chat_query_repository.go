package repositories

import (
	"context"

	"gorm.io/gorm"

	dbm "itinera/internal/models/db_models"
)

type ChatQueryRepository interface {
	CreateChatQuery(ctx context.Context, query *dbm.ChatQuery) error
}

type chatQueryRepository struct {
	db *gorm.DB
}

func NewChatQueryRepository(db *gorm.DB) ChatQueryRepository {
	return &chatQueryRepository{db: db}
}

func (r *chatQueryRepository) CreateChatQuery(ctx context.Context, query *dbm.ChatQuery) error {
	return r.db.WithContext(ctx).Create(query).Error
}
