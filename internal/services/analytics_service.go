package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	dbm "itinera/internal/models/db_models"
	resp "itinera/internal/models/response_models"
	"itinera/internal/repositories"
	"itinera/pkg/utils"
)

type AnalyticsServiceInterface interface {
	GetAnalytics(ctx context.Context, ownerID string) (*resp.AnalyticsResponse, error)
}

type AnalyticsService struct {
	repo   repositories.AnalyticsRepository
	now    func() time.Time
	logger *zap.Logger
}

func NewAnalyticsService(repo repositories.AnalyticsRepository, logger *zap.Logger) AnalyticsServiceInterface {
	return &AnalyticsService{
		repo:   repo,
		now:    time.Now,
		logger: logger,
	}
}

func (s *AnalyticsService) GetAnalytics(ctx context.Context, ownerID string) (*resp.AnalyticsResponse, error) {
	owner, err := parseOwnerID(ownerID)
	if err != nil {
		return nil, err
	}

	out := &resp.AnalyticsResponse{}
	counts := []struct {
		dst *int64
		fn  func() (int64, error)
	}{
		{&out.TotalItineraries, func() (int64, error) { return s.repo.CountItineraries(ctx, owner) }},
		{&out.TotalTravelers, func() (int64, error) { return s.repo.CountLiveTravelers(ctx, owner) }},
		{&out.ActiveTrips, func() (int64, error) { return s.repo.CountItinerariesByStatus(ctx, owner, dbm.StatusActive) }},
		{&out.MessagesSent, func() (int64, error) { return s.repo.CountNotifications(ctx, owner, true) }},
		{&out.MessagesFailed, func() (int64, error) { return s.repo.CountNotifications(ctx, owner, false) }},
		{&out.ChatQueries, func() (int64, error) { return s.repo.CountChatQueries(ctx, owner) }},
	}
	for _, c := range counts {
		n, err := c.fn()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
		}
		*c.dst = n
	}

	out.SuccessRate = successRate(out.MessagesSent, out.MessagesFailed)
	out.LastUpdate = s.now().UTC().Format("2006-01-02T15:04:05.000Z07:00")
	return out, nil
}

// successRate is a percentage rounded to one decimal; 0 with no attempts.
func successRate(sent, failed int64) float64 {
	total := sent + failed
	if total == 0 {
		return 0
	}
	return math.Round(float64(sent)/float64(total)*1000) / 10
}
