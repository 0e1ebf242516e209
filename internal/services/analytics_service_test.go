package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"itinera/internal/models/request_models"
)

func TestGetAnalyticsCountsLiveData(t *testing.T) {
	f, _, notifier := newNotificationFixture(t, 0)
	ctx := context.Background()

	kept := f.create(t, "Kept")
	dropped := f.create(t, "Dropped")
	_, err := f.svc.UpdateItineraryStatus(ctx, f.owner, kept.ID.String(), "active")
	require.NoError(t, err)

	for _, phone := range []string{"9876543210", "bad"} {
		_, err := f.travelers.AddTraveler(ctx, f.owner, kept.ID.String(), request_models.AddTravelerRequest{Name: "T", Phone: phone})
		require.NoError(t, err)
	}
	_, err = f.travelers.AddTraveler(ctx, f.owner, dropped.ID.String(), request_models.AddTravelerRequest{Name: "Orphan", Phone: "9876543212"})
	require.NoError(t, err)
	_, err = f.svc.DeleteItinerary(ctx, f.owner, dropped.ID.String())
	require.NoError(t, err)

	_, err = notifier.NotifyAll(ctx, f.owner, kept.ID.String(), "")
	require.NoError(t, err)

	assistant := NewAssistantService(f.store, f.store, NewCannedAssistant(), zap.NewNop())
	_, err = assistant.Ask(ctx, f.owner, request_models.ChatQueryRequest{Message: "hello"})
	require.NoError(t, err)

	svc := NewAnalyticsService(f.store, zap.NewNop()).(*AnalyticsService)
	svc.now = func() time.Time { return time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC) }

	stats, err := svc.GetAnalytics(ctx, f.owner)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.TotalItineraries)
	assert.EqualValues(t, 2, stats.TotalTravelers)
	assert.EqualValues(t, 1, stats.ActiveTrips)
	assert.EqualValues(t, 1, stats.MessagesSent)
	assert.EqualValues(t, 1, stats.MessagesFailed)
	assert.Equal(t, 50.0, stats.SuccessRate)
	assert.EqualValues(t, 1, stats.ChatQueries)
	assert.Equal(t, "2025-06-15T10:00:00.000Z", stats.LastUpdate)

	empty, err := svc.GetAnalytics(ctx, uuid.NewString())
	require.NoError(t, err)
	assert.Zero(t, empty.TotalItineraries)
	assert.Zero(t, empty.SuccessRate)
}

func TestSuccessRateRounding(t *testing.T) {
	assert.Equal(t, 0.0, successRate(0, 0))
	assert.Equal(t, 66.7, successRate(2, 1))
	assert.Equal(t, 100.0, successRate(3, 0))
}
