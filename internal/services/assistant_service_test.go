package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"itinera/internal/config"
	dbm "itinera/internal/models/db_models"
	"itinera/internal/models/request_models"
	"itinera/pkg/utils"
)

type stubAssistant struct {
	reply   string
	err     error
	gotTrip *dbm.Itinerary
}

func (s *stubAssistant) Name() string { return config.AssistantOpenAI }

func (s *stubAssistant) Reply(_ context.Context, _ string, itinerary *dbm.Itinerary) (string, error) {
	s.gotTrip = itinerary
	return s.reply, s.err
}

func TestCannedAssistantIsDeterministic(t *testing.T) {
	a := NewCannedAssistant()
	first, err := a.Reply(context.Background(), "Is my flight on time?", nil)
	require.NoError(t, err)
	again, _ := a.Reply(context.Background(), "  is my flight ON TIME?  ", nil)
	assert.Equal(t, first, again)
	assert.Contains(t, cannedReplies, first)
}

func TestAskStoresQueryWithItinerary(t *testing.T) {
	f := newItineraryFixture(t)
	it := f.create(t, "Goa")
	provider := &stubAssistant{reply: "Pack sunscreen."}
	svc := NewAssistantService(f.store, f.store, provider, zap.NewNop())

	reply, err := svc.Ask(context.Background(), f.owner, request_models.ChatQueryRequest{Message: " What to pack? ", ItineraryID: it.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, "Pack sunscreen.", reply.Message)
	assert.Equal(t, config.AssistantOpenAI, reply.Provider)
	require.NotNil(t, provider.gotTrip)
	assert.Equal(t, "Goa", provider.gotTrip.Title)

	require.Len(t, f.store.ChatQueries, 1)
	q := f.store.ChatQueries[0]
	assert.Equal(t, "What to pack?", q.Message)
	require.NotNil(t, q.ItineraryID)
	assert.Equal(t, it.ID, *q.ItineraryID)
}

func TestAskFallsBackToCanned(t *testing.T) {
	f := newItineraryFixture(t)
	svc := NewAssistantService(f.store, f.store, &stubAssistant{err: errors.New("quota")}, zap.NewNop())

	reply, err := svc.Ask(context.Background(), f.owner, request_models.ChatQueryRequest{Message: "weather?"})
	require.NoError(t, err)
	assert.Equal(t, config.AssistantCanned, reply.Provider)
	assert.Contains(t, cannedReplies, reply.Message)
}

func TestAskValidation(t *testing.T) {
	f := newItineraryFixture(t)
	it := f.create(t, "Private")
	svc := NewAssistantService(f.store, f.store, NewCannedAssistant(), zap.NewNop())
	ctx := context.Background()

	_, err := svc.Ask(ctx, f.owner, request_models.ChatQueryRequest{Message: "   "})
	assert.ErrorIs(t, err, utils.ErrValidation)

	_, err = svc.Ask(ctx, uuid.NewString(), request_models.ChatQueryRequest{Message: "hi", ItineraryID: it.ID.String()})
	assert.ErrorIs(t, err, utils.ErrNotFound)

	assert.Empty(t, f.store.ChatQueries)
}
