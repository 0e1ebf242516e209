package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"itinera/internal/models/request_models"
	"itinera/pkg/utils"
)

func TestAddTravelerLinksReference(t *testing.T) {
	f := newItineraryFixture(t)
	ctx := context.Background()
	it := f.create(t, "Roster")

	traveler, err := f.travelers.AddTraveler(ctx, f.owner, it.ID.String(), request_models.AddTravelerRequest{
		Name:  "  Ravi ",
		Phone: " 98765 43210 ",
		Email: "Ravi@Example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, "Ravi", traveler.Name)
	assert.Equal(t, "98765 43210", traveler.Phone)
	assert.Equal(t, "en", traveler.Language)
	require.NotNil(t, traveler.Email)
	assert.Equal(t, "ravi@example.com", *traveler.Email)

	stored := f.store.Itinerary(it.ID)
	assert.Equal(t, []string{traveler.ID.String()}, []string(stored.TravelerIDs))
}

func TestAddTravelerValidation(t *testing.T) {
	f := newItineraryFixture(t)
	ctx := context.Background()
	it := f.create(t, "Roster")

	cases := map[string]request_models.AddTravelerRequest{
		"missing name":  {Phone: "9876543210"},
		"missing phone": {Name: "A", Phone: "   "},
		"bad email":     {Name: "A", Phone: "9876543210", Email: "nope"},
		"long language": {Name: "A", Phone: "9876543210", Language: "english-uk"},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.travelers.AddTraveler(ctx, f.owner, it.ID.String(), req)
			assert.ErrorIs(t, err, utils.ErrValidation)
		})
	}
	assert.Zero(t, f.store.TravelerCount())

	_, err := f.travelers.AddTraveler(ctx, uuid.NewString(), it.ID.String(), request_models.AddTravelerRequest{Name: "A", Phone: "1"})
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestAddPrimaryTravelerClearsPrevious(t *testing.T) {
	f := newItineraryFixture(t)
	ctx := context.Background()
	it := f.create(t, "Roster")
	id := it.ID.String()

	_, err := f.travelers.AddTraveler(ctx, f.owner, id, request_models.AddTravelerRequest{Name: "A", Phone: "9876543210", IsPrimary: true})
	require.NoError(t, err)
	_, err = f.travelers.AddTraveler(ctx, f.owner, id, request_models.AddTravelerRequest{Name: "B", Phone: "9876543211", IsPrimary: true})
	require.NoError(t, err)

	list, err := f.travelers.ListTravelers(ctx, f.owner, id)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "B", list[0].Name)
	assert.True(t, list[0].IsPrimary)
	assert.False(t, list[1].IsPrimary)
}

func TestRemoveTravelerKeepsReferencesConsistent(t *testing.T) {
	f := newItineraryFixture(t)
	ctx := context.Background()
	it := f.create(t, "Roster")
	id := it.ID.String()

	a, err := f.travelers.AddTraveler(ctx, f.owner, id, request_models.AddTravelerRequest{Name: "A", Phone: "9876543210"})
	require.NoError(t, err)
	b, err := f.travelers.AddTraveler(ctx, f.owner, id, request_models.AddTravelerRequest{Name: "B", Phone: "9876543211"})
	require.NoError(t, err)

	assert.ErrorIs(t, f.travelers.RemoveTraveler(ctx, uuid.NewString(), id, a.ID.String()), utils.ErrNotFound)

	require.NoError(t, f.travelers.RemoveTraveler(ctx, f.owner, id, a.ID.String()))
	assert.ErrorIs(t, f.travelers.RemoveTraveler(ctx, f.owner, id, a.ID.String()), utils.ErrNotFound)
	assert.ErrorIs(t, f.travelers.RemoveTraveler(ctx, f.owner, id, "junk"), utils.ErrNotFound)

	stored := f.store.Itinerary(it.ID)
	assert.Equal(t, []string{b.ID.String()}, []string(stored.TravelerIDs))

	detail, err := f.svc.GetItinerary(ctx, f.owner, id)
	require.NoError(t, err)
	require.Len(t, detail.Travelers, 1)
	assert.Equal(t, "B", detail.Travelers[0].Name)
}

func TestRemoveTravelerFromOtherItinerary(t *testing.T) {
	f := newItineraryFixture(t)
	ctx := context.Background()
	first := f.create(t, "One")
	second := f.create(t, "Two")

	traveler, err := f.travelers.AddTraveler(ctx, f.owner, first.ID.String(), request_models.AddTravelerRequest{Name: "A", Phone: "9876543210"})
	require.NoError(t, err)

	err = f.travelers.RemoveTraveler(ctx, f.owner, second.ID.String(), traveler.ID.String())
	assert.ErrorIs(t, err, utils.ErrNotFound)
	assert.Equal(t, 1, f.store.TravelerCount())
}

func TestListTravelersNotOwned(t *testing.T) {
	f := newItineraryFixture(t)
	it := f.create(t, "Roster")

	list, err := f.travelers.ListTravelers(context.Background(), f.owner, it.ID.String())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	_, err = f.travelers.ListTravelers(context.Background(), uuid.NewString(), it.ID.String())
	assert.ErrorIs(t, err, utils.ErrNotFound)
}
