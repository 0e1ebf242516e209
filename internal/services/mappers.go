package services

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	dbm "itinera/internal/models/db_models"
	resp "itinera/internal/models/response_models"
	"itinera/internal/repositories"
	"itinera/pkg/utils"
)

func parseOwnerID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, utils.ErrUnauthorized
	}
	return id, nil
}

// parseResourceID maps a malformed id to notFound so callers cannot probe id formats.
func parseResourceID(raw string, notFound error) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q", notFound, raw)
	}
	return id, nil
}

func nonNilDays(d []dbm.DayEntry) []dbm.DayEntry {
	if d == nil {
		return []dbm.DayEntry{}
	}
	return d
}

func toItinerarySummary(it *dbm.Itinerary, travelerCount int64) resp.ItinerarySummary {
	return resp.ItinerarySummary{
		ID:            it.ID.String(),
		Title:         it.Title,
		Destination:   it.Destination,
		StartDate:     utils.FormatDate(it.StartDate),
		EndDate:       utils.FormatDate(it.EndDate),
		TravelerType:  string(it.TravelerType),
		Description:   it.Description,
		Status:        string(it.Status),
		Days:          nonNilDays(it.Days),
		TravelerCount: travelerCount,
		CreatedAt:     utils.FormatRFC3339Millis(it.CreatedAt),
		UpdatedAt:     utils.FormatRFC3339Millis(it.UpdatedAt),
	}
}

func toItinerarySummaries(rows []repositories.ItinerarySummaryRow) []resp.ItinerarySummary {
	out := make([]resp.ItinerarySummary, 0, len(rows))
	for i := range rows {
		out = append(out, toItinerarySummary(&rows[i].Itinerary, rows[i].TravelerCount))
	}
	return out
}

func ToCreatedItinerary(it *dbm.Itinerary) resp.CreatedItinerary {
	return resp.CreatedItinerary{
		ID:          it.ID.String(),
		Title:       it.Title,
		Destination: it.Destination,
		Status:      string(it.Status),
		Days:        nonNilDays(it.Days),
		FileURL:     it.FileURL,
		CreatedAt:   utils.FormatRFC3339Millis(it.CreatedAt),
	}
}

func toTravelerSummary(t *dbm.Traveler) resp.TravelerSummary {
	return resp.TravelerSummary{
		ID:        t.ID.String(),
		Name:      t.Name,
		Phone:     t.Phone,
		Email:     t.Email,
		Language:  t.Language,
		IsPrimary: t.IsPrimary,
	}
}

func ToTravelerResponse(t *dbm.Traveler) resp.TravelerResponse {
	return resp.TravelerResponse{
		TravelerSummary: toTravelerSummary(t),
		ItineraryID:     t.ItineraryID.String(),
		CreatedAt:       utils.FormatRFC3339Millis(t.CreatedAt),
	}
}

func ToTravelerResponses(travelers []dbm.Traveler) []resp.TravelerResponse {
	out := make([]resp.TravelerResponse, 0, len(travelers))
	for i := range travelers {
		out = append(out, ToTravelerResponse(&travelers[i]))
	}
	return out
}
