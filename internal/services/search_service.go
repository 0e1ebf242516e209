package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	dbm "itinera/internal/models/db_models"
	resp "itinera/internal/models/response_models"
	"itinera/internal/repositories"
	"itinera/pkg/utils"
)

// ItineraryIndexer is notified after an itinerary is created. Indexing is
// best effort and never fails the caller.
type ItineraryIndexer interface {
	IndexItinerary(ctx context.Context, itinerary *dbm.Itinerary)
}

type SearchServiceInterface interface {
	ItineraryIndexer
	SearchItineraries(ctx context.Context, ownerID, query string, limit int) ([]resp.ItinerarySummary, error)
}

type SearchService struct {
	itineraryRepo repositories.ItineraryRepository
	embeddingRepo repositories.EmbeddingRepository
	embedder      Embedder
	logger        *zap.Logger
}

// NewSearchService falls back to text matching when embedder is nil.
func NewSearchService(
	itineraryRepo repositories.ItineraryRepository,
	embeddingRepo repositories.EmbeddingRepository,
	embedder Embedder,
	logger *zap.Logger,
) SearchServiceInterface {
	return &SearchService{
		itineraryRepo: itineraryRepo,
		embeddingRepo: embeddingRepo,
		embedder:      embedder,
		logger:        logger,
	}
}

func (s *SearchService) semantic() bool {
	return s.embedder != nil && s.embeddingRepo != nil
}

func (s *SearchService) IndexItinerary(ctx context.Context, itinerary *dbm.Itinerary) {
	if !s.semantic() {
		return
	}

	content := itineraryDocument(itinerary)
	vector, err := s.embedder.Embed(ctx, content)
	if err != nil {
		s.logger.Warn("embed itinerary", zap.String("id", itinerary.ID.String()), zap.Error(err))
		return
	}

	err = s.embeddingRepo.UpsertItineraryEmbedding(ctx, &dbm.ItineraryEmbedding{
		ItineraryID: itinerary.ID,
		OwnerID:     itinerary.OwnerID,
		Content:     content,
		Embedding:   vector,
	})
	if err != nil {
		s.logger.Warn("store itinerary embedding", zap.String("id", itinerary.ID.String()), zap.Error(err))
	}
}

func (s *SearchService) SearchItineraries(ctx context.Context, ownerID, query string, limit int) ([]resp.ItinerarySummary, error) {
	owner, err := parseOwnerID(ownerID)
	if err != nil {
		return nil, err
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, utils.ValidationError("search query is required")
	}

	if s.semantic() {
		rows, err := s.semanticSearch(ctx, owner, query, limit)
		if err == nil {
			return toItinerarySummaries(rows), nil
		}
		s.logger.Warn("semantic search failed, falling back to text match", zap.Error(err))
	}

	rows, err := s.itineraryRepo.SearchItinerarySummaries(ctx, owner, query, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	return toItinerarySummaries(rows), nil
}

func (s *SearchService) semanticSearch(ctx context.Context, owner uuid.UUID, query string, limit int) ([]repositories.ItinerarySummaryRow, error) {
	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}
	ids, err := s.embeddingRepo.NearestItineraryIDs(ctx, owner, vector, limit)
	if err != nil {
		return nil, err
	}
	return s.itineraryRepo.ListItinerarySummariesByIDs(ctx, owner, ids)
}

func itineraryDocument(it *dbm.Itinerary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\nDestination: %s\nTravelers: %s\n", it.Title, it.Destination, it.TravelerType)
	if it.Description != "" {
		fmt.Fprintf(&b, "%s\n", it.Description)
	}
	for _, d := range it.Days {
		fmt.Fprintf(&b, "Day %d: %s at %s. %s\n", d.Day, d.Title, d.Location, d.Description)
	}
	return b.String()
}
