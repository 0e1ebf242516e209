package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"itinera/pkg/utils"
)

// keywordEmbedder maps text onto a tiny vector space keyed by a few words.
type keywordEmbedder struct {
	fail bool
}

var embedKeywords = []string{"beach", "mountain", "city"}

func (k keywordEmbedder) Embed(_ context.Context, text string) (pgvector.Vector, error) {
	if k.fail {
		return pgvector.Vector{}, errors.New("embedding quota exceeded")
	}
	text = strings.ToLower(text)
	v := make([]float32, len(embedKeywords))
	for i, w := range embedKeywords {
		if strings.Contains(text, w) {
			v[i] = 1
		}
	}
	return pgvector.NewVector(v), nil
}

func TestSearchItinerariesTextFallback(t *testing.T) {
	f := newItineraryFixture(t)
	ctx := context.Background()
	f.create(t, "Goa Beach Week")
	f.create(t, "Alps")

	svc := NewSearchService(f.store, f.store, nil, zap.NewNop())
	results, err := svc.SearchItineraries(ctx, f.owner, "beach", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Goa Beach Week", results[0].Title)

	_, err = svc.SearchItineraries(ctx, f.owner, "  ", 10)
	assert.ErrorIs(t, err, utils.ErrValidation)

	others, err := svc.SearchItineraries(ctx, uuid.NewString(), "beach", 10)
	require.NoError(t, err)
	assert.Empty(t, others)
}

func TestSearchItinerariesSemantic(t *testing.T) {
	f := newItineraryFixture(t)
	ctx := context.Background()
	svc := NewSearchService(f.store, f.store, keywordEmbedder{}, zap.NewNop())
	f.svc.indexer = svc

	f.create(t, "Sunny beach escape")
	f.create(t, "Mountain trek")

	results, err := svc.SearchItineraries(ctx, f.owner, "somewhere with a beach", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Sunny beach escape", results[0].Title)
}

func TestSearchItinerariesSemanticFailureFallsBack(t *testing.T) {
	f := newItineraryFixture(t)
	f.create(t, "City lights")

	svc := NewSearchService(f.store, f.store, keywordEmbedder{fail: true}, zap.NewNop())
	results, err := svc.SearchItineraries(context.Background(), f.owner, "city", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "City lights", results[0].Title)
}
