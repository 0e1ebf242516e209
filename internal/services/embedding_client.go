package services

import (
	"context"
	"errors"

	"github.com/pgvector/pgvector-go"
	openai "github.com/sashabaranov/go-openai"
)

type Embedder interface {
	Embed(ctx context.Context, text string) (pgvector.Vector, error)
}

type openAIEmbedder struct {
	client *openai.Client
	model  openai.EmbeddingModel
}

func NewOpenAIEmbedder(client *openai.Client) Embedder {
	return &openAIEmbedder{
		client: client,
		model:  openai.SmallEmbedding3,
	}
}

func (e *openAIEmbedder) Embed(ctx context.Context, text string) (pgvector.Vector, error) {
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: e.model,
	})
	if err != nil {
		return pgvector.Vector{}, err
	}
	if len(resp.Data) == 0 {
		return pgvector.Vector{}, errors.New("embedding response had no data")
	}
	return pgvector.NewVector(resp.Data[0].Embedding), nil
}
