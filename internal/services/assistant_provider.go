package services

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/api/option"

	"itinera/internal/config"
	dbm "itinera/internal/models/db_models"
)

const assistantTimeout = 30 * time.Second

const assistantSystemPrompt = `You are a concise travel assistant for a trip-planning app.
Answer in at most three short sentences. If an itinerary is given, ground the answer in it.`

var cannedReplies = []string{
	"Great question! Your trip is all set! ✈️",
	"Flight status: On time! Check-in opens 3 hours before departure.",
	"Hotel confirmed! Check-in at 2 PM tomorrow. 🏨",
	"Weather looks perfect! ☀️ 25°C, clear skies.",
	"Restaurant recommendations sent to your dashboard! 🍽️",
}

// AssistantProvider answers one traveler question. itinerary may be nil.
type AssistantProvider interface {
	Name() string
	Reply(ctx context.Context, message string, itinerary *dbm.Itinerary) (string, error)
}

type CannedAssistant struct{}

func NewCannedAssistant() AssistantProvider { return CannedAssistant{} }

func (CannedAssistant) Name() string { return config.AssistantCanned }

// Reply picks one of the fixed replies; the same message always gets the same one.
func (CannedAssistant) Reply(_ context.Context, message string, _ *dbm.Itinerary) (string, error) {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(strings.TrimSpace(message))))
	return cannedReplies[h.Sum32()%uint32(len(cannedReplies))], nil
}

type OpenAIAssistant struct {
	client *openai.Client
	model  string
}

func NewOpenAIAssistant(client *openai.Client, model string) AssistantProvider {
	return &OpenAIAssistant{client: client, model: model}
}

func (a *OpenAIAssistant) Name() string { return config.AssistantOpenAI }

func (a *OpenAIAssistant) Reply(ctx context.Context, message string, itinerary *dbm.Itinerary) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, assistantTimeout)
	defer cancel()

	res, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       a.model,
		Temperature: 0.3,
		MaxTokens:   300,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: assistantSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: assistantPrompt(message, itinerary)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai: %w", err)
	}
	if len(res.Choices) == 0 {
		return "", errors.New("openai: no choices returned")
	}
	return strings.TrimSpace(res.Choices[0].Message.Content), nil
}

type GeminiAssistant struct {
	client *genai.Client
	model  string
}

func NewGeminiAssistant(ctx context.Context, apiKey, model string) (*GeminiAssistant, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiAssistant{client: client, model: model}, nil
}

func (g *GeminiAssistant) Name() string { return config.AssistantGemini }

func (g *GeminiAssistant) Reply(ctx context.Context, message string, itinerary *dbm.Itinerary) (string, error) {
	model := g.client.GenerativeModel(g.model)
	model.SetTemperature(0.3)
	model.SetMaxOutputTokens(300)
	model.SystemInstruction = genai.NewUserContent(genai.Text(assistantSystemPrompt))

	ctx, cancel := context.WithTimeout(ctx, assistantTimeout)
	defer cancel()

	res, err := model.GenerateContent(ctx, genai.Text(assistantPrompt(message, itinerary)))
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}
	if len(res.Candidates) == 0 || res.Candidates[0].Content == nil || len(res.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("gemini: no content generated")
	}

	var b strings.Builder
	for _, part := range res.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return strings.TrimSpace(b.String()), nil
}

func (g *GeminiAssistant) Close() error {
	return g.client.Close()
}

func assistantPrompt(message string, itinerary *dbm.Itinerary) string {
	if itinerary == nil {
		return message
	}
	return fmt.Sprintf("Itinerary:\n%s\nQuestion: %s", itineraryDocument(itinerary), message)
}
