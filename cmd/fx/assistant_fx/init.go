package assistant_fx

import (
	"context"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"itinera/internal/config"
	"itinera/internal/repositories"
	"itinera/internal/services"
)

var Module = fx.Provide(
	provideOpenAIClient,
	provideAssistantProvider,
	provideChatQueryRepo,
	provideAssistantService,
)

// provideOpenAIClient returns nil when no API key is configured.
func provideOpenAIClient(cfg *config.Config) *openai.Client {
	if cfg.OpenAIAPIKey == "" {
		return nil
	}
	return openai.NewClient(cfg.OpenAIAPIKey)
}

func provideAssistantProvider(lc fx.Lifecycle, cfg *config.Config, client *openai.Client, logger *zap.Logger) (services.AssistantProvider, error) {
	logger.Info("assistant provider", zap.String("provider", cfg.AssistantProvider))

	switch cfg.AssistantProvider {
	case config.AssistantOpenAI:
		return services.NewOpenAIAssistant(client, cfg.OpenAIModel), nil
	case config.AssistantGemini:
		gemini, err := services.NewGeminiAssistant(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.StopHook(gemini.Close))
		return gemini, nil
	default:
		return services.NewCannedAssistant(), nil
	}
}

func provideChatQueryRepo(db *gorm.DB) repositories.ChatQueryRepository {
	return repositories.NewChatQueryRepository(db)
}

func provideAssistantService(
	itineraryRepo repositories.ItineraryRepository,
	chatRepo repositories.ChatQueryRepository,
	provider services.AssistantProvider,
	logger *zap.Logger,
) services.AssistantServiceInterface {
	return services.NewAssistantService(itineraryRepo, chatRepo, provider, logger.Named("assistant"))
}
