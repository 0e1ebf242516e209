package itinerary_fx

import (
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"itinera/internal/config"
	"itinera/internal/infra"
	"itinera/internal/repositories"
	"itinera/internal/services"
)

var Module = fx.Provide(
	provideItineraryRepo,
	provideEmbeddingRepo,
	provideFileStore,
	provideExtractor,
	provideUploadService,
	provideSearchService,
	provideExportService,
	provideItineraryService,
)

func provideItineraryRepo(db *gorm.DB) repositories.ItineraryRepository {
	return repositories.NewItineraryRepository(db)
}

func provideEmbeddingRepo(db *gorm.DB) repositories.EmbeddingRepository {
	return repositories.NewEmbeddingRepository(db)
}

func provideFileStore(cfg *config.Config) (infra.FileStore, error) {
	store, err := infra.NewLocalFileStore(cfg.UploadDir)
	if err != nil {
		return nil, fmt.Errorf("upload dir: %w", err)
	}
	return store, nil
}

func provideExtractor(logger *zap.Logger) services.DayScheduleExtractorInterface {
	return services.NewCsvExtractor(logger.Named("csv"))
}

func provideUploadService(cfg *config.Config, logger *zap.Logger) services.UploadServiceInterface {
	return services.NewUploadService(cfg.UploadTmpDir, cfg.MaxUploadBytes, logger.Named("upload"))
}

// provideSearchService only wires an embedder when embeddings are enabled;
// otherwise search is a plain text match.
func provideSearchService(
	cfg *config.Config,
	client *openai.Client,
	itineraryRepo repositories.ItineraryRepository,
	embeddingRepo repositories.EmbeddingRepository,
	logger *zap.Logger,
) services.SearchServiceInterface {
	var embedder services.Embedder
	if cfg.EmbeddingsEnabled && client != nil {
		embedder = services.NewOpenAIEmbedder(client)
	}
	return services.NewSearchService(itineraryRepo, embeddingRepo, embedder, logger.Named("search"))
}

func provideExportService(
	itineraryRepo repositories.ItineraryRepository,
	travelerRepo repositories.TravelerRepository,
	logger *zap.Logger,
) services.ExportServiceInterface {
	return services.NewExportService(itineraryRepo, travelerRepo, logger.Named("export"))
}

func provideItineraryService(
	itineraryRepo repositories.ItineraryRepository,
	travelerRepo repositories.TravelerRepository,
	extractor services.DayScheduleExtractorInterface,
	files infra.FileStore,
	search services.SearchServiceInterface,
	logger *zap.Logger,
) services.ItineraryServiceInterface {
	return services.NewItineraryService(itineraryRepo, travelerRepo, extractor, files, search, logger.Named("itinerary"))
}
