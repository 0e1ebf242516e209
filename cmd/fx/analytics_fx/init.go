package analytics_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"itinera/internal/repositories"
	"itinera/internal/services"
)

var Module = fx.Provide(provideAnalyticsRepo, provideAnalyticsService)

func provideAnalyticsRepo(db *gorm.DB) repositories.AnalyticsRepository {
	return repositories.NewAnalyticsRepository(db)
}

func provideAnalyticsService(repo repositories.AnalyticsRepository, logger *zap.Logger) services.AnalyticsServiceInterface {
	return services.NewAnalyticsService(repo, logger.Named("analytics"))
}
