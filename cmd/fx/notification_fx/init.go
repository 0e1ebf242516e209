package notification_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"itinera/internal/config"
	"itinera/internal/repositories"
	"itinera/internal/services"
)

var Module = fx.Provide(
	provideNotificationProvider,
	provideNotificationLogRepo,
	provideNotificationService,
)

// provideNotificationProvider picks the live or logging provider once, at startup.
func provideNotificationProvider(cfg *config.Config, logger *zap.Logger) services.NotificationProvider {
	logger = logger.Named("notify")
	if cfg.NotifyProvider == config.NotifyProviderTwilio {
		logger.Info("notification provider: twilio", zap.String("channel", cfg.NotifyChannel))
		return services.NewTwilioProvider(cfg, logger)
	}
	logger.Info("notification provider: noop", zap.String("channel", cfg.NotifyChannel))
	return services.NewNoopProvider(cfg.NotifyChannel, logger)
}

func provideNotificationLogRepo(db *gorm.DB) repositories.NotificationLogRepository {
	return repositories.NewNotificationLogRepository(db)
}

func provideNotificationService(
	cfg *config.Config,
	itineraryRepo repositories.ItineraryRepository,
	travelerRepo repositories.TravelerRepository,
	logRepo repositories.NotificationLogRepository,
	provider services.NotificationProvider,
	logger *zap.Logger,
) services.NotificationServiceInterface {
	return services.NewNotificationService(
		itineraryRepo,
		travelerRepo,
		logRepo,
		provider,
		cfg.DefaultCountryCode,
		cfg.NotifyDelay,
		logger.Named("notify"),
	)
}
