package traveler_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"itinera/internal/repositories"
	"itinera/internal/services"
)

var Module = fx.Provide(provideTravelerRepo, provideTravelerService)

func provideTravelerRepo(db *gorm.DB) repositories.TravelerRepository {
	return repositories.NewTravelerRepository(db)
}

func provideTravelerService(
	itineraryRepo repositories.ItineraryRepository,
	travelerRepo repositories.TravelerRepository,
	logger *zap.Logger,
) services.TravelerServiceInterface {
	return services.NewTravelerService(itineraryRepo, travelerRepo, logger.Named("traveler"))
}
