package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	dbm "itinera/internal/models/db_models"
	"itinera/internal/models/request_models"
	"itinera/internal/repositories"
	"itinera/pkg/utils"
)

const defaultTravelerLanguage = "en"

type TravelerServiceInterface interface {
	AddTraveler(ctx context.Context, ownerID, itineraryID string, req request_models.AddTravelerRequest) (*dbm.Traveler, error)
	ListTravelers(ctx context.Context, ownerID, itineraryID string) ([]dbm.Traveler, error)
	RemoveTraveler(ctx context.Context, ownerID, itineraryID, travelerID string) error
}

type TravelerService struct {
	itineraryRepo repositories.ItineraryRepository
	travelerRepo  repositories.TravelerRepository
	logger        *zap.Logger
}

func NewTravelerService(
	itineraryRepo repositories.ItineraryRepository,
	travelerRepo repositories.TravelerRepository,
	logger *zap.Logger,
) TravelerServiceInterface {
	return &TravelerService{
		itineraryRepo: itineraryRepo,
		travelerRepo:  travelerRepo,
		logger:        logger,
	}
}

func (s *TravelerService) AddTraveler(ctx context.Context, ownerID, itineraryID string, req request_models.AddTravelerRequest) (*dbm.Traveler, error) {
	itinerary, err := findOwnedItinerary(ctx, s.itineraryRepo, ownerID, itineraryID)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	phone := strings.TrimSpace(req.Phone)
	if name == "" || phone == "" {
		return nil, utils.ValidationError("name and phone are required")
	}

	traveler := &dbm.Traveler{
		ItineraryID: itinerary.ID,
		OwnerID:     itinerary.OwnerID,
		Name:        name,
		Phone:       phone,
		Language:    strings.ToLower(strings.TrimSpace(req.Language)),
		IsPrimary:   bool(req.IsPrimary),
	}
	if traveler.Language == "" {
		traveler.Language = defaultTravelerLanguage
	}
	if len(traveler.Language) > 8 {
		return nil, utils.ValidationError("language must be a short language code")
	}

	if email := strings.ToLower(strings.TrimSpace(req.Email)); email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, utils.ValidationError("invalid email %q", email)
		}
		traveler.Email = &email
	}

	err = s.travelerRepo.CreateTravelerAndLink(ctx, traveler)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrItineraryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	s.logger.Info("traveler added",
		zap.String("itinerary_id", itinerary.ID.String()),
		zap.String("traveler_id", traveler.ID.String()))
	return traveler, nil
}

func (s *TravelerService) ListTravelers(ctx context.Context, ownerID, itineraryID string) ([]dbm.Traveler, error) {
	itinerary, err := findOwnedItinerary(ctx, s.itineraryRepo, ownerID, itineraryID)
	if err != nil {
		return nil, err
	}

	travelers, err := s.travelerRepo.ListTravelersByItinerary(ctx, itinerary.OwnerID, itinerary.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if travelers == nil {
		travelers = []dbm.Traveler{}
	}
	return travelers, nil
}

func (s *TravelerService) RemoveTraveler(ctx context.Context, ownerID, itineraryID, travelerID string) error {
	itinerary, err := findOwnedItinerary(ctx, s.itineraryRepo, ownerID, itineraryID)
	if err != nil {
		return err
	}
	id, err := parseResourceID(travelerID, utils.ErrTravelerNotFound)
	if err != nil {
		return err
	}

	deleted, err := s.travelerRepo.DeleteTravelerAndUnlink(ctx, itinerary.OwnerID, itinerary.ID, id)
	if err != nil {
		return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if !deleted {
		return utils.ErrTravelerNotFound
	}

	s.logger.Info("traveler removed",
		zap.String("itinerary_id", itinerary.ID.String()),
		zap.String("traveler_id", id.String()))
	return nil
}
