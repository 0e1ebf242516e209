package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	dbm "itinera/internal/models/db_models"
	resp "itinera/internal/models/response_models"
	"itinera/internal/repositories"
	"itinera/pkg/utils"
)

const (
	DefaultTravelerMessage  = "Your trip itinerary is ready!"
	DefaultBroadcastMessage = "Your trip is confirmed!"

	invalidPhoneMessage = "Invalid phone format"
)

type NotificationServiceInterface interface {
	NotifyTraveler(ctx context.Context, ownerID, itineraryID, travelerID, message string) (*resp.NotifyReport, error)
	NotifyAll(ctx context.Context, ownerID, itineraryID, message string) (*resp.NotifyReport, error)
}

type NotificationService struct {
	itineraryRepo      repositories.ItineraryRepository
	travelerRepo       repositories.TravelerRepository
	logRepo            repositories.NotificationLogRepository
	provider           NotificationProvider
	defaultCountryCode string
	delay              time.Duration
	logger             *zap.Logger
}

func NewNotificationService(
	itineraryRepo repositories.ItineraryRepository,
	travelerRepo repositories.TravelerRepository,
	logRepo repositories.NotificationLogRepository,
	provider NotificationProvider,
	defaultCountryCode string,
	delay time.Duration,
	logger *zap.Logger,
) NotificationServiceInterface {
	return &NotificationService{
		itineraryRepo:      itineraryRepo,
		travelerRepo:       travelerRepo,
		logRepo:            logRepo,
		provider:           provider,
		defaultCountryCode: defaultCountryCode,
		delay:              delay,
		logger:             logger,
	}
}

func (s *NotificationService) NotifyTraveler(ctx context.Context, ownerID, itineraryID, travelerID, message string) (*resp.NotifyReport, error) {
	itinerary, err := findOwnedItinerary(ctx, s.itineraryRepo, ownerID, itineraryID)
	if err != nil {
		return nil, err
	}
	id, err := parseResourceID(travelerID, utils.ErrTravelerNotFound)
	if err != nil {
		return nil, err
	}

	travelers, err := s.travelerRepo.ResolveTravelerReferences(ctx, itinerary)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	var target *dbm.Traveler
	for i := range travelers {
		if travelers[i].ID == id {
			target = &travelers[i]
			break
		}
	}
	if target == nil {
		return nil, utils.ErrTravelerNotFound
	}

	return s.dispatch(ctx, itinerary, []dbm.Traveler{*target}, messageOrDefault(message, DefaultTravelerMessage)), nil
}

func (s *NotificationService) NotifyAll(ctx context.Context, ownerID, itineraryID, message string) (*resp.NotifyReport, error) {
	itinerary, err := findOwnedItinerary(ctx, s.itineraryRepo, ownerID, itineraryID)
	if err != nil {
		return nil, err
	}

	travelers, err := s.travelerRepo.ResolveTravelerReferences(ctx, itinerary)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	return s.dispatch(ctx, itinerary, travelers, messageOrDefault(message, DefaultBroadcastMessage)), nil
}

// dispatch sends sequentially, one message per limiter token. A failed
// recipient is recorded and the batch continues.
func (s *NotificationService) dispatch(ctx context.Context, itinerary *dbm.Itinerary, travelers []dbm.Traveler, message string) *resp.NotifyReport {
	limit := rate.Inf
	if s.delay > 0 {
		limit = rate.Every(s.delay)
	}
	limiter := rate.NewLimiter(limit, 1)

	report := &resp.NotifyReport{Total: len(travelers), Results: make([]resp.NotifyResult, 0, len(travelers))}
	for i := range travelers {
		t := &travelers[i]
		result := resp.NotifyResult{
			TravelerID: t.ID.String(),
			Name:       t.Name,
			Phone:      t.Phone,
		}

		phone, err := utils.NormalizePhone(t.Phone, s.defaultCountryCode)
		if err != nil {
			result.Error = invalidPhoneMessage
			s.record(ctx, itinerary, t, t.Phone, SendResult{Error: invalidPhoneMessage})
			report.Results = append(report.Results, result)
			continue
		}

		var sent SendResult
		if err := limiter.Wait(ctx); err != nil {
			sent = SendResult{Error: err.Error()}
		} else {
			sent = s.provider.Send(ctx, phone, composeMessage(itinerary.Title, t.Name, message), itinerary.Title)
		}

		result.Phone = phone
		result.Success = sent.Success
		result.Sid = sent.ProviderMessageID
		result.Error = sent.Error
		if sent.Success {
			report.Sent++
		}
		s.record(ctx, itinerary, t, phone, sent)
		report.Results = append(report.Results, result)
	}

	s.logger.Info("notifications dispatched",
		zap.String("itinerary_id", itinerary.ID.String()),
		zap.String("channel", s.provider.Channel()),
		zap.Int("sent", report.Sent),
		zap.Int("total", report.Total))
	return report
}

func (s *NotificationService) record(ctx context.Context, itinerary *dbm.Itinerary, t *dbm.Traveler, phone string, sent SendResult) {
	if s.logRepo == nil {
		return
	}
	entry := &dbm.NotificationLog{
		OwnerID:           itinerary.OwnerID,
		ItineraryID:       itinerary.ID,
		TravelerID:        t.ID,
		Channel:           s.provider.Channel(),
		Phone:             phone,
		Success:           sent.Success,
		ProviderMessageID: sent.ProviderMessageID,
		Error:             sent.Error,
	}
	// a cancelled request still gets its audit row
	if err := s.logRepo.CreateNotificationLog(context.WithoutCancel(ctx), entry); err != nil {
		s.logger.Warn("store notification log", zap.String("traveler_id", t.ID.String()), zap.Error(err))
	}
}

func composeMessage(title, name, message string) string {
	return fmt.Sprintf("*%s*\n\nHi %s!\n\n%s\n\nTravel Team", title, name, message)
}

func messageOrDefault(message, def string) string {
	if m := strings.TrimSpace(message); m != "" {
		return m
	}
	return def
}
