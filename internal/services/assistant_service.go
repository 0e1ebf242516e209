package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	dbm "itinera/internal/models/db_models"
	"itinera/internal/models/request_models"
	resp "itinera/internal/models/response_models"
	"itinera/internal/repositories"
	"itinera/pkg/utils"
)

const maxChatMessageChars = 2000

type AssistantServiceInterface interface {
	Ask(ctx context.Context, ownerID string, req request_models.ChatQueryRequest) (*resp.ChatReply, error)
}

type AssistantService struct {
	itineraryRepo repositories.ItineraryRepository
	chatRepo      repositories.ChatQueryRepository
	provider      AssistantProvider
	fallback      AssistantProvider
	logger        *zap.Logger
}

func NewAssistantService(
	itineraryRepo repositories.ItineraryRepository,
	chatRepo repositories.ChatQueryRepository,
	provider AssistantProvider,
	logger *zap.Logger,
) AssistantServiceInterface {
	return &AssistantService{
		itineraryRepo: itineraryRepo,
		chatRepo:      chatRepo,
		provider:      provider,
		fallback:      NewCannedAssistant(),
		logger:        logger,
	}
}

func (s *AssistantService) Ask(ctx context.Context, ownerID string, req request_models.ChatQueryRequest) (*resp.ChatReply, error) {
	owner, err := parseOwnerID(ownerID)
	if err != nil {
		return nil, err
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, utils.ValidationError("message is required")
	}
	if len([]rune(message)) > maxChatMessageChars {
		return nil, utils.ValidationError("message must be at most %d characters", maxChatMessageChars)
	}

	var itinerary *dbm.Itinerary
	if id := strings.TrimSpace(req.ItineraryID); id != "" {
		itinerary, err = findOwnedItinerary(ctx, s.itineraryRepo, ownerID, id)
		if err != nil {
			return nil, err
		}
	}

	provider := s.provider
	reply, err := provider.Reply(ctx, message, itinerary)
	if err != nil || reply == "" {
		s.logger.Warn("assistant provider failed, using canned reply",
			zap.String("provider", provider.Name()), zap.Error(err))
		provider = s.fallback
		reply, _ = provider.Reply(ctx, message, itinerary)
	}

	entry := &dbm.ChatQuery{
		OwnerID:  owner,
		Message:  message,
		Reply:    reply,
		Provider: provider.Name(),
	}
	if itinerary != nil {
		entry.ItineraryID = &itinerary.ID
	}
	if err := s.chatRepo.CreateChatQuery(context.WithoutCancel(ctx), entry); err != nil {
		s.logger.Warn("store chat query", zap.Error(err))
	}

	return &resp.ChatReply{Message: reply, Provider: provider.Name()}, nil
}
