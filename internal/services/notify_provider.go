package services

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"

	"itinera/internal/config"
)

type SendResult struct {
	Success           bool
	ProviderMessageID string
	Error             string
}

// NotificationProvider delivers one message to one E.164 number. Failures are
// reported in the result, never as a panic or error.
type NotificationProvider interface {
	Channel() string
	Send(ctx context.Context, phoneE164, body, itineraryTitle string) SendResult
}

type twilioMessenger interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

type TwilioProvider struct {
	api     twilioMessenger
	from    string
	channel string
	logger  *zap.Logger
}

func NewTwilioProvider(cfg *config.Config, logger *zap.Logger) NotificationProvider {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.TwilioSID,
		Password: cfg.TwilioAuthToken,
	})
	return &TwilioProvider{
		api:     client.Api,
		from:    cfg.NotifyFrom(),
		channel: cfg.NotifyChannel,
		logger:  logger,
	}
}

func (p *TwilioProvider) Channel() string { return p.channel }

func (p *TwilioProvider) Send(ctx context.Context, phoneE164, body, itineraryTitle string) SendResult {
	if err := ctx.Err(); err != nil {
		return SendResult{Error: err.Error()}
	}

	to, from := phoneE164, p.from
	if p.channel == config.NotifyChannelWhatsApp {
		to = "whatsapp:" + phoneE164
		if len(from) < 9 || from[:9] != "whatsapp:" {
			from = "whatsapp:" + from
		}
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(from)
	params.SetBody(body)

	msg, err := p.api.CreateMessage(params)
	if err != nil {
		p.logger.Warn("twilio send failed", zap.String("to", phoneE164), zap.String("itinerary", itineraryTitle), zap.Error(err))
		return SendResult{Error: err.Error()}
	}

	sid := ""
	if msg != nil && msg.Sid != nil {
		sid = *msg.Sid
	}
	return SendResult{Success: true, ProviderMessageID: sid}
}

// NoopProvider logs messages instead of delivering them.
type NoopProvider struct {
	channel string
	counter atomic.Int64
	logger  *zap.Logger
}

func NewNoopProvider(channel string, logger *zap.Logger) NotificationProvider {
	return &NoopProvider{channel: channel, logger: logger}
}

func (p *NoopProvider) Channel() string { return p.channel }

func (p *NoopProvider) Send(_ context.Context, phoneE164, body, itineraryTitle string) SendResult {
	n := p.counter.Add(1)
	p.logger.Info("noop notification",
		zap.String("channel", p.channel),
		zap.String("to", phoneE164),
		zap.String("itinerary", itineraryTitle),
		zap.Int("body_len", len(body)))
	return SendResult{Success: true, ProviderMessageID: fmt.Sprintf("noop-%d", n)}
}
