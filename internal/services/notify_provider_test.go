package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"

	"itinera/internal/config"
)

type fakeMessenger struct {
	params *twilioApi.CreateMessageParams
	err    error
}

func (f *fakeMessenger) CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error) {
	f.params = params
	if f.err != nil {
		return nil, f.err
	}
	sid := "SM123"
	return &twilioApi.ApiV2010Message{Sid: &sid}, nil
}

func TestTwilioProviderWhatsAppAddressing(t *testing.T) {
	api := &fakeMessenger{}
	p := &TwilioProvider{api: api, from: "+14155238886", channel: config.NotifyChannelWhatsApp, logger: zap.NewNop()}

	res := p.Send(context.Background(), "+919876543210", "hello", "Trip")
	require.True(t, res.Success)
	assert.Equal(t, "SM123", res.ProviderMessageID)
	assert.Equal(t, "whatsapp:+919876543210", *api.params.To)
	assert.Equal(t, "whatsapp:+14155238886", *api.params.From)
	assert.Equal(t, "hello", *api.params.Body)
}

func TestTwilioProviderSMSAddressing(t *testing.T) {
	api := &fakeMessenger{}
	p := &TwilioProvider{api: api, from: "+15005550006", channel: config.NotifyChannelSMS, logger: zap.NewNop()}

	res := p.Send(context.Background(), "+919876543210", "hello", "Trip")
	require.True(t, res.Success)
	assert.Equal(t, "+919876543210", *api.params.To)
	assert.Equal(t, "+15005550006", *api.params.From)
}

func TestTwilioProviderFailureIsReported(t *testing.T) {
	api := &fakeMessenger{err: errors.New("status: 400, code: 21211")}
	p := &TwilioProvider{api: api, from: "whatsapp:+14155238886", channel: config.NotifyChannelWhatsApp, logger: zap.NewNop()}

	res := p.Send(context.Background(), "+919876543210", "hello", "Trip")
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "21211")
	assert.Equal(t, "whatsapp:+14155238886", *api.params.From)
}
