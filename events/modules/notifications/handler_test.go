package notifications

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/ortelius/obsolescence-backend/internal/notify"
	"github.com/ortelius/obsolescence-backend/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSender struct {
	target     *notify.Target
	err        error
	recipients []string
	subject    string
	summary    string
	emails     int
	teams      int
}

func (f *fakeSender) ResolveTarget(context.Context, string, string, string) (*notify.Target, error) {
	return f.target, f.err
}

func (f *fakeSender) SendEmail(_ context.Context, _, _ string, recipients []string, subject, _ string) (model.Notification, error) {
	f.emails++
	f.recipients = recipients
	f.subject = subject
	return model.Notification{Channel: model.ChannelEmail}, nil
}

func (f *fakeSender) SendTeams(_ context.Context, _, _, summary string) (model.Notification, error) {
	f.teams++
	f.summary = summary
	return model.Notification{Channel: model.ChannelTeams}, nil
}

func billingTarget() *notify.Target {
	return &notify.Target{
		Application: model.ApplicationItem{
			Application: model.Application{Key: "a1", Name: "Billing", Owner: "owner@x.com"},
			Project:     &model.Project{Name: "Finance", Contact: "lead@x.com"},
		},
	}
}

func encode(t *testing.T, e NotificationRequestedEvent) []byte {
	data, err := json.Marshal(e)
	require.NoError(t, err)
	return data
}

func TestHandleEmailRequestUsesDefaults(t *testing.T) {
	sender := &fakeSender{target: billingTarget()}
	msg := encode(t, NotificationRequestedEvent{EventType: EventNotificationRequested, Channel: model.ChannelEmail, ApplicationID: "a1"})

	require.NoError(t, HandleNotificationRequested(context.Background(), msg, sender, zap.NewNop()))
	assert.Equal(t, 1, sender.emails)
	assert.Equal(t, []string{"owner@x.com", "lead@x.com"}, sender.recipients)
	assert.Equal(t, "[Obsolescence] Billing", sender.subject)
}

func TestHandleTeamsRequest(t *testing.T) {
	sender := &fakeSender{target: billingTarget()}
	msg := encode(t, NotificationRequestedEvent{Channel: model.ChannelTeams, ApplicationID: "a1"})

	require.NoError(t, HandleNotificationRequested(context.Background(), msg, sender, zap.NewNop()))
	assert.Equal(t, 1, sender.teams)
	assert.Equal(t, "Obsolescence alert - Billing", sender.summary)
}

func TestHandleInvalidRequests(t *testing.T) {
	sender := &fakeSender{target: billingTarget()}

	assert.Error(t, HandleNotificationRequested(context.Background(), []byte("{"), sender, zap.NewNop()))
	assert.Error(t, HandleNotificationRequested(context.Background(),
		encode(t, NotificationRequestedEvent{Channel: model.ChannelEmail}), sender, zap.NewNop()))
	assert.Error(t, HandleNotificationRequested(context.Background(),
		encode(t, NotificationRequestedEvent{Channel: "sms", ApplicationID: "a1"}), sender, zap.NewNop()))
	assert.Zero(t, sender.emails+sender.teams)
}

func TestNewSentEvent(t *testing.T) {
	e := NewSentEvent(model.Notification{Key: "n1"})
	assert.Equal(t, EventNotificationSent, e.EventType)
	assert.Equal(t, "v1", e.SchemaVersion)
	assert.NotEmpty(t, e.EventID)
	assert.Equal(t, "n1", e.Notification.Key)
}
