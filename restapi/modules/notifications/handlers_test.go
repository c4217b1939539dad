package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/ortelius/obsolescence-backend/internal/notify"
	"github.com/ortelius/obsolescence-backend/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	resolveErr error
	sendErr    error

	subject    string
	body       string
	recipients []string
	summary    string
}

func (f *fakeSender) ResolveTarget(_ context.Context, applicationKey, _, _ string) (*notify.Target, error) {
	if f.resolveErr != nil {
		return nil, f.resolveErr
	}
	return &notify.Target{
		Application: model.ApplicationItem{
			Application: model.Application{Key: applicationKey, Name: "Billing", Criticity: model.CriticityHigh},
			Project:     &model.Project{Name: "Finance"},
		},
	}, nil
}

func (f *fakeSender) SendEmail(_ context.Context, targetType, targetID string, recipients []string, subject, body string) (model.Notification, error) {
	f.recipients, f.subject, f.body = recipients, subject, body
	if f.sendErr != nil {
		return model.Notification{}, f.sendErr
	}
	n := model.NewNotification(targetType, targetID, model.ChannelEmail, strings.Join(recipients, ","), model.NotificationSent, subject)
	n.Key = "n1"
	return *n, nil
}

func (f *fakeSender) SendTeams(_ context.Context, targetType, targetID, summary string) (model.Notification, error) {
	f.summary = summary
	if f.sendErr != nil {
		return model.Notification{}, f.sendErr
	}
	return *model.NewNotification(targetType, targetID, model.ChannelTeams, "teams", model.NotificationSent, summary), nil
}

type fakeHistory struct {
	items []model.Notification
}

func (f *fakeHistory) ListNotifications(context.Context) ([]model.Notification, error) {
	return f.items, nil
}

func newTestApp(sender Sender, history HistoryStore) *fiber.App {
	app := fiber.New()
	app.Post("/email", PostEmail(sender))
	app.Post("/teams", PostTeams(sender))
	app.Get("/", ListNotifications(history))
	return app
}

func post(t *testing.T, app *fiber.App, path, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestPostEmailCreatesNotification(t *testing.T) {
	sender := &fakeSender{}
	app := newTestApp(sender, &fakeHistory{})

	resp := post(t, app, "/email", `{"application_id":"app1","recipients":["ops@example.com"]}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var n model.Notification
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&n))
	assert.Equal(t, "app1", n.TargetID)
	assert.Equal(t, notify.TargetApplication, n.TargetType)
	assert.Equal(t, model.ChannelEmail, n.Channel)
	assert.Equal(t, "[Obsolescence] Billing", sender.subject)
	assert.Contains(t, sender.body, "Billing")
	assert.Contains(t, sender.body, "Finance")
}

func TestPostEmailKeepsCustomSubject(t *testing.T) {
	sender := &fakeSender{}
	app := newTestApp(sender, &fakeHistory{})

	resp := post(t, app, "/email", `{"application_id":"app1","recipients":["ops@example.com"],"subject":"Act now"}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Act now", sender.subject)
}

func TestPostEmailSendsBareAddresses(t *testing.T) {
	sender := &fakeSender{}
	app := newTestApp(sender, &fakeHistory{})

	resp := post(t, app, "/email", `{"application_id":"app1","recipients":["Bob <bob@x.com>","ops@example.com"]}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, []string{"bob@x.com", "ops@example.com"}, sender.recipients)
}

func TestPostEmailValidation(t *testing.T) {
	app := newTestApp(&fakeSender{}, &fakeHistory{})

	tests := []struct {
		name string
		body string
	}{
		{"malformed", `{`},
		{"missing application", `{"recipients":["ops@example.com"]}`},
		{"missing recipients", `{"application_id":"app1"}`},
		{"invalid address", `{"application_id":"app1","recipients":["not an address"]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, app, "/email", tt.body)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestPostEmailErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		sender *fakeSender
		want   int
	}{
		{"unknown application", &fakeSender{resolveErr: notify.ErrNotFound}, fiber.StatusNotFound},
		{"smtp not configured", &fakeSender{sendErr: &notify.DeliveryError{Channel: model.ChannelEmail, Kind: notify.ErrConfigurationMissing}}, fiber.StatusServiceUnavailable},
		{"smtp failure", &fakeSender{sendErr: &notify.DeliveryError{Channel: model.ChannelEmail, Kind: notify.ErrDeliveryFailed, Err: errors.New("connection refused")}}, fiber.StatusBadGateway},
		{"no recipients", &fakeSender{sendErr: notify.ErrNoRecipients}, fiber.StatusBadRequest},
		{"store failure", &fakeSender{sendErr: errors.New("database down")}, fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(tt.sender, &fakeHistory{})
			resp := post(t, app, "/email", `{"application_id":"app1","recipients":["ops@example.com"]}`)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestPostTeams(t *testing.T) {
	sender := &fakeSender{}
	app := newTestApp(sender, &fakeHistory{})

	resp := post(t, app, "/teams", `{"application_id":"app1"}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Obsolescence alert - Billing", sender.summary)

	resp = post(t, app, "/teams", `{"application_id":"app1","summary":"Custom"}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Custom", sender.summary)

	resp = post(t, app, "/teams", `{}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestPostTeamsWebhookMissing(t *testing.T) {
	sender := &fakeSender{sendErr: &notify.DeliveryError{Channel: model.ChannelTeams, Kind: notify.ErrConfigurationMissing}}
	app := newTestApp(sender, &fakeHistory{})

	resp := post(t, app, "/teams", `{"application_id":"app1"}`)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}

func TestListNotifications(t *testing.T) {
	history := &fakeHistory{items: []model.Notification{
		*model.NewNotification(notify.TargetApplication, "app1", model.ChannelEmail, "a@example.com", model.NotificationSent, "first"),
	}}
	app := newTestApp(&fakeSender{}, history)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var items []model.Notification
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&items))
	require.Len(t, items, 1)
	assert.Equal(t, "app1", items[0].TargetID)
}
