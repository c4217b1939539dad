package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/ortelius/obsolescence-backend/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) (*fiber.App, *Authenticator) {
	t.Helper()
	a, err := NewAuthenticator("test-secret")
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/me", a.RequireAuth(), Me())
	app.Get("/write", a.RequireAuth(), RequireRole(model.RoleContributor), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app, a
}

func TestNewAuthenticatorRejectsEmptySecret(t *testing.T) {
	_, err := NewAuthenticator("")
	assert.Error(t, err)
}

func TestValidateJWTRoundTripAndWrongSecret(t *testing.T) {
	a, err := NewAuthenticator("one")
	require.NoError(t, err)
	other, err := NewAuthenticator("two")
	require.NoError(t, err)

	token, err := a.GenerateJWT("alice", model.RoleAdmin)
	require.NoError(t, err)

	claims, err := a.ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, model.RoleAdmin, claims.Role)

	_, err = other.ValidateJWT(token)
	assert.Error(t, err)
}

func TestRequireAuth(t *testing.T) {
	app, a := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/me", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	token, err := a.GenerateJWT("bob", model.RoleReader)
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: token})
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var caller model.Caller
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&caller))
	assert.Equal(t, model.Caller{Username: "bob", Role: model.RoleReader}, caller)
}

func TestRequireRoleHierarchy(t *testing.T) {
	app, a := newTestApp(t)

	tests := []struct {
		role model.Role
		want int
	}{
		{model.RoleReader, fiber.StatusForbidden},
		{model.RoleContributor, fiber.StatusNoContent},
		{model.RoleAdmin, fiber.StatusNoContent},
		{model.Role("guest"), fiber.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			token, err := a.GenerateJWT("user", tt.role)
			require.NoError(t, err)

			req := httptest.NewRequest(http.MethodGet, "/write", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}
