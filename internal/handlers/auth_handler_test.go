package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geopix/server/internal/models"
)

func jsonRequest(method, path string, body interface{}) *http.Request {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(method, path, strings.NewReader(string(data)))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestAuthHandler_Register(t *testing.T) {
	env := newTestEnv(t)

	t.Run("creates account and returns api key once", func(t *testing.T) {
		rec := env.do(jsonRequest(http.MethodPost, "/api/auth/register", models.RegisterRequest{
			Email:       "New@Example.com",
			DisplayName: "New User",
			Password:    "correct horse",
		}), nil)
		require.Equal(t, http.StatusCreated, rec.Code)

		var user models.User
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
		assert.Equal(t, "new@example.com", user.Email)
		assert.NotEmpty(t, user.APIKey)
		assert.True(t, user.IsActive)

		// The key in the response authenticates via its hash
		stored, err := env.users.GetByAPIKeyHash(context.Background(), models.HashAPIKey(user.APIKey))
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, user.ID, stored.ID)
	})

	t.Run("duplicate email is 409", func(t *testing.T) {
		req := models.RegisterRequest{
			Email:       "dup@example.com",
			DisplayName: "Dup",
			Password:    "password123",
		}
		rec := env.do(jsonRequest(http.MethodPost, "/api/auth/register", req), nil)
		require.Equal(t, http.StatusCreated, rec.Code)

		rec = env.do(jsonRequest(http.MethodPost, "/api/auth/register", req), nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("short password is 400", func(t *testing.T) {
		rec := env.do(jsonRequest(http.MethodPost, "/api/auth/register", models.RegisterRequest{
			Email:       "short@example.com",
			DisplayName: "Short",
			Password:    "tiny",
		}), nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("empty email is 400", func(t *testing.T) {
		rec := env.do(jsonRequest(http.MethodPost, "/api/auth/register", models.RegisterRequest{
			DisplayName: "No Email",
			Password:    "password123",
		}), nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAuthHandler_Login(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(jsonRequest(http.MethodPost, "/api/auth/register", models.RegisterRequest{
		Email:       "login@example.com",
		DisplayName: "Login",
		Password:    "password123",
	}), nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var registered models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &registered))

	t.Run("valid credentials rotate the api key", func(t *testing.T) {
		rec := env.do(jsonRequest(http.MethodPost, "/api/auth/login", models.LoginRequest{
			Email:    "login@example.com",
			Password: "password123",
		}), nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp models.LoginResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.NotEmpty(t, resp.APIKey)
		assert.NotEqual(t, registered.APIKey, resp.APIKey)

		// New key resolves, old key no longer does
		current, err := env.users.GetByAPIKeyHash(context.Background(), models.HashAPIKey(resp.APIKey))
		require.NoError(t, err)
		require.NotNil(t, current)

		old, err := env.users.GetByAPIKeyHash(context.Background(), models.HashAPIKey(registered.APIKey))
		require.NoError(t, err)
		assert.Nil(t, old)
	})

	t.Run("wrong password is 401", func(t *testing.T) {
		rec := env.do(jsonRequest(http.MethodPost, "/api/auth/login", models.LoginRequest{
			Email:    "login@example.com",
			Password: "wrong password",
		}), nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown email is 401", func(t *testing.T) {
		rec := env.do(jsonRequest(http.MethodPost, "/api/auth/login", models.LoginRequest{
			Email:    "nobody@example.com",
			Password: "password123",
		}), nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestHealthHandler(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/health", nil), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.False(t, resp.Timestamp.IsZero())
}
