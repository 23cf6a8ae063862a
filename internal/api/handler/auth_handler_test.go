package handler

import (
	"credit-approval/internal/api/handler/dto"
	"credit-approval/internal/config"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret       = "test-secret"
	testClientSecret = "client-secret"
)

func TestGenerateBearerToken(t *testing.T) {
	cfg := config.AuthConfig{Enabled: true, JWTSecret: testSecret, ClientSecret: testClientSecret, TokenTTL: time.Hour}

	t.Run("issues a verifiable token", func(t *testing.T) {
		h := NewAuthHandler(cfg, logger)

		req := httptest.NewRequest(http.MethodPost, "/auth/token", jsonBody(`{"username":"ops","client_secret":"client-secret"}`))
		rec := httptest.NewRecorder()

		h.GenerateBearerToken(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp dto.TokenResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, int64(3600), resp.ExpiresIn)
		require.True(t, strings.HasPrefix(resp.Token, "Bearer "))

		claims := jwt.RegisteredClaims{}
		token, err := jwt.ParseWithClaims(strings.TrimPrefix(resp.Token, "Bearer "), &claims, func(*jwt.Token) (any, error) {
			return []byte(testSecret), nil
		})
		require.NoError(t, err)
		assert.True(t, token.Valid)
		assert.Equal(t, "ops", claims.Subject)
	})

	t.Run("missing username", func(t *testing.T) {
		h := NewAuthHandler(cfg, logger)

		req := httptest.NewRequest(http.MethodPost, "/auth/token", jsonBody(`{}`))
		rec := httptest.NewRecorder()

		h.GenerateBearerToken(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		var resp dto.ErrorResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "username", resp.Error.Field)
	})

	t.Run("wrong client secret", func(t *testing.T) {
		h := NewAuthHandler(cfg, logger)

		req := httptest.NewRequest(http.MethodPost, "/auth/token", jsonBody(`{"username":"ops","client_secret":"guess"}`))
		rec := httptest.NewRecorder()

		h.GenerateBearerToken(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		var resp dto.ErrorResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "UNAUTHORIZED", resp.Error.Code)
	})

	t.Run("missing client secret", func(t *testing.T) {
		h := NewAuthHandler(cfg, logger)

		req := httptest.NewRequest(http.MethodPost, "/auth/token", jsonBody(`{"username":"ops"}`))
		rec := httptest.NewRecorder()

		h.GenerateBearerToken(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		var resp dto.ErrorResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "client_secret", resp.Error.Field)
	})

	t.Run("unconfigured client secret issues nothing", func(t *testing.T) {
		h := NewAuthHandler(config.AuthConfig{Enabled: true, JWTSecret: testSecret}, logger)

		req := httptest.NewRequest(http.MethodPost, "/auth/token", jsonBody(`{"username":"ops","client_secret":"anything"}`))
		rec := httptest.NewRecorder()

		h.GenerateBearerToken(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "Bearer")
	})

	t.Run("invalid json", func(t *testing.T) {
		h := NewAuthHandler(cfg, logger)

		req := httptest.NewRequest(http.MethodPost, "/auth/token", jsonBody(`{"username":`))
		rec := httptest.NewRecorder()

		h.GenerateBearerToken(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing secret", func(t *testing.T) {
		h := NewAuthHandler(config.AuthConfig{Enabled: true}, logger)

		req := httptest.NewRequest(http.MethodPost, "/auth/token", jsonBody(`{"username":"ops","client_secret":"client-secret"}`))
		rec := httptest.NewRecorder()

		h.GenerateBearerToken(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestIndex(t *testing.T) {
	rec := httptest.NewRecorder()
	Index(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp dto.IndexResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "credit-approval", resp.Service)
	assert.NotEmpty(t, resp.Endpoints)
}
