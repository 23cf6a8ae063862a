package handler

import (
	"credit-approval/internal/api/handler/dto"
	"credit-approval/internal/config"
	"credit-approval/internal/pkg/apperrors"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type AuthHandler struct {
	cfg    config.AuthConfig
	logger *slog.Logger
	now    func() time.Time
}

func NewAuthHandler(cfg config.AuthConfig, l *slog.Logger) *AuthHandler {
	return &AuthHandler{
		cfg:    cfg,
		logger: l.With("component", "AuthHandler"),
		now:    time.Now,
	}
}

// GenerateBearerToken issues an HS256 token for the admin routes.
//
// @Summary Generate a JWT bearer token
// @Description Issues a token signed with the configured secret when the client secret matches. The username becomes the subject claim.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.TokenRequest true "username and client secret"
// @Success 200 {object} dto.TokenResponse "Token successfully generated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request parameters"
// @Failure 401 {object} dto.ErrorResponse "Client secret rejected"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/token [post]
func (h *AuthHandler) GenerateBearerToken(w http.ResponseWriter, r *http.Request) {
	var req dto.TokenRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode token request", "error", err)
		respondError(w, invalidBody(err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, err)
		return
	}

	if h.cfg.JWTSecret == "" || h.cfg.ClientSecret == "" {
		h.logger.ErrorContext(r.Context(), "Token secrets are not configured")
		respondError(w, fmt.Errorf("token secrets are not configured"))
		return
	}
	if subtle.ConstantTimeCompare([]byte(req.ClientSecret), []byte(h.cfg.ClientSecret)) != 1 {
		h.logger.WarnContext(r.Context(), "Rejected token request", "subject", req.Username)
		respondError(w, apperrors.ErrUnauthorized)
		return
	}

	ttl := h.cfg.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	issuedAt := h.now()
	claims := jwt.RegisteredClaims{
		Subject:   req.Username,
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(h.cfg.JWTSecret))
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to sign token", "error", err)
		respondError(w, fmt.Errorf("failed to sign token: %w", err))
		return
	}

	h.logger.InfoContext(r.Context(), "Issued bearer token", "subject", req.Username)
	respondJSON(w, http.StatusOK, dto.TokenResponse{
		Token:     "Bearer " + tokenString,
		ExpiresIn: int64(ttl.Seconds()),
	})
}
