package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/anchornotes/anchornotes/internal/api/shared"
	"github.com/anchornotes/anchornotes/internal/service/auth"
)

// AuthHandler handles authentication-related API requests. The server is
// single-tenant: a login exchanges the configured API key for a token pair
// identifying a fresh client session.
type AuthHandler struct {
	jwtService  auth.JWTService
	keyVerifier auth.KeyVerifier
	validator   *validator.Validate
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(jwtService auth.JWTService, keyVerifier auth.KeyVerifier) *AuthHandler {
	return &AuthHandler{
		jwtService:  jwtService,
		keyVerifier: keyVerifier,
		validator:   validator.New(),
	}
}

// Login handles the /api/auth/login endpoint.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	if err := h.keyVerifier.Verify(req.APIKey); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized,
			"Invalid credentials", err, shared.WithElevatedLogLevel())
		return
	}

	clientID := uuid.New()

	accessToken, err := h.jwtService.GenerateToken(r.Context(), clientID)
	if err != nil {
		slog.Error("failed to generate access token", "error", err, "client_id", clientID)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to generate authentication token")
		return
	}

	refreshToken, err := h.jwtService.GenerateRefreshToken(r.Context(), clientID)
	if err != nil {
		slog.Error("failed to generate refresh token", "error", err, "client_id", clientID)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to generate authentication token")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AuthResponse{
		ClientID:     clientID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	})
}

// RefreshToken handles the /api/auth/refresh endpoint. A valid refresh
// token yields a new access/refresh pair for the same client session.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req RefreshTokenRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	claims, err := h.jwtService.ValidateRefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredRefreshToken) ||
			errors.Is(err, auth.ErrInvalidRefreshToken) ||
			errors.Is(err, auth.ErrWrongTokenType) {
			shared.RespondWithError(w, r, http.StatusUnauthorized, GetSafeErrorMessage(err))
			return
		}
		slog.Error("failed to validate refresh token", "error", err)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to refresh token")
		return
	}

	accessToken, err := h.jwtService.GenerateToken(r.Context(), claims.ClientID)
	if err != nil {
		slog.Error("failed to generate access token", "error", err, "client_id", claims.ClientID)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to generate authentication token")
		return
	}

	refreshToken, err := h.jwtService.GenerateRefreshToken(r.Context(), claims.ClientID)
	if err != nil {
		slog.Error("failed to generate refresh token", "error", err, "client_id", claims.ClientID)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to generate authentication token")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AuthResponse{
		ClientID:     claims.ClientID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	})
}
