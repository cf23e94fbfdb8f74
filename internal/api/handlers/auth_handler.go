package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/dcastano/authcalc-be/internal/auth"
	"github.com/dcastano/authcalc-be/internal/metrics"
	"github.com/dcastano/authcalc-be/internal/services"
	"github.com/dcastano/authcalc-be/internal/validation"
)

// AuthHandler handles registration, login, and the current-user lookup.
type AuthHandler struct {
	service   services.UserServiceProvider
	tokens    *auth.TokenManager
	collector *metrics.Collector
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service services.UserServiceProvider, tokens *auth.TokenManager, collector *metrics.Collector) *AuthHandler {
	return &AuthHandler{service: service, tokens: tokens, collector: collector}
}

// RegisterPayload defines the structure for registration requests.
type RegisterPayload struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginPayload defines the structure for login requests.
type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles new user registration.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}

	if errs := validation.Registration(payload.Username, payload.Email, payload.Password); errs != nil {
		respondValidationErrors(w, errs)
		return
	}

	user, err := h.service.CreateUser(payload.Username, payload.Email, payload.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUsernameTaken), errors.Is(err, services.ErrEmailTaken):
			log.Warn().Str("email", payload.Email).Msg("Registration conflict")
			respondError(w, http.StatusConflict, err.Error())
		default:
			log.Error().Err(err).Str("email", payload.Email).Msg("Failed to register user")
			respondError(w, http.StatusInternalServerError, "failed to register user")
		}
		return
	}

	h.collector.RecordRegistration()
	respondJSON(w, http.StatusCreated, user)
}

// Login handles user authentication and token issuance.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}

	if errs := validation.Login(payload.Email, payload.Password); errs != nil {
		respondValidationErrors(w, errs)
		return
	}

	user, err := h.service.AuthenticateUser(payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			h.collector.RecordLogin(metrics.OutcomeFailure)
			log.Warn().Str("email", payload.Email).Msg("Failed authentication attempt")
			respondError(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		log.Error().Err(err).Str("email", payload.Email).Msg("Login failed")
		respondError(w, http.StatusInternalServerError, "login failed")
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to issue token")
		respondError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	h.collector.RecordLogin(metrics.OutcomeSuccess)
	respondJSON(w, http.StatusOK, map[string]any{
		"access_token": token,
		"token_type":   "bearer",
		"user":         user,
	})
}

// Me retrieves the currently authenticated user from the token subject.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	subject, ok := auth.SubjectFromContext(r.Context())
	if !ok {
		log.Error().Msg("Could not retrieve token subject from context")
		respondError(w, http.StatusInternalServerError, "could not retrieve user from token")
		return
	}

	user, err := h.service.GetUserByID(subject)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			respondError(w, http.StatusNotFound, "user not found")
			return
		}
		log.Error().Err(err).Str("user_id", subject).Msg("Failed to load user")
		respondError(w, http.StatusInternalServerError, "failed to load user")
		return
	}

	respondJSON(w, http.StatusOK, user)
}
