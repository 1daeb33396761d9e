package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/geopix/server/internal/models"
	"github.com/geopix/server/internal/observability"
	"github.com/geopix/server/internal/repository"
)

// AuthHandler handles account registration and login
type AuthHandler struct {
	users repository.UserRepo
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(users repository.UserRepo) *AuthHandler {
	return &AuthHandler{users: users}
}

// Register handles account creation
// @Summary Register a new account
// @Description Creates a user and returns it with a freshly generated API key. The key is shown only once.
// @Tags auth
// @Accept json
// @Produce json
// @Param account body models.RegisterRequest true "Account details"
// @Success 201 {object} models.User "Account created, apiKey included"
// @Failure 400 {object} models.ErrorResponse "Invalid request"
// @Failure 409 {object} models.ErrorResponse "Email already registered"
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	user, err := models.NewUser(req.Email, req.DisplayName)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := user.SetPassword(req.Password); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	existing, err := h.users.GetByEmail(r.Context(), user.Email)
	if err != nil {
		observability.WithContext(r.Context()).Errorf("Failed to check email: %v", err)
		h.respondError(w, http.StatusInternalServerError, "Database error.")
		return
	}
	if existing != nil {
		h.respondError(w, http.StatusConflict, models.ErrEmailExists.Error())
		return
	}

	if err := h.users.Add(r.Context(), user); err != nil {
		observability.WithContext(r.Context()).Errorf("Failed to create user: %v", err)
		h.respondError(w, http.StatusInternalServerError, "Database error.")
		return
	}

	observability.WithContext(r.Context()).
		WithField("user_id", user.ID).
		Info("User registered")

	h.respondJSON(w, http.StatusCreated, user)
}

// Login handles credential exchange
// @Summary Log in
// @Description Exchanges email and password for a fresh API key. The previous key stops working.
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body models.LoginRequest true "Credentials"
// @Success 200 {object} models.LoginResponse "New API key"
// @Failure 400 {object} models.ErrorResponse "Invalid request"
// @Failure 401 {object} models.ErrorResponse "Invalid email or password"
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	user, err := h.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		observability.WithContext(r.Context()).Errorf("Failed to look up user: %v", err)
		h.respondError(w, http.StatusInternalServerError, "Database error.")
		return
	}

	if user == nil || !user.IsActive || !user.VerifyPassword(req.Password) {
		h.respondError(w, http.StatusUnauthorized, models.ErrInvalidLogin.Error())
		return
	}

	apiKey, err := models.GenerateAPIKey()
	if err != nil {
		observability.WithContext(r.Context()).Errorf("Failed to generate API key: %v", err)
		h.respondError(w, http.StatusInternalServerError, "Internal server error.")
		return
	}

	if err := h.users.UpdateAPIKeyHash(r.Context(), user.ID, models.HashAPIKey(apiKey)); err != nil {
		observability.WithContext(r.Context()).Errorf("Failed to rotate API key: %v", err)
		h.respondError(w, http.StatusInternalServerError, "Database error.")
		return
	}

	h.respondJSON(w, http.StatusOK, models.LoginResponse{APIKey: apiKey})
}

func (h *AuthHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *AuthHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, models.ErrorResponse{Error: message})
}
