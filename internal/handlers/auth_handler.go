package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/courseenroll/backend/internal/models"
	"github.com/courseenroll/backend/libs/handlers"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AuthService is the interface that wraps methods for registration and login business logic.
type AuthService interface {
	// Method Register validates the request and creates an active user.
	//
	// "req" parameter contains name, email, password and role.
	//
	// A bad role, a malformed field or a taken email returns a validation or conflict error.
	Register(ctx context.Context, req *models.RegisterRequest) (*models.UserResponse, error)
	// Method Login verifies credentials and returns an access token.
	//
	// Bad credentials return an authentication error, an inactive account an authorization error.
	Login(ctx context.Context, email, password string) (*models.TokenResponse, error)
	// Method LoginLegacy is Login answering every rejection with a validation error.
	LoginLegacy(ctx context.Context, email, password string) (*models.TokenResponse, error)
}

// AuthHandler handles registration and login HTTP requests
type AuthHandler struct {
	handlers.BaseHandler
	authService AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler: handlers.BaseHandler{Logger: logger},
		authService: authService,
	}
}

// RegisterRoutes registers all public auth routes
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/users/register", h.Register)
	r.Post("/users/login", h.LoginLegacyForm)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", h.Register)
		r.Post("/login", h.LoginForm)
		r.Post("/login-json", h.LoginJSON)
	})
}

// Register handles POST /users/register and POST /auth/signup
// @Summary Register a new user
// @Description Create an active student or admin account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.RegisterRequest true "Account data"
// @Success 200 {object} models.UserResponse
// @Failure 400 {object} map[string]string "Invalid role, invalid field or email already registered"
// @Failure 503 {object} map[string]string "Database unavailable"
// @Router /users/register [post]
// @Router /auth/signup [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.authService.Register(r.Context(), &req)
	if err != nil {
		h.RespondAppError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, user)
}

// LoginLegacyForm handles POST /users/login
// @Summary Log in (form, legacy)
// @Description OAuth2 password form login. Every rejection is answered with 400.
// @Tags auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "Email"
// @Param password formData string true "Password"
// @Success 200 {object} models.TokenResponse
// @Failure 400 {object} map[string]string "Invalid email or password, or inactive user"
// @Router /users/login [post]
func (h *AuthHandler) LoginLegacyForm(w http.ResponseWriter, r *http.Request) {
	h.loginForm(w, r, h.authService.LoginLegacy)
}

// LoginForm handles POST /auth/login
// @Summary Log in (form)
// @Description OAuth2 password form login
// @Tags auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "Email"
// @Param password formData string true "Password"
// @Success 200 {object} models.TokenResponse
// @Failure 401 {object} map[string]string "Invalid email or password"
// @Failure 403 {object} map[string]string "User account is inactive"
// @Router /auth/login [post]
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.loginForm(w, r, h.authService.Login)
}

// LoginJSON handles POST /auth/login-json
// @Summary Log in (JSON)
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Credentials"
// @Success 200 {object} models.TokenResponse
// @Failure 401 {object} map[string]string "Invalid email or password"
// @Failure 403 {object} map[string]string "User account is inactive"
// @Router /auth/login-json [post]
func (h *AuthHandler) LoginJSON(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.RespondAppError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, token)
}

func (h *AuthHandler) loginForm(w http.ResponseWriter, r *http.Request, login func(ctx context.Context, email, password string) (*models.TokenResponse, error)) {
	if err := r.ParseForm(); err != nil {
		h.RespondError(w, http.StatusBadRequest, "failed to parse form")
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		h.RespondError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	token, err := login(r.Context(), username, password)
	if err != nil {
		h.RespondAppError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, token)
}
