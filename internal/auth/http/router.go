package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/weathermate/backend/internal/auth/service"
	"github.com/weathermate/backend/internal/common/constants"
	commonhttp "github.com/weathermate/backend/internal/common/http"
	"github.com/weathermate/backend/internal/common/logger"
)

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=32"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type registerResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// authResponse carries the access token in the body; the refresh token only
// ever travels in the HTTP-only cookie.
type authResponse struct {
	AccessToken *string `json:"accessToken"`
	Message     string  `json:"message"`
}

type refreshResponse struct {
	AccessToken string `json:"accessToken"`
}

type Handler struct {
	auth     *service.AuthService
	validate *validator.Validate
	timeout  time.Duration
	log      *logger.Logger
}

func NewHandler(auth *service.AuthService, timeout time.Duration, log *logger.Logger) http.Handler {
	h := &Handler{
		auth:     auth,
		validate: validator.New(),
		timeout:  timeout,
		log:      log,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/register", h.register)
	mux.HandleFunc("/login", h.login)
	mux.HandleFunc("/refresh", h.refresh)
	return mux
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		commonhttp.WriteError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req registerRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Warnf("register failed: invalid json: %v", err)
		commonhttp.WriteError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		commonhttp.WriteError(w, r, http.StatusBadRequest, "invalid input provided")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	created, err := h.auth.Register(ctx, service.RegisterInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		commonhttp.WriteDomainError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, registerResponse{
		ID:       created.ID,
		Username: created.Username,
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		commonhttp.WriteError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req loginRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Warnf("login failed: invalid json: %v", err)
		commonhttp.WriteError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		commonhttp.WriteError(w, r, http.StatusBadRequest, "invalid input provided")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	result, err := h.auth.Login(ctx, service.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			commonhttp.WriteJSON(w, http.StatusUnauthorized, authResponse{
				AccessToken: nil,
				Message:     "Authentication failed",
			})
			return
		}
		commonhttp.WriteDomainError(w, r, err)
		return
	}

	setRefreshCookie(w, result.RefreshToken, result.RefreshExpiresAt)
	commonhttp.WriteJSON(w, http.StatusOK, authResponse{
		AccessToken: &result.AccessToken,
		Message:     "Login successful",
	})
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		commonhttp.WriteError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	cookie, err := r.Cookie(constants.RefreshCookieName)
	if err != nil || cookie.Value == "" {
		commonhttp.WriteError(w, r, http.StatusUnauthorized, "missing refresh token")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	accessToken, err := h.auth.Refresh(ctx, cookie.Value)
	if err != nil {
		commonhttp.WriteDomainError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, refreshResponse{AccessToken: accessToken})
}

func setRefreshCookie(w http.ResponseWriter, refreshToken string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     constants.RefreshCookieName,
		Value:    refreshToken,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   int(time.Until(expiresAt).Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
}
