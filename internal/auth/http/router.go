package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/example/todolist/backend/internal/auth/service"
	"github.com/example/todolist/backend/internal/common/constants"
	commonhttp "github.com/example/todolist/backend/internal/common/http"
	"github.com/example/todolist/backend/internal/common/logger"
)

// Service is the auth surface the handlers need.
type Service interface {
	Register(ctx context.Context, input service.RegisterInput) (service.AuthResult, error)
	Login(ctx context.Context, input service.LoginInput) (service.AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Logout(ctx context.Context, refreshToken string) error
}

type Handler struct {
	service    Service
	refreshTTL time.Duration
	log        *logger.Logger
}

func NewHandler(svc Service, refreshTTL time.Duration, log *logger.Logger) *Handler {
	return &Handler{
		service:    svc,
		refreshTTL: refreshTTL,
		log:        log,
	}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/register", h.register)
	r.Post("/login", h.login)
	r.Get("/refresh", h.refresh)
	r.Get("/logout", h.logout)

	return r
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		commonhttp.WriteErrorCode(w, http.StatusBadRequest, commonhttp.CodeInvalidJSON, "Invalid request body")
		return
	}

	result, err := h.service.Register(r.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	h.setRefreshCookie(w, result.RefreshToken)
	commonhttp.WriteJSON(w, http.StatusOK, tokenResponse{Token: result.AccessToken})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		commonhttp.WriteErrorCode(w, http.StatusBadRequest, commonhttp.CodeInvalidJSON, "Invalid request body")
		return
	}

	result, err := h.service.Login(r.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	h.setRefreshCookie(w, result.RefreshToken)
	commonhttp.WriteJSON(w, http.StatusOK, tokenResponse{Token: result.AccessToken})
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	refreshToken := h.refreshTokenFromCookie(r)

	accessToken, err := h.service.Refresh(r.Context(), refreshToken)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, tokenResponse{Token: accessToken})
}

// logout without a cookie is a bare 204; with one, the session is
// cleared and the cookie expired, stale or not.
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(constants.RefreshCookieName)
	if err != nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if err := h.service.Logout(r.Context(), cookie.Value); err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	h.clearRefreshCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) refreshTokenFromCookie(r *http.Request) string {
	cookie, err := r.Cookie(constants.RefreshCookieName)
	if err != nil {
		return ""
	}

	return cookie.Value
}

// The cookie is scoped to the auth routes only: the access token, not
// the cookie, authenticates everything else.
func (h *Handler) setRefreshCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     constants.RefreshCookieName,
		Value:    token,
		Path:     constants.RefreshCookiePath,
		MaxAge:   int(h.refreshTTL.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

func (h *Handler) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     constants.RefreshCookieName,
		Value:    "",
		Path:     constants.RefreshCookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}
