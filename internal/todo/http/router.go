package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	commonhttp "github.com/example/todolist/backend/internal/common/http"
	"github.com/example/todolist/backend/internal/common/jwtverify"
	"github.com/example/todolist/backend/internal/common/logger"
	"github.com/example/todolist/backend/internal/todo/domain"
	"github.com/example/todolist/backend/internal/todo/service"
)

type Service interface {
	Create(ctx context.Context, userID string, input service.TodoInput) (domain.Todo, error)
	List(ctx context.Context, limit, page int) (service.Page, error)
	Get(ctx context.Context, userID string, id domain.ID) (domain.Todo, error)
	Update(ctx context.Context, userID string, id domain.ID, input service.TodoInput) (domain.Todo, error)
	Delete(ctx context.Context, userID string, id domain.ID) error
}

type Handler struct {
	service Service
	log     *logger.Logger
}

func NewHandler(svc Service, log *logger.Logger) *Handler {
	return &Handler{service: svc, log: log}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.remove)

	return r
}

type todoRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type dataResponse struct {
	Data any `json:"data"`
}

type pageResponse struct {
	Data  []domain.Todo `json:"data"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
	Total int           `json:"total"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit")
	page := queryInt(r, "page")

	result, err := h.service.List(r.Context(), limit, page)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, pageResponse{
		Data:  result.Data,
		Page:  result.Page,
		Limit: result.Limit,
		Total: result.Total,
	})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	userID, ok := jwtverify.UserIDFromContext(r.Context())
	if !ok {
		commonhttp.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req todoRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		commonhttp.WriteErrorCode(w, http.StatusBadRequest, commonhttp.CodeInvalidJSON, "Invalid request body")
		return
	}

	todo, err := h.service.Create(r.Context(), userID, service.TodoInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusCreated, dataResponse{Data: todo})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	userID, ok := jwtverify.UserIDFromContext(r.Context())
	if !ok {
		commonhttp.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	todo, err := h.service.Get(r.Context(), userID, domain.ID(chi.URLParam(r, "id")))
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, dataResponse{Data: todo})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	userID, ok := jwtverify.UserIDFromContext(r.Context())
	if !ok {
		commonhttp.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req todoRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		commonhttp.WriteErrorCode(w, http.StatusBadRequest, commonhttp.CodeInvalidJSON, "Invalid request body")
		return
	}

	todo, err := h.service.Update(r.Context(), userID, domain.ID(chi.URLParam(r, "id")), service.TodoInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, dataResponse{Data: todo})
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	userID, ok := jwtverify.UserIDFromContext(r.Context())
	if !ok {
		commonhttp.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.service.Delete(r.Context(), userID, domain.ID(chi.URLParam(r, "id"))); err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func queryInt(r *http.Request, name string) int {
	value, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return 0
	}
	return value
}
