package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/example/todolist/backend/internal/auth/token"
	"github.com/example/todolist/backend/internal/common/clock"
	"github.com/example/todolist/backend/internal/common/jwtverify"
	"github.com/example/todolist/backend/internal/common/logger"
	"github.com/example/todolist/backend/internal/todo/domain"
	todohttp "github.com/example/todolist/backend/internal/todo/http"
	"github.com/example/todolist/backend/internal/todo/service"
)

type mockTodoService struct {
	createFunc func(ctx context.Context, userID string, input service.TodoInput) (domain.Todo, error)
	listFunc   func(ctx context.Context, limit, page int) (service.Page, error)
	getFunc    func(ctx context.Context, userID string, id domain.ID) (domain.Todo, error)
	updateFunc func(ctx context.Context, userID string, id domain.ID, input service.TodoInput) (domain.Todo, error)
	deleteFunc func(ctx context.Context, userID string, id domain.ID) error
}

func (m *mockTodoService) Create(ctx context.Context, userID string, input service.TodoInput) (domain.Todo, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, userID, input)
	}
	return domain.Todo{}, nil
}

func (m *mockTodoService) List(ctx context.Context, limit, page int) (service.Page, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, limit, page)
	}
	return service.Page{Data: []domain.Todo{}, Page: 1, Limit: 10}, nil
}

func (m *mockTodoService) Get(ctx context.Context, userID string, id domain.ID) (domain.Todo, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, userID, id)
	}
	return domain.Todo{}, service.ErrTodoNotFound
}

func (m *mockTodoService) Update(ctx context.Context, userID string, id domain.ID, input service.TodoInput) (domain.Todo, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, userID, id, input)
	}
	return domain.Todo{}, service.ErrTodoNotFound
}

func (m *mockTodoService) Delete(ctx context.Context, userID string, id domain.ID) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, userID, id)
	}
	return service.ErrTodoNotFound
}

// setupTodoHandler mounts the routes behind the real access-token
// middleware so requests authenticate the way production traffic does.
func setupTodoHandler(t *testing.T) (*mockTodoService, http.Handler, string) {
	t.Helper()

	mockClock := clock.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	issuer := token.NewIssuer(
		"access-secret-key-at-least-32-bytes-long!",
		"refresh-secret-key-at-least-32-bytes-ok!!",
		20*time.Second,
		7*24*time.Hour,
		mockClock,
	)

	log, err := logger.New("", "test", "CRITICAL")
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	accessToken, err := issuer.IssueAccess("user-123")
	if err != nil {
		t.Fatalf("failed to issue access token: %v", err)
	}

	svc := &mockTodoService{}
	handler := todohttp.NewHandler(svc, log)
	protected := jwtverify.Middleware(issuer, log)(handler.Routes())

	return svc, protected, accessToken
}

func authedRequest(method, target, body, accessToken string) *http.Request {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	return req
}

func TestTodoHandler_RequiresToken(t *testing.T) {
	_, router, _ := setupTodoHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestTodoHandler_List(t *testing.T) {
	svc, router, accessToken := setupTodoHandler(t)

	svc.listFunc = func(ctx context.Context, limit, page int) (service.Page, error) {
		if limit != 5 || page != 2 {
			t.Errorf("expected limit=5 page=2, got limit=%d page=%d", limit, page)
		}
		return service.Page{
			Data:  []domain.Todo{{ID: "todo-1", Title: "One"}},
			Page:  2,
			Limit: 5,
			Total: 1,
		}, nil
	}

	req := authedRequest(http.MethodGet, "/?limit=5&page=2", "", accessToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		Data  []domain.Todo `json:"data"`
		Page  int           `json:"page"`
		Limit int           `json:"limit"`
		Total int           `json:"total"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Page != 2 || body.Limit != 5 || body.Total != 1 {
		t.Errorf("unexpected envelope %+v", body)
	}
}

func TestTodoHandler_List_EmptyDataIsArray(t *testing.T) {
	_, router, accessToken := setupTodoHandler(t)

	req := authedRequest(http.MethodGet, "/", "", accessToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"data":[]`) {
		t.Errorf("empty page must serialize data as [], got %s", rec.Body.String())
	}
}

func TestTodoHandler_Create(t *testing.T) {
	svc, router, accessToken := setupTodoHandler(t)

	svc.createFunc = func(ctx context.Context, userID string, input service.TodoInput) (domain.Todo, error) {
		if userID != "user-123" {
			t.Errorf("expected owner from token, got %s", userID)
		}
		return domain.Todo{ID: "todo-1", Title: input.Title, Description: input.Description, UserID: userID}, nil
	}

	req := authedRequest(http.MethodPost, "/", `{"title":"Buy milk","description":"Two liters"}`, accessToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Buy milk") {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
}

func TestTodoHandler_Create_MissingFields(t *testing.T) {
	svc, router, accessToken := setupTodoHandler(t)

	svc.createFunc = func(ctx context.Context, userID string, input service.TodoInput) (domain.Todo, error) {
		return domain.Todo{}, service.ErrTodoFieldsRequired
	}

	req := authedRequest(http.MethodPost, "/", `{"title":"only title"}`, accessToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "All field required") {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
}

func TestTodoHandler_Get_NotFound(t *testing.T) {
	_, router, accessToken := setupTodoHandler(t)

	req := authedRequest(http.MethodGet, "/missing-id", "", accessToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Todo not found") {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
}

func TestTodoHandler_Get(t *testing.T) {
	svc, router, accessToken := setupTodoHandler(t)

	svc.getFunc = func(ctx context.Context, userID string, id domain.ID) (domain.Todo, error) {
		if id != "todo-1" {
			t.Errorf("expected id todo-1, got %s", id)
		}
		return domain.Todo{ID: id, Title: "One", UserID: userID}, nil
	}

	req := authedRequest(http.MethodGet, "/todo-1", "", accessToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestTodoHandler_Update(t *testing.T) {
	svc, router, accessToken := setupTodoHandler(t)

	svc.updateFunc = func(ctx context.Context, userID string, id domain.ID, input service.TodoInput) (domain.Todo, error) {
		return domain.Todo{ID: id, Title: input.Title, Description: input.Description, UserID: userID}, nil
	}

	req := authedRequest(http.MethodPut, "/todo-1", `{"title":"New","description":"Desc"}`, accessToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "New") {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
}

func TestTodoHandler_Delete(t *testing.T) {
	svc, router, accessToken := setupTodoHandler(t)

	svc.deleteFunc = func(ctx context.Context, userID string, id domain.ID) error {
		return nil
	}

	req := authedRequest(http.MethodDelete, "/todo-1", "", accessToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

func TestTodoHandler_Delete_NotFound(t *testing.T) {
	_, router, accessToken := setupTodoHandler(t)

	req := authedRequest(http.MethodDelete, "/missing", "", accessToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
