package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/todolist/backend/internal/common/clock"
	"github.com/example/todolist/backend/internal/common/logger"
	"github.com/example/todolist/backend/internal/todo/domain"
	"github.com/example/todolist/backend/internal/todo/repository"
	"github.com/example/todolist/backend/internal/todo/service"
)

type mockTodoRepo struct {
	createFunc          func(ctx context.Context, todo domain.Todo) error
	listFunc            func(ctx context.Context, limit, offset int) ([]domain.Todo, error)
	findByIDAndUserFunc func(ctx context.Context, id domain.ID, userID string) (domain.Todo, error)
	updateFunc          func(ctx context.Context, todo domain.Todo) error
	deleteFunc          func(ctx context.Context, id domain.ID, userID string) error
}

func (m *mockTodoRepo) Create(ctx context.Context, todo domain.Todo) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, todo)
	}
	return nil
}

func (m *mockTodoRepo) List(ctx context.Context, limit, offset int) ([]domain.Todo, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, limit, offset)
	}
	return []domain.Todo{}, nil
}

func (m *mockTodoRepo) FindByIDAndUser(ctx context.Context, id domain.ID, userID string) (domain.Todo, error) {
	if m.findByIDAndUserFunc != nil {
		return m.findByIDAndUserFunc(ctx, id, userID)
	}
	return domain.Todo{}, repository.ErrTodoNotFound
}

func (m *mockTodoRepo) Update(ctx context.Context, todo domain.Todo) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, todo)
	}
	return nil
}

func (m *mockTodoRepo) Delete(ctx context.Context, id domain.ID, userID string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id, userID)
	}
	return nil
}

type mockIDGenerator struct {
	newIDFunc func() (string, error)
}

func (m *mockIDGenerator) NewID() (string, error) {
	if m.newIDFunc != nil {
		return m.newIDFunc()
	}
	return "todo-123", nil
}

func setupTodoService(t *testing.T) (*service.TodoService, *mockTodoRepo, *clock.MockClock) {
	t.Helper()

	mockRepo := &mockTodoRepo{}
	mockClock := clock.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))

	log, err := logger.New("", "test", "CRITICAL")
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	svc := service.NewTodoService(mockRepo, &mockIDGenerator{}, mockClock, log)

	return svc, mockRepo, mockClock
}

func TestTodoService_Create_Success(t *testing.T) {
	svc, mockRepo, mockClock := setupTodoService(t)

	var created domain.Todo
	mockRepo.createFunc = func(ctx context.Context, todo domain.Todo) error {
		created = todo
		return nil
	}

	todo, err := svc.Create(context.Background(), "user-123", service.TodoInput{
		Title:       "Buy milk",
		Description: "Two liters",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if todo.ID != "todo-123" {
		t.Errorf("expected generated id, got %s", todo.ID)
	}
	if created.UserID != "user-123" {
		t.Errorf("expected owner user-123, got %s", created.UserID)
	}
	if !created.CreatedAt.Equal(mockClock.Now()) {
		t.Error("expected created_at from clock")
	}
}

func TestTodoService_Create_MissingFields(t *testing.T) {
	svc, _, _ := setupTodoService(t)

	inputs := []service.TodoInput{
		{Title: "", Description: "desc"},
		{Title: "title", Description: ""},
		{},
	}

	for _, input := range inputs {
		_, err := svc.Create(context.Background(), "user-123", input)
		if !errors.Is(err, service.ErrTodoFieldsRequired) {
			t.Errorf("input %+v: expected ErrTodoFieldsRequired, got %v", input, err)
		}
	}
}

func TestTodoService_List_Defaults(t *testing.T) {
	svc, mockRepo, _ := setupTodoService(t)

	mockRepo.listFunc = func(ctx context.Context, limit, offset int) ([]domain.Todo, error) {
		if limit != 10 {
			t.Errorf("expected default limit 10, got %d", limit)
		}
		if offset != 0 {
			t.Errorf("expected offset 0 for first page, got %d", offset)
		}
		return []domain.Todo{{ID: "a"}, {ID: "b"}}, nil
	}

	page, err := svc.List(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if page.Page != 1 || page.Limit != 10 {
		t.Errorf("expected page=1 limit=10, got page=%d limit=%d", page.Page, page.Limit)
	}
	if page.Total != 2 {
		t.Errorf("total counts the rows in the page, expected 2, got %d", page.Total)
	}
}

func TestTodoService_List_ClampsOversizedLimit(t *testing.T) {
	svc, mockRepo, _ := setupTodoService(t)

	mockRepo.listFunc = func(ctx context.Context, limit, offset int) ([]domain.Todo, error) {
		if limit != 100 {
			t.Errorf("expected limit clamped to 100, got %d", limit)
		}
		if offset != 100 {
			t.Errorf("offset must use the clamped limit, got %d", offset)
		}
		return []domain.Todo{}, nil
	}

	page, err := svc.List(context.Background(), 1_000_000_000, 2)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if page.Limit != 100 {
		t.Errorf("reported limit must be the clamped one, got %d", page.Limit)
	}
}

func TestTodoService_List_Offset(t *testing.T) {
	svc, mockRepo, _ := setupTodoService(t)

	mockRepo.listFunc = func(ctx context.Context, limit, offset int) ([]domain.Todo, error) {
		if limit != 5 || offset != 10 {
			t.Errorf("expected limit=5 offset=10, got limit=%d offset=%d", limit, offset)
		}
		return []domain.Todo{}, nil
	}

	page, err := svc.List(context.Background(), 5, 3)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if page.Data == nil {
		t.Error("data must never be nil")
	}
}

func TestTodoService_Get_NotFound(t *testing.T) {
	svc, _, _ := setupTodoService(t)

	_, err := svc.Get(context.Background(), "user-123", "missing")
	if !errors.Is(err, service.ErrTodoNotFound) {
		t.Fatalf("expected ErrTodoNotFound, got %v", err)
	}
}

func TestTodoService_Get_OtherUsersTodoHidden(t *testing.T) {
	svc, mockRepo, _ := setupTodoService(t)

	mockRepo.findByIDAndUserFunc = func(ctx context.Context, id domain.ID, userID string) (domain.Todo, error) {
		if userID == "owner" {
			return domain.Todo{ID: id, UserID: userID}, nil
		}
		return domain.Todo{}, repository.ErrTodoNotFound
	}

	if _, err := svc.Get(context.Background(), "owner", "todo-1"); err != nil {
		t.Fatalf("owner must see the todo, got %v", err)
	}
	if _, err := svc.Get(context.Background(), "intruder", "todo-1"); !errors.Is(err, service.ErrTodoNotFound) {
		t.Fatalf("other users get not-found, got %v", err)
	}
}

func TestTodoService_Update_Success(t *testing.T) {
	svc, mockRepo, mockClock := setupTodoService(t)

	mockRepo.findByIDAndUserFunc = func(ctx context.Context, id domain.ID, userID string) (domain.Todo, error) {
		return domain.Todo{
			ID:        id,
			Title:     "Old",
			UserID:    userID,
			CreatedAt: mockClock.Now().Add(-time.Hour),
		}, nil
	}

	var updated domain.Todo
	mockRepo.updateFunc = func(ctx context.Context, todo domain.Todo) error {
		updated = todo
		return nil
	}

	todo, err := svc.Update(context.Background(), "user-123", "todo-1", service.TodoInput{
		Title:       "New title",
		Description: "New description",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if todo.Title != "New title" || updated.Title != "New title" {
		t.Error("expected title to be replaced")
	}
	if !updated.UpdatedAt.Equal(mockClock.Now()) {
		t.Error("expected updated_at from clock")
	}
}

func TestTodoService_Update_NotFound(t *testing.T) {
	svc, _, _ := setupTodoService(t)

	_, err := svc.Update(context.Background(), "user-123", "missing", service.TodoInput{
		Title:       "T",
		Description: "D",
	})
	if !errors.Is(err, service.ErrTodoNotFound) {
		t.Fatalf("expected ErrTodoNotFound, got %v", err)
	}
}

func TestTodoService_Update_MissingFields(t *testing.T) {
	svc, mockRepo, _ := setupTodoService(t)

	mockRepo.findByIDAndUserFunc = func(ctx context.Context, id domain.ID, userID string) (domain.Todo, error) {
		t.Error("validation must run before the lookup")
		return domain.Todo{}, repository.ErrTodoNotFound
	}

	_, err := svc.Update(context.Background(), "user-123", "todo-1", service.TodoInput{})
	if !errors.Is(err, service.ErrTodoFieldsRequired) {
		t.Fatalf("expected ErrTodoFieldsRequired, got %v", err)
	}
}

func TestTodoService_Delete_Success(t *testing.T) {
	svc, mockRepo, _ := setupTodoService(t)

	var deletedID domain.ID
	mockRepo.deleteFunc = func(ctx context.Context, id domain.ID, userID string) error {
		deletedID = id
		return nil
	}

	if err := svc.Delete(context.Background(), "user-123", "todo-1"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if deletedID != "todo-1" {
		t.Errorf("expected todo-1 deleted, got %s", deletedID)
	}
}

func TestTodoService_Delete_NotFound(t *testing.T) {
	svc, mockRepo, _ := setupTodoService(t)

	mockRepo.deleteFunc = func(ctx context.Context, id domain.ID, userID string) error {
		return repository.ErrTodoNotFound
	}

	err := svc.Delete(context.Background(), "user-123", "missing")
	if !errors.Is(err, service.ErrTodoNotFound) {
		t.Fatalf("expected ErrTodoNotFound, got %v", err)
	}
}
