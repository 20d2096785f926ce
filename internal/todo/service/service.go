package service

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/example/todolist/backend/internal/common/clock"
	"github.com/example/todolist/backend/internal/common/constants"
	commoncrypto "github.com/example/todolist/backend/internal/common/crypto"
	commonerrors "github.com/example/todolist/backend/internal/common/errors"
	"github.com/example/todolist/backend/internal/common/logger"
	"github.com/example/todolist/backend/internal/todo/domain"
	"github.com/example/todolist/backend/internal/todo/repository"
)

var (
	ErrTodoFieldsRequired = commonerrors.NewDomainError(
		"VALIDATION_FAILED",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"All field required",
	)

	ErrTodoNotFound = commonerrors.NewDomainError(
		"TODO_NOT_FOUND",
		commonerrors.CategoryNotFound,
		http.StatusNotFound,
		"Todo not found",
	)
)

type TodoInput struct {
	Title       string `validate:"required"`
	Description string `validate:"required"`
}

// Page carries one page of todos. Total counts the rows in this page,
// not the table, which is what the API has always reported.
type Page struct {
	Data  []domain.Todo
	Page  int
	Limit int
	Total int
}

type TodoService struct {
	todos       repository.Repository
	idGenerator commoncrypto.IDGenerator
	clock       clock.Clock
	validate    *validator.Validate
	log         *logger.Logger
}

func NewTodoService(
	todos repository.Repository,
	idGenerator commoncrypto.IDGenerator,
	clk clock.Clock,
	log *logger.Logger,
) *TodoService {
	return &TodoService{
		todos:       todos,
		idGenerator: idGenerator,
		clock:       clk,
		validate:    validator.New(),
		log:         log,
	}
}

func (s *TodoService) Create(ctx context.Context, userID string, input TodoInput) (domain.Todo, error) {
	if err := s.validate.Struct(input); err != nil {
		return domain.Todo{}, ErrTodoFieldsRequired
	}

	id, err := s.idGenerator.NewID()
	if err != nil {
		return domain.Todo{}, commonerrors.ErrInternalError.WithCause(err)
	}

	now := s.clock.Now()
	todo := domain.Todo{
		ID:          domain.ID(id),
		Title:       input.Title,
		Description: input.Description,
		UserID:      userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.todos.Create(ctx, todo); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": userID,
			"action":  "todo_create_failed",
		}).Errorf("failed to create todo: %v", err)
		return domain.Todo{}, commonerrors.ErrDatabaseError.WithCause(err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"user_id": userID,
		"todo_id": id,
		"action":  "todo_created",
	}).Info("todo created")

	return todo, nil
}

func (s *TodoService) List(ctx context.Context, limit, page int) (Page, error) {
	if limit <= 0 {
		limit = constants.DefaultTodoPageLimit
	}
	// limit comes straight from the query string; an uncapped value would
	// size the result allocation.
	if limit > constants.MaxTodoPageLimit {
		limit = constants.MaxTodoPageLimit
	}
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	todos, err := s.todos.List(ctx, limit, offset)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"action": "todo_list_failed",
		}).Errorf("failed to list todos: %v", err)
		return Page{}, commonerrors.ErrDatabaseError.WithCause(err)
	}

	return Page{
		Data:  todos,
		Page:  page,
		Limit: limit,
		Total: len(todos),
	}, nil
}

func (s *TodoService) Get(ctx context.Context, userID string, id domain.ID) (domain.Todo, error) {
	todo, err := s.todos.FindByIDAndUser(ctx, id, userID)
	if err != nil {
		if errors.Is(err, repository.ErrTodoNotFound) {
			return domain.Todo{}, ErrTodoNotFound
		}
		return domain.Todo{}, commonerrors.ErrDatabaseError.WithCause(err)
	}
	return todo, nil
}

func (s *TodoService) Update(ctx context.Context, userID string, id domain.ID, input TodoInput) (domain.Todo, error) {
	if err := s.validate.Struct(input); err != nil {
		return domain.Todo{}, ErrTodoFieldsRequired
	}

	todo, err := s.todos.FindByIDAndUser(ctx, id, userID)
	if err != nil {
		if errors.Is(err, repository.ErrTodoNotFound) {
			return domain.Todo{}, ErrTodoNotFound
		}
		return domain.Todo{}, commonerrors.ErrDatabaseError.WithCause(err)
	}

	todo.Title = input.Title
	todo.Description = input.Description
	todo.UpdatedAt = s.clock.Now()

	if err := s.todos.Update(ctx, todo); err != nil {
		if errors.Is(err, repository.ErrTodoNotFound) {
			return domain.Todo{}, ErrTodoNotFound
		}
		s.log.WithFields(ctx, logger.Fields{
			"user_id": userID,
			"todo_id": string(id),
			"action":  "todo_update_failed",
		}).Errorf("failed to update todo: %v", err)
		return domain.Todo{}, commonerrors.ErrDatabaseError.WithCause(err)
	}

	return todo, nil
}

func (s *TodoService) Delete(ctx context.Context, userID string, id domain.ID) error {
	if err := s.todos.Delete(ctx, id, userID); err != nil {
		if errors.Is(err, repository.ErrTodoNotFound) {
			return ErrTodoNotFound
		}
		s.log.WithFields(ctx, logger.Fields{
			"user_id": userID,
			"todo_id": string(id),
			"action":  "todo_delete_failed",
		}).Errorf("failed to delete todo: %v", err)
		return commonerrors.ErrDatabaseError.WithCause(err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"user_id": userID,
		"todo_id": string(id),
		"action":  "todo_deleted",
	}).Info("todo deleted")

	return nil
}
