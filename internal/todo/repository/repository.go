package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/example/todolist/backend/internal/common/db"
	"github.com/example/todolist/backend/internal/todo/domain"
)

var ErrTodoNotFound = errors.New("todo not found")

type Repository interface {
	Create(ctx context.Context, todo domain.Todo) error
	List(ctx context.Context, limit, offset int) ([]domain.Todo, error)
	FindByIDAndUser(ctx context.Context, id domain.ID, userID string) (domain.Todo, error)
	Update(ctx context.Context, todo domain.Todo) error
	Delete(ctx context.Context, id domain.ID, userID string) error
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) Create(ctx context.Context, todo domain.Todo) error {
	start := time.Now()
	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO todos (id, title, description, user_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		string(todo.ID),
		todo.Title,
		todo.Description,
		todo.UserID,
		todo.CreatedAt,
		todo.UpdatedAt,
	)
	if err != nil {
		return db.HandleExecError(err, "create todo", start)
	}
	db.MeasureQueryDuration("create todo", start)
	return nil
}

// List pages over all todos regardless of owner, matching the behavior
// clients already depend on.
func (r *PgRepository) List(ctx context.Context, limit, offset int) ([]domain.Todo, error) {
	start := time.Now()
	rows, err := r.pool.Query(
		ctx,
		`SELECT id, title, description, user_id, created_at, updated_at
		 FROM todos ORDER BY created_at LIMIT $1 OFFSET $2`,
		limit,
		offset,
	)
	if err != nil {
		return nil, db.HandleExecError(err, "list todos", start)
	}
	defer rows.Close()

	todos := make([]domain.Todo, 0, limit)
	for rows.Next() {
		var todo domain.Todo
		if err := rows.Scan(&todo.ID, &todo.Title, &todo.Description,
			&todo.UserID, &todo.CreatedAt, &todo.UpdatedAt); err != nil {
			return nil, db.HandleExecError(err, "scan todo row", start)
		}
		todos = append(todos, todo)
	}
	if err := rows.Err(); err != nil {
		return nil, db.HandleExecError(err, "list todos", start)
	}
	db.MeasureQueryDuration("list todos", start)
	return todos, nil
}

func (r *PgRepository) FindByIDAndUser(ctx context.Context, id domain.ID, userID string) (domain.Todo, error) {
	start := time.Now()
	row := r.pool.QueryRow(
		ctx,
		`SELECT id, title, description, user_id, created_at, updated_at
		 FROM todos WHERE id = $1 AND user_id = $2`,
		string(id),
		userID,
	)

	var todo domain.Todo
	err := row.Scan(&todo.ID, &todo.Title, &todo.Description,
		&todo.UserID, &todo.CreatedAt, &todo.UpdatedAt)
	if err := db.HandleQueryError(err, ErrTodoNotFound, "find todo by id", start); err != nil {
		return domain.Todo{}, err
	}
	return todo, nil
}

func (r *PgRepository) Update(ctx context.Context, todo domain.Todo) error {
	start := time.Now()
	tag, err := r.pool.Exec(
		ctx,
		`UPDATE todos SET title = $1, description = $2, updated_at = $3
		 WHERE id = $4 AND user_id = $5`,
		todo.Title,
		todo.Description,
		todo.UpdatedAt,
		string(todo.ID),
		todo.UserID,
	)
	if err != nil {
		return db.HandleExecError(err, "update todo", start)
	}
	db.MeasureQueryDuration("update todo", start)
	if tag.RowsAffected() == 0 {
		return ErrTodoNotFound
	}
	return nil
}

func (r *PgRepository) Delete(ctx context.Context, id domain.ID, userID string) error {
	start := time.Now()
	tag, err := r.pool.Exec(
		ctx,
		`DELETE FROM todos WHERE id = $1 AND user_id = $2`,
		string(id),
		userID,
	)
	if err != nil {
		return db.HandleExecError(err, "delete todo", start)
	}
	db.MeasureQueryDuration("delete todo", start)
	if tag.RowsAffected() == 0 {
		return ErrTodoNotFound
	}
	return nil
}
