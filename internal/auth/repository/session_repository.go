package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/example/todolist/backend/internal/common/constants"
	"github.com/example/todolist/backend/internal/common/db"
	userdomain "github.com/example/todolist/backend/internal/user/domain"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionRepository persists at most one refresh token per user, in the
// users.refresh_token column. Set is an unconditional overwrite: under
// concurrent logins the later write wins and the earlier session is
// silently invalidated.
type SessionRepository interface {
	Set(ctx context.Context, userID userdomain.ID, token string) error
	FindUserByToken(ctx context.Context, token string) (userdomain.User, error)
	Clear(ctx context.Context, userID userdomain.ID) error
}

type PgSessionRepository struct {
	pool *pgxpool.Pool
}

func NewPgSessionRepository(pool *pgxpool.Pool) *PgSessionRepository {
	return &PgSessionRepository{pool: pool}
}

func (r *PgSessionRepository) Set(ctx context.Context, userID userdomain.ID, token string) error {
	start := time.Now()
	_, err := r.pool.Exec(
		ctx,
		`UPDATE users SET refresh_token = $1, updated_at = NOW() WHERE id = $2`,
		token,
		string(userID),
	)
	return db.HandleExecError(err, "set session token", start)
}

func (r *PgSessionRepository) FindUserByToken(ctx context.Context, token string) (userdomain.User, error) {
	start := time.Now()
	row := r.pool.QueryRow(
		ctx,
		`SELECT id, name, email, password_hash, refresh_token, created_at, updated_at
		 FROM users WHERE refresh_token = $1`,
		token,
	)

	var user userdomain.User
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash,
		&user.RefreshToken, &user.CreatedAt, &user.UpdatedAt)
	if err := db.HandleQueryError(err, ErrSessionNotFound, "find session by token", start); err != nil {
		return userdomain.User{}, err
	}
	return user, nil
}

// Clear writes the sentinel rather than NULL, matching the wire-visible
// behavior the rest of the system expects.
func (r *PgSessionRepository) Clear(ctx context.Context, userID userdomain.ID) error {
	return r.Set(ctx, userID, constants.SessionSentinel)
}
