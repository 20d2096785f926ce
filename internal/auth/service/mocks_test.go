package service_test

import (
	"context"
	"testing"
	"time"

	authrepo "github.com/example/todolist/backend/internal/auth/repository"
	"github.com/example/todolist/backend/internal/auth/service"
	"github.com/example/todolist/backend/internal/auth/token"
	"github.com/example/todolist/backend/internal/common/clock"
	"github.com/example/todolist/backend/internal/common/logger"
	userdomain "github.com/example/todolist/backend/internal/user/domain"
	userrepo "github.com/example/todolist/backend/internal/user/repository"
)

type mockUserRepo struct {
	createFunc      func(ctx context.Context, user userdomain.User) error
	findByEmailFunc func(ctx context.Context, email string) (userdomain.User, error)
	findByIDFunc    func(ctx context.Context, id userdomain.ID) (userdomain.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user userdomain.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (userdomain.User, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	return userdomain.User{}, userrepo.ErrUserNotFound
}

func (m *mockUserRepo) FindByID(ctx context.Context, id userdomain.ID) (userdomain.User, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return userdomain.User{}, userrepo.ErrUserNotFound
}

type mockSessionRepo struct {
	setFunc             func(ctx context.Context, userID userdomain.ID, token string) error
	findUserByTokenFunc func(ctx context.Context, token string) (userdomain.User, error)
	clearFunc           func(ctx context.Context, userID userdomain.ID) error
}

func (m *mockSessionRepo) Set(ctx context.Context, userID userdomain.ID, token string) error {
	if m.setFunc != nil {
		return m.setFunc(ctx, userID, token)
	}
	return nil
}

func (m *mockSessionRepo) FindUserByToken(ctx context.Context, token string) (userdomain.User, error) {
	if m.findUserByTokenFunc != nil {
		return m.findUserByTokenFunc(ctx, token)
	}
	return userdomain.User{}, authrepo.ErrSessionNotFound
}

func (m *mockSessionRepo) Clear(ctx context.Context, userID userdomain.ID) error {
	if m.clearFunc != nil {
		return m.clearFunc(ctx, userID)
	}
	return nil
}

type mockHasher struct {
	hashFunc    func(password string) (string, error)
	compareFunc func(hash string, password string) error
}

func (m *mockHasher) Hash(password string) (string, error) {
	if m.hashFunc != nil {
		return m.hashFunc(password)
	}
	return "hashed_" + password, nil
}

func (m *mockHasher) Compare(hash string, password string) error {
	if m.compareFunc != nil {
		return m.compareFunc(hash, password)
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
	return "id-123", nil
}

func setupAuthService(t *testing.T) (*service.AuthService, *mockUserRepo, *mockSessionRepo, *mockHasher, *mockIDGenerator, *token.Issuer, *clock.MockClock) {
	t.Helper()

	mockUsers := &mockUserRepo{}
	mockSessions := &mockSessionRepo{}
	hasher := &mockHasher{}
	idGenerator := &mockIDGenerator{}
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

	svc := service.NewAuthService(mockUsers, mockSessions, issuer, hasher, idGenerator, mockClock, log)

	return svc, mockUsers, mockSessions, hasher, idGenerator, issuer, mockClock
}
