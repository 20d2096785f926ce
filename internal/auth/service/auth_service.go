package service

import (
	"context"
	"errors"
	"time"

	authrepo "github.com/example/todolist/backend/internal/auth/repository"
	"github.com/example/todolist/backend/internal/auth/token"
	"github.com/example/todolist/backend/internal/common/clock"
	commoncrypto "github.com/example/todolist/backend/internal/common/crypto"
	commonerrors "github.com/example/todolist/backend/internal/common/errors"
	"github.com/example/todolist/backend/internal/common/logger"
	"github.com/example/todolist/backend/internal/observability/metrics"
	userdomain "github.com/example/todolist/backend/internal/user/domain"
	userrepo "github.com/example/todolist/backend/internal/user/repository"
)

// AuthService drives the session lifecycle. The session state lives
// entirely in the store's single refresh-token slot per user: register
// and login overwrite it, refresh reads it without rotating, logout
// replaces it with the sentinel.
type AuthService struct {
	users       userrepo.Repository
	sessions    authrepo.SessionRepository
	issuer      *token.Issuer
	hasher      commoncrypto.PasswordHasher
	idGenerator commoncrypto.IDGenerator
	clock       clock.Clock
	log         *logger.Logger
}

func NewAuthService(
	users userrepo.Repository,
	sessions authrepo.SessionRepository,
	issuer *token.Issuer,
	hasher commoncrypto.PasswordHasher,
	idGenerator commoncrypto.IDGenerator,
	clk clock.Clock,
	log *logger.Logger,
) *AuthService {
	return &AuthService{
		users:       users,
		sessions:    sessions,
		issuer:      issuer,
		hasher:      hasher,
		idGenerator: idGenerator,
		clock:       clk,
		log:         log,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

type AuthResult struct {
	AccessToken      string
	RefreshToken     string
	RefreshExpiresAt time.Time
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (AuthResult, error) {
	s.log.WithFields(ctx, logger.Fields{
		"email":  input.Email,
		"action": "register_attempt",
	}).Info("register attempt")

	if input.Name == "" || input.Email == "" || input.Password == "" {
		return AuthResult{}, ErrAllFieldsRequired
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "register_hash_failed",
		}).Errorf("register failed: password hash error: %v", err)
		return AuthResult{}, commonerrors.ErrInternalError.WithCause(err)
	}

	id, err := s.idGenerator.NewID()
	if err != nil {
		return AuthResult{}, commonerrors.ErrInternalError.WithCause(err)
	}

	user := userdomain.User{
		ID:           userdomain.ID(id),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		CreatedAt:    s.clock.Now(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, userrepo.ErrEmailAlreadyExists) {
			s.log.WithFields(ctx, logger.Fields{
				"email":  input.Email,
				"action": "register_email_exists",
			}).Warn("register failed: email already used")
			return AuthResult{}, ErrEmailTaken
		}
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "register_create_failed",
		}).Errorf("register failed: %v", err)
		return AuthResult{}, commonerrors.ErrDatabaseError.WithCause(err)
	}

	result, err := s.openSession(ctx, user)
	if err != nil {
		return AuthResult{}, err
	}

	s.log.WithFields(ctx, logger.Fields{
		"user_id": string(user.ID),
		"action":  "register_success",
	}).Info("register success")

	return result, nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (AuthResult, error) {
	s.log.WithFields(ctx, logger.Fields{
		"email":  input.Email,
		"action": "login_attempt",
	}).Info("login attempt")

	if input.Email == "" || input.Password == "" {
		return AuthResult{}, ErrAllFieldsRequired
	}

	user, err := s.users.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			s.log.WithFields(ctx, logger.Fields{
				"email":  input.Email,
				"action": "login_user_not_found",
			}).Warn("login failed: not found")
			return AuthResult{}, ErrInvalidCredentials
		}
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "login_fetch_failed",
		}).Errorf("login failed: %v", err)
		return AuthResult{}, commonerrors.ErrDatabaseError.WithCause(err)
	}

	if err := s.hasher.Compare(user.PasswordHash, input.Password); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "login_invalid_password",
		}).Warn("login failed: invalid password")
		return AuthResult{}, ErrInvalidCredentials
	}

	result, err := s.openSession(ctx, user)
	if err != nil {
		return AuthResult{}, err
	}

	s.log.WithFields(ctx, logger.Fields{
		"user_id": string(user.ID),
		"action":  "login_success",
	}).Info("login success")

	return result, nil
}

// Refresh mints a new access token against the stored session. The
// refresh token itself is deliberately NOT rotated: the stored value
// stays good until its own expiry or the next login/logout.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", ErrMissingRefreshToken
	}

	user, err := s.sessions.FindUserByToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, authrepo.ErrSessionNotFound) {
			s.log.WithFields(ctx, logger.Fields{
				"action": "refresh_session_not_found",
			}).Warn("refresh failed: token not in store")
			return "", ErrInvalidSession
		}
		s.log.WithFields(ctx, logger.Fields{
			"action": "refresh_lookup_failed",
		}).Errorf("refresh lookup failed: %v", err)
		return "", commonerrors.ErrDatabaseError.WithCause(err)
	}

	claims, err := s.issuer.VerifyRefresh(refreshToken)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(user.ID),
			"action":  "refresh_token_invalid",
		}).Warnf("refresh failed: %v", err)
		return "", ErrInvalidSession.WithCause(err)
	}

	if claims.UserID != string(user.ID) {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(user.ID),
			"action":  "refresh_owner_mismatch",
		}).Warn("refresh failed: claims owner does not match session")
		return "", ErrInvalidSession
	}

	accessToken, err := s.issuer.IssueAccess(claims.UserID)
	if err != nil {
		return "", commonerrors.ErrInternalError.WithCause(err)
	}

	metrics.RefreshTokensUsed.Inc()
	s.log.WithFields(ctx, logger.Fields{
		"user_id": string(user.ID),
		"action":  "refresh_success",
	}).Info("refresh success")

	return accessToken, nil
}

// Logout is idempotent: an unknown or already-cleared token is a no-op.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}

	user, err := s.sessions.FindUserByToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, authrepo.ErrSessionNotFound) {
			return nil
		}
		s.log.WithFields(ctx, logger.Fields{
			"action": "logout_lookup_failed",
		}).Errorf("logout lookup failed: %v", err)
		return commonerrors.ErrDatabaseError.WithCause(err)
	}

	if err := s.sessions.Clear(ctx, user.ID); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(user.ID),
			"action":  "logout_clear_failed",
		}).Errorf("logout failed: %v", err)
		return commonerrors.ErrDatabaseError.WithCause(err)
	}

	metrics.SessionsRevoked.Inc()
	s.log.WithFields(ctx, logger.Fields{
		"user_id": string(user.ID),
		"action":  "logout_success",
	}).Info("logout success")

	return nil
}

// openSession issues both tokens and overwrites the user's session slot,
// invalidating whatever refresh token was stored before.
func (s *AuthService) openSession(ctx context.Context, user userdomain.User) (AuthResult, error) {
	accessToken, err := s.issuer.IssueAccess(string(user.ID))
	if err != nil {
		return AuthResult{}, commonerrors.ErrInternalError.WithCause(err)
	}

	refreshToken, err := s.issuer.IssueRefresh(string(user.ID))
	if err != nil {
		return AuthResult{}, commonerrors.ErrInternalError.WithCause(err)
	}

	if err := s.sessions.Set(ctx, user.ID, refreshToken); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(user.ID),
			"action":  "session_store_failed",
		}).Errorf("failed to store session: %v", err)
		return AuthResult{}, commonerrors.ErrDatabaseError.WithCause(err)
	}

	return AuthResult{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		RefreshExpiresAt: s.clock.Now().Add(s.issuer.RefreshTTL()),
	}, nil
}
