// Package token mints and verifies the two bearer credentials: a
// short-lived access token and a long-lived refresh token, signed with
// separate secrets.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/example/todolist/backend/internal/common/clock"
	commonerrors "github.com/example/todolist/backend/internal/common/errors"
	"github.com/example/todolist/backend/internal/observability/metrics"
)

// Claims is the fixed payload shape. Tokens whose payload does not parse
// into it, or that lack userId or exp, are rejected outright.
type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

type Issuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	clock         clock.Clock
}

func NewIssuer(
	accessSecret string,
	refreshSecret string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
	clk clock.Clock,
) *Issuer {
	return &Issuer{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		clock:         clk,
	}
}

func (i *Issuer) AccessTTL() time.Duration  { return i.accessTTL }
func (i *Issuer) RefreshTTL() time.Duration { return i.refreshTTL }

// IssueAccess signs a stateless access token. Its validity depends only
// on signature and expiry; it is never checked against stored state.
func (i *Issuer) IssueAccess(userID string) (string, error) {
	signed, err := i.sign(userID, i.accessSecret, i.accessTTL)
	if err != nil {
		return "", err
	}
	metrics.AccessTokensIssued.Inc()
	return signed, nil
}

func (i *Issuer) IssueRefresh(userID string) (string, error) {
	signed, err := i.sign(userID, i.refreshSecret, i.refreshTTL)
	if err != nil {
		return "", err
	}
	metrics.RefreshTokensIssued.Inc()
	return signed, nil
}

func (i *Issuer) VerifyAccess(tokenString string) (Claims, error) {
	return i.verify(tokenString, i.accessSecret)
}

func (i *Issuer) VerifyRefresh(tokenString string) (Claims, error) {
	return i.verify(tokenString, i.refreshSecret)
}

func (i *Issuer) sign(userID string, secret []byte, ttl time.Duration) (string, error) {
	now := i.clock.Now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(secret)
}

// verify folds every failure mode into the same 403-class error: an
// expired token is indistinguishable from a tampered one on the wire.
func (i *Issuer) verify(tokenString string, secret []byte) (Claims, error) {
	metrics.JWTValidationsTotal.Inc()

	var claims Claims
	parsed, err := jwt.ParseWithClaims(
		tokenString,
		&claims,
		func(t *jwt.Token) (any, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, errors.New("unexpected signing method")
			}
			return secret, nil
		},
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.clock.Now),
	)
	if err != nil || !parsed.Valid {
		if err == nil {
			err = errors.New("token is not valid")
		}
		metrics.JWTValidationsFailed.Inc()
		return Claims{}, commonerrors.ErrInvalidToken.WithCause(err)
	}

	if claims.UserID == "" {
		metrics.JWTValidationsFailed.Inc()
		return Claims{}, commonerrors.ErrInvalidToken.WithCause(errors.New("missing userId claim"))
	}

	return claims, nil
}
