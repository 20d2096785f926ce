package constants

import "time"

const (
	TokenSecretMinLength = 32

	// RefreshCookieName matches the cookie the original frontend expects.
	RefreshCookieName = "refresh_token_todo_list"
	RefreshCookiePath = "/api/v1/auth"

	// SessionSentinel is stored in users.refresh_token after logout. A
	// signed token can never equal it, so a cleared session matches nothing.
	SessionSentinel = "empty"

	DefaultTodoPageLimit = 10
	MaxTodoPageLimit     = 100

	DefaultMaxRequestSize = 1 << 20

	DBPoolMaxOpenConns    = 25
	DBPoolMinOpenConns    = 5
	DBPoolConnMaxLifetime = time.Hour
	DBPoolConnMaxIdleTime = 30 * time.Minute
	DBPoolHealthCheck     = time.Minute
	DBPoolConnectTimeout  = 5 * time.Second
	DBPoolMaxAttempts     = 10
	DBPoolRetryDelay      = time.Second
	DBPoolMetricsInterval = 30 * time.Second

	ServerReadHeaderTimeout = 10 * time.Second
	ServerReadTimeout       = 30 * time.Second
	ServerWriteTimeout      = 30 * time.Second
	ServerIdleTimeout       = 120 * time.Second

	ShutdownTimeout = 30 * time.Second
	DrainTimeout    = 10 * time.Second

	RateLimitCleanupInterval = time.Minute
)
