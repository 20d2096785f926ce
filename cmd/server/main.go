package main

import (
	"context"
	"flag"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authhttp "github.com/example/todolist/backend/internal/auth/http"
	authrepo "github.com/example/todolist/backend/internal/auth/repository"
	authservice "github.com/example/todolist/backend/internal/auth/service"
	"github.com/example/todolist/backend/internal/auth/token"
	"github.com/example/todolist/backend/internal/common/clock"
	"github.com/example/todolist/backend/internal/common/config"
	"github.com/example/todolist/backend/internal/common/constants"
	commoncrypto "github.com/example/todolist/backend/internal/common/crypto"
	"github.com/example/todolist/backend/internal/common/db"
	commonhttp "github.com/example/todolist/backend/internal/common/http"
	"github.com/example/todolist/backend/internal/common/jwtverify"
	"github.com/example/todolist/backend/internal/common/logger"
	"github.com/example/todolist/backend/internal/common/server"
	todohttp "github.com/example/todolist/backend/internal/todo/http"
	todorepo "github.com/example/todolist/backend/internal/todo/repository"
	todoservice "github.com/example/todolist/backend/internal/todo/service"
	userrepo "github.com/example/todolist/backend/internal/user/repository"
)

const serviceName = "todolist"

const (
	authRequestsPerSecond = 5
	authBurst             = 10
)

func main() {
	configPath := flag.String("config", "", "path to yaml config")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	appLogger, err := logger.New(cfg.Log.Dir, serviceName, cfg.Log.Level)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}

	appLogger.Infof("starting %s service, env=%s", serviceName, cfg.Env)

	pool := db.NewPool(appLogger, cfg.Database.URL)

	if err := db.RunMigrations(context.Background(), cfg.Database.URL); err != nil {
		appLogger.Fatalf("failed to run migrations: %v", err)
	}

	clk := clock.NewRealClock()
	hasher := commoncrypto.NewBcryptHasher()
	idGenerator := commoncrypto.NewUUIDGenerator()

	issuer := token.NewIssuer(
		cfg.Tokens.AccessSecret,
		cfg.Tokens.RefreshSecret,
		cfg.Tokens.AccessTTL,
		cfg.Tokens.RefreshTTL,
		clk,
	)

	users := userrepo.NewPgRepository(pool)
	sessions := authrepo.NewPgSessionRepository(pool)
	todos := todorepo.NewPgRepository(pool)

	authSvc := authservice.NewAuthService(users, sessions, issuer, hasher, idGenerator, clk, appLogger)
	todoSvc := todoservice.NewTodoService(todos, idGenerator, clk, appLogger)

	authHandler := authhttp.NewHandler(authSvc, issuer.RefreshTTL(), appLogger)
	todoHandler := todohttp.NewHandler(todoSvc, appLogger)

	authLimiter := commonhttp.NewRateLimiter(authRequestsPerSecond, authBurst)

	router := chi.NewRouter()
	router.Use(commonhttp.RecoveryMiddleware(appLogger))
	router.Use(commonhttp.MaxRequestSizeMiddleware(constants.DefaultMaxRequestSize))
	router.Use(commonhttp.MetricsMiddleware)
	router.Use(middleware.Timeout(cfg.Timeouts.Request))

	router.Get("/health", commonhttp.HealthHandler(appLogger))
	router.Handle("/metrics", promhttp.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.With(authLimiter.Middleware()).Mount("/auth", authHandler.Routes())
		r.With(jwtverify.Middleware(issuer, appLogger)).Mount("/todos", todoHandler.Routes())
	})

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		commonhttp.WriteErrorCode(w, http.StatusNotFound, commonhttp.CodeRouteNotFound, "Route not found")
	})

	srv := server.NewServer(server.DefaultServerConfig(cfg.HTTP.Addr()), router)

	server.StartWithGracefulShutdownAndHooks(srv, appLogger, serviceName, []server.ShutdownHook{
		func(ctx context.Context) error {
			pool.Close()
			return nil
		},
	})
}
