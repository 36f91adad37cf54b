package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/sflhq/league-service/internal/config"
	"github.com/sflhq/league-service/internal/domain/league"
	"github.com/sflhq/league-service/internal/infrastructure/account/authgateway"
	cacherepo "github.com/sflhq/league-service/internal/infrastructure/repository/cache"
	"github.com/sflhq/league-service/internal/infrastructure/repository/postgres"
	"github.com/sflhq/league-service/internal/interfaces/httpapi"
	"github.com/sflhq/league-service/internal/platform/cache"
	idgen "github.com/sflhq/league-service/internal/platform/id"
	"github.com/sflhq/league-service/internal/platform/logging"
	"github.com/sflhq/league-service/internal/platform/resilience"
	"github.com/sflhq/league-service/internal/usecase"
)

// App bundles the HTTP server with the resources it owns.
type App struct {
	Server  *http.Server
	sweeper *usecase.InvitationSweeperService
	db      *sqlx.DB
	logger  *logging.Logger
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	db, err := otelsqlx.Connect("postgres", normalizeDBURL(cfg.DBURL(), cfg.DBDisablePreparedBinary),
		otelsql.WithDBName(config.DBName),
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	var leagueRepo league.Repository = postgres.NewLeagueRepository(db)
	if cfg.CacheEnabled {
		leagueRepo = cacherepo.NewLeagueRepository(leagueRepo, cache.NewStore(cfg.CacheTTL))
	}

	leagueSvc := usecase.NewLeagueService(leagueRepo, idgen.NewUUIDGenerator(), cfg.MaxLeagueSize, cfg.InviteTTL)

	authClient := authgateway.NewClient(authgateway.ClientConfig{
		BaseURL:  cfg.AuthServiceURL,
		Timeout:  cfg.AuthTimeout,
		CacheTTL: cfg.AuthCacheTTL,
		Logger:   logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.AuthCircuitEnabled,
			FailureThreshold: cfg.AuthCircuitFailureCount,
			OpenTimeout:      cfg.AuthCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.AuthCircuitHalfOpenMaxReq,
		},
	})

	handler := httpapi.NewHandler(leagueSvc, dbPinger{db: db}, authClient, logger)
	router := httpapi.NewRouter(handler, authClient, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		db.Close()
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	var sweeper *usecase.InvitationSweeperService
	if cfg.InviteSweepEnabled {
		sweeper = usecase.NewInvitationSweeperService(
			leagueRepo,
			logger,
			cfg.InviteSweepInterval,
			cfg.InviteSweepBatchSize,
			cfg.InviteSweepWorkers,
		)
	}

	return &App{
		Server:  server,
		sweeper: sweeper,
		db:      db,
		logger:  logger,
	}, nil
}

// StartBackground launches the invitation sweeper. It returns immediately;
// the sweeper stops when ctx is cancelled.
func (a *App) StartBackground(ctx context.Context) {
	if a.sweeper == nil {
		return
	}
	go a.sweeper.Run(ctx)
}

func (a *App) Close() error {
	return a.db.Close()
}

type dbPinger struct {
	db *sqlx.DB
}

func (p dbPinger) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}
