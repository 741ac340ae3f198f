// Package app wires configuration, the dataset backend, the services, and
// the HTTP router into a runnable server.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/german-fros/tablero-api/external/wyscout"
	"github.com/german-fros/tablero-api/internal/config"
	"github.com/german-fros/tablero-api/internal/domain/contract"
	"github.com/german-fros/tablero-api/internal/domain/playerstats"
	"github.com/german-fros/tablero-api/internal/domain/user"
	"github.com/german-fros/tablero-api/internal/infrastructure/account/local"
	"github.com/german-fros/tablero-api/internal/infrastructure/document"
	repocache "github.com/german-fros/tablero-api/internal/infrastructure/repository/cache"
	csvrepo "github.com/german-fros/tablero-api/internal/infrastructure/repository/csv"
	"github.com/german-fros/tablero-api/internal/infrastructure/repository/memory"
	"github.com/german-fros/tablero-api/internal/infrastructure/repository/postgres"
	"github.com/german-fros/tablero-api/internal/interfaces/httpapi"
	"github.com/german-fros/tablero-api/internal/platform/cache"
	"github.com/german-fros/tablero-api/internal/platform/id"
	"github.com/german-fros/tablero-api/internal/platform/logging"
	"github.com/german-fros/tablero-api/internal/platform/resilience"
	"github.com/german-fros/tablero-api/internal/usecase"
)

// NewHTTPServer assembles the server for the configured dataset backend.
// The returned cleanup releases backend resources and must run after the
// server has stopped.
func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*http.Server, func(), error) {
	if logger == nil {
		logger = logging.Default()
	}

	feed := newExportFeed(cfg, logger)

	var viewStore *cache.Store
	if cfg.CacheEnabled {
		viewStore = cache.NewStore(cfg.CacheTTL, cfg.CacheMaxEntries)
	}

	var (
		performanceRepo playerstats.Repository
		contractRepo    contract.Repository
		performancePath string
		contractsPath   string
		cleanup         = func() {}
	)

	// The sqlx repositories double as refresh writers, so the postgres
	// branch keeps the concrete handles next to the shared interfaces.
	var (
		db            *sqlx.DB
		pgPerformance *postgres.PerformanceRepository
		pgContracts   *postgres.ContractRepository
	)

	switch cfg.DataBackend {
	case config.BackendPostgres:
		var err error
		db, err = openDatabase(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		cleanup = func() {
			if err := db.Close(); err != nil {
				logger.Error("close database", "error", err)
			}
		}

		pgPerformance = postgres.NewPerformanceRepository(db, cfg.AllowedClubs, cfg.DataSeed, nil)
		pgContracts = postgres.NewContractRepository(db, cfg.AllowedClubs, nil)
		performanceRepo = pgPerformance
		contractRepo = pgContracts

	case config.BackendMemory:
		performanceRepo = memory.NewPerformanceRepository(cfg.DataSeed, nil)
		contractRepo = memory.NewContractRepository(cfg.DataSeed, nil)

	default:
		performanceRepo = csvrepo.NewPerformanceRepository(csvrepo.PerformanceConfig{
			Path:         cfg.PerformancePath,
			AllowedClubs: cfg.AllowedClubs,
			Seed:         cfg.DataSeed,
		}, logger)
		contractRepo = csvrepo.NewContractRepository(csvrepo.ContractConfig{
			Path:         cfg.ContractsPath,
			AllowedClubs: cfg.AllowedClubs,
			Seed:         cfg.DataSeed,
		}, logger)
		performancePath = cfg.PerformancePath
		contractsPath = cfg.ContractsPath
	}

	// Decorating before the services are built keeps the invalidation
	// contract in one place: a repository Reload flushes the snapshot and
	// every derived view cached under the dataset prefix.
	if viewStore != nil {
		performanceRepo = repocache.NewPerformanceRepository(performanceRepo, viewStore)
		contractRepo = repocache.NewContractRepository(contractRepo, viewStore)
	}

	var refreshSvc *usecase.RefreshService
	if db != nil {
		refreshSvc = usecase.NewRefreshService(
			feed,
			performanceRepo,
			contractRepo,
			"", "",
			pgPerformance,
			pgContracts,
			postgres.NewImportLedger(db),
			logger,
		)
	} else {
		refreshSvc = usecase.NewRefreshService(
			feed,
			performanceRepo,
			contractRepo,
			performancePath,
			contractsPath,
			nil, nil, nil,
			logger,
		)
	}

	accounts := memory.NewAccountRepository([]user.Account{{
		Username: cfg.AuthUsername,
		Name:     cfg.AuthDisplayName,
		Password: cfg.AuthPassword,
	}})

	// Sessions get their own store: view caches are bounded and flushed on
	// reload, neither of which may evict a living login.
	sessions := local.NewSessionManager(
		cache.NewStore(cfg.SessionTTL, 0),
		id.NewRandomGenerator(32),
		local.SessionConfig{TTL: cfg.SessionTTL},
		logger,
	)

	authSvc := usecase.NewAuthService(accounts, sessions, logger)
	dashboardSvc := usecase.NewDashboardService(performanceRepo, contractRepo)
	performanceSvc := usecase.NewPerformanceService(performanceRepo, viewStore, logger)
	contractsSvc := usecase.NewContractsService(contractRepo, viewStore, logger)
	reportSvc := usecase.NewReportService(performanceSvc, document.NewPNGRenderer(), document.NewPDFBuilder(), logger)

	handler := httpapi.NewHandler(authSvc, dashboardSvc, performanceSvc, contractsSvc, reportSvc, refreshSvc, logger)
	router := httpapi.NewRouter(handler, sessions, logger, cfg.SwaggerEnabled, cfg.CORSAllowedOrigins,
		cfg.InternalJobToken, cfg.UptraceCaptureRequestBody, cfg.UptraceRequestBodyMaxBytes)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		cleanup()
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, cleanup, nil
}

// newExportFeed returns nil when the provider feed is disabled; dataset
// refresh then reloads local data without fetching.
func newExportFeed(cfg config.Config, logger *logging.Logger) usecase.ExportFetcher {
	if !cfg.WyscoutEnabled {
		return nil
	}

	client := wyscout.NewClient(wyscout.ClientConfig{
		BaseURL:        cfg.WyscoutBaseURL,
		Token:          cfg.WyscoutToken,
		Timeout:        cfg.WyscoutTimeout,
		MaxRetries:     cfg.WyscoutMaxRetries,
		RetryBackoff:   cfg.WyscoutRetryBackoff,
		MaxExportBytes: cfg.WyscoutMaxExportBytes,
		Logger:         logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.WyscoutCircuitEnabled,
			FailureThreshold: cfg.WyscoutCircuitFailureCount,
			OpenTimeout:      cfg.WyscoutCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.WyscoutCircuitHalfOpenMaxReq,
		},
	})

	return &exportFeed{client: client}
}

// exportFeed adapts the wyscout client to the refresh service's fetcher.
type exportFeed struct {
	client *wyscout.Client
}

func (f *exportFeed) Latest(ctx context.Context, name string) (usecase.DatasetExport, error) {
	export, err := f.client.Latest(ctx, name)
	if err != nil {
		return usecase.DatasetExport{}, err
	}

	return usecase.DatasetExport{
		Dataset:     export.Manifest.Dataset,
		CSV:         export.CSV,
		GeneratedAt: export.Manifest.GeneratedAt,
		RowCount:    export.Manifest.RowCount,
	}, nil
}

// openDatabase opens the instrumented pool and pings it so a bad DB_URL
// fails at startup instead of on the first request.
func openDatabase(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	db, err := otelsqlx.Open("postgres", normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary),
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}
