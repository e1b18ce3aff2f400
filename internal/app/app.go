package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/riskibarqy/match-roulette/external/teamsapi"
	"github.com/riskibarqy/match-roulette/internal/config"
	"github.com/riskibarqy/match-roulette/internal/domain/roulette"
	"github.com/riskibarqy/match-roulette/internal/infrastructure/repository/kv"
	"github.com/riskibarqy/match-roulette/internal/interfaces/httpapi"
	idgen "github.com/riskibarqy/match-roulette/internal/platform/id"
	"github.com/riskibarqy/match-roulette/internal/platform/logging"
	"github.com/riskibarqy/match-roulette/internal/scheduler"
	"github.com/riskibarqy/match-roulette/internal/usecase"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// App owns the HTTP server and the background catalog jobs.
type App struct {
	Server *http.Server

	cfg       config.Config
	logger    *logging.Logger
	roulette  *usecase.RouletteService
	refresher *scheduler.Refresher
	closeKV   func() error
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	store, closeKV, err := newKVStore(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("open filter store: %w", err)
	}
	filterRepo := kv.NewFilterRepository(store, logger.Named("filters"))

	teamsClient := teamsapi.NewClient(teamsapi.ClientConfig{
		HTTPClient: &http.Client{
			Timeout:   cfg.CatalogTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		BaseURL:   cfg.CatalogBaseURL,
		Timeout:   cfg.CatalogTimeout,
		UserAgent: cfg.ServiceName + "/" + cfg.ServiceVersion,
		Logger:    logger.Named("teamsapi"),
	})

	rouletteSvc := usecase.NewRouletteService(
		teamsClient,
		filterRepo,
		roulette.NewRandomPicker(cfg.SpinSeed),
		logger.Named("roulette"),
	)
	filterSvc := usecase.NewFilterService(filterRepo, rouletteSvc, logger.Named("filters"))

	refresher, err := scheduler.NewRefresher(cfg.CatalogRefreshCron, rouletteSvc, 2*cfg.CatalogTimeout, logger.Named("scheduler"))
	if err != nil {
		_ = closeKV()
		return nil, err
	}

	handler := httpapi.NewHandler(rouletteSvc, filterSvc, logger.Named("http"))
	router := httpapi.NewRouter(handler, logger, idgen.NewUUIDGenerator(), cfg.CORSAllowedOrigins)

	return &App{
		Server: &http.Server{
			Addr:         cfg.HTTPAddr,
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		cfg:       cfg,
		logger:    logger,
		roulette:  rouletteSvc,
		refresher: refresher,
		closeKV:   closeKV,
	}, nil
}

// Start warms both boards in the background and starts the refresh schedule.
func (a *App) Start(ctx context.Context) {
	if a.cfg.CatalogWarmup {
		go func() {
			warmCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*a.cfg.CatalogTimeout)
			defer cancel()

			started := time.Now()
			if err := a.roulette.LoadAll(warmCtx); err != nil {
				a.logger.WarnContext(warmCtx, "catalog warm-up incomplete", "error", err)
				return
			}
			a.logger.InfoContext(warmCtx, "catalog warm-up done", "duration", time.Since(started))
		}()
	}

	a.refresher.Start()
}

func (a *App) Shutdown(ctx context.Context) error {
	a.refresher.Stop(ctx)

	var errs []error
	if err := a.Server.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("shutdown http server: %w", err))
	}
	if err := a.closeKV(); err != nil {
		errs = append(errs, fmt.Errorf("close filter store: %w", err))
	}

	return errors.Join(errs...)
}
