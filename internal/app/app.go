// Package app wires configuration into the report service and its HTTP shell.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/andresuchdata/fullstock/internal/api"
	"github.com/andresuchdata/fullstock/internal/cache"
	"github.com/andresuchdata/fullstock/internal/config"
	"github.com/andresuchdata/fullstock/internal/domain"
	"github.com/andresuchdata/fullstock/internal/pipeline/fullreport"
	"github.com/andresuchdata/fullstock/internal/repository"
	"github.com/andresuchdata/fullstock/internal/service"
	"github.com/andresuchdata/fullstock/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	Config  *config.Config
	Service *service.ReportService
}

// New builds the report service described by cfg. Storage is left disabled
// when not configured; a cache that cannot be reached degrades to no caching.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	p, err := fullreport.NewFullReportPipeline(PipelineConfig(cfg.Report))
	if err != nil {
		return nil, fmt.Errorf("failed to build pipeline: %w", err)
	}

	exportCache, err := cache.NewExportCache(ctx, cfg.Cache)
	if err != nil {
		log.Warn().Err(err).Msg("export cache unavailable, continuing without cache")
		exportCache = cache.NewNoopExportCache()
	}

	opts := service.ReportOptions{
		Cache:         exportCache,
		StoragePrefix: cfg.Storage.Prefix,
		Workers:       cfg.Report.Workers,
	}
	if cfg.Storage.Enabled {
		store, err := newObjectStorage(ctx, cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to init object storage: %w", err)
		}
		opts.Storage = store
	}

	repo := repository.NewSessionRepository(Companies(cfg.Report.Companies))
	return &App{
		Config:  cfg,
		Service: service.NewReportService(repo, p, opts),
	}, nil
}

func newObjectStorage(ctx context.Context, cfg config.StorageConfig) (storage.ObjectStorage, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", storage.DriverMinio:
		return storage.NewMinioClient(ctx, cfg)
	case storage.DriverMemory:
		log.Warn().Msg("object storage is in memory; uploaded exports are lost on exit")
		return storage.NewMemoryStorage(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// PipelineConfig maps the report settings onto the extract layouts. Column
// letters always use the default layouts. A start row of 0 reads from the
// first row; only a negative one falls back to the default.
func PipelineConfig(rc config.ReportConfig) fullreport.Config {
	cfg := fullreport.DefaultConfig()
	if rc.FullSheet != "" {
		cfg.FullSheet = rc.FullSheet
	}
	if rc.FullStartRow >= 0 {
		cfg.FullStartRow = rc.FullStartRow
	}
	if rc.CostSheet != "" {
		cfg.CostSheet = rc.CostSheet
	}
	if rc.CostStartRow >= 0 {
		cfg.CostStartRow = rc.CostStartRow
	}
	return cfg
}

// Companies converts configured names; an empty list selects the defaults.
func Companies(names []string) []domain.Company {
	var out []domain.Company
	seen := make(map[domain.Company]struct{}, len(names))
	for _, n := range names {
		c := domain.Company(strings.TrimSpace(n))
		if c == "" {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

// Router builds the HTTP handler for the app.
func (a *App) Router() *gin.Engine {
	if a.Config.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	return api.NewRouter(&api.Services{ReportService: a.Service}, api.RouterOptions{
		AllowedOrigins: a.Config.Server.AllowedOrigins,
		MaxUploadMB:    int64(a.Config.Server.MaxUploadMB),
	})
}

// Serve runs the HTTP server until ctx is cancelled, then shuts it down
// gracefully.
func (a *App) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:         ":" + a.Config.Server.Port,
		Handler:      a.Router(),
		ReadTimeout:  time.Duration(a.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(a.Config.Server.WriteTimeout) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", a.Config.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("Server exiting")
	return nil
}
