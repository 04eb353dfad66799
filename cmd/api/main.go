package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/worklense/hrbi-backend-go/internal/config"
	"github.com/worklense/hrbi-backend-go/internal/domain/report"
	"github.com/worklense/hrbi-backend-go/internal/domain/workforce"
	appHTTP "github.com/worklense/hrbi-backend-go/internal/handler/http"
	"github.com/worklense/hrbi-backend-go/internal/pkg/cron"
	"github.com/worklense/hrbi-backend-go/internal/pkg/database"
	"github.com/worklense/hrbi-backend-go/internal/pkg/jwt"
	"github.com/worklense/hrbi-backend-go/internal/pkg/metrics"
	"github.com/worklense/hrbi-backend-go/internal/pkg/sse"
	"github.com/worklense/hrbi-backend-go/internal/pkg/storage"
	"github.com/worklense/hrbi-backend-go/internal/repository/postgresql"
	"github.com/worklense/hrbi-backend-go/internal/repository/spreadsheet"
	"github.com/worklense/hrbi-backend-go/internal/repository/yamlconfig"
	dashboardService "github.com/worklense/hrbi-backend-go/internal/service/dashboard"
	"github.com/worklense/hrbi-backend-go/internal/service/dataset"
	reportService "github.com/worklense/hrbi-backend-go/internal/service/report"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	setupLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fileStorage, err := storage.NewLocalStorage(cfg.Data.Dir)
	if err != nil {
		return fmt.Errorf("initialize local storage: %w", err)
	}

	var workforceRepo workforce.Repository
	switch cfg.Data.Source {
	case config.DataSourcePostgres:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
			MaxConns: cfg.Database.MaxConns,
			MinConns: cfg.Database.MinConns,
		})
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer db.Close()
		workforceRepo = postgresql.NewWorkforceRepository(db)
	default:
		var opts []spreadsheet.Option
		if cfg.Data.Cache {
			opts = append(opts, spreadsheet.WithCache())
		}
		workforceRepo = spreadsheet.NewRepository(fileStorage, spreadsheet.Files{
			Employees:    cfg.Data.EmployeeFile,
			Leaves:       cfg.Data.LeaveFile,
			Sales:        cfg.Data.SalesFile,
			ReportConfig: cfg.Data.ReportConfig,
		}, opts...)
	}
	configRepo := newConfigRepository(cfg, fileStorage)

	metricsManager := metrics.NewManager()
	hub := sse.NewHub()

	store := dataset.NewStore(workforceRepo,
		dataset.WithRecorder(metricsManager),
		dataset.WithPublisher(hub),
	)
	if err := store.Reload(ctx); err != nil {
		// The server still starts; /status reports the dataset as not loaded
		// until a reload succeeds.
		slog.Error("Initial dataset load failed", "error", err)
	}

	dashboardSvc := dashboardService.NewDashboardService(store, reportService.NewDefaultRegistry(), configRepo,
		dashboardService.WithRecorder(metricsManager),
		dashboardService.WithDefaults(dashboardService.Defaults{
			TrailingYears: cfg.Dashboard.TrailingYears,
			GenderTarget:  cfg.Dashboard.GenderTarget,
		}),
	)

	var JWTService jwt.Service
	if cfg.AuthEnabled() {
		JWTService, err = jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
		if err != nil {
			return fmt.Errorf("initialize jwt: %w", err)
		}
	} else {
		slog.Warn("JWT_SECRET_KEY is empty, API authentication is disabled")
	}

	scheduler := cron.NewScheduler(ctx)
	cron.RegisterDatasetJobs(scheduler, store, cfg.Data.ReloadInterval)
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(cfg, JWTService, metricsManager, appHTTP.Handlers{
		Dashboard: appHTTP.NewDashboardHandler(dashboardSvc, cfg.Dashboard.DefaultReport),
		Data:      appHTTP.NewDataHandler(dashboardSvc),
		Events:    appHTTP.NewEventsHandler(hub, JWTService),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr, "data_source", cfg.Data.Source)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	hub.Broadcast(sse.Event{Event: sse.EventShutdown})
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func setupLogger(cfg *config.Config) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.App.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).With(
		slog.String("app", cfg.App.Name),
		slog.String("version", cfg.App.Version),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)
}

// newConfigRepository reads report configuration from YAML when the
// configured file has a YAML extension, otherwise from a workbook.
func newConfigRepository(cfg *config.Config, fileStorage storage.FileStorage) report.ConfigRepository {
	switch strings.ToLower(filepath.Ext(cfg.Data.ReportConfig)) {
	case ".yaml", ".yml":
		return yamlconfig.NewRepository(cfg.SourcePath(cfg.Data.ReportConfig))
	}
	return spreadsheet.NewRepository(fileStorage, spreadsheet.Files{ReportConfig: cfg.Data.ReportConfig})
}
