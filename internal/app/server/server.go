package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"pts/internal/domain/audit"
	"pts/internal/domain/calc"
	"pts/internal/domain/eligibility"
	"pts/internal/domain/notifications"
	"pts/internal/domain/payroll"
	"pts/internal/domain/reports"
	"pts/internal/domain/request"
	"pts/internal/platform/config"
	"pts/internal/platform/crypto"
	"pts/internal/platform/db"
	"pts/internal/platform/email"
	"pts/internal/platform/jobs"
	"pts/internal/platform/lock"
	"pts/internal/platform/logger"
	"pts/internal/platform/metrics"
	audithandler "pts/internal/transport/http/handlers/audit"
	authhandler "pts/internal/transport/http/handlers/auth"
	eligibilityhandler "pts/internal/transport/http/handlers/eligibility"
	jobshandler "pts/internal/transport/http/handlers/jobs"
	notificationshandler "pts/internal/transport/http/handlers/notifications"
	payrollhandler "pts/internal/transport/http/handlers/payroll"
	reportshandler "pts/internal/transport/http/handlers/reports"
	requestshandler "pts/internal/transport/http/handlers/requests"
	"pts/internal/transport/http/middleware"
)

type App struct {
	Config  config.Config
	Log     *zap.Logger
	DB      *pgxpool.Pool
	Redis   *redis.Client
	Metrics *metrics.Collector
	Jobs    *jobs.Service
	Router  http.Handler
}

// New connects the backing stores, prepares the schema and wires every service behind the router.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	zap.ReplaceGlobals(log)

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	app := &App{Config: cfg, Log: log, DB: pool, Metrics: metrics.New()}

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir, log); err != nil {
			app.Close()
			return nil, fmt.Errorf("migrations: %w", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool); err != nil {
			app.Close()
			return nil, fmt.Errorf("seed: %w", err)
		}
	}

	var locker jobs.Locker
	if cfg.RedisAddr != "" {
		app.Redis = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := app.Redis.Ping(ctx).Err(); err != nil {
			app.Close()
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		locker = lock.New(app.Redis, log)
	}

	sealer, err := crypto.New(cfg.DataEncryptionKey)
	if err != nil {
		app.Close()
		return nil, err
	}
	if !sealer.Configured() {
		log.Warn("DATA_ENCRYPTION_KEY not set; signature snapshots are stored unencrypted")
	}

	auditService := audit.New(pool)
	calcStore := calc.NewStore(pool)
	calculator := calc.NewCalculator(calcStore, calcStore, calc.Options{
		LifetimeLicenseKeywords: cfg.LifetimeLicenseKeywords,
		DefaultVacationQuota:    decimal.NewFromFloat(cfg.DefaultVacationQuota),
		RetroLookbackMonths:     cfg.RetroLookbackMonths,
	}, log.Named("calc"))
	payrollService := payroll.NewService(payroll.NewStore(pool, log), calculator, auditService, app.Metrics, log.Named("payroll"))
	eligibilityService := eligibility.NewService(eligibility.NewStore(pool), log.Named("eligibility"))
	notificationService := notifications.New(notifications.NewStore(pool), email.New(cfg, log), log.Named("notifications"))
	requestService := request.NewService(request.NewStore(pool, log), eligibilityService, log.Named("request"),
		request.WithNotifier(notificationService),
		request.WithSealer(sealer),
		request.WithObserver(app.Metrics))
	reportService := reports.NewService(reports.NewStore(pool), payrollService, cfg.ReportFontPath, log.Named("reports"))
	app.Jobs = jobs.New(jobs.NewStore(pool), payrollService, locker, app.Metrics, jobs.Options{
		RecalcInterval: cfg.RecalcInterval,
		LockTTL:        cfg.RecalcLockTTL,
	}, log.Named("jobs"))

	heavy := middleware.RateLimit(10, time.Minute, middleware.WithLogger(log))

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(log, app.Metrics))
	router.Use(chimw.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret, log))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Get("/readyz", app.handleReady)
	router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(app.Metrics.Snapshot()); err != nil {
			log.Warn("metrics encode failed", zap.Error(err))
		}
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		authhandler.NewHandler(cfg.JWTSecret, log).RegisterRoutes(r)
		requestshandler.NewHandler(requestService, heavy, log).RegisterRoutes(r)
		payrollhandler.NewHandler(payrollService, reportService, calculator, heavy, log).RegisterRoutes(r)
		eligibilityhandler.NewHandler(eligibilityService, log).RegisterRoutes(r)
		notificationshandler.NewHandler(notificationService, log).RegisterRoutes(r)
		audithandler.NewHandler(auditService, log).RegisterRoutes(r)
		reportshandler.NewHandler(reportService, log).RegisterRoutes(r)
		jobshandler.NewHandler(app.Jobs, heavy, log).RegisterRoutes(r)
	})

	app.Router = router
	return app, nil
}

func (a *App) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := a.DB.Ping(ctx); err != nil {
		http.Error(w, "db not ready", http.StatusServiceUnavailable)
		return
	}
	if a.Redis != nil {
		if err := a.Redis.Ping(ctx).Err(); err != nil {
			http.Error(w, "redis not ready", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (a *App) Close() {
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.Log.Warn("redis close failed", zap.Error(err))
		}
	}
	if a.DB != nil {
		a.DB.Close()
	}
	_ = a.Log.Sync()
}

// Run serves until SIGINT or SIGTERM, then drains in-flight requests.
func Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := New(ctx, config.Load())
	if err != nil {
		return err
	}
	defer app.Close()

	app.Jobs.Start(ctx)

	srv := &http.Server{
		Addr:              app.Config.Addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		app.Log.Info("PTS server listening", zap.String("addr", app.Config.Addr), zap.String("env", app.Config.Environment))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	app.Log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
