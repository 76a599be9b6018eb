package control

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pawsuite/notify/internal/core/config"
	"github.com/pawsuite/notify/internal/core/domain"
	"github.com/pawsuite/notify/internal/core/worker"
	"github.com/pawsuite/notify/internal/health"
	"github.com/pawsuite/notify/internal/infra/provider"
	redisq "github.com/pawsuite/notify/internal/infra/redis"
	"github.com/pawsuite/notify/internal/infra/storage"
	"github.com/pawsuite/notify/internal/infra/storage/memory"
	"github.com/pawsuite/notify/internal/infra/storage/postgres"
	"github.com/pawsuite/notify/internal/notify/dispatch"
	"github.com/pawsuite/notify/internal/notify/metrics"
	"github.com/pawsuite/notify/internal/notify/retry"
	"github.com/pawsuite/notify/internal/notify/waitlist"
)

// Config holds the application configuration.
type Config struct {
	Port     int
	Database postgres.Config
	Redis    redisq.Config
	Provider config.ProviderConfig
	Retry    config.RetryConfig
	Waitlist config.WaitlistConfig
}

// App wires the notification core to its infrastructure and owns the
// periodic sweeps the core itself deliberately does not run inline.
type App struct {
	cfg          Config
	db           *postgres.DB
	queue        *redisq.Queue
	dispatcher   *dispatch.Dispatcher
	waitlist     *waitlist.Processor
	retrySweeper *worker.RetrySweeper
	offerSweeper *worker.OfferSweeper
	healthServer *health.Server
	log          *slog.Logger
}

// New creates an App with all dependencies initialized.
func New(cfg Config) (*App, error) {
	log := slog.Default()

	// 1. Storage
	var (
		waitRepo storage.WaitlistRepository
		cardRepo storage.ReportCardRepository
		logRepo  storage.NotificationLogRepository
		db       *postgres.DB
	)

	if cfg.Database.URL != "" {
		var err error
		db, err = postgres.NewDB(context.Background(), cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to init db: %w", err)
		}
		if err := db.Migrate("migrations"); err != nil {
			return nil, err
		}

		waitRepo = postgres.NewWaitlistRepo(db)
		cardRepo = postgres.NewReportCardRepo(db)
		logRepo = postgres.NewNotificationLogRepo(db)
		log.Info("Using PostgreSQL storage")
	} else {
		store := memory.NewMemoryStorage()
		waitRepo = memory.NewWaitlistRepo(store)
		cardRepo = memory.NewReportCardRepo(store)
		logRepo = memory.NewNotificationLogRepo(store)
		log.Info("Using memory storage")
	}

	// 2. Send capability
	var sender dispatch.Sender
	if cfg.Provider.Endpoint != "" {
		sender = provider.NewHTTPSender(cfg.Provider.Endpoint, cfg.Provider.Timeout)
		log.Info("Using HTTP provider", "endpoint", cfg.Provider.Endpoint)
	} else {
		sender = provider.NewLogSender(log)
		log.Info("No provider endpoint configured, using log sender")
	}

	// 3. Core components
	dispatcher := dispatch.NewDispatcher(sender, cardRepo, logRepo, log)
	wl := waitlist.NewProcessor(waitRepo, sender, waitlist.Config{
		OfferWindow:  cfg.Waitlist.OfferWindow,
		ClaimBaseURL: cfg.Waitlist.ClaimBaseURL,
	}, log)

	// 4. Health monitor
	monitor := health.NewMonitor()
	if db != nil {
		monitor.Register("database", health.StatusCritical, db.Health)
	}

	// 5. Retry queue and sweepers
	var (
		queue        *redisq.Queue
		retrySweeper *worker.RetrySweeper
	)
	if cfg.Redis.URL != "" {
		var err error
		queue, err = redisq.NewQueue(cfg.Redis)
		if err != nil {
			log.Warn("Failed to connect to Redis, retry sweeps disabled", "error", err)
			queue = nil
		} else {
			monitor.Register("retry_queue", health.StatusDegraded, queue.Health)
			policy := retry.Policy{
				BaseDelay:    cfg.Retry.BaseDelay,
				MaxDelay:     cfg.Retry.MaxDelay,
				JitterFactor: cfg.Retry.JitterFactor,
				MaxRetries:   cfg.Retry.MaxRetries,
			}
			retrySweeper = worker.NewRetrySweeper(queue, dispatcher, policy, cfg.Retry.PollInterval, log)
		}
	}

	offerSweeper := worker.NewOfferSweeper(waitRepo, wl, cfg.Waitlist.SweepInterval, log)
	healthServer := health.NewServer(monitor, cfg.Port)

	return &App{
		cfg:          cfg,
		db:           db,
		queue:        queue,
		dispatcher:   dispatcher,
		waitlist:     wl,
		retrySweeper: retrySweeper,
		offerSweeper: offerSweeper,
		healthServer: healthServer,
		log:          log,
	}, nil
}

// Dispatcher exposes the trigger entry points to embedding callers.
func (a *App) Dispatcher() *dispatch.Dispatcher { return a.dispatcher }

// Waitlist exposes the cascade processor to embedding callers.
func (a *App) Waitlist() *waitlist.Processor { return a.waitlist }

// ScheduleRetry enqueues the first retry for a failed trigger.
func (a *App) ScheduleRetry(ctx context.Context, event domain.EventType, payload any) error {
	if a.retrySweeper == nil {
		return errors.New("retry queue not configured")
	}
	return a.retrySweeper.ScheduleRetry(ctx, event, payload, 0)
}

// Start starts the sweeps and the health server.
func (a *App) Start(ctx context.Context) error {
	go func() {
		if err := a.healthServer.Start(); err != nil {
			a.log.Error("Health server failed", "error", err)
		}
	}()

	if a.retrySweeper != nil {
		a.log.Info("Starting retry sweeper", "interval", a.cfg.Retry.PollInterval)
		go a.retrySweeper.Start(ctx)
	}

	a.log.Info("Starting offer sweeper", "interval", a.cfg.Waitlist.SweepInterval)
	go a.offerSweeper.Start(ctx)

	if a.queue != nil {
		go a.runQueueDepthUpdater(ctx)
	}

	return nil
}

// Stop stops the app.
func (a *App) Stop(ctx context.Context) error {
	a.log.Info("Stopping notify service...")

	if a.queue != nil {
		if err := a.queue.Close(); err != nil {
			a.log.Warn("Failed to close Redis", "error", err)
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.log.Warn("Failed to close database", "error", err)
		}
	}

	return a.healthServer.Stop(ctx)
}

func (a *App) runQueueDepthUpdater(ctx context.Context) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			depth, err := a.queue.Depth(ctx)
			if err != nil {
				a.log.Debug("failed to read retry queue depth", "error", err)
				continue
			}
			metrics.RetryQueueDepth.Set(float64(depth))
		}
	}
}
