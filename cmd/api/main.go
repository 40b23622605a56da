package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/adapters"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/cart"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/catalog"
	apphttp "github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/http"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/http/router"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/notification"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/notification/dispatch"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/notification/email"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/notification/outbox"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/orders"
	ordersvc "github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/orders/service"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/pdf"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/quotes"
	quotesvc "github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/quotes/service"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/stock"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/storage"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/users"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/migrations"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/platform/config"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/platform/db"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/platform/logger"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/platform/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, migrations.Embed)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Shared validator instance for dependency injection
	val := validator.New()

	// Storage service for quote images and invoices (MinIO)
	store, err := storage.NewMinIOStore(cfg)
	if err != nil {
		log.Error("failed to initialize storage service", "error", err)
		panic("failed to initialize storage service: " + err.Error())
	}
	ensureBucket(ctx, log, store, "quote-uploads", cfg.GetMinioBucketQuoteUploads())
	ensureBucket(ctx, log, store, "quote-messages", cfg.GetMinioBucketQuoteMessages())
	ensureBucket(ctx, log, store, "invoices", cfg.GetMinioBucketInvoices())
	log.Info(
		"storage service initialized",
		"quoteUploadsBucket", cfg.GetMinioBucketQuoteUploads(),
		"quoteMessagesBucket", cfg.GetMinioBucketQuoteMessages(),
		"invoicesBucket", cfg.GetMinioBucketInvoices(),
	)

	var sender email.Sender
	if cfg.IsEmailEnabled() {
		sender = email.NewSMTPSender(cfg)
		log.Info("smtp sender initialized", "host", cfg.GetSMTPHost())
	} else {
		sender = email.NoopSender{}
		log.Warn("email disabled; notifications are logged only")
	}

	// Notification outbox and asynq dispatcher
	outboxRepo := outbox.New(pool)
	dispatchClient, closeDispatch := initDispatchClient(cfg, log)
	if closeDispatch != nil {
		defer closeDispatch()
	}

	var enqueuer notification.TaskEnqueuer
	if dispatchClient != nil {
		enqueuer = dispatchClient
	}
	notifier := notification.NewNotifier(outboxRepo, enqueuer, log)

	if dispatchClient != nil {
		worker, err := dispatch.NewWorker(cfg, outboxRepo, sender, log)
		if err != nil {
			log.Error("failed to initialize notification worker", "error", err)
			panic("failed to initialize notification worker: " + err.Error())
		}
		go worker.Run(ctx)
		sweepOutbox(ctx, log, outboxRepo, dispatchClient)
	}

	// Gotenberg invoice generator
	var invoices ordersvc.InvoiceGenerator
	if cfg.IsGotenbergEnabled() {
		invoices = pdf.NewInvoiceGenerator(
			pdf.NewGotenbergClient(cfg.GetGotenbergURL()),
			store,
			cfg.GetMinioBucketInvoices(),
		)
		log.Info("gotenberg invoice generator initialized", "url", cfg.GetGotenbergURL())
	} else {
		log.Warn("GOTENBERG_URL not configured; invoice generation disabled")
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	catalogModule := catalog.NewModule(pool, val, log)

	productChecker := adapters.NewCartProductChecker(catalogModule.Repository())
	cartModule := cart.NewModule(pool, productChecker, val, log)

	usersModule := users.NewModule(pool, cartModule.Service(), cfg, val, log)
	stockModule := stock.NewModule(pool, val, log)

	imageFinder := quotesvc.NewStorageImageFinder(
		store,
		cfg.GetMinioBucketQuoteUploads(),
		cfg.GetMinioBucketQuoteMessages(),
	)
	quotesModule := quotes.NewModule(
		pool,
		adapters.NewQuoteAccountProvisioner(usersModule.Service()),
		adapters.NewQuoteCatalogWriter(catalogModule.Repository()),
		adapters.NewQuoteCartWriter(cartModule.Repository()),
		imageFinder,
		notifier,
		val,
		log,
	)

	ordersModule := orders.NewModule(
		pool,
		adapters.NewOrderCartStore(cartModule.Repository()),
		adapters.NewOrderStockLedger(stockModule.Service()),
		adapters.NewOrderQuoteStamper(quotesModule.Repository()),
		adapters.NewOrderEmailReader(usersModule.Repository()),
		notifier,
		invoices,
		val,
		log,
	)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config: cfg,
		Logger: log,
		Health: db.NewPoolAdapter(pool),
		Modules: []apphttp.Module{
			catalogModule,
			cartModule,
			usersModule,
			stockModule,
			quotesModule,
			ordersModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

// ensureBucket wraps the retry logic for verifying a MinIO bucket exists.
func ensureBucket(ctx context.Context, log *logger.Logger, store storage.ObjectStore, name, bucket string) {
	if err := withRetry(ctx, log, "ensure "+name+" bucket", 5, 2*time.Second, func() error {
		return store.EnsureBucketExists(ctx, bucket)
	}); err != nil {
		log.Error("failed to ensure storage bucket exists", "error", err, "bucket", bucket)
		panic("failed to ensure storage bucket exists: " + err.Error())
	}
}

func initDispatchClient(cfg config.SchedulerConfig, log *logger.Logger) (*dispatch.Client, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; notification dispatch disabled")
		return nil, nil
	}

	client, err := dispatch.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize notification dispatch client", "error", err)
		return nil, nil
	}

	return client, func() {
		_ = client.Close()
	}
}

// sweepOutbox re-enqueues notifications that were recorded but never
// delivered, for example when the process died between commit and enqueue.
func sweepOutbox(ctx context.Context, log *logger.Logger, repo outbox.Repository, client *dispatch.Client) {
	entries, err := repo.ListPending(ctx, 100)
	if err != nil {
		log.Warn("outbox sweep failed", "error", err)
		return
	}

	for _, entry := range entries {
		if err := client.EnqueueOutboxDue(ctx, dispatch.OutboxDuePayload{OutboxID: entry.ID.String()}); err != nil {
			log.Warn("outbox sweep enqueue failed", "outbox_id", entry.ID.String(), "error", err)
		}
	}
	if len(entries) > 0 {
		log.Info("outbox sweep enqueued pending notifications", "count", len(entries))
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
