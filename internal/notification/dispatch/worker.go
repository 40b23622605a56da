package dispatch

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/notification/email"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/notification/outbox"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/platform/config"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/platform/logger"
)

// Worker consumes delivery tasks and sends the underlying notification.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	repo   outbox.Repository
	sender email.Sender
	log    *logger.Logger
}

// NewWorker creates the asynq worker for notification delivery.
func NewWorker(cfg config.SchedulerConfig, repo outbox.Repository, sender email.Sender, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL)
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 5
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server: server,
		mux:    mux,
		repo:   repo,
		sender: sender,
		log:    log,
	}

	mux.HandleFunc(TaskOutboxDue, w.handleOutboxDue)

	return w, nil
}

// Run serves tasks until the context is canceled.
func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("notification worker stopped", "error", err)
	}
}

func (w *Worker) handleOutboxDue(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseOutboxDuePayload(task)
	if err != nil {
		return err
	}

	outboxID, err := uuid.Parse(payload.OutboxID)
	if err != nil {
		return err
	}

	entry, err := w.repo.Get(ctx, outboxID)
	if err != nil {
		return err
	}
	if entry.Status == outbox.StatusSent {
		return nil
	}

	if err := w.deliver(ctx, entry); err != nil {
		w.log.NotificationFailed(entry.Kind, entry.Recipient, err)
		if markErr := w.repo.MarkFailed(ctx, entry.ID, err); markErr != nil {
			w.log.DatabaseError("mark notification failed", markErr)
		}
		// Returning the error lets asynq retry with backoff.
		return err
	}

	return w.repo.MarkSent(ctx, entry.ID)
}

func (w *Worker) deliver(ctx context.Context, entry outbox.Entry) error {
	switch entry.Kind {
	case outbox.KindOrderConfirmation:
		var p outbox.OrderConfirmationPayload
		if err := json.Unmarshal(entry.Payload, &p); err != nil {
			return fmt.Errorf("decode payload: %w", err)
		}
		return w.sender.SendOrderConfirmation(ctx, entry.Recipient, p.OrderNumber, p.TotalCents)
	case outbox.KindQuoteReady:
		var p outbox.QuoteReadyPayload
		if err := json.Unmarshal(entry.Payload, &p); err != nil {
			return fmt.Errorf("decode payload: %w", err)
		}
		return w.sender.SendQuoteReady(ctx, entry.Recipient, p.QuoteReference, p.PriceCents)
	default:
		return fmt.Errorf("unknown notification kind %q", entry.Kind)
	}
}
