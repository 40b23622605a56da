// Package notification exposes the post-commit notification facade. A
// notification failure is logged, never returned: the commerce operation
// that triggered it has already committed.
package notification

import (
	"context"

	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/notification/dispatch"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/internal/notification/outbox"
	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/platform/logger"
)

// TaskEnqueuer schedules delivery of an outbox row. Nil-safe: a nil
// dispatch client means the pending row waits for a later sweep.
type TaskEnqueuer interface {
	EnqueueOutboxDue(ctx context.Context, payload dispatch.OutboxDuePayload) error
}

// Notifier records notifications in the outbox and hands them to the
// dispatcher.
type Notifier struct {
	outbox   outbox.Repository
	enqueuer TaskEnqueuer
	log      *logger.Logger
}

// NewNotifier creates the notification facade.
func NewNotifier(repo outbox.Repository, enqueuer TaskEnqueuer, log *logger.Logger) *Notifier {
	return &Notifier{outbox: repo, enqueuer: enqueuer, log: log}
}

// OrderPlaced queues an order confirmation for the customer.
func (n *Notifier) OrderPlaced(ctx context.Context, recipient, orderNumber string, totalCents int64) {
	n.enqueue(ctx, outbox.KindOrderConfirmation, recipient, outbox.OrderConfirmationPayload{
		OrderNumber: orderNumber,
		TotalCents:  totalCents,
	})
}

// QuoteReady queues a priced-quote notification for the requester.
func (n *Notifier) QuoteReady(ctx context.Context, recipient, quoteReference string, priceCents int64) {
	n.enqueue(ctx, outbox.KindQuoteReady, recipient, outbox.QuoteReadyPayload{
		QuoteReference: quoteReference,
		PriceCents:     priceCents,
	})
}

func (n *Notifier) enqueue(ctx context.Context, kind, recipient string, payload any) {
	entry, err := n.outbox.Enqueue(ctx, kind, recipient, payload)
	if err != nil {
		n.log.NotificationFailed(kind, recipient, err)
		return
	}

	if n.enqueuer == nil {
		return
	}
	if err := n.enqueuer.EnqueueOutboxDue(ctx, dispatch.OutboxDuePayload{OutboxID: entry.ID.String()}); err != nil {
		// The row stays pending; the worker's sweep will pick it up.
		n.log.NotificationFailed(kind, recipient, err)
	}
}
