package email

import "context"

// NoopSender discards all messages. Used when email delivery is disabled.
type NoopSender struct{}

var _ Sender = (*NoopSender)(nil)

func (NoopSender) SendOrderConfirmation(context.Context, string, string, int64, ...Attachment) error {
	return nil
}

func (NoopSender) SendQuoteReady(context.Context, string, string, int64) error {
	return nil
}
