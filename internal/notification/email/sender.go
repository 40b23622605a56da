// Package email delivers customer notifications over SMTP.
package email

import "context"

// Attachment is a file attached to an outgoing message.
type Attachment struct {
	FileName string
	Content  []byte
}

// Sender delivers rendered notifications.
type Sender interface {
	SendOrderConfirmation(ctx context.Context, toEmail, orderNumber string, totalCents int64, attachments ...Attachment) error
	SendQuoteReady(ctx context.Context, toEmail, quoteReference string, priceCents int64) error
}
