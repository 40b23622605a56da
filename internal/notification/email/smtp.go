package email

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"time"

	gomail "github.com/wneessen/go-mail"

	"github.com/mariuserasmus/SnowSpoiledGifts-sub000/platform/config"
)

// SMTPSender implements Sender using a direct SMTP connection via go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// NewSMTPSender creates an SMTPSender from the mail configuration.
func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	return &SMTPSender{
		host:      cfg.GetSMTPHost(),
		port:      cfg.GetSMTPPort(),
		username:  cfg.GetSMTPUsername(),
		password:  cfg.GetSMTPPassword(),
		fromName:  cfg.GetEmailFromName(),
		fromEmail: cfg.GetEmailFromAddress(),
	}
}

var _ Sender = (*SMTPSender)(nil)

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string, attachments ...Attachment) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	for _, att := range attachments {
		msg.AttachReader(att.FileName, bytes.NewReader(att.Content))
	}

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

// SendOrderConfirmation sends the checkout confirmation, optionally with
// the invoice attached.
func (s *SMTPSender) SendOrderConfirmation(ctx context.Context, toEmail, orderNumber string, totalCents int64, attachments ...Attachment) error {
	content, err := render(emailData{
		Heading: "Thank you for your order",
		Paragraphs: []string{
			fmt.Sprintf("We received your order %s.", orderNumber),
			fmt.Sprintf("Order total: %s.", formatCurrencyZAR(totalCents)),
			"We will be in touch when it ships.",
		},
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, fmt.Sprintf(subjectOrderConfirmationFmt, orderNumber), content, attachments...)
}

// SendQuoteReady tells the requester their quote is priced and waiting in
// their cart.
func (s *SMTPSender) SendQuoteReady(ctx context.Context, toEmail, quoteReference string, priceCents int64) error {
	content, err := render(emailData{
		Heading: "Your quote is ready",
		Paragraphs: []string{
			fmt.Sprintf("Your quote %s has been priced at %s.", quoteReference, formatCurrencyZAR(priceCents)),
			"Sign in to find it in your cart and complete checkout.",
		},
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, fmt.Sprintf(subjectQuoteReadyFmt, quoteReference), content)
}
