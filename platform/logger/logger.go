// Package logger provides structured logging infrastructure for the application.
// This is part of the platform layer and contains no business logic.
package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

type contextKey string

const (
	// RequestIDKey is the context key for request ID.
	RequestIDKey contextKey = "request_id"
	// UserIDKey is the context key for user ID.
	UserIDKey contextKey = "user_id"
)

// Logger wraps slog.Logger for structured logging.
type Logger struct {
	*slog.Logger
}

// New creates a logger based on environment: text in development, JSON otherwise.
func New(env string) *Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	var handler slog.Handler
	if strings.EqualFold(env, "development") {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return &Logger{Logger: slog.New(handler)}
}

// WithContext returns a logger with request_id and user_id extracted from context.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}

	out := l
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok && requestID != "" {
		out = &Logger{Logger: out.With(slog.String("request_id", requestID))}
	}
	if userID, ok := ctx.Value(UserIDKey).(string); ok && userID != "" {
		out = &Logger{Logger: out.With(slog.String("user_id", userID))}
	}
	return out
}

// HTTPRequest logs an HTTP request with timing.
func (l *Logger) HTTPRequest(method, path string, status int, latencyMs float64, clientIP string) {
	l.Info("http_request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.Float64("latency_ms", latencyMs),
		slog.String("client_ip", clientIP),
	)
}

// OrderPlaced logs a successful checkout.
func (l *Logger) OrderPlaced(orderNumber, userID string, totalCents int64, lineCount int) {
	l.Info("order_placed",
		slog.String("order_number", orderNumber),
		slog.String("user_id", userID),
		slog.Int64("total_cents", totalCents),
		slog.Int("lines", lineCount),
	)
}

// StockAdjusted logs a stock movement.
func (l *Logger) StockAdjusted(productID string, delta, newQuantity int, reason string) {
	l.Info("stock_adjusted",
		slog.String("product_id", productID),
		slog.Int("delta", delta),
		slog.Int("new_quantity", newQuantity),
		slog.String("reason", reason),
	)
}

// LowStock warns when a product drops to or below its threshold.
func (l *Logger) LowStock(productID string, quantity, threshold int) {
	l.Warn("low_stock",
		slog.String("product_id", productID),
		slog.Int("quantity", quantity),
		slog.Int("threshold", threshold),
	)
}

// QuoteConverted logs a quote-to-cart conversion.
func (l *Logger) QuoteConverted(quoteType, quoteID string, accountCreated bool) {
	l.Info("quote_converted",
		slog.String("quote_type", quoteType),
		slog.String("quote_id", quoteID),
		slog.Bool("account_created", accountCreated),
	)
}

// NotificationFailed warns about a failed delivery attempt. Delivery failures
// never roll back the operation that triggered them.
func (l *Logger) NotificationFailed(kind, recipient string, err error) {
	l.Warn("notification_failed",
		slog.String("kind", kind),
		slog.String("recipient", recipient),
		slog.String("error", err.Error()),
	)
}

// DatabaseError logs a database error.
func (l *Logger) DatabaseError(operation string, err error) {
	l.Error("database_error",
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
}

// RateLimitExceeded logs a rate limit rejection.
func (l *Logger) RateLimitExceeded(clientIP, path string) {
	l.Warn("rate_limit_exceeded",
		slog.String("client_ip", clientIP),
		slog.String("path", path),
	)
}
