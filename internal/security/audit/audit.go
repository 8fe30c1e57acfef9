package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/rentalconnect/rentalconnect/internal/infrastructure/logger"
)

// Status values recorded with each action
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
	StatusDenied  = "denied"
)

// Logger writes the audit trail of state-changing operations
type Logger struct {
	logger *slog.Logger
}

func NewLogger(log *slog.Logger) *Logger {
	if log == nil {
		log = slog.Default()
	}
	return &Logger{logger: log.With(slog.String("component", "audit"))}
}

func (al *Logger) LogAction(ctx context.Context, accountID, action, resource, resourceID, status, details string) {
	al.logger.Info("audit",
		slog.String("action", action),
		slog.String("resource", resource),
		slog.String("resource_id", resourceID),
		slog.String("account_id", accountID),
		slog.String("status", status),
		slog.String("details", details),
		slog.String("request_id", logger.RequestIDFromContext(ctx)),
		slog.Time("timestamp", time.Now()),
	)
}

// LogListing records a listing create, update or delete
func (al *Logger) LogListing(ctx context.Context, accountID, action, listingID, status, details string) {
	al.LogAction(ctx, accountID, action, "property", listingID, status, details)
}

// LogBookmark records a saved-property add or remove
func (al *Logger) LogBookmark(ctx context.Context, accountID, action, listingID, status string) {
	al.LogAction(ctx, accountID, action, "saved_property", listingID, status, "")
}

// LogMessage records a message send or read transition
func (al *Logger) LogMessage(ctx context.Context, accountID, action, messageID, status string) {
	al.LogAction(ctx, accountID, action, "message", messageID, status, "")
}

// LogDenied records a rejected authentication or authorization attempt
func (al *Logger) LogDenied(ctx context.Context, accountID, reason string) {
	al.LogAction(ctx, accountID, "access_denied", "api", "", StatusDenied, reason)
}
