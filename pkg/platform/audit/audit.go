// Package audit defines the audit event model and publisher contract for
// security-relevant operations (admin config writes, quota resets, fleet
// sweeps).
package audit

import (
	"context"
	"log/slog"
	"time"

	"gatehouse/pkg/requestcontext"
)

// Event is a single audit record.
type Event struct {
	Action     string         `json:"action"`
	ActorID    string         `json:"actor_id,omitempty"`
	TargetID   string         `json:"target_id,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// Publisher emits audit events. Implementations must be safe for concurrent use.
type Publisher interface {
	Emit(ctx context.Context, event Event) error
}

// Log records an audit event to both the structured logger and the publisher,
// if either is configured. Publisher failures are logged, never propagated:
// audit must not fail the underlying operation.
func Log(ctx context.Context, logger *slog.Logger, publisher Publisher, action string, attrs ...any) {
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attrs = append(attrs, "request_id", requestID)
	}
	args := append(attrs, "event", action, "log_type", "audit")

	if logger != nil {
		logger.InfoContext(ctx, action, args...)
	}

	if publisher == nil {
		return
	}
	event := Event{
		Action:     action,
		ActorID:    requestcontext.IdentityID(ctx),
		OccurredAt: requestcontext.Now(ctx),
	}
	if err := publisher.Emit(ctx, event); err != nil && logger != nil {
		logger.WarnContext(ctx, "failed to emit audit event", "event", action, "error", err)
	}
}
