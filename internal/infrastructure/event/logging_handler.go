package event

import (
	"context"

	"github.com/sarafi/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// LoggingHandler writes every published domain event to the structured log.
// It subscribes as a wildcard handler and never fails.
type LoggingHandler struct {
	logger *zap.Logger
}

// NewLoggingHandler creates a new LoggingHandler
func NewLoggingHandler(logger *zap.Logger) *LoggingHandler {
	return &LoggingHandler{logger: logger.Named("domain_events")}
}

// Handle logs the event
func (h *LoggingHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.logger.Info("domain event",
		zap.String("event_type", event.EventType()),
		zap.String("event_id", event.EventID().String()),
		zap.String("aggregate_type", event.AggregateType()),
		zap.Uint64("aggregate_id", event.AggregateID()),
		zap.Time("occurred_at", event.OccurredAt()),
	)
	return nil
}

// EventTypes returns an empty slice so the handler receives all events
func (h *LoggingHandler) EventTypes() []string {
	return nil
}

var _ shared.EventHandler = (*LoggingHandler)(nil)
