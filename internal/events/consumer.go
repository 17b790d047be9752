package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/interview-session-service/internal/metrics"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

const sessionEventsHandler = "session_events"

// SessionEventHandler processes one decoded session event. Returning an error
// nacks the message.
type SessionEventHandler func(ctx context.Context, event SessionEvent) error

// NewSessionEventRouter routes session events from subscriber to handler.
// Payloads that are not session events are logged and acked so they are not
// redelivered forever.
func NewSessionEventRouter(subscriber message.Subscriber, topic string, handler SessionEventHandler, logger *slog.Logger) (*message.Router, error) {
	router, err := message.NewRouter(message.RouterConfig{}, watermill.NewSlogLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create session event router: %w", err)
	}

	router.AddNoPublisherHandler(sessionEventsHandler, topic, subscriber, func(msg *message.Message) error {
		var event SessionEvent
		if err := json.Unmarshal(msg.Payload, &event); err != nil {
			logger.Warn("Dropping malformed session event",
				"message_uuid", msg.UUID,
				"error", err)
			return nil
		}
		return handler(msg.Context(), event)
	})

	return router, nil
}

// AuditSessionEvent logs each lifecycle event and counts it by type
func AuditSessionEvent(logger *slog.Logger) SessionEventHandler {
	return func(ctx context.Context, event SessionEvent) error {
		logger.InfoContext(ctx, "Session event",
			"event_id", event.ID,
			"event_type", event.Type,
			"session_id", event.Data.SessionID,
			"interview_id", event.Data.InterviewID,
			"phase", event.Data.Phase,
			"remaining_seconds", event.Data.RemainingSeconds)
		metrics.EventConsumed(string(event.Type))
		return nil
	}
}
