package events

import (
	"time"

	"github.com/SAP-F-2025/interview-session-service/internal/models"
	"github.com/google/uuid"
)

// EventType represents the lifecycle events of a practice session
type EventType string

const (
	EventSessionStarted  EventType = "session.started"
	EventSessionPaused   EventType = "session.paused"
	EventSessionResumed  EventType = "session.resumed"
	EventSessionFinished EventType = "session.finished"
	EventSessionTimedOut EventType = "session.timed_out"
	EventSessionReset    EventType = "session.reset"
)

const (
	eventSource  = "interview-session-service"
	eventVersion = "1.0"
)

// SessionEvent is the envelope published for every lifecycle change
type SessionEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      SessionEventData       `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

type SessionEventData struct {
	SessionID        string            `json:"session_id"`
	InterviewID      int               `json:"interview_id"`
	Phase            models.Phase      `json:"phase"`
	RemainingSeconds int               `json:"remaining_seconds"`
	TotalSeconds     int               `json:"total_seconds"`
	Score            int               `json:"score"`
	Total            int               `json:"total"`
	EndReason        *models.EndReason `json:"end_reason,omitempty"`
}

// NewSessionEvent builds an event from the session view at the moment of the change.
func NewSessionEvent(eventType EventType, sessionID string, view models.SessionView) *SessionEvent {
	data := SessionEventData{
		SessionID:        sessionID,
		Phase:            view.Phase,
		RemainingSeconds: view.RemainingSeconds,
		TotalSeconds:     view.TotalSeconds,
		Score:            view.Score,
		Total:            view.Total,
		EndReason:        view.EndReason,
	}
	if view.InterviewID != nil {
		data.InterviewID = *view.InterviewID
	}

	return &SessionEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Source:    eventSource,
		Version:   eventVersion,
		Data:      data,
	}
}
