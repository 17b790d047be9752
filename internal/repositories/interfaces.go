package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/SAP-F-2025/interview-session-service/internal/models"
)

var ErrAttemptNotFound = errors.New("attempt record not found")

// ===== SHARED FILTER STRUCTS =====

type AttemptFilters struct {
	InterviewID *int              `json:"interview_id" form:"interview_id"`
	SessionID   string            `json:"session_id" form:"session_id"`
	EndReason   *models.EndReason `json:"end_reason" form:"end_reason"`
	DateFrom    *time.Time        `json:"date_from" form:"date_from" time_format:"2006-01-02" time_utc:"1"`
	DateTo      *time.Time        `json:"date_to" form:"date_to" time_format:"2006-01-02" time_utc:"1"`
	Limit       int               `json:"limit" form:"limit" validate:"omitempty,min=1,max=500"`
	Offset      int               `json:"offset" form:"offset" validate:"omitempty,min=0"`
	SortBy      string            `json:"sort_by" form:"sort_by"`       // "finished_at", "accuracy", "score", "time_spent"
	SortOrder   string            `json:"sort_order" form:"sort_order"` // "asc", "desc"
}

// ===== REPOSITORY INTERFACES =====

// AttemptRepository stores the outcome of finished mock interview sessions
type AttemptRepository interface {
	// Save inserts the record or, when the attempt id exists, refreshes its outcome
	Save(ctx context.Context, record *models.AttemptRecord) error
	GetByAttemptID(ctx context.Context, attemptID string) (*models.AttemptRecord, error)
	List(ctx context.Context, filters AttemptFilters) ([]*models.AttemptRecord, int64, error)
	StatsByInterview(ctx context.Context, interviewID int) (*models.InterviewStats, error)
}
