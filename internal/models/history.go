package models

import (
	"time"

	"gorm.io/datatypes"
)

// AttemptRecord stores the outcome of one finished mock interview.
type AttemptRecord struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	AttemptID      string         `json:"attempt_id" gorm:"uniqueIndex;not null;size:64"`
	SessionID      string         `json:"session_id" gorm:"index;not null;size:64"`
	InterviewID    int            `json:"interview_id" gorm:"not null;index"`
	InterviewTitle string         `json:"interview_title" gorm:"size:200"`
	Score          int            `json:"score"`
	Total          int            `json:"total"`
	Accuracy       int            `json:"accuracy"`
	Answered       int            `json:"answered"`
	Answers        datatypes.JSON `json:"answers"`
	EndReason      EndReason      `json:"end_reason" gorm:"size:20;index"`
	TimeSpent      int            `json:"time_spent"` // seconds
	StartedAt      time.Time      `json:"started_at"`
	FinishedAt     time.Time      `json:"finished_at" gorm:"index"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

func (AttemptRecord) TableName() string {
	return "attempt_records"
}

// InterviewStats aggregates finished attempts for one interview.
type InterviewStats struct {
	InterviewID     int     `json:"interview_id"`
	TotalAttempts   int64   `json:"total_attempts"`
	TimedOut        int64   `json:"timed_out"`
	AverageAccuracy float64 `json:"average_accuracy"`
	BestScore       int     `json:"best_score"`
	AverageTimeUsed float64 `json:"average_time_used"`
}
