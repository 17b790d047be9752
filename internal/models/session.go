package models

import "time"

type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseBriefing Phase = "briefing"
	PhaseRunning  Phase = "running"
	PhasePaused   Phase = "paused"
	PhaseFinished Phase = "finished"
)

// Active reports whether the countdown belongs to a live attempt.
func (p Phase) Active() bool {
	return p == PhaseRunning || p == PhasePaused
}

type EndReason string

const (
	EndReasonFinished EndReason = "finished"
	EndReasonTimedOut EndReason = "timed_out"
)

// SessionView is the read-only projection handed to the presentation layer.
type SessionView struct {
	Phase            Phase          `json:"phase"`
	InterviewID      *int           `json:"interview_id,omitempty"`
	CurrentQuestion  *Question      `json:"current_question,omitempty"`
	Index            int            `json:"index"`
	Total            int            `json:"total"`
	RemainingSeconds int            `json:"remaining_seconds"`
	TotalSeconds     int            `json:"total_seconds"`
	Score            int            `json:"score"`
	Answers          map[int]string `json:"answers"`
	Results          map[int]bool   `json:"results"`
	RevealedHint     bool           `json:"revealed_hint"`
	RevealedSolution bool           `json:"revealed_solution"`
	EndReason        *EndReason     `json:"end_reason,omitempty"`
}

// SessionSummary backs the completion screen.
type SessionSummary struct {
	InterviewID      int       `json:"interview_id"`
	InterviewTitle   string    `json:"interview_title"`
	Score            int       `json:"score"`
	Total            int       `json:"total"`
	Accuracy         int       `json:"accuracy"`
	Answered         int       `json:"answered"`
	RemainingSeconds int       `json:"remaining_seconds"`
	TotalSeconds     int       `json:"total_seconds"`
	EndReason        EndReason `json:"end_reason,omitempty"`
}

// TimeSpent is the elapsed countdown in seconds.
func (s SessionSummary) TimeSpent() int {
	spent := s.TotalSeconds - s.RemainingSeconds
	if spent < 0 {
		return 0
	}
	return spent
}

// LiveSession pairs a view with its registry metadata.
type LiveSession struct {
	ID        string      `json:"id"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
	View      SessionView `json:"view"`
}

// SessionResult is returned by every session command. Applied is false when
// the command was not valid in the current phase and nothing changed.
type SessionResult struct {
	LiveSession
	Applied bool `json:"applied"`
}
