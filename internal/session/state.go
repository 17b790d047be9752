package session

import "github.com/SAP-F-2025/interview-session-service/internal/models"

// State is everything one attempt mutates. A zero State is Idle.
type State struct {
	Phase            models.Phase
	Interview        *models.InterviewDefinition
	Questions        []models.Question
	Index            int
	Answers          map[int]string
	Results          map[int]bool
	Score            int
	RemainingSeconds int
	TotalSeconds     int
	RevealedHint     bool
	RevealedSolution bool
	EndReason        *models.EndReason
}

func newState() State {
	return State{Phase: models.PhaseIdle}
}

// clearAttempt drops every per-attempt field but keeps the selection.
func (s *State) clearAttempt() {
	s.Questions = nil
	s.Index = 0
	s.Answers = nil
	s.Results = nil
	s.Score = 0
	s.RemainingSeconds = 0
	s.TotalSeconds = 0
	s.RevealedHint = false
	s.RevealedSolution = false
	s.EndReason = nil
}

func (s *State) currentQuestion() *models.Question {
	if s.Index < 0 || s.Index >= len(s.Questions) {
		return nil
	}
	q := s.Questions[s.Index]
	return &q
}

func (s *State) hasQuestion(id int) bool {
	for _, q := range s.Questions {
		if q.ID == id {
			return true
		}
	}
	return false
}

func (s *State) recomputeScore() {
	score := 0
	for _, correct := range s.Results {
		if correct {
			score++
		}
	}
	s.Score = score
}
