// Package session drives a single timed mock-interview attempt.
//
// A Session is a plain state machine: it never starts goroutines or timers.
// Time advances only through Tick, which the owner calls from whatever
// periodic source it manages. Out-of-order calls are ignored and report
// false rather than failing.
package session

import (
	"github.com/SAP-F-2025/interview-session-service/internal/models"
)

// Catalog is the read side of the question bank the controller needs.
type Catalog interface {
	Interview(id int) (models.InterviewDefinition, bool)
	ResolveQuestions(interview models.InterviewDefinition) []models.Question
}

// Session is not safe for concurrent use; callers serialize access.
type Session struct {
	catalog Catalog
	state   State
}

func New(catalog Catalog) *Session {
	return &Session{
		catalog: catalog,
		state:   newState(),
	}
}

func (s *Session) Phase() models.Phase {
	return s.state.Phase
}

// SelectInterview moves to Briefing for a known interview. Selection is only
// possible before an attempt is running.
func (s *Session) SelectInterview(id int) bool {
	if s.state.Phase != models.PhaseIdle && s.state.Phase != models.PhaseBriefing {
		return false
	}
	interview, ok := s.catalog.Interview(id)
	if !ok {
		return false
	}

	s.state.clearAttempt()
	s.state.Interview = &interview
	s.state.Phase = models.PhaseBriefing
	return true
}

// Start begins the countdown. It returns ErrNoInterviewSelected from Idle and
// a *ConfigurationError when the selected interview has no questions or an
// unusable duration; the phase stays Briefing in that case. From any other
// phase it does nothing.
func (s *Session) Start() (bool, error) {
	switch s.state.Phase {
	case models.PhaseIdle:
		return false, ErrNoInterviewSelected
	case models.PhaseBriefing:
	default:
		return false, nil
	}

	if s.state.Interview == nil {
		return false, ErrNoInterviewSelected
	}
	interview := *s.state.Interview

	minutes, err := interview.DurationMinutes()
	if err != nil {
		return false, &ConfigurationError{InterviewID: interview.ID, Reason: "unusable duration", Err: err}
	}

	questions := s.catalog.ResolveQuestions(interview)
	if len(questions) == 0 {
		return false, &ConfigurationError{InterviewID: interview.ID, Reason: "no questions"}
	}

	s.state.clearAttempt()
	s.state.Questions = questions
	s.state.Answers = make(map[int]string)
	s.state.Results = make(map[int]bool)
	s.state.TotalSeconds = minutes * 60
	s.state.RemainingSeconds = s.state.TotalSeconds
	s.state.Phase = models.PhaseRunning
	return true, nil
}

func (s *Session) Pause() bool {
	if s.state.Phase != models.PhaseRunning {
		return false
	}
	s.state.Phase = models.PhasePaused
	return true
}

func (s *Session) Resume() bool {
	if s.state.Phase != models.PhasePaused {
		return false
	}
	s.state.Phase = models.PhaseRunning
	return true
}

// Tick advances the countdown by one second while Running. Reaching zero
// finishes the attempt as timed out; further ticks are ignored.
func (s *Session) Tick() bool {
	if s.state.Phase != models.PhaseRunning || s.state.RemainingSeconds <= 0 {
		return false
	}
	s.state.RemainingSeconds--
	if s.state.RemainingSeconds == 0 {
		s.end(models.EndReasonTimedOut)
	}
	return true
}

// Next stays on the last question; only Finish or the timer end an attempt.
func (s *Session) Next() bool {
	if s.state.Phase != models.PhaseRunning || s.state.Index >= len(s.state.Questions)-1 {
		return false
	}
	s.moveTo(s.state.Index + 1)
	return true
}

func (s *Session) Previous() bool {
	if s.state.Phase != models.PhaseRunning || s.state.Index <= 0 {
		return false
	}
	s.moveTo(s.state.Index - 1)
	return true
}

func (s *Session) moveTo(index int) {
	s.state.Index = index
	s.state.RevealedHint = false
	s.state.RevealedSolution = false
}

// RecordAnswer upserts the free-text answer for a question of the attempt.
// The last write wins.
func (s *Session) RecordAnswer(questionID int, text string) bool {
	if !s.state.Phase.Active() || !s.state.hasQuestion(questionID) {
		return false
	}
	s.state.Answers[questionID] = text
	return true
}

// MarkResult records the candidate's own verdict on a question. The score is
// the number of questions currently marked correct.
func (s *Session) MarkResult(questionID int, correct bool) bool {
	if !s.state.Phase.Active() && s.state.Phase != models.PhaseFinished {
		return false
	}
	if !s.state.hasQuestion(questionID) {
		return false
	}
	s.state.Results[questionID] = correct
	s.state.recomputeScore()
	return true
}

func (s *Session) ToggleHint() bool {
	if !s.state.Phase.Active() {
		return false
	}
	q := s.state.currentQuestion()
	if q == nil || !q.HasHint() {
		return false
	}
	s.state.RevealedHint = !s.state.RevealedHint
	return true
}

func (s *Session) ToggleSolution() bool {
	if !s.state.Phase.Active() {
		return false
	}
	q := s.state.currentQuestion()
	if q == nil || !q.HasSolution() {
		return false
	}
	s.state.RevealedSolution = !s.state.RevealedSolution
	return true
}

// Finish ends a running or paused attempt regardless of time or position.
func (s *Session) Finish() bool {
	if !s.state.Phase.Active() {
		return false
	}
	s.end(models.EndReasonFinished)
	return true
}

func (s *Session) end(reason models.EndReason) {
	s.state.Phase = models.PhaseFinished
	s.state.RevealedHint = false
	s.state.RevealedSolution = false
	s.state.EndReason = &reason
}

// Retake returns a finished attempt to Briefing for the same interview.
func (s *Session) Retake() bool {
	if s.state.Phase != models.PhaseFinished || s.state.Interview == nil {
		return false
	}
	s.state.clearAttempt()
	s.state.Phase = models.PhaseBriefing
	return true
}

// Reset returns to Idle from any phase and forgets the selection.
func (s *Session) Reset() bool {
	wasIdle := s.state.Phase == models.PhaseIdle && s.state.Interview == nil
	s.state = newState()
	return !wasIdle
}

// State returns a copy of the current state; mutating it does not affect the
// session.
func (s *Session) State() State {
	out := s.state
	if s.state.Interview != nil {
		interview := *s.state.Interview
		out.Interview = &interview
	}
	out.Questions = append([]models.Question(nil), s.state.Questions...)
	out.Answers = copyAnswers(s.state.Answers)
	out.Results = copyResults(s.state.Results)
	if s.state.EndReason != nil {
		reason := *s.state.EndReason
		out.EndReason = &reason
	}
	return out
}

func (s *Session) View() models.SessionView {
	view := models.SessionView{
		Phase:            s.state.Phase,
		CurrentQuestion:  s.state.currentQuestion(),
		Index:            s.state.Index,
		Total:            len(s.state.Questions),
		RemainingSeconds: s.state.RemainingSeconds,
		TotalSeconds:     s.state.TotalSeconds,
		Score:            s.state.Score,
		Answers:          copyAnswers(s.state.Answers),
		Results:          copyResults(s.state.Results),
		RevealedHint:     s.state.RevealedHint,
		RevealedSolution: s.state.RevealedSolution,
	}
	if view.Answers == nil {
		view.Answers = map[int]string{}
	}
	if view.Results == nil {
		view.Results = map[int]bool{}
	}
	if s.state.Interview != nil {
		id := s.state.Interview.ID
		view.InterviewID = &id
	}
	if s.state.EndReason != nil {
		reason := *s.state.EndReason
		view.EndReason = &reason
	}
	return view
}

// Summary is only meaningful once the attempt has finished; ok is false before.
func (s *Session) Summary() (models.SessionSummary, bool) {
	if s.state.Phase != models.PhaseFinished || s.state.Interview == nil {
		return models.SessionSummary{}, false
	}

	total := len(s.state.Questions)
	summary := models.SessionSummary{
		InterviewID:      s.state.Interview.ID,
		InterviewTitle:   s.state.Interview.Title,
		Score:            s.state.Score,
		Total:            total,
		Accuracy:         accuracy(s.state.Score, total),
		Answered:         answeredCount(s.state.Answers),
		RemainingSeconds: s.state.RemainingSeconds,
		TotalSeconds:     s.state.TotalSeconds,
	}
	if s.state.EndReason != nil {
		summary.EndReason = *s.state.EndReason
	}
	return summary, true
}

func accuracy(score, total int) int {
	if total <= 0 {
		return 0
	}
	// round half up, integer-only
	return (score*200 + total) / (total * 2)
}

func answeredCount(answers map[int]string) int {
	n := 0
	for _, a := range answers {
		if a != "" {
			n++
		}
	}
	return n
}

func copyAnswers(in map[int]string) map[int]string {
	if in == nil {
		return nil
	}
	out := make(map[int]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func copyResults(in map[int]bool) map[int]bool {
	if in == nil {
		return nil
	}
	out := make(map[int]bool, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
