package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/SAP-F-2025/interview-session-service/internal/events"
	"github.com/SAP-F-2025/interview-session-service/internal/metrics"
	"github.com/SAP-F-2025/interview-session-service/internal/models"
	"github.com/SAP-F-2025/interview-session-service/internal/session"
	"github.com/google/uuid"
)

// SessionService holds the live practice sessions of the process. Each
// session is driven by its own controller; the service serializes access to
// it and turns phase changes into events, metrics and history records.
type SessionService interface {
	Create(ctx context.Context, interviewID *int) (*models.LiveSession, error)
	Get(ctx context.Context, id string) (*models.LiveSession, error)
	List(ctx context.Context) []models.LiveSession
	Delete(ctx context.Context, id string) error

	SelectInterview(ctx context.Context, id string, interviewID int) (*models.SessionResult, error)
	Start(ctx context.Context, id string) (*models.SessionResult, error)
	Pause(ctx context.Context, id string) (*models.SessionResult, error)
	Resume(ctx context.Context, id string) (*models.SessionResult, error)
	Next(ctx context.Context, id string) (*models.SessionResult, error)
	Previous(ctx context.Context, id string) (*models.SessionResult, error)
	Finish(ctx context.Context, id string) (*models.SessionResult, error)
	Reset(ctx context.Context, id string) (*models.SessionResult, error)
	Retake(ctx context.Context, id string) (*models.SessionResult, error)
	ToggleHint(ctx context.Context, id string) (*models.SessionResult, error)
	ToggleSolution(ctx context.Context, id string) (*models.SessionResult, error)
	RecordAnswer(ctx context.Context, id string, questionID int, text string) (*models.SessionResult, error)
	MarkResult(ctx context.Context, id string, questionID int, correct bool) (*models.SessionResult, error)
	Summary(ctx context.Context, id string) (*models.SessionSummary, error)

	// TickAll advances every running session by one second and reports how many moved.
	TickAll(ctx context.Context) int
	// EvictExpired drops sessions untouched for longer than the TTL.
	EvictExpired(ctx context.Context, now time.Time) int
	Count() int
}

type SessionServiceConfig struct {
	TTL         time.Duration
	MaxSessions int
}

type sessionEntry struct {
	mu         sync.Mutex
	id         string
	controller *session.Session
	createdAt  time.Time
	updatedAt  time.Time

	// per attempt, set when the countdown starts
	attemptID  string
	startedAt  time.Time
	finishedAt time.Time
}

type attemptSnapshot struct {
	Summary    models.SessionSummary
	Answers    map[int]string
	StartedAt  time.Time
	FinishedAt time.Time
}

// effects are applied after the entry lock is released
type effects struct {
	events []*events.SessionEvent
	record *models.AttemptRecord
}

type sessionService struct {
	catalog   session.Catalog
	publisher events.EventPublisher
	recorder  AttemptRecorder
	metrics   metrics.Recorder
	config    SessionServiceConfig
	logger    *slog.Logger
	opLog     *ServiceLogger
	now       func() time.Time

	mu       sync.RWMutex
	sessions map[string]*sessionEntry
}

// NewSessionService wires the registry. recorder may be nil when no history
// store is configured.
func NewSessionService(
	catalog session.Catalog,
	publisher events.EventPublisher,
	recorder AttemptRecorder,
	recorderMetrics metrics.Recorder,
	config SessionServiceConfig,
	logger *slog.Logger,
) SessionService {
	if recorderMetrics == nil {
		recorderMetrics = metrics.NopRecorder{}
	}
	return &sessionService{
		catalog:   catalog,
		publisher: publisher,
		recorder:  recorder,
		metrics:   recorderMetrics,
		config:    config,
		logger:    logger,
		opLog:     NewServiceLogger(logger, LogConfig{Service: "interview-session", Component: "sessions"}),
		now:       time.Now,
		sessions:  make(map[string]*sessionEntry),
	}
}

// ===== REGISTRY =====

func (s *sessionService) Create(ctx context.Context, interviewID *int) (*models.LiveSession, error) {
	op := s.opLog.WithOperation(ctx, "create_session", "session", "")

	controller := session.New(s.catalog)
	if interviewID != nil && !controller.SelectInterview(*interviewID) {
		err := fmt.Errorf("%w: %d", ErrInterviewNotFound, *interviewID)
		op.LogResult(err)
		return nil, err
	}

	now := s.now()
	entry := &sessionEntry{
		id:         uuid.NewString(),
		controller: controller,
		createdAt:  now,
		updatedAt:  now,
	}

	s.mu.Lock()
	if s.config.MaxSessions > 0 && len(s.sessions) >= s.config.MaxSessions {
		s.mu.Unlock()
		op.LogResult(ErrSessionLimitReached)
		return nil, ErrSessionLimitReached
	}
	s.sessions[entry.id] = entry
	count := len(s.sessions)
	s.mu.Unlock()

	s.metrics.SessionsLive(count)
	op.resourceID = entry.id
	op.LogResult(nil)

	entry.mu.Lock()
	defer entry.mu.Unlock()
	live := entry.live()
	return &live, nil
}

func (s *sessionService) Get(ctx context.Context, id string) (*models.LiveSession, error) {
	entry, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	live := entry.live()
	return &live, nil
}

func (s *sessionService) List(ctx context.Context) []models.LiveSession {
	s.mu.RLock()
	entries := make([]*sessionEntry, 0, len(s.sessions))
	for _, entry := range s.sessions {
		entries = append(entries, entry)
	}
	s.mu.RUnlock()

	out := make([]models.LiveSession, 0, len(entries))
	for _, entry := range entries {
		entry.mu.Lock()
		out = append(out, entry.live())
		entry.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// Delete discards a session. A running attempt is not recorded; deleting is
// the same as walking away from it.
func (s *sessionService) Delete(ctx context.Context, id string) error {
	op := s.opLog.WithOperation(ctx, "delete_session", "session", id)

	s.mu.Lock()
	_, ok := s.sessions[id]
	if ok {
		delete(s.sessions, id)
	}
	count := len(s.sessions)
	s.mu.Unlock()

	if !ok {
		err := sessionNotFound(id)
		op.LogResult(err)
		return err
	}

	s.metrics.SessionsLive(count)
	op.LogResult(nil)
	return nil
}

func (s *sessionService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *sessionService) lookup(id string) (*sessionEntry, error) {
	s.mu.RLock()
	entry, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, sessionNotFound(id)
	}
	return entry, nil
}

// ===== COMMANDS =====

func (s *sessionService) SelectInterview(ctx context.Context, id string, interviewID int) (*models.SessionResult, error) {
	return s.apply(ctx, "select_interview", id, func(c *session.Session) (bool, error) {
		return c.SelectInterview(interviewID), nil
	})
}

func (s *sessionService) Start(ctx context.Context, id string) (*models.SessionResult, error) {
	return s.apply(ctx, "start_session", id, func(c *session.Session) (bool, error) {
		return c.Start()
	})
}

func (s *sessionService) Pause(ctx context.Context, id string) (*models.SessionResult, error) {
	return s.apply(ctx, "pause_session", id, boolCommand((*session.Session).Pause))
}

func (s *sessionService) Resume(ctx context.Context, id string) (*models.SessionResult, error) {
	return s.apply(ctx, "resume_session", id, boolCommand((*session.Session).Resume))
}

func (s *sessionService) Next(ctx context.Context, id string) (*models.SessionResult, error) {
	return s.apply(ctx, "next_question", id, boolCommand((*session.Session).Next))
}

func (s *sessionService) Previous(ctx context.Context, id string) (*models.SessionResult, error) {
	return s.apply(ctx, "previous_question", id, boolCommand((*session.Session).Previous))
}

func (s *sessionService) Finish(ctx context.Context, id string) (*models.SessionResult, error) {
	return s.apply(ctx, "finish_session", id, boolCommand((*session.Session).Finish))
}

func (s *sessionService) Reset(ctx context.Context, id string) (*models.SessionResult, error) {
	return s.apply(ctx, "reset_session", id, boolCommand((*session.Session).Reset))
}

func (s *sessionService) Retake(ctx context.Context, id string) (*models.SessionResult, error) {
	return s.apply(ctx, "retake_session", id, boolCommand((*session.Session).Retake))
}

func (s *sessionService) ToggleHint(ctx context.Context, id string) (*models.SessionResult, error) {
	return s.apply(ctx, "toggle_hint", id, boolCommand((*session.Session).ToggleHint))
}

func (s *sessionService) ToggleSolution(ctx context.Context, id string) (*models.SessionResult, error) {
	return s.apply(ctx, "toggle_solution", id, boolCommand((*session.Session).ToggleSolution))
}

func (s *sessionService) RecordAnswer(ctx context.Context, id string, questionID int, text string) (*models.SessionResult, error) {
	return s.apply(ctx, "record_answer", id, func(c *session.Session) (bool, error) {
		return c.RecordAnswer(questionID, text), nil
	})
}

func (s *sessionService) MarkResult(ctx context.Context, id string, questionID int, correct bool) (*models.SessionResult, error) {
	return s.apply(ctx, "mark_result", id, func(c *session.Session) (bool, error) {
		return c.MarkResult(questionID, correct), nil
	})
}

func (s *sessionService) Summary(ctx context.Context, id string) (*models.SessionSummary, error) {
	entry, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	summary, ok := entry.controller.Summary()
	if !ok {
		return nil, fmt.Errorf("%w: %s is %s", ErrSessionNotFinished, id, entry.controller.Phase())
	}
	return &summary, nil
}

func boolCommand(fn func(*session.Session) bool) func(*session.Session) (bool, error) {
	return func(c *session.Session) (bool, error) {
		return fn(c), nil
	}
}

// apply runs one command under the entry lock and fans out whatever the
// resulting phase change implies once the lock is released.
func (s *sessionService) apply(ctx context.Context, operation, id string, command func(*session.Session) (bool, error)) (*models.SessionResult, error) {
	op := s.opLog.WithOperation(ctx, operation, "session", id)

	entry, err := s.lookup(id)
	if err != nil {
		op.LogResult(err)
		return nil, err
	}

	entry.mu.Lock()
	before := entry.controller.Phase()
	applied, err := command(entry.controller)
	if err != nil {
		entry.mu.Unlock()
		op.LogResult(err)
		return nil, err
	}

	var fx effects
	if applied {
		entry.updatedAt = s.now()
		fx = s.transition(entry, before, operation)
	}
	result := &models.SessionResult{LiveSession: entry.live(), Applied: applied}
	entry.mu.Unlock()

	s.run(ctx, fx)
	op.LogResult(nil)
	return result, nil
}

// transition must be called with entry.mu held.
func (s *sessionService) transition(entry *sessionEntry, before models.Phase, operation string) effects {
	var fx effects
	view := entry.controller.View()
	after := view.Phase

	switch {
	case before == models.PhaseBriefing && after == models.PhaseRunning:
		entry.attemptID = uuid.NewString()
		entry.startedAt = s.now()
		if view.InterviewID != nil {
			s.metrics.SessionStarted(*view.InterviewID)
		}
		fx.events = append(fx.events, events.NewSessionEvent(events.EventSessionStarted, entry.id, view))
	case before == models.PhaseRunning && after == models.PhasePaused:
		fx.events = append(fx.events, events.NewSessionEvent(events.EventSessionPaused, entry.id, view))
	case before == models.PhasePaused && after == models.PhaseRunning:
		fx.events = append(fx.events, events.NewSessionEvent(events.EventSessionResumed, entry.id, view))
	case before.Active() && after == models.PhaseFinished:
		fx = s.finished(entry, view)
	case before == models.PhaseFinished && after == models.PhaseFinished && operation == "mark_result":
		// late self-marking on the summary screen refreshes the stored attempt
		fx.record = s.attemptRecord(entry)
	case after == models.PhaseIdle && before != models.PhaseIdle:
		entry.attemptID = ""
		fx.events = append(fx.events, events.NewSessionEvent(events.EventSessionReset, entry.id, view))
	}

	return fx
}

func (s *sessionService) finished(entry *sessionEntry, view models.SessionView) effects {
	eventType := events.EventSessionFinished
	reason := models.EndReasonFinished
	if view.EndReason != nil {
		reason = *view.EndReason
	}
	if reason == models.EndReasonTimedOut {
		eventType = events.EventSessionTimedOut
	}
	s.metrics.SessionEnded(string(reason))
	entry.finishedAt = s.now()

	return effects{
		events: []*events.SessionEvent{events.NewSessionEvent(eventType, entry.id, view)},
		record: s.attemptRecord(entry),
	}
}

func (s *sessionService) attemptRecord(entry *sessionEntry) *models.AttemptRecord {
	if s.recorder == nil || entry.attemptID == "" {
		return nil
	}
	summary, ok := entry.controller.Summary()
	if !ok {
		return nil
	}
	return newAttemptRecord(entry.attemptID, entry.id, attemptSnapshot{
		Summary:    summary,
		Answers:    entry.controller.View().Answers,
		StartedAt:  entry.startedAt,
		FinishedAt: entry.finishedAt,
	})
}

// run applies side effects. Failures are logged and never undo the session change.
func (s *sessionService) run(ctx context.Context, fx effects) {
	for _, event := range fx.events {
		if s.publisher == nil {
			break
		}
		if err := s.publisher.PublishSessionEvent(ctx, event); err != nil {
			s.logger.Warn("Failed to publish session event",
				"event_type", event.Type,
				"session_id", event.Data.SessionID,
				"error", err)
		}
	}

	if fx.record != nil {
		if err := s.recorder.RecordAttempt(ctx, fx.record); err != nil {
			s.logger.Error("Failed to record attempt",
				"attempt_id", fx.record.AttemptID,
				"session_id", fx.record.SessionID,
				"error", err)
		}
	}
}

// ===== SCHEDULED WORK =====

func (s *sessionService) TickAll(ctx context.Context) int {
	s.mu.RLock()
	entries := make([]*sessionEntry, 0, len(s.sessions))
	for _, entry := range s.sessions {
		entries = append(entries, entry)
	}
	s.mu.RUnlock()

	ticked := 0
	var pending []effects
	for _, entry := range entries {
		entry.mu.Lock()
		before := entry.controller.Phase()
		if entry.controller.Tick() {
			ticked++
			if entry.controller.Phase() != before {
				pending = append(pending, s.transition(entry, before, "tick"))
			}
		}
		entry.mu.Unlock()
	}

	for _, fx := range pending {
		s.run(ctx, fx)
	}
	s.metrics.TicksApplied(ticked)
	return ticked
}

func (s *sessionService) EvictExpired(ctx context.Context, now time.Time) int {
	if s.config.TTL <= 0 {
		return 0
	}
	cutoff := now.Add(-s.config.TTL)

	s.mu.Lock()
	evicted := 0
	for id, entry := range s.sessions {
		entry.mu.Lock()
		stale := entry.updatedAt.Before(cutoff) && entry.controller.Phase() != models.PhaseRunning
		entry.mu.Unlock()
		if stale {
			delete(s.sessions, id)
			evicted++
		}
	}
	count := len(s.sessions)
	s.mu.Unlock()

	if evicted > 0 {
		s.metrics.SessionsLive(count)
		s.logger.Info("Evicted idle sessions", "count", evicted, "remaining", count)
	}
	return evicted
}

// live must be called with e.mu held.
func (e *sessionEntry) live() models.LiveSession {
	return models.LiveSession{
		ID:        e.id,
		CreatedAt: e.createdAt,
		UpdatedAt: e.updatedAt,
		View:      e.controller.View(),
	}
}
