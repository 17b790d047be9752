package services

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/SAP-F-2025/interview-session-service/internal/catalog"
	"github.com/SAP-F-2025/interview-session-service/internal/models"
	"github.com/stretchr/testify/mock"
)

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testCatalog() *catalog.Catalog {
	return catalog.New(models.Bank{
		MockInterviews: []models.InterviewDefinition{
			{ID: 1, Title: "Frontend", Difficulty: models.DifficultyEasy, Duration: "30 minutes", QuestionIDs: []int{10, 20}},
			{ID: 2, Title: "Sprint", Difficulty: models.DifficultyMedium, Duration: "1 minute", QuestionIDs: []int{10}},
			{ID: 3, Title: "Empty", Difficulty: models.DifficultyHard, Duration: "20 minutes", QuestionIDs: []int{}},
		},
		PracticeQuestions: []models.Question{
			{ID: 10, Title: "Reverse", Description: "d", Hint: strPtr("ends"), Difficulty: models.DifficultyEasy, Topic: "strings"},
			{ID: 20, Title: "Two Sum", Description: "d", Solution: strPtr("map"), Difficulty: models.DifficultyMedium, Topic: "arrays"},
		},
	})
}

type mockRecorder struct {
	mock.Mock
}

func (m *mockRecorder) RecordAttempt(ctx context.Context, record *models.AttemptRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

type recordedMetrics struct {
	mu      sync.Mutex
	started []int
	ended   []string
	live    int
	ticks   int
}

func (r *recordedMetrics) SessionStarted(interviewID int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started = append(r.started, interviewID)
}

func (r *recordedMetrics) SessionEnded(reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ended = append(r.ended, reason)
}

func (r *recordedMetrics) SessionsLive(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.live = n
}

func (r *recordedMetrics) TicksApplied(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ticks += n
}

// fakeClock lets tests move the service's notion of now.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
