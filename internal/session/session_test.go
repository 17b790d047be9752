package session

import (
	"errors"
	"testing"

	"github.com/SAP-F-2025/interview-session-service/internal/catalog"
	"github.com/SAP-F-2025/interview-session-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func testCatalog() *catalog.Catalog {
	return catalog.New(models.Bank{
		MockInterviews: []models.InterviewDefinition{
			{ID: 1, Title: "Frontend", Difficulty: models.DifficultyEasy, Duration: "30 minutes", QuestionIDs: []int{10, 20}},
			{ID: 2, Title: "Systems", Difficulty: models.DifficultyHard, Duration: "45 minutes", QuestionIDs: []int{10, 20, 30}},
			{ID: 3, Title: "Empty", Difficulty: models.DifficultyMedium, Duration: "20 minutes", QuestionIDs: []int{}},
			{ID: 4, Title: "Broken duration", Difficulty: models.DifficultyMedium, Duration: "soon", QuestionIDs: []int{10}},
			{ID: 5, Title: "Sprint", Difficulty: models.DifficultyEasy, Duration: "1 minutes", QuestionIDs: []int{10}},
			{ID: 6, Title: "Dangling", Difficulty: models.DifficultyEasy, Duration: "10 minutes", QuestionIDs: []int{404}},
		},
		PracticeQuestions: []models.Question{
			{ID: 10, Title: "Reverse", Description: "d", Hint: strPtr("ends"), Solution: strPtr("swap"), Difficulty: models.DifficultyEasy, Topic: "strings"},
			{ID: 20, Title: "Two Sum", Description: "d", Hint: strPtr("map"), Difficulty: models.DifficultyEasy, Topic: "arrays"},
			{ID: 30, Title: "LRU", Description: "d", Difficulty: models.DifficultyHard, Topic: "design"},
		},
	})
}

func startedSession(t *testing.T, interviewID int) *Session {
	t.Helper()
	s := New(testCatalog())
	require.True(t, s.SelectInterview(interviewID))
	ok, err := s.Start()
	require.NoError(t, err)
	require.True(t, ok)
	return s
}

func TestNewSessionIsIdle(t *testing.T) {
	s := New(testCatalog())
	view := s.View()

	assert.Equal(t, models.PhaseIdle, view.Phase)
	assert.Nil(t, view.InterviewID)
	assert.Nil(t, view.CurrentQuestion)
	assert.Empty(t, view.Answers)
	assert.Zero(t, view.Score)
}

func TestSelectInterview(t *testing.T) {
	t.Run("known id moves to briefing", func(t *testing.T) {
		s := New(testCatalog())
		assert.True(t, s.SelectInterview(1))

		view := s.View()
		assert.Equal(t, models.PhaseBriefing, view.Phase)
		require.NotNil(t, view.InterviewID)
		assert.Equal(t, 1, *view.InterviewID)
	})

	t.Run("unknown id is ignored", func(t *testing.T) {
		s := New(testCatalog())
		assert.False(t, s.SelectInterview(99))
		assert.Equal(t, models.PhaseIdle, s.Phase())
	})

	t.Run("reselect while briefing", func(t *testing.T) {
		s := New(testCatalog())
		s.SelectInterview(1)
		assert.True(t, s.SelectInterview(2))
		assert.Equal(t, 2, *s.View().InterviewID)
	})

	t.Run("ignored while running", func(t *testing.T) {
		s := startedSession(t, 1)
		assert.False(t, s.SelectInterview(2))
		assert.Equal(t, 1, *s.View().InterviewID)
		assert.Equal(t, models.PhaseRunning, s.Phase())
	})
}

func TestStart(t *testing.T) {
	tests := []struct {
		name        string
		interviewID int
		wantSeconds int
		wantTotal   int
	}{
		{name: "30 minutes", interviewID: 1, wantSeconds: 1800, wantTotal: 2},
		{name: "45 minutes", interviewID: 2, wantSeconds: 2700, wantTotal: 3},
		{name: "1 minute", interviewID: 5, wantSeconds: 60, wantTotal: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := startedSession(t, tt.interviewID)
			view := s.View()

			assert.Equal(t, models.PhaseRunning, view.Phase)
			assert.Equal(t, tt.wantSeconds, view.RemainingSeconds)
			assert.Equal(t, tt.wantSeconds, view.TotalSeconds)
			assert.Equal(t, tt.wantTotal, view.Total)
			assert.Equal(t, 0, view.Index)
			assert.Equal(t, 0, view.Score)
			assert.Empty(t, view.Answers)
			assert.False(t, view.RevealedHint)
			assert.False(t, view.RevealedSolution)
			require.NotNil(t, view.CurrentQuestion)
			assert.Equal(t, 10, view.CurrentQuestion.ID)
		})
	}
}

func TestStartFromIdle(t *testing.T) {
	s := New(testCatalog())
	ok, err := s.Start()

	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrNoInterviewSelected)
	assert.Equal(t, models.PhaseIdle, s.Phase())
}

func TestStartConfigurationErrors(t *testing.T) {
	tests := []struct {
		name        string
		interviewID int
		wantWrapped error
	}{
		{name: "empty question list", interviewID: 3},
		{name: "unparseable duration", interviewID: 4, wantWrapped: models.ErrInvalidDuration},
		{name: "question ids not in bank", interviewID: 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(testCatalog())
			require.True(t, s.SelectInterview(tt.interviewID))

			ok, err := s.Start()
			assert.False(t, ok)
			require.Error(t, err)
			assert.True(t, IsConfigurationError(err))

			var cfgErr *ConfigurationError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.interviewID, cfgErr.InterviewID)
			if tt.wantWrapped != nil {
				assert.ErrorIs(t, err, tt.wantWrapped)
			}

			assert.Equal(t, models.PhaseBriefing, s.Phase())
		})
	}
}

func TestStartIgnoredOutsideBriefing(t *testing.T) {
	s := startedSession(t, 1)
	s.Tick()

	ok, err := s.Start()
	assert.False(t, ok)
	assert.NoError(t, err)
	assert.Equal(t, 1799, s.View().RemainingSeconds)
}

func TestPauseResume(t *testing.T) {
	s := startedSession(t, 1)

	assert.False(t, s.Resume())
	assert.True(t, s.Pause())
	assert.Equal(t, models.PhasePaused, s.Phase())
	assert.False(t, s.Pause())

	assert.False(t, s.Tick())
	assert.Equal(t, 1800, s.View().RemainingSeconds)

	assert.True(t, s.Resume())
	assert.Equal(t, models.PhaseRunning, s.Phase())
	assert.True(t, s.Tick())
	assert.Equal(t, 1799, s.View().RemainingSeconds)
}

func TestPauseIgnoredBeforeStart(t *testing.T) {
	s := New(testCatalog())
	s.SelectInterview(1)

	assert.False(t, s.Pause())
	assert.False(t, s.Resume())
	assert.Equal(t, models.PhaseBriefing, s.Phase())
}

func TestTickToZeroFinishes(t *testing.T) {
	s := startedSession(t, 5)
	remaining := s.View().RemainingSeconds

	for i := 0; i < remaining; i++ {
		require.True(t, s.Tick())
	}

	view := s.View()
	assert.Equal(t, models.PhaseFinished, view.Phase)
	assert.Equal(t, 0, view.RemainingSeconds)
	require.NotNil(t, view.EndReason)
	assert.Equal(t, models.EndReasonTimedOut, *view.EndReason)

	for i := 0; i < 5; i++ {
		assert.False(t, s.Tick())
	}
	assert.Equal(t, 0, s.View().RemainingSeconds)
	assert.Equal(t, models.PhaseFinished, s.Phase())
}

func TestTickIgnoredOutsideRunning(t *testing.T) {
	s := New(testCatalog())
	assert.False(t, s.Tick())

	s.SelectInterview(1)
	assert.False(t, s.Tick())
	assert.Equal(t, 0, s.View().RemainingSeconds)
}

func TestNavigationClamps(t *testing.T) {
	s := startedSession(t, 2)

	assert.False(t, s.Previous())
	assert.Equal(t, 0, s.View().Index)

	assert.True(t, s.Next())
	assert.True(t, s.Next())
	assert.Equal(t, 2, s.View().Index)

	for i := 0; i < 3; i++ {
		assert.False(t, s.Next())
	}
	view := s.View()
	assert.Equal(t, 2, view.Index)
	assert.Equal(t, models.PhaseRunning, view.Phase)
	assert.Equal(t, 30, view.CurrentQuestion.ID)

	assert.True(t, s.Previous())
	assert.Equal(t, 1, s.View().Index)
}

func TestNavigationIgnoredWhenNotRunning(t *testing.T) {
	s := startedSession(t, 2)
	s.Pause()

	assert.False(t, s.Next())
	assert.Equal(t, 0, s.View().Index)

	s.Resume()
	s.Next()
	s.Finish()
	assert.False(t, s.Previous())
	assert.Equal(t, 1, s.View().Index)
}

func TestNavigationClearsReveals(t *testing.T) {
	s := startedSession(t, 2)

	require.True(t, s.ToggleHint())
	require.True(t, s.ToggleSolution())
	view := s.View()
	assert.True(t, view.RevealedHint)
	assert.True(t, view.RevealedSolution)

	require.True(t, s.Next())
	view = s.View()
	assert.False(t, view.RevealedHint)
	assert.False(t, view.RevealedSolution)

	require.True(t, s.ToggleHint())
	require.True(t, s.Previous())
	assert.False(t, s.View().RevealedHint)
}

func TestToggleRequiresContent(t *testing.T) {
	s := startedSession(t, 2)
	s.Next()

	// question 20 has a hint but no solution
	assert.True(t, s.ToggleHint())
	assert.False(t, s.ToggleSolution())

	s.Next()
	// question 30 has neither
	assert.False(t, s.ToggleHint())
	assert.False(t, s.ToggleSolution())
}

func TestToggleHintTwiceHides(t *testing.T) {
	s := startedSession(t, 1)

	s.ToggleHint()
	s.ToggleHint()
	assert.False(t, s.View().RevealedHint)
}

func TestRecordAnswerLastWriteWins(t *testing.T) {
	s := startedSession(t, 1)

	assert.True(t, s.RecordAnswer(10, "foo"))
	assert.True(t, s.RecordAnswer(10, "bar"))

	answers := s.View().Answers
	assert.Len(t, answers, 1)
	assert.Equal(t, "bar", answers[10])
}

func TestRecordAnswerRules(t *testing.T) {
	s := startedSession(t, 1)

	assert.False(t, s.RecordAnswer(30, "not in this interview"))

	s.Pause()
	assert.True(t, s.RecordAnswer(20, "drafted while paused"))

	s.Resume()
	s.Finish()
	assert.False(t, s.RecordAnswer(10, "too late"))
	assert.Equal(t, map[int]string{20: "drafted while paused"}, s.View().Answers)
}

func TestMarkResultDrivesScore(t *testing.T) {
	s := startedSession(t, 2)

	assert.True(t, s.MarkResult(10, true))
	assert.True(t, s.MarkResult(20, true))
	assert.Equal(t, 2, s.View().Score)

	assert.True(t, s.MarkResult(20, false))
	assert.Equal(t, 1, s.View().Score)

	assert.False(t, s.MarkResult(404, true))

	s.Finish()
	assert.True(t, s.MarkResult(30, true))
	assert.Equal(t, 2, s.View().Score)
}

func TestMarkResultIgnoredBeforeStart(t *testing.T) {
	s := New(testCatalog())
	s.SelectInterview(1)

	assert.False(t, s.MarkResult(10, true))
	assert.Equal(t, 0, s.View().Score)
}

func TestFinish(t *testing.T) {
	s := startedSession(t, 1)

	assert.True(t, s.Finish())
	view := s.View()
	assert.Equal(t, models.PhaseFinished, view.Phase)
	assert.Equal(t, 1800, view.RemainingSeconds)
	require.NotNil(t, view.EndReason)
	assert.Equal(t, models.EndReasonFinished, *view.EndReason)

	assert.False(t, s.Finish())
}

func TestFinishFromPaused(t *testing.T) {
	s := startedSession(t, 1)
	s.Pause()

	assert.True(t, s.Finish())
	assert.Equal(t, models.PhaseFinished, s.Phase())
}

func TestFinishIgnoredInBriefing(t *testing.T) {
	s := New(testCatalog())
	s.SelectInterview(1)

	assert.False(t, s.Finish())
	assert.Equal(t, models.PhaseBriefing, s.Phase())
}

func TestResetFromAnyPhase(t *testing.T) {
	setups := map[string]func() *Session{
		"idle": func() *Session { return New(testCatalog()) },
		"briefing": func() *Session {
			s := New(testCatalog())
			s.SelectInterview(1)
			return s
		},
		"running": func() *Session {
			s := startedSession(t, 1)
			s.RecordAnswer(10, "x")
			s.MarkResult(10, true)
			return s
		},
		"paused": func() *Session {
			s := startedSession(t, 1)
			s.Pause()
			return s
		},
		"finished": func() *Session {
			s := startedSession(t, 1)
			s.RecordAnswer(10, "x")
			s.MarkResult(10, true)
			s.Finish()
			return s
		},
	}

	for name, setup := range setups {
		t.Run(name, func(t *testing.T) {
			s := setup()
			s.Reset()

			view := s.View()
			assert.Equal(t, models.PhaseIdle, view.Phase)
			assert.Nil(t, view.InterviewID)
			assert.Empty(t, view.Answers)
			assert.Equal(t, 0, view.Score)
			assert.Equal(t, 0, view.RemainingSeconds)
			assert.Nil(t, view.EndReason)
		})
	}
}

func TestRetake(t *testing.T) {
	s := startedSession(t, 1)
	s.RecordAnswer(10, "x")
	s.MarkResult(10, true)

	assert.False(t, s.Retake())

	s.Finish()
	assert.True(t, s.Retake())

	view := s.View()
	assert.Equal(t, models.PhaseBriefing, view.Phase)
	require.NotNil(t, view.InterviewID)
	assert.Equal(t, 1, *view.InterviewID)
	assert.Empty(t, view.Answers)
	assert.Equal(t, 0, view.Score)

	ok, err := s.Start()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1800, s.View().RemainingSeconds)
}

func TestSummary(t *testing.T) {
	s := startedSession(t, 2)

	_, ok := s.Summary()
	assert.False(t, ok)

	s.RecordAnswer(10, "a")
	s.RecordAnswer(20, "")
	s.MarkResult(10, true)
	s.MarkResult(20, true)
	for i := 0; i < 300; i++ {
		s.Tick()
	}
	s.Finish()

	summary, ok := s.Summary()
	require.True(t, ok)
	assert.Equal(t, 2, summary.InterviewID)
	assert.Equal(t, "Systems", summary.InterviewTitle)
	assert.Equal(t, 2, summary.Score)
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 67, summary.Accuracy)
	assert.Equal(t, 1, summary.Answered)
	assert.Equal(t, 2400, summary.RemainingSeconds)
	assert.Equal(t, 300, summary.TimeSpent())
	assert.Equal(t, models.EndReasonFinished, summary.EndReason)
}

func TestAccuracyRounding(t *testing.T) {
	assert.Equal(t, 0, accuracy(0, 0))
	assert.Equal(t, 0, accuracy(0, 3))
	assert.Equal(t, 33, accuracy(1, 3))
	assert.Equal(t, 50, accuracy(1, 2))
	assert.Equal(t, 67, accuracy(2, 3))
	assert.Equal(t, 100, accuracy(3, 3))
	assert.Equal(t, 13, accuracy(1, 8))
}

func TestStateIsACopy(t *testing.T) {
	s := startedSession(t, 1)
	s.RecordAnswer(10, "original")

	st := s.State()
	st.Answers[10] = "mutated"
	st.Interview.Title = "mutated"

	assert.Equal(t, "original", s.View().Answers[10])
	assert.Equal(t, "Frontend", s.State().Interview.Title)
}

func TestViewAnswersAreACopy(t *testing.T) {
	s := startedSession(t, 1)
	s.RecordAnswer(10, "original")

	view := s.View()
	view.Answers[10] = "mutated"

	assert.Equal(t, "original", s.View().Answers[10])
}

func TestScenarioThirtyMinuteInterview(t *testing.T) {
	s := New(testCatalog())

	require.True(t, s.SelectInterview(1))
	_, err := s.Start()
	require.NoError(t, err)

	view := s.View()
	assert.Equal(t, models.PhaseRunning, view.Phase)
	assert.Equal(t, 1800, view.RemainingSeconds)
	assert.Equal(t, 0, view.Index)

	s.Next()
	assert.Equal(t, 1, s.View().Index)

	s.Finish()
	view = s.View()
	assert.Equal(t, models.PhaseFinished, view.Phase)
	assert.Equal(t, 1800, view.RemainingSeconds)
}
