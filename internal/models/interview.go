package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidDuration = errors.New("invalid interview duration")

type DifficultyLevel string

const (
	DifficultyEasy   DifficultyLevel = "easy"
	DifficultyMedium DifficultyLevel = "medium"
	DifficultyHard   DifficultyLevel = "hard"
)

func (d DifficultyLevel) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// InterviewDefinition is a named, timed bundle of questions. Loaded once from
// the static bank and never mutated afterwards.
type InterviewDefinition struct {
	ID          int             `json:"id" yaml:"id" validate:"required,min=1"`
	Title       string          `json:"title" yaml:"title" validate:"required,min=1,max=200"`
	Description string          `json:"description" yaml:"description" validate:"max=1000"`
	Difficulty  DifficultyLevel `json:"difficulty" yaml:"difficulty" validate:"required,difficulty_level"`
	Duration    string          `json:"duration" yaml:"duration" validate:"required,interview_duration"`
	QuestionIDs []int           `json:"questions" yaml:"questions" validate:"dive,min=1"`
}

// DurationMinutes parses the human duration, e.g. "45 minutes" -> 45.
func (d InterviewDefinition) DurationMinutes() (int, error) {
	return ParseDurationMinutes(d.Duration)
}

// ParseDurationMinutes reads the first whitespace-delimited token as a whole
// number of minutes. Anything missing, non-numeric or not positive is rejected.
func ParseDurationMinutes(s string) (int, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0, fmt.Errorf("%w: empty", ErrInvalidDuration)
	}
	minutes, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidDuration, fields[0])
	}
	if minutes <= 0 {
		return 0, fmt.Errorf("%w: %d minutes", ErrInvalidDuration, minutes)
	}
	return minutes, nil
}

type Question struct {
	ID          int             `json:"id" yaml:"id" validate:"required,min=1"`
	Title       string          `json:"title" yaml:"title" validate:"required,min=1,max=200"`
	Description string          `json:"description" yaml:"description" validate:"required"`
	Hint        *string         `json:"hint,omitempty" yaml:"hint,omitempty"`
	Solution    *string         `json:"solution,omitempty" yaml:"solution,omitempty"`
	Difficulty  DifficultyLevel `json:"difficulty" yaml:"difficulty" validate:"required,difficulty_level"`
	Topic       string          `json:"topic" yaml:"topic" validate:"required,max=100"`
}

func (q Question) HasHint() bool {
	return q.Hint != nil && *q.Hint != ""
}

func (q Question) HasSolution() bool {
	return q.Solution != nil && *q.Solution != ""
}

// Bank mirrors the static question bank file.
type Bank struct {
	MockInterviews    []InterviewDefinition `json:"mockInterviews" yaml:"mockInterviews" validate:"dive"`
	PracticeQuestions []Question            `json:"practiceQuestions" yaml:"practiceQuestions" validate:"dive"`
}

// QuestionFilter narrows practice questions. Empty fields match everything.
type QuestionFilter struct {
	Difficulty DifficultyLevel `form:"difficulty" json:"difficulty"`
	Topic      string          `form:"topic" json:"topic"`
}

func (f QuestionFilter) Matches(q Question) bool {
	if f.Difficulty != "" && q.Difficulty != f.Difficulty {
		return false
	}
	if f.Topic != "" && q.Topic != f.Topic {
		return false
	}
	return true
}
