package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/SAP-F-2025/interview-session-service/internal/cache"
	"github.com/SAP-F-2025/interview-session-service/internal/catalog"
	"github.com/SAP-F-2025/interview-session-service/internal/models"
)

const catalogCachePrefix = "catalog:"

// InterviewSummary is the list entry for the interview picker.
type InterviewSummary struct {
	ID              int                    `json:"id"`
	Title           string                 `json:"title"`
	Description     string                 `json:"description"`
	Difficulty      models.DifficultyLevel `json:"difficulty"`
	Duration        string                 `json:"duration"`
	DurationMinutes int                    `json:"duration_minutes"`
	QuestionCount   int                    `json:"question_count"`
}

// InterviewDetail is the briefing screen: the interview and its questions.
type InterviewDetail struct {
	InterviewSummary
	Questions []models.Question `json:"questions"`
}

type CatalogService interface {
	ListInterviews(ctx context.Context) ([]InterviewSummary, error)
	GetInterview(ctx context.Context, id int) (*InterviewDetail, error)
	ListQuestions(ctx context.Context, filter models.QuestionFilter) ([]models.Question, error)
	GetQuestion(ctx context.Context, id int) (*models.Question, error)
	Topics(ctx context.Context) []string
	InvalidateCache(ctx context.Context) error
}

type catalogService struct {
	catalog *catalog.Catalog
	cache   cache.CacheService
	ttl     time.Duration
	logger  *slog.Logger
	opLog   *ServiceLogger
}

func NewCatalogService(c *catalog.Catalog, cacheService cache.CacheService, ttl time.Duration, logger *slog.Logger) CatalogService {
	return &catalogService{
		catalog: c,
		cache:   cacheService,
		ttl:     ttl,
		logger:  logger,
		opLog:   NewServiceLogger(logger, LogConfig{Service: "interview-session", Component: "catalog"}),
	}
}

func (s *catalogService) ListInterviews(ctx context.Context) ([]InterviewSummary, error) {
	op := s.opLog.WithOperation(ctx, "list_interviews", "interview", "*")

	key := catalogCachePrefix + "interviews"
	var cached []InterviewSummary
	if s.readCache(ctx, key, &cached) {
		op.LogResult(nil)
		return cached, nil
	}

	interviews := s.catalog.Interviews()
	summaries := make([]InterviewSummary, 0, len(interviews))
	for _, interview := range interviews {
		summaries = append(summaries, s.summarize(interview))
	}

	s.writeCache(ctx, key, summaries)
	op.LogResult(nil)
	return summaries, nil
}

func (s *catalogService) GetInterview(ctx context.Context, id int) (*InterviewDetail, error) {
	op := s.opLog.WithOperation(ctx, "get_interview", "interview", strconv.Itoa(id))

	key := fmt.Sprintf("%sinterview:%d", catalogCachePrefix, id)
	var cached InterviewDetail
	if s.readCache(ctx, key, &cached) {
		op.LogResult(nil)
		return &cached, nil
	}

	interview, ok := s.catalog.Interview(id)
	if !ok {
		err := fmt.Errorf("%w: %d", ErrInterviewNotFound, id)
		op.LogResult(err)
		return nil, err
	}

	detail := &InterviewDetail{
		InterviewSummary: s.summarize(interview),
		Questions:        s.catalog.ResolveQuestions(interview),
	}

	s.writeCache(ctx, key, detail)
	op.LogResult(nil)
	return detail, nil
}

func (s *catalogService) ListQuestions(ctx context.Context, filter models.QuestionFilter) ([]models.Question, error) {
	op := s.opLog.WithOperation(ctx, "list_questions", "question", "*")

	// only filters over known values get a cache key; anything else is answered directly
	if !s.cacheableFilter(filter) {
		questions := s.catalog.Questions(filter)
		op.LogResult(nil)
		return questions, nil
	}

	key := fmt.Sprintf("%squestions:%s:%s", catalogCachePrefix, filter.Difficulty, filter.Topic)
	var cached []models.Question
	if s.readCache(ctx, key, &cached) {
		op.LogResult(nil)
		return cached, nil
	}

	questions := s.catalog.Questions(filter)
	s.writeCache(ctx, key, questions)
	op.LogResult(nil)
	return questions, nil
}

func (s *catalogService) cacheableFilter(filter models.QuestionFilter) bool {
	if filter.Difficulty != "" && !filter.Difficulty.Valid() {
		return false
	}
	if filter.Topic == "" {
		return true
	}
	for _, topic := range s.catalog.Topics() {
		if topic == filter.Topic {
			return true
		}
	}
	return false
}

func (s *catalogService) GetQuestion(ctx context.Context, id int) (*models.Question, error) {
	q, ok := s.catalog.Question(id)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrQuestionNotFound, id)
	}
	return &q, nil
}

func (s *catalogService) Topics(ctx context.Context) []string {
	return s.catalog.Topics()
}

// InvalidateCache drops every cached catalog entry, e.g. after the bank changed on disk.
func (s *catalogService) InvalidateCache(ctx context.Context) error {
	if err := s.cache.DeletePattern(ctx, catalogCachePrefix+"*"); err != nil {
		return fmt.Errorf("failed to invalidate catalog cache: %w", err)
	}
	return nil
}

func (s *catalogService) summarize(interview models.InterviewDefinition) InterviewSummary {
	// Duration was validated at load time; a failure here leaves 0 and Start reports it.
	minutes, _ := interview.DurationMinutes()
	return InterviewSummary{
		ID:              interview.ID,
		Title:           interview.Title,
		Description:     interview.Description,
		Difficulty:      interview.Difficulty,
		Duration:        interview.Duration,
		DurationMinutes: minutes,
		QuestionCount:   len(s.catalog.ResolveQuestions(interview)),
	}
}

func (s *catalogService) readCache(ctx context.Context, key string, dest interface{}) bool {
	err := s.cache.Get(ctx, key, dest)
	if err == nil {
		return true
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("Catalog cache read failed", "key", key, "error", err)
	}
	return false
}

func (s *catalogService) writeCache(ctx context.Context, key string, value interface{}) {
	if err := s.cache.Set(ctx, key, value, s.ttl); err != nil {
		s.logger.Warn("Catalog cache write failed", "key", key, "error", err)
	}
}
