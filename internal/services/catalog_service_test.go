package services

import (
	"context"
	"testing"
	"time"

	"github.com/SAP-F-2025/interview-session-service/internal/cache"
	"github.com/SAP-F-2025/interview-session-service/internal/models"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalogFixture(t *testing.T) (CatalogService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	svc := NewCatalogService(testCatalog(), cache.NewRedisCache(client, discardLogger()), time.Minute, discardLogger())
	return svc, mr
}

func TestCatalogService_ListInterviewsCaches(t *testing.T) {
	svc, mr := newCatalogFixture(t)
	ctx := context.Background()

	list, err := svc.ListInterviews(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, 30, list[0].DurationMinutes)
	assert.Equal(t, 2, list[0].QuestionCount)
	assert.Equal(t, 0, list[2].QuestionCount)
	assert.True(t, mr.Exists("catalog:interviews"))

	cached, err := svc.ListInterviews(ctx)
	require.NoError(t, err)
	assert.Equal(t, list, cached)
}

func TestCatalogService_GetInterview(t *testing.T) {
	svc, _ := newCatalogFixture(t)
	ctx := context.Background()

	detail, err := svc.GetInterview(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Frontend", detail.Title)
	require.Len(t, detail.Questions, 2)
	assert.Equal(t, 10, detail.Questions[0].ID)

	again, err := svc.GetInterview(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, detail.Questions, again.Questions)

	_, err = svc.GetInterview(ctx, 42)
	assert.ErrorIs(t, err, ErrInterviewNotFound)
}

func TestCatalogService_ListQuestions(t *testing.T) {
	svc, _ := newCatalogFixture(t)
	ctx := context.Background()

	all, err := svc.ListQuestions(ctx, models.QuestionFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	arrays, err := svc.ListQuestions(ctx, models.QuestionFilter{Topic: "arrays"})
	require.NoError(t, err)
	require.Len(t, arrays, 1)
	assert.Equal(t, 20, arrays[0].ID)

	q, err := svc.GetQuestion(ctx, 10)
	require.NoError(t, err)
	assert.True(t, q.HasHint())

	_, err = svc.GetQuestion(ctx, 404)
	assert.ErrorIs(t, err, ErrQuestionNotFound)

	assert.Equal(t, []string{"arrays", "strings"}, svc.Topics(ctx))
}

func TestCatalogService_ListQuestionsCachesKnownTopicsOnly(t *testing.T) {
	svc, mr := newCatalogFixture(t)
	ctx := context.Background()

	_, err := svc.ListQuestions(ctx, models.QuestionFilter{Topic: "arrays"})
	require.NoError(t, err)
	assert.True(t, mr.Exists("catalog:questions::arrays"))

	for _, topic := range []string{"nope", "x1", "x2"} {
		questions, err := svc.ListQuestions(ctx, models.QuestionFilter{Topic: topic})
		require.NoError(t, err)
		assert.Empty(t, questions)
	}
	questions, err := svc.ListQuestions(ctx, models.QuestionFilter{Difficulty: "extreme"})
	require.NoError(t, err)
	assert.Empty(t, questions)

	assert.Equal(t, []string{"catalog:questions::arrays"}, mr.Keys())
}

func TestCatalogService_InvalidateCache(t *testing.T) {
	svc, mr := newCatalogFixture(t)
	ctx := context.Background()

	_, _ = svc.ListInterviews(ctx)
	_, _ = svc.GetInterview(ctx, 1)
	require.NoError(t, mr.Set("unrelated", "keep"))

	require.NoError(t, svc.InvalidateCache(ctx))
	assert.False(t, mr.Exists("catalog:interviews"))
	assert.False(t, mr.Exists("catalog:interview:1"))
	assert.True(t, mr.Exists("unrelated"))
}

func TestCatalogService_WorksWithoutRedis(t *testing.T) {
	svc := NewCatalogService(testCatalog(), cache.NewNoopCache(), time.Minute, discardLogger())

	list, err := svc.ListInterviews(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 3)
}
