package catalog

import (
	"errors"
	"strings"
	"testing"

	apperrors "github.com/SAP-F-2025/interview-session-service/internal/errors"
	"github.com/SAP-F-2025/interview-session-service/internal/models"
	"github.com/SAP-F-2025/interview-session-service/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := LoadFile("testdata/bank.json", validator.New())
	require.NoError(t, err)
	return c
}

func TestLoadFile_JSON(t *testing.T) {
	c := loadTestCatalog(t)

	assert.Len(t, c.Interviews(), 3)
	assert.Len(t, c.Questions(models.QuestionFilter{}), 3)

	interview, ok := c.Interview(1)
	require.True(t, ok)
	assert.Equal(t, "Frontend Fundamentals", interview.Title)
	assert.Equal(t, []int{10, 20}, interview.QuestionIDs)

	q, ok := c.Question(20)
	require.True(t, ok)
	assert.True(t, q.HasHint())
	assert.False(t, q.HasSolution())
}

func TestLoadFile_YAML(t *testing.T) {
	c, err := LoadFile("testdata/bank.yaml", validator.New())
	require.NoError(t, err)

	interview, ok := c.Interview(7)
	require.True(t, ok)
	assert.Equal(t, models.DifficultyMedium, interview.Difficulty)

	questions := c.ResolveQuestions(interview)
	require.Len(t, questions, 1)
	assert.Equal(t, "Rate Limiter", questions[0].Title)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile("testdata/does-not-exist.json", validator.New())
	assert.Error(t, err)
}

func TestLoad_RejectsMalformedEntries(t *testing.T) {
	bank := `{
		"mockInterviews": [
			{"id": 1, "title": "Broken", "difficulty": "impossible", "duration": "soon", "questions": [99]}
		],
		"practiceQuestions": [
			{"id": 5, "title": "A", "description": "a", "difficulty": "easy", "topic": "x"},
			{"id": 5, "title": "B", "description": "b", "difficulty": "easy", "topic": "x"}
		]
	}`

	_, err := Load(strings.NewReader(bank), FormatJSON, validator.New())
	require.Error(t, err)

	var verrs apperrors.ValidationErrors
	require.True(t, errors.As(err, &verrs))

	fields := make([]string, 0, len(verrs))
	for _, e := range verrs {
		fields = append(fields, e.Field)
	}
	assert.Contains(t, fields, "practiceQuestions[1].id")
	assert.Contains(t, fields, "mockInterviews[0].difficulty")
	assert.Contains(t, fields, "mockInterviews[0].duration")
	assert.Contains(t, fields, "mockInterviews[0].questions[0]")
}

func TestLoad_IgnoresSiblingSections(t *testing.T) {
	banks := map[Format]string{
		FormatJSON: `{
  "progress": {"completed": 3},
  "tips": ["sleep well"],
  "resources": [{"title": "Go tour"}],
  "studyPlans": [],
  "mockInterviews": [{"id": 7, "title": "Backend Warmup", "difficulty": "medium", "duration": "15 minutes", "questions": [70]}],
  "practiceQuestions": [{"id": 70, "title": "Rate Limiter", "description": "d", "difficulty": "medium", "topic": "design"}]
}`,
		FormatYAML: `progress:
  completed: 3
tips: [sleep well]
resources:
  - title: Go tour
studyPlans: []
mockInterviews:
  - {id: 7, title: Backend Warmup, difficulty: medium, duration: 15 minutes, questions: [70]}
practiceQuestions:
  - {id: 70, title: Rate Limiter, description: d, difficulty: medium, topic: design}
`,
	}

	for format, raw := range banks {
		t.Run(string(format), func(t *testing.T) {
			c, err := Load(strings.NewReader(raw), format, validator.New())
			require.NoError(t, err)

			interview, ok := c.Interview(7)
			require.True(t, ok)
			assert.Equal(t, []int{70}, interview.QuestionIDs)
			assert.Len(t, c.ResolveQuestions(interview), 1)
		})
	}
}

func TestLoad_RejectsBrokenSyntax(t *testing.T) {
	_, err := Load(strings.NewReader("mockInterviews: ["), FormatYAML, validator.New())
	assert.Error(t, err)
}

func TestResolveQuestions_PreservesOrderAndDropsUnknown(t *testing.T) {
	c := loadTestCatalog(t)

	interview, _ := c.Interview(2)
	interview.QuestionIDs = append(interview.QuestionIDs, 404)

	questions := c.ResolveQuestions(interview)
	require.Len(t, questions, 3)
	assert.Equal(t, 30, questions[0].ID)
	assert.Equal(t, 20, questions[1].ID)
	assert.Equal(t, 10, questions[2].ID)
}

func TestQuestionsFilter(t *testing.T) {
	c := loadTestCatalog(t)

	easy := c.Questions(models.QuestionFilter{Difficulty: models.DifficultyEasy})
	assert.Len(t, easy, 2)

	design := c.Questions(models.QuestionFilter{Topic: "design"})
	require.Len(t, design, 1)
	assert.Equal(t, 30, design[0].ID)

	assert.Equal(t, []string{"arrays", "design", "strings"}, c.Topics())
}

func TestCatalogIsolatedFromCallerMutation(t *testing.T) {
	c := loadTestCatalog(t)

	list := c.Interviews()
	list[0].Title = "changed"
	list[0].QuestionIDs[0] = 999

	interview, _ := c.Interview(1)
	assert.Equal(t, "Frontend Fundamentals", interview.Title)
	assert.Equal(t, 10, interview.QuestionIDs[0])
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatFromPath("bank.YML"))
	assert.Equal(t, FormatYAML, FormatFromPath("bank.yaml"))
	assert.Equal(t, FormatJSON, FormatFromPath("bank.json"))
	assert.Equal(t, FormatJSON, FormatFromPath("bank"))
}
