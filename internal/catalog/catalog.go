package catalog

import (
	"sort"

	"github.com/SAP-F-2025/interview-session-service/internal/models"
)

// Catalog is the validated, read-only view of a question bank. It is safe for
// concurrent use because nothing mutates it after New.
type Catalog struct {
	interviews     []models.InterviewDefinition
	interviewIndex map[int]int
	questions      []models.Question
	questionIndex  map[int]int
}

// New indexes a bank. Callers are expected to have validated it (see Load).
func New(bank models.Bank) *Catalog {
	c := &Catalog{
		interviews:     make([]models.InterviewDefinition, len(bank.MockInterviews)),
		interviewIndex: make(map[int]int, len(bank.MockInterviews)),
		questions:      make([]models.Question, len(bank.PracticeQuestions)),
		questionIndex:  make(map[int]int, len(bank.PracticeQuestions)),
	}

	for i, interview := range bank.MockInterviews {
		c.interviews[i] = cloneInterview(interview)
		c.interviewIndex[interview.ID] = i
	}

	copy(c.questions, bank.PracticeQuestions)
	for i, q := range c.questions {
		c.questionIndex[q.ID] = i
	}

	return c
}

func (c *Catalog) Interview(id int) (models.InterviewDefinition, bool) {
	i, ok := c.interviewIndex[id]
	if !ok {
		return models.InterviewDefinition{}, false
	}
	return cloneInterview(c.interviews[i]), true
}

func (c *Catalog) Question(id int) (models.Question, bool) {
	i, ok := c.questionIndex[id]
	if !ok {
		return models.Question{}, false
	}
	return c.questions[i], true
}

// Interviews returns all interviews in bank order.
func (c *Catalog) Interviews() []models.InterviewDefinition {
	out := make([]models.InterviewDefinition, len(c.interviews))
	for i, interview := range c.interviews {
		out[i] = cloneInterview(interview)
	}
	return out
}

// Questions returns the practice questions matching filter, in bank order.
func (c *Catalog) Questions(filter models.QuestionFilter) []models.Question {
	out := make([]models.Question, 0, len(c.questions))
	for _, q := range c.questions {
		if filter.Matches(q) {
			out = append(out, q)
		}
	}
	return out
}

// ResolveQuestions maps an interview's ids to questions, keeping order and
// dropping ids the bank does not know.
func (c *Catalog) ResolveQuestions(interview models.InterviewDefinition) []models.Question {
	out := make([]models.Question, 0, len(interview.QuestionIDs))
	for _, id := range interview.QuestionIDs {
		if q, ok := c.Question(id); ok {
			out = append(out, q)
		}
	}
	return out
}

// Topics lists the distinct practice topics, sorted.
func (c *Catalog) Topics() []string {
	seen := make(map[string]struct{})
	for _, q := range c.questions {
		seen[q.Topic] = struct{}{}
	}
	topics := make([]string, 0, len(seen))
	for t := range seen {
		topics = append(topics, t)
	}
	sort.Strings(topics)
	return topics
}

func cloneInterview(in models.InterviewDefinition) models.InterviewDefinition {
	ids := make([]int, len(in.QuestionIDs))
	copy(ids, in.QuestionIDs)
	in.QuestionIDs = ids
	return in
}
