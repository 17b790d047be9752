package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/interview-session-service/internal/models"
	"github.com/SAP-F-2025/interview-session-service/internal/services"
	"github.com/SAP-F-2025/interview-session-service/internal/utils"
	"github.com/gin-gonic/gin"
)

// InterviewHandler serves the read-only interview bank
type InterviewHandler struct {
	BaseHandler
	service services.CatalogService
}

func NewInterviewHandler(service services.CatalogService, logger utils.Logger) *InterviewHandler {
	return &InterviewHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ListInterviews handles GET /interviews
func (h *InterviewHandler) ListInterviews(c *gin.Context) {
	interviews, err := h.service.ListInterviews(requestContext(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"interviews": interviews,
		"total":      len(interviews),
	})
}

// GetInterview handles GET /interviews/:id
func (h *InterviewHandler) GetInterview(c *gin.Context) {
	id, ok := h.parseIntParam(c, "id")
	if !ok {
		return
	}

	interview, err := h.service.GetInterview(requestContext(c), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, interview)
}

// ListQuestions handles GET /questions?difficulty=&topic=
func (h *InterviewHandler) ListQuestions(c *gin.Context) {
	var filter models.QuestionFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid query parameters", err, err.Error())
		return
	}
	if filter.Difficulty != "" && !filter.Difficulty.Valid() {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid difficulty", nil, string(filter.Difficulty))
		return
	}

	questions, err := h.service.ListQuestions(requestContext(c), filter)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"questions": questions,
		"total":     len(questions),
	})
}

// GetQuestion handles GET /questions/:id
func (h *InterviewHandler) GetQuestion(c *gin.Context) {
	id, ok := h.parseIntParam(c, "id")
	if !ok {
		return
	}

	question, err := h.service.GetQuestion(requestContext(c), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, question)
}

// ListTopics handles GET /topics
func (h *InterviewHandler) ListTopics(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"topics": h.service.Topics(requestContext(c))})
}
