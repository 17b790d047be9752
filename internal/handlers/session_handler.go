package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/SAP-F-2025/interview-session-service/internal/models"
	"github.com/SAP-F-2025/interview-session-service/internal/services"
	"github.com/SAP-F-2025/interview-session-service/internal/utils"
	"github.com/gin-gonic/gin"
)

// ===== REQUEST STRUCTURES =====

type CreateSessionRequest struct {
	InterviewID *int `json:"interview_id" binding:"omitempty,min=1"`
}

type SelectInterviewRequest struct {
	InterviewID int `json:"interview_id" binding:"required,min=1"`
}

type RecordAnswerRequest struct {
	Answer *string `json:"answer" binding:"required,max=20000"`
}

type MarkResultRequest struct {
	Correct *bool `json:"correct" binding:"required"`
}

type sessionCommand func(ctx context.Context, id string) (*models.SessionResult, error)

type SessionHandler struct {
	BaseHandler
	service services.SessionService
}

func NewSessionHandler(service services.SessionService, logger utils.Logger) *SessionHandler {
	return &SessionHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

func requestContext(c *gin.Context) context.Context {
	return services.WithRequestID(c.Request.Context(), utils.GetRequestID(c))
}

// CreateSession handles POST /sessions
func (h *SessionHandler) CreateSession(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.respondBindError(c, err)
		return
	}

	live, err := h.service.Create(requestContext(c), req.InterviewID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "Session created", "session_id", live.ID)
	c.JSON(http.StatusCreated, live)
}

// ListSessions handles GET /sessions
func (h *SessionHandler) ListSessions(c *gin.Context) {
	sessions := h.service.List(requestContext(c))
	c.JSON(http.StatusOK, gin.H{
		"sessions": sessions,
		"total":    len(sessions),
	})
}

// GetSession handles GET /sessions/:id
func (h *SessionHandler) GetSession(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	live, err := h.service.Get(requestContext(c), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, live)
}

// DeleteSession handles DELETE /sessions/:id
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	if err := h.service.Delete(requestContext(c), id); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetSummary handles GET /sessions/:id/summary
func (h *SessionHandler) GetSummary(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	summary, err := h.service.Summary(requestContext(c), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// SelectInterview handles POST /sessions/:id/select
func (h *SessionHandler) SelectInterview(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	var req SelectInterviewRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.service.SelectInterview(requestContext(c), id, req.InterviewID)
	h.respondWithResult(c, result, err)
}

// RecordAnswer handles PUT /sessions/:id/answers/:question_id
func (h *SessionHandler) RecordAnswer(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}
	questionID, ok := h.parseIntParam(c, "question_id")
	if !ok {
		return
	}

	var req RecordAnswerRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.service.RecordAnswer(requestContext(c), id, questionID, *req.Answer)
	h.respondWithResult(c, result, err)
}

// MarkResult handles PUT /sessions/:id/results/:question_id
func (h *SessionHandler) MarkResult(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}
	questionID, ok := h.parseIntParam(c, "question_id")
	if !ok {
		return
	}

	var req MarkResultRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.service.MarkResult(requestContext(c), id, questionID, *req.Correct)
	h.respondWithResult(c, result, err)
}

// command adapts a parameterless session command to a gin handler
func (h *SessionHandler) command(fn sessionCommand) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := ParseStringIDParam(c, "id")
		if id == "" {
			return
		}
		result, err := fn(requestContext(c), id)
		h.respondWithResult(c, result, err)
	}
}

// respondWithResult answers 200 whether or not the command applied;
// clients read "applied" to tell a no-op from a transition
func (h *SessionHandler) respondWithResult(c *gin.Context, result *models.SessionResult, err error) {
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *SessionHandler) Start() gin.HandlerFunc          { return h.command(h.service.Start) }
func (h *SessionHandler) Pause() gin.HandlerFunc          { return h.command(h.service.Pause) }
func (h *SessionHandler) Resume() gin.HandlerFunc         { return h.command(h.service.Resume) }
func (h *SessionHandler) Next() gin.HandlerFunc           { return h.command(h.service.Next) }
func (h *SessionHandler) Previous() gin.HandlerFunc       { return h.command(h.service.Previous) }
func (h *SessionHandler) Finish() gin.HandlerFunc         { return h.command(h.service.Finish) }
func (h *SessionHandler) Reset() gin.HandlerFunc          { return h.command(h.service.Reset) }
func (h *SessionHandler) Retake() gin.HandlerFunc         { return h.command(h.service.Retake) }
func (h *SessionHandler) ToggleHint() gin.HandlerFunc     { return h.command(h.service.ToggleHint) }
func (h *SessionHandler) ToggleSolution() gin.HandlerFunc { return h.command(h.service.ToggleSolution) }
