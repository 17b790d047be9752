package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/SAP-F-2025/interview-session-service/internal/repositories"
	"github.com/SAP-F-2025/interview-session-service/internal/services"
	"github.com/SAP-F-2025/interview-session-service/internal/utils"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// HistoryHandler exposes finished attempts
type HistoryHandler struct {
	BaseHandler
	service services.HistoryService
}

func NewHistoryHandler(service services.HistoryService, logger utils.Logger) *HistoryHandler {
	return &HistoryHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

func (h *HistoryHandler) bindFilters(c *gin.Context) (repositories.AttemptFilters, bool) {
	var filters repositories.AttemptFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid query parameters", err, err.Error())
		return filters, false
	}
	return filters, true
}

// ListAttempts handles GET /history
func (h *HistoryHandler) ListAttempts(c *gin.Context) {
	filters, ok := h.bindFilters(c)
	if !ok {
		return
	}

	page, err := h.service.List(requestContext(c), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetAttempt handles GET /history/:attempt_id
func (h *HistoryHandler) GetAttempt(c *gin.Context) {
	attemptID := ParseStringIDParam(c, "attempt_id")
	if attemptID == "" {
		return
	}

	record, err := h.service.Get(requestContext(c), attemptID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// GetInterviewStats handles GET /history/stats/:interview_id
func (h *HistoryHandler) GetInterviewStats(c *gin.Context) {
	interviewID, ok := h.parseIntParam(c, "interview_id")
	if !ok {
		return
	}

	stats, err := h.service.Stats(requestContext(c), interviewID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ExportAttempts handles GET /history/export and streams an xlsx workbook
func (h *HistoryHandler) ExportAttempts(c *gin.Context) {
	filters, ok := h.bindFilters(c)
	if !ok {
		return
	}

	data, err := h.service.ExportToExcel(requestContext(c), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("attempts_%s.xlsx", time.Now().UTC().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}
