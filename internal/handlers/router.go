package handlers

import (
	"github.com/SAP-F-2025/interview-session-service/internal/metrics"
	"github.com/SAP-F-2025/interview-session-service/internal/services"
	"github.com/SAP-F-2025/interview-session-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type HandlerManager struct {
	sessionHandler   *SessionHandler
	interviewHandler *InterviewHandler
	historyHandler   *HistoryHandler
}

func NewHandlerManager(serviceManager services.ServiceManager, logger utils.Logger) *HandlerManager {
	return &HandlerManager{
		sessionHandler:   NewSessionHandler(serviceManager.Sessions(), logger),
		interviewHandler: NewInterviewHandler(serviceManager.Catalog(), logger),
		historyHandler:   NewHistoryHandler(serviceManager.History(), logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", HealthCheck)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	v1 := router.Group("/api/v1")
	{
		// Interview bank (read only)
		v1.GET("/interviews", hm.interviewHandler.ListInterviews)
		v1.GET("/interviews/:id", hm.interviewHandler.GetInterview)
		v1.GET("/questions", hm.interviewHandler.ListQuestions)
		v1.GET("/questions/:id", hm.interviewHandler.GetQuestion)
		v1.GET("/topics", hm.interviewHandler.ListTopics)

		sessions := v1.Group("/sessions")
		{
			sessions.POST("", hm.sessionHandler.CreateSession)
			sessions.GET("", hm.sessionHandler.ListSessions)
			sessions.GET("/:id", hm.sessionHandler.GetSession)
			sessions.DELETE("/:id", hm.sessionHandler.DeleteSession)
			sessions.GET("/:id/summary", hm.sessionHandler.GetSummary)

			// Lifecycle
			sessions.POST("/:id/select", hm.sessionHandler.SelectInterview)
			sessions.POST("/:id/start", hm.sessionHandler.Start())
			sessions.POST("/:id/pause", hm.sessionHandler.Pause())
			sessions.POST("/:id/resume", hm.sessionHandler.Resume())
			sessions.POST("/:id/finish", hm.sessionHandler.Finish())
			sessions.POST("/:id/retake", hm.sessionHandler.Retake())
			sessions.POST("/:id/reset", hm.sessionHandler.Reset())

			// Navigation and reveals
			sessions.POST("/:id/next", hm.sessionHandler.Next())
			sessions.POST("/:id/previous", hm.sessionHandler.Previous())
			sessions.POST("/:id/hint", hm.sessionHandler.ToggleHint())
			sessions.POST("/:id/solution", hm.sessionHandler.ToggleSolution())

			// Answers and self-assessment
			sessions.PUT("/:id/answers/:question_id", hm.sessionHandler.RecordAnswer)
			sessions.PUT("/:id/results/:question_id", hm.sessionHandler.MarkResult)
		}

		history := v1.Group("/history")
		{
			history.GET("", hm.historyHandler.ListAttempts)
			history.GET("/export", hm.historyHandler.ExportAttempts)
			history.GET("/stats/:interview_id", hm.historyHandler.GetInterviewStats)
			history.GET("/:attempt_id", hm.historyHandler.GetAttempt)
		}
	}
}
