package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, router *gin.Engine) string {
	t.Helper()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func TestMiddlewareAndRecorder(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Middleware())
	router.GET("/ping/:id", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	router.GET("/metrics", gin.WrapH(Handler()))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping/7", nil))
	require.Equal(t, http.StatusOK, w.Code)

	r := NewRecorder()
	r.SessionStarted(42)
	r.SessionEnded("timed_out")
	r.SessionsLive(3)
	r.TicksApplied(4)
	EventConsumed("session.finished")

	body := scrape(t, router)
	assert.Contains(t, body, `interview_http_requests_total{method="GET",route="/ping/:id",status="200"} 1`)
	assert.Contains(t, body, `interview_sessions_started_total{interview_id="42"} 1`)
	assert.Contains(t, body, `interview_sessions_ended_total{reason="timed_out"} 1`)
	assert.Contains(t, body, "interview_sessions_live 3")
	assert.Contains(t, body, "interview_sessions_running 4")
	assert.Contains(t, body, `interview_session_events_consumed_total{type="session.finished"} 1`)
}

func TestNopRecorder(t *testing.T) {
	var r Recorder = NopRecorder{}
	assert.NotPanics(t, func() {
		r.SessionStarted(1)
		r.SessionEnded("finished")
		r.SessionsLive(0)
		r.TicksApplied(0)
	})
}
