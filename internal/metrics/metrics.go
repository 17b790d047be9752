package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "interview"

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests received",
	}, []string{"method", "route", "status"})

	httpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	sessionsStarted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_started_total",
		Help:      "Mock interview attempts started, by interview",
	}, []string{"interview_id"})

	sessionsEnded = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_ended_total",
		Help:      "Mock interview attempts ended, by reason",
	}, []string{"reason"})

	sessionsLive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "sessions_live",
		Help:      "Sessions currently held in memory",
	})

	sessionsRunning = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "sessions_running",
		Help:      "Sessions whose countdown advanced on the last tick",
	})

	ticksProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_ticks_total",
		Help:      "Countdown ticks applied across all sessions",
	})

	eventsConsumed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_events_consumed_total",
		Help:      "Session lifecycle events received from the event bus, by type",
	}, []string{"type"})
)

// EventConsumed counts one session event read back from the event bus.
func EventConsumed(eventType string) {
	eventsConsumed.WithLabelValues(eventType).Inc()
}

// Recorder is the session-side metrics sink. Tests swap in NopRecorder.
type Recorder interface {
	SessionStarted(interviewID int)
	SessionEnded(reason string)
	SessionsLive(n int)
	TicksApplied(n int)
}

type promRecorder struct{}

// NewRecorder returns a Recorder backed by the default Prometheus registry.
func NewRecorder() Recorder {
	return promRecorder{}
}

func (promRecorder) SessionStarted(interviewID int) {
	sessionsStarted.WithLabelValues(strconv.Itoa(interviewID)).Inc()
}

func (promRecorder) SessionEnded(reason string) {
	sessionsEnded.WithLabelValues(reason).Inc()
}

func (promRecorder) SessionsLive(n int) {
	sessionsLive.Set(float64(n))
}

func (promRecorder) TicksApplied(n int) {
	ticksProcessed.Add(float64(n))
	sessionsRunning.Set(float64(n))
}

type NopRecorder struct{}

func (NopRecorder) SessionStarted(int)  {}
func (NopRecorder) SessionEnded(string) {}
func (NopRecorder) SessionsLive(int)    {}
func (NopRecorder) TicksApplied(int)    {}

// Middleware records request metrics labelled by the matched route template.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		labels := prometheus.Labels{
			"method": c.Request.Method,
			"route":  route,
			"status": strconv.Itoa(c.Writer.Status()),
		}

		httpRequests.With(labels).Inc()
		httpLatency.With(labels).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the default Prometheus metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
