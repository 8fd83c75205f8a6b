package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guardian_http_requests_total",
			Help: "Total number of HTTP requests processed.",
		},
		[]string{"method", "route", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "guardian_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
	wsActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "guardian_ws_active_sessions",
			Help: "Number of live websocket sessions.",
		},
	)
	wsEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guardian_ws_events_total",
			Help: "Total number of websocket events by name and outcome.",
		},
		[]string{"event", "outcome"},
	)
	classifierCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guardian_classifier_calls_total",
			Help: "Total number of classification attempts by outcome.",
		},
		[]string{"outcome"},
	)
	classifierCallDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "guardian_classifier_call_duration_seconds",
			Help:    "Classifier call latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
	)
	alertsDispatchedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guardian_alerts_dispatched_total",
			Help: "Total number of alerts by severity.",
		},
		[]string{"severity"},
	)
	amqpPublishErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "guardian_amqp_publish_errors_total",
			Help: "Total number of AMQP publish errors.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		wsActiveSessions,
		wsEventsTotal,
		classifierCallsTotal,
		classifierCallDuration,
		alertsDispatchedTotal,
		amqpPublishErrorsTotal,
	)
}

// HTTPMetricsMiddleware records request counts and latencies per route.
func HTTPMetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		status := c.Writer.Status()

		httpRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

func IncWSActive() {
	wsActiveSessions.Inc()
}

func DecWSActive() {
	wsActiveSessions.Dec()
}

// IncWSEvent counts an inbound websocket event. Outcome is one of "ok",
// "dropped" or "denied".
func IncWSEvent(event, outcome string) {
	wsEventsTotal.WithLabelValues(event, outcome).Inc()
}

func ObserveClassifierCall(outcome string, duration time.Duration) {
	classifierCallsTotal.WithLabelValues(outcome).Inc()
	classifierCallDuration.Observe(duration.Seconds())
}

func IncAlertDispatched(severity string) {
	alertsDispatchedTotal.WithLabelValues(severity).Inc()
}

func IncAMQPPublishError() {
	amqpPublishErrorsTotal.Inc()
}
