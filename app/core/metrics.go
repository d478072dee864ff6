package core

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/quka-ai/course-console/pkg/metrics"
	"github.com/quka-ai/course-console/pkg/types"
)

type Metrics struct {
	apiRequestTime  *prometheus.HistogramVec
	apiErrorCounter *prometheus.CounterVec
	pollCounter     *prometheus.CounterVec
	activeSessions  *prometheus.GaugeVec
	chatCounter     *prometheus.CounterVec
	backendUp       *prometheus.GaugeVec
	outlineTasks    *prometheus.GaugeVec
}

func NewMetrics(ns, system string, registry *prometheus.Registry) *Metrics {
	metrics.SetupMetricsManager(ns, system, registry)

	return &Metrics{
		apiRequestTime:  metrics.NewHistogramVec("api_request_time", []string{"method"}),
		apiErrorCounter: metrics.NewCounterVec("api_error", []string{"method", "status"}),
		pollCounter:     metrics.NewCounterVec("poll", []string{"kind", "status"}),
		activeSessions:  metrics.NewGaugeVec("active_poll_sessions", nil),
		chatCounter:     metrics.NewCounterVec("chat_submission", []string{"outcome"}),
		backendUp:       metrics.NewGaugeVec("backend_up", nil),
		outlineTasks:    metrics.NewGaugeVec("backend_outline_tasks", []string{"state"}),
	}
}

// ObserveRequest implements apiclient.Observer.
func (m *Metrics) ObserveRequest(method string, status int, elapsed time.Duration) {
	m.apiRequestTime.WithLabelValues(method).Observe(elapsed.Seconds())
	if status < 200 || status > 299 {
		m.apiErrorCounter.WithLabelValues(method, strconv.Itoa(status)).Inc()
	}
}

// ObservePoll implements poller.Observer.
func (m *Metrics) ObservePoll(kind types.TaskKind, status string) {
	m.pollCounter.WithLabelValues(string(kind), status).Inc()
}

func (m *Metrics) SetActiveSessions(n int) {
	m.activeSessions.WithLabelValues().Set(float64(n))
}

// ObserveChat implements chat.Observer.
func (m *Metrics) ObserveChat(outcome string) {
	m.chatCounter.WithLabelValues(outcome).Inc()
}

func (m *Metrics) SetBackendUp(up bool) {
	v := 0.0
	if up {
		v = 1
	}
	m.backendUp.WithLabelValues().Set(v)
}

func (m *Metrics) SetOutlineTasks(active, total int) {
	m.outlineTasks.WithLabelValues("active").Set(float64(active))
	m.outlineTasks.WithLabelValues("total").Set(float64(total))
}
