package metrics

import (
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type manager struct {
	namespace string
	system    string
	registry  *prometheus.Registry
}

var (
	mu             sync.RWMutex
	defaultManager = &manager{
		namespace: "default",
		system:    "default",
		registry:  prometheus.NewRegistry(),
	}
)

func RegisterGoMetrics(r prometheus.Registerer) {
	r.Register(collectors.NewGoCollector())
}

// SetupMetricsManager 设置后续创建的指标所属的命名空间与注册表
func SetupMetricsManager(ns, system string, registry *prometheus.Registry) {
	mu.Lock()
	defaultManager = &manager{
		namespace: ns,
		system:    system,
		registry:  registry,
	}
	mu.Unlock()
	RegisterGoMetrics(registry)
}

func current() *manager {
	mu.RLock()
	defer mu.RUnlock()
	return defaultManager
}

func Registry() *prometheus.Registry {
	return current().registry
}

// register keeps the already registered collector when an identical one exists.
func register[T prometheus.Collector](r prometheus.Registerer, c T) T {
	if err := r.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing
			}
		}
	}
	return c
}

func emptyLabels(labels []string) []string {
	return make([]string, len(labels))
}

func NewCounterVec(name string, labels []string) *prometheus.CounterVec {
	m := current()
	vec := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: FmtFixer(m.namespace),
		Subsystem: FmtFixer(m.system),
		Name:      FmtFixer(name),
		Help:      fmt.Sprintf("%s count of /%s/%s", name, m.namespace, m.system),
	}, labels)
	vec = register(m.registry, vec)
	vec.WithLabelValues(emptyLabels(labels)...).Add(0)
	return vec
}

func NewHistogramVec(name string, labels []string) *prometheus.HistogramVec {
	m := current()
	vec := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: FmtFixer(m.namespace),
		Subsystem: FmtFixer(m.system),
		Name:      FmtFixer(name),
		Help:      fmt.Sprintf("%s duration of /%s/%s", name, m.namespace, m.system),
	}, labels)
	return register(m.registry, vec)
}

func NewGaugeVec(name string, labels []string) *prometheus.GaugeVec {
	m := current()
	vec := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: FmtFixer(m.namespace),
		Subsystem: FmtFixer(m.system),
		Name:      FmtFixer(name),
		Help:      fmt.Sprintf("%s gauge of /%s/%s", name, m.namespace, m.system),
	}, labels)
	vec = register(m.registry, vec)
	vec.WithLabelValues(emptyLabels(labels)...).Add(0)
	return vec
}

func ExportHandler() http.Handler {
	r := Registry()
	return promhttp.InstrumentMetricHandler(r, promhttp.HandlerFor(r, promhttp.HandlerOpts{}))
}

func DefaultExportHandler() gin.HandlerFunc {
	h := ExportHandler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

func FmtFixer(in string) string {
	return strings.NewReplacer(".", "_", "-", "_").Replace(in)
}
