package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/eliteshop/storefront/internal/common/config"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the storefront's prometheus collectors. All recording
// methods are safe on a nil receiver so callers can run without metrics.
type Metrics struct {
	registry        *prometheus.Registry
	httpReqCnt      *prometheus.CounterVec
	httpDur         *prometheus.HistogramVec
	httpInfl        *prometheus.GaugeVec
	decodeFallbacks *prometheus.CounterVec
	ordersPlaced    *prometheus.CounterVec
	orderRevenue    *prometheus.CounterVec
	statusChanges   *prometheus.CounterVec
	authAttempts    *prometheus.CounterVec
}

func New(cfg config.MetricsConfig) *Metrics {
	ns := cfg.Namespace
	buckets := cfg.Buckets
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}

	r := prometheus.NewRegistry()
	r.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	r.MustRegister(collectors.NewGoCollector())

	m := &Metrics{
		registry:        r,
		httpReqCnt:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "http_requests_total"}, []string{"method", "route", "status"}),
		httpDur:         prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: ns, Name: "http_request_duration_seconds", Buckets: buckets}, []string{"method", "route", "status"}),
		httpInfl:        prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: ns, Name: "http_requests_inflight"}, []string{"route"}),
		decodeFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "store_decode_fallbacks_total", Help: "Stored values that failed to decode and were replaced by defaults."}, []string{"key"}),
		ordersPlaced:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "orders_placed_total"}, []string{"type", "payment_method"}),
		orderRevenue:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "orders_revenue_bdt_total"}, []string{"type"}),
		statusChanges:   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "order_status_changes_total"}, []string{"status"}),
		authAttempts:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "auth_attempts_total"}, []string{"action", "result"}),
	}
	r.MustRegister(m.httpReqCnt, m.httpDur, m.httpInfl)
	r.MustRegister(m.decodeFallbacks, m.ordersPlaced, m.orderRevenue, m.statusChanges, m.authAttempts)
	return m
}

// DecodeFallback counts a corrupt stored value replaced by its default
func (m *Metrics) DecodeFallback(key string) {
	if m == nil {
		return
	}
	m.decodeFallbacks.WithLabelValues(key).Inc()
}

func (m *Metrics) OrderPlaced(productType, paymentMethod string, total float64) {
	if m == nil {
		return
	}
	m.ordersPlaced.WithLabelValues(productType, paymentMethod).Inc()
	m.orderRevenue.WithLabelValues(productType).Add(total)
}

func (m *Metrics) OrderStatusChanged(status string) {
	if m == nil {
		return
	}
	m.statusChanges.WithLabelValues(status).Inc()
}

// AuthAttempt records a login, signup or admin-code attempt
func (m *Metrics) AuthAttempt(action string, ok bool) {
	if m == nil {
		return
	}
	result := "failure"
	if ok {
		result = "success"
	}
	m.authAttempts.WithLabelValues(action, result).Inc()
}

func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpInfl.WithLabelValues(route).Inc()
		start := time.Now()
		c.Next()
		status := strconv.Itoa(c.Writer.Status())
		m.httpReqCnt.WithLabelValues(c.Request.Method, route, status).Inc()
		m.httpDur.WithLabelValues(c.Request.Method, route, status).Observe(time.Since(start).Seconds())
		m.httpInfl.WithLabelValues(route).Dec()
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry, mainly for tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
