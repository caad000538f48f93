// internal/metrics/metrics.go
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Transaction results recorded by ObserveTransaction.
const (
	ResultCreated            = "created"
	ResultInsufficientCredit = "insufficient_credit"
	ResultRejected           = "rejected"
	ResultError              = "error"
)

// Metrics holds the application's collectors. A nil *Metrics records nothing.
type Metrics struct {
	requestsTotal *prometheus.CounterVec
	httpLatency   *prometheus.HistogramVec
	transactions  *prometheus.CounterVec
	gatherer      prometheus.Gatherer
}

// New creates the collectors and registers them with reg.
// Pass prometheus.DefaultRegisterer in production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"route", "method", "status"},
		),
		httpLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_requests_latency_seconds",
				Help:    "Latency of HTTP requests.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
		transactions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transactions_total",
				Help: "Credit transactions by outcome",
			},
			[]string{"result"},
		),
		gatherer: prometheus.DefaultGatherer,
	}
	reg.MustRegister(m.requestsTotal, m.httpLatency, m.transactions)
	if g, ok := reg.(prometheus.Gatherer); ok {
		m.gatherer = g
	}
	return m
}

// Handler serves the registered collectors in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// ObserveTransaction counts a transaction attempt by result.
func (m *Metrics) ObserveTransaction(result string) {
	if m == nil {
		return
	}
	m.transactions.WithLabelValues(result).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Middleware records request count and latency labelled by chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		route := routePattern(r)
		status := strconv.Itoa(rec.status)
		m.requestsTotal.WithLabelValues(route, r.Method, status).Inc()
		m.httpLatency.WithLabelValues(r.Method, route, status).
			Observe(time.Since(start).Seconds())
	})
}

func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if patt := rc.RoutePattern(); patt != "" {
			return patt
		}
	}
	return r.URL.Path
}
