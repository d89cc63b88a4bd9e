package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// APIMetrics gerencia métricas HTTP e de domínio.
// Um *APIMetrics nil é aceito por todos os métodos e não registra nada.
type APIMetrics struct {
	registry        *prometheus.Registry
	requestCounter  *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestSize     *prometheus.SummaryVec
	responseSize    *prometheus.SummaryVec
	activeRequests  *prometheus.GaugeVec
	errorsTotal     *prometheus.CounterVec
	rateLimited     *prometheus.CounterVec

	cadastrosCreated prometheus.Counter
	auditEntries     prometheus.Counter
	exports          *prometheus.CounterVec
}

// NewAPIMetrics cria as métricas num registro próprio
func NewAPIMetrics() *APIMetrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &APIMetrics{
		registry: registry,
		requestCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "provavida_http_requests_total",
				Help: "Total number of HTTP requests by path, method, and status code",
			},
			[]string{"path", "method", "status"},
		),

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "provavida_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"path", "method"},
		),

		requestSize: factory.NewSummaryVec(
			prometheus.SummaryOpts{
				Name:       "provavida_http_request_size_bytes",
				Help:       "HTTP request size in bytes",
				Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
			},
			[]string{"path", "method"},
		),

		responseSize: factory.NewSummaryVec(
			prometheus.SummaryOpts{
				Name:       "provavida_http_response_size_bytes",
				Help:       "HTTP response size in bytes",
				Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
			},
			[]string{"path", "method"},
		),

		activeRequests: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "provavida_http_active_requests",
				Help: "Number of in-flight requests being processed",
			},
			[]string{"path", "method"},
		),

		errorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "provavida_http_errors_total",
				Help: "Total number of errors by type",
			},
			[]string{"path", "method", "error_type"},
		),

		rateLimited: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "provavida_rate_limited_requests_total",
				Help: "Total number of rate limited requests",
			},
			[]string{"path", "method", "limit_type"},
		),

		cadastrosCreated: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "provavida_cadastros_created_total",
				Help: "Total number of registrations created",
			},
		),

		auditEntries: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "provavida_audit_entries_total",
				Help: "Total number of audit entries written by edits",
			},
		),

		exports: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "provavida_exports_total",
				Help: "Total number of generated exports by kind and format",
			},
			[]string{"kind", "format"},
		),
	}
}

// Registry devolve o registro das métricas
func (m *APIMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler expõe as métricas no formato do Prometheus
func (m *APIMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RequestStarted registra o início de uma requisição
func (m *APIMetrics) RequestStarted(path, method string) {
	if m == nil {
		return
	}
	m.activeRequests.WithLabelValues(path, method).Inc()
}

// RequestCompleted registra a conclusão de uma requisição
func (m *APIMetrics) RequestCompleted(path, method, status string, duration time.Duration, requestSize, responseSize int) {
	if m == nil {
		return
	}
	m.requestCounter.WithLabelValues(path, method, status).Inc()
	m.requestDuration.WithLabelValues(path, method).Observe(duration.Seconds())
	m.requestSize.WithLabelValues(path, method).Observe(float64(requestSize))
	m.responseSize.WithLabelValues(path, method).Observe(float64(responseSize))
	m.activeRequests.WithLabelValues(path, method).Dec()
}

// RequestError registra um erro de requisição
func (m *APIMetrics) RequestError(path, method, errorType string) {
	if m == nil {
		return
	}
	m.errorsTotal.WithLabelValues(path, method, errorType).Inc()
}

// RateLimitExceeded registra quando um limite de taxa é excedido
func (m *APIMetrics) RateLimitExceeded(path, method, limitType string) {
	if m == nil {
		return
	}
	m.rateLimited.WithLabelValues(path, method, limitType).Inc()
}

// CadastroCreated conta um novo cadastro
func (m *APIMetrics) CadastroCreated() {
	if m == nil {
		return
	}
	m.cadastrosCreated.Inc()
}

// AuditEntriesWritten soma os registros de auditoria gravados numa edição
func (m *APIMetrics) AuditEntriesWritten(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.auditEntries.Add(float64(n))
}

// ExportGenerated conta um arquivo exportado
func (m *APIMetrics) ExportGenerated(kind, format string) {
	if m == nil {
		return
	}
	m.exports.WithLabelValues(kind, format).Inc()
}
