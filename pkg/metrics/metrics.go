package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор prometheus-метрик сервиса
type Metrics struct {
	service string

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	dbQueryDuration   *prometheus.HistogramVec
	dbConnectionsOpen *prometheus.GaugeVec

	syncRecordsTotal *prometheus.CounterVec
}

// New регистрирует метрики в дефолтном registry
func New(serviceName string) *Metrics {
	return &Metrics{
		service: serviceName,
		httpRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"service", "method", "path", "status"}),
		httpRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "method", "path"}),
		dbQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "store", "operation"}),
		dbConnectionsOpen: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_connections",
			Help: "Database connection pool state",
		}, []string{"service", "store", "state"}),
		syncRecordsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sync_records_total",
			Help: "Legacy reservation sync outcomes",
		}, []string{"service", "result"}),
	}
}

// ObserveHTTPRequest фиксирует завершенный HTTP запрос
func (m *Metrics) ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(m.service, method, path, status).Inc()
	m.httpRequestDuration.WithLabelValues(m.service, method, path).Observe(duration.Seconds())
}

// ObserveDBQuery фиксирует длительность запроса к БД
func (m *Metrics) ObserveDBQuery(store, operation string, duration time.Duration) {
	m.dbQueryDuration.WithLabelValues(m.service, store, operation).Observe(duration.Seconds())
}

// SetDBConnections обновляет состояние пула соединений
func (m *Metrics) SetDBConnections(store, state string, value float64) {
	m.dbConnectionsOpen.WithLabelValues(m.service, store, state).Set(value)
}

// IncSyncRecord фиксирует результат миграции одной легаси-записи
// result: "succeeded", "skipped", "failed", "budget_exhausted"
func (m *Metrics) IncSyncRecord(result string) {
	m.syncRecordsTotal.WithLabelValues(m.service, result).Inc()
}
