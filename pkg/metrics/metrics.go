// Package metrics Prometheus метрики сервиса
package metrics

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор коллекторов сервиса
type Metrics struct {
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	dbQueries       *prometheus.CounterVec
	dbQueryDuration *prometheus.HistogramVec
	dbOpenConns     prometheus.Gauge
	dbInUseConns    prometheus.Gauge
	dbIdleConns     prometheus.Gauge
	dbWaitCount     prometheus.Gauge

	bookingsCreated  *prometheus.CounterVec
	bookingConflicts prometheus.Counter
	commitDuration   *prometheus.HistogramVec
	fullDatesCache   *prometheus.CounterVec
}

// New регистрирует метрики в глобальном registry
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer регистрирует метрики в переданном registry
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	labels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: labels,
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: labels,
		}, []string{"method", "route"}),
		dbQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_queries_total",
			Help:        "Total number of database queries",
			ConstLabels: labels,
		}, []string{"operation", "result"}),
		dbQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency",
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			ConstLabels: labels,
		}, []string{"operation"}),
		dbOpenConns: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_pool_open_connections",
			Help:        "Open connections in the pool",
			ConstLabels: labels,
		}),
		dbInUseConns: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_pool_in_use_connections",
			Help:        "Connections currently in use",
			ConstLabels: labels,
		}),
		dbIdleConns: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_pool_idle_connections",
			Help:        "Idle connections in the pool",
			ConstLabels: labels,
		}),
		dbWaitCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_pool_wait_count",
			Help:        "Total number of connections waited for",
			ConstLabels: labels,
		}),
		bookingsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "bookings_created_total",
			Help:        "Bookings committed, by initial status",
			ConstLabels: labels,
		}, []string{"status"}),
		bookingConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "booking_conflicts_total",
			Help:        "Commit attempts rejected with a slot conflict",
			ConstLabels: labels,
		}),
		commitDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "booking_commit_duration_seconds",
			Help:        "Booking commit latency by outcome",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: labels,
		}, []string{"outcome"}),
		fullDatesCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "full_dates_cache_total",
			Help:        "Full dates cache lookups by result",
			ConstLabels: labels,
		}, []string{"result"}),
	}

	reg.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.dbQueries,
		m.dbQueryDuration,
		m.dbOpenConns,
		m.dbInUseConns,
		m.dbIdleConns,
		m.dbWaitCount,
		m.bookingsCreated,
		m.bookingConflicts,
		m.commitDuration,
		m.fullDatesCache,
	)

	return m
}

// ObserveHTTPRequest фиксирует обработанный HTTP запрос
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveDBQuery фиксирует выполненный запрос к БД
func (m *Metrics) ObserveDBQuery(operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil && err != sql.ErrNoRows {
		result = "error"
	}
	m.dbQueries.WithLabelValues(operation, result).Inc()
	m.dbQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// SetDBPoolStats обновляет метрики connection pool
func (m *Metrics) SetDBPoolStats(stats sql.DBStats) {
	if m == nil {
		return
	}
	m.dbOpenConns.Set(float64(stats.OpenConnections))
	m.dbInUseConns.Set(float64(stats.InUse))
	m.dbIdleConns.Set(float64(stats.Idle))
	m.dbWaitCount.Set(float64(stats.WaitCount))
}

// BookingCreated увеличивает счётчик созданных бронирований
func (m *Metrics) BookingCreated(status string) {
	if m == nil {
		return
	}
	m.bookingsCreated.WithLabelValues(status).Inc()
}

// BookingConflict увеличивает счётчик конфликтов при коммите
func (m *Metrics) BookingConflict() {
	if m == nil {
		return
	}
	m.bookingConflicts.Inc()
}

// ObserveCommit фиксирует длительность коммита бронирования
func (m *Metrics) ObserveCommit(outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.commitDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// FullDatesCache фиксирует результат обращения к кэшу заполненных дней (hit, miss, error)
func (m *Metrics) FullDatesCache(result string) {
	if m == nil {
		return
	}
	m.fullDatesCache.WithLabelValues(result).Inc()
}
