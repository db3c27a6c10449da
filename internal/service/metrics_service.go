package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for HTTP, cache and
// the attendance rules.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	inFlight        prometheus.Gauge
	feedConnections *prometheus.GaugeVec
	cacheLatency    prometheus.Histogram
	cacheWrite      prometheus.Histogram
	cacheHitRatio   prometheus.Gauge
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	dbQueryDuration *prometheus.HistogramVec

	attendanceWrites     *prometheus.CounterVec
	attendanceRejections *prometheus.CounterVec
	enrollmentsCreated   *prometheus.CounterVec
	exportJobs           *prometheus.CounterVec
	insuranceExpiring    prometheus.Gauge
	insuranceExpired     prometheus.Gauge

	cacheHitCount  uint64
	cacheMissCount uint64
}

// NewMetricsService registers the collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	m := &MetricsService{
		registry: registry,
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "HTTP requests currently being served, excluding websocket feeds",
		}),
		feedConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "realtime_feed_connections",
			Help: "Open websocket feed connections, by route",
		}, []string{"path"}),
		cacheLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "cache_latency_seconds",
			Help:    "Latency for cache operations",
			Buckets: prometheus.DefBuckets,
		}),
		cacheWrite: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "cache_write_seconds",
			Help:    "Latency for cache set operations",
			Buckets: prometheus.DefBuckets,
		}),
		cacheHitRatio: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cache_hit_ratio",
			Help: "Ratio of cache hits to total cache lookups",
		}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total cache hits",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total cache misses",
		}),
		dbQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Duration of database queries",
			Buckets: prometheus.DefBuckets,
		}, []string{"query"}),
		attendanceWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "attendance_writes_total",
			Help: "Attendance records written, by operation",
		}, []string{"operation"}),
		attendanceRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "attendance_rejections_total",
			Help: "Attendance writes refused by a business rule",
		}, []string{"rule"}),
		enrollmentsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "enrollments_created_total",
			Help: "Enrollments created, by derived payment status",
		}, []string{"payment_status"}),
		exportJobs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "attendance_export_jobs_total",
			Help: "Attendance report export jobs, by final status",
		}, []string{"status"}),
		insuranceExpiring: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "insurance_policies_expiring",
			Help: "Active insurance policies inside the expiring window at the last sweep",
		}),
		insuranceExpired: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "insurance_policies_expired",
			Help: "Expired insurance policies at the last sweep",
		}),
	}

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(
		m.requestDuration, m.requestTotal, m.inFlight, m.feedConnections,
		m.cacheLatency, m.cacheWrite,
		m.cacheHitRatio, m.cacheHits, m.cacheMisses, m.dbQueryDuration,
		m.attendanceWrites, m.attendanceRejections, m.enrollmentsCreated, m.exportJobs,
		m.insuranceExpiring, m.insuranceExpired,
		goroutines,
	)
	m.handler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return m
}

// Registry exposes the registry so other components can add collectors.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// TrackInFlight marks a request as started and returns its completion func.
func (m *MetricsService) TrackInFlight() func() {
	if m == nil {
		return func() {}
	}
	m.inFlight.Inc()
	return m.inFlight.Dec
}

// TrackFeed counts an open websocket feed on path until the returned func runs.
func (m *MetricsService) TrackFeed(path string) func() {
	if m == nil {
		return func() {}
	}
	g := m.feedConnections.WithLabelValues(path)
	g.Inc()
	return g.Dec
}

// RecordCacheOperation records cache hit/miss metrics and updates hit ratio.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	if hit {
		m.cacheHits.Inc()
		atomic.AddUint64(&m.cacheHitCount, 1)
	} else {
		m.cacheMisses.Inc()
		atomic.AddUint64(&m.cacheMissCount, 1)
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	total := hits + atomic.LoadUint64(&m.cacheMissCount)
	if total > 0 {
		m.cacheHitRatio.Set(float64(hits) / float64(total))
	}
}

// ObserveCacheWrite tracks the duration for cache write operations.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// ObserveDBQuery records database query timing.
func (m *MetricsService) ObserveDBQuery(label string, duration time.Duration) {
	if m == nil {
		return
	}
	m.dbQueryDuration.WithLabelValues(label).Observe(duration.Seconds())
}

// AttendanceWritten counts a stored attendance record.
func (m *MetricsService) AttendanceWritten(operation string) {
	if m == nil {
		return
	}
	m.attendanceWrites.WithLabelValues(operation).Inc()
}

// AttendanceRejected counts an attendance write refused by rule.
func (m *MetricsService) AttendanceRejected(rule string) {
	if m == nil {
		return
	}
	m.attendanceRejections.WithLabelValues(rule).Inc()
}

// EnrollmentCreated counts a new enrollment.
func (m *MetricsService) EnrollmentCreated(paymentStatus string) {
	if m == nil {
		return
	}
	m.enrollmentsCreated.WithLabelValues(paymentStatus).Inc()
}

// ExportFinished counts an export job reaching a final status.
func (m *MetricsService) ExportFinished(status string) {
	if m == nil {
		return
	}
	m.exportJobs.WithLabelValues(status).Inc()
}

// SetInsuranceCounts publishes the result of an insurance sweep.
func (m *MetricsService) SetInsuranceCounts(expiring, expired int) {
	if m == nil {
		return
	}
	m.insuranceExpiring.Set(float64(expiring))
	m.insuranceExpired.Set(float64(expired))
}
