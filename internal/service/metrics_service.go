package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the pipeline.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec

	classesCreated      prometheus.Counter
	studentsCreated     prometheus.Counter
	accountsProvisioned prometheus.Counter
	documentsDeleted    prometheus.Counter
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	classesCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "roster_classes_created_total",
		Help: "Total classes created from roster uploads",
	})

	studentsCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "roster_students_created_total",
		Help: "Total student records created from roster uploads",
	})

	accountsProvisioned := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "roster_accounts_provisioned_total",
		Help: "Total student login accounts created",
	})

	documentsDeleted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "roster_documents_deleted_total",
		Help: "Total documents removed by class cascade deletes",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, classesCreated, studentsCreated, accountsProvisioned, documentsDeleted, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:            registry,
		handler:             handler,
		requestDuration:     requestDuration,
		requestTotal:        requestTotal,
		classesCreated:      classesCreated,
		studentsCreated:     studentsCreated,
		accountsProvisioned: accountsProvisioned,
		documentsDeleted:    documentsDeleted,
	}
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

// RecordIngest counts classes and students created by one roster upload.
func (m *MetricsService) RecordIngest(classes, students int) {
	if m == nil {
		return
	}
	m.classesCreated.Add(float64(classes))
	m.studentsCreated.Add(float64(students))
}

// RecordProvisioning counts accounts created by one provisioning batch.
func (m *MetricsService) RecordProvisioning(created int) {
	if m == nil {
		return
	}
	m.accountsProvisioned.Add(float64(created))
}

// RecordDeletes counts documents removed by one cascade delete.
func (m *MetricsService) RecordDeletes(count int) {
	if m == nil {
		return
	}
	m.documentsDeleted.Add(float64(count))
}
