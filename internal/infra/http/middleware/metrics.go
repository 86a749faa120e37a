package middleware

import (
	"bufio"
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/leadflow/crm-directory/internal/entity"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	activeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	leadsAssigned = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_leads_assigned_total",
			Help: "Total number of leads assigned to employees",
		},
		[]string{"mode"},
	)

	leadsRecycled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "crm_leads_recycled_total",
			Help: "Total number of leads returned to the pool on offboarding",
		},
	)

	leadsImported = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "crm_leads_imported_total",
			Help: "Total number of imported leads",
		},
	)

	dealsClosed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "crm_deals_closed_total",
			Help: "Total number of leads closed as DEAL",
		},
	)

	eventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_events_total",
			Help: "Total number of directory events by type",
		},
		[]string{"type"},
	)

	integrationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "integration_errors_total",
			Help: "Total number of integration errors",
		},
		[]string{"service"},
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// Hijack passes through to the wrapped writer for the websocket upgrade.
func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	return h.Hijack()
}

func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		activeConnections.Inc()
		defer activeConnections.Dec()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.statusCode)
		path := routePattern(r)

		httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// routePattern keeps the path label bounded: /leads/{id} instead of one
// series per lead id.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}

func RecordIntegrationError(service string) {
	integrationErrors.WithLabelValues(service).Inc()
}

// MetricsPublisher turns directory events into domain counters.
type MetricsPublisher struct{}

func (MetricsPublisher) Publish(_ context.Context, event entity.Event) error {
	eventsPublished.WithLabelValues(string(event.Type)).Inc()

	switch event.Type {
	case entity.EventLeadsAssigned:
		var p entity.LeadsAssignedPayload
		if err := event.Decode(&p); err != nil {
			return err
		}
		leadsAssigned.WithLabelValues(p.Mode).Add(float64(len(p.LeadIDs)))
	case entity.EventEmployeeDeactivated:
		var p entity.EmployeeDeactivatedPayload
		if err := event.Decode(&p); err != nil {
			return err
		}
		leadsRecycled.Add(float64(p.RecycledLeadCount))
	case entity.EventLeadsImported:
		var p entity.LeadsImportedPayload
		if err := event.Decode(&p); err != nil {
			return err
		}
		leadsImported.Add(float64(p.Count))
	case entity.EventCustomerCreated:
		dealsClosed.Inc()
	}
	return nil
}
