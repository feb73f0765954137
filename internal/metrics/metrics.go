package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "qc_http_requests_total",
		Help: "Total HTTP requests by method, path and status code",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "qc_http_request_duration_seconds",
		Help:    "HTTP request duration by method and path",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	ShiftsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "qc_shifts_created_total",
		Help: "Shifts opened by operators",
	})

	ShiftsClosed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "qc_shifts_closed_total",
		Help: "Shifts closed, by trigger (manual or auto)",
	}, []string{"trigger"})

	ControlRecordsSaved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "qc_control_records_saved_total",
		Help: "Control records written to the ledger",
	})

	ExternalWritebackFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "qc_external_writeback_failures_total",
		Help: "Failed best-effort status write-backs to the external card databases",
	})

	PanicsRecovered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "qc_http_panics_recovered_total",
		Help: "Panics caught by the recovery middleware",
	})
)
