package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type HTTPMetrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

type DBMetrics struct {
	QueryDuration *prometheus.HistogramVec
}

type BusinessMetrics struct {
	EligibilityDecisionsTotal *prometheus.CounterVec
	LoansCreatedTotal         prometheus.Counter
	CustomersRegisteredTotal  prometheus.Counter
}

type IngestionMetrics struct {
	RowsTotal     *prometheus.CounterVec
	StageDuration *prometheus.HistogramVec
	JobsTotal     *prometheus.CounterVec
}

var (
	HTTP = HTTPMetrics{
		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "credit_approval_http_requests_total",
				Help: "Total number of HTTP requests received.",
			},
			[]string{"method", "path", "code"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "credit_approval_http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "code"},
		),
	}

	DB = DBMetrics{
		QueryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "credit_approval_db_query_duration_seconds",
				Help:    "Histogram of database query latencies.",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"query_name", "status"},
		),
	}

	Business = BusinessMetrics{
		EligibilityDecisionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "credit_approval_eligibility_decisions_total",
				Help: "Eligibility decisions by outcome.",
			},
			[]string{"outcome"},
		),
		LoansCreatedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "credit_approval_loans_created_total",
				Help: "Total number of loans originated.",
			},
		),
		CustomersRegisteredTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "credit_approval_customers_registered_total",
				Help: "Total number of customers registered through the API.",
			},
		),
	}

	Ingestion = IngestionMetrics{
		RowsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "credit_approval_ingestion_rows_total",
				Help: "Rows handled by the ingestion pipeline.",
			},
			[]string{"stage", "result"},
		),
		StageDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "credit_approval_ingestion_stage_duration_seconds",
				Help:    "Duration of ingestion pipeline stages.",
				Buckets: []float64{.1, .5, 1, 5, 15, 60, 300},
			},
			[]string{"stage", "status"},
		),
		JobsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "credit_approval_ingestion_jobs_total",
				Help: "Ingestion pipeline jobs by mode and status.",
			},
			[]string{"mode", "status"},
		),
	}
)

func RecordHTTPRequest(method, path, code string, duration time.Duration) {
	HTTP.RequestsTotal.WithLabelValues(method, path, code).Inc()
	HTTP.RequestDuration.WithLabelValues(method, path, code).Observe(duration.Seconds())
}

func RecordDBQuery(queryName, status string, duration time.Duration) {
	DB.QueryDuration.WithLabelValues(queryName, status).Observe(duration.Seconds())
}

func RecordEligibilityDecision(outcome string) {
	Business.EligibilityDecisionsTotal.WithLabelValues(outcome).Inc()
}

func RecordLoanCreated() {
	Business.LoansCreatedTotal.Inc()
}

func RecordCustomerRegistered() {
	Business.CustomersRegisteredTotal.Inc()
}

func RecordIngestionRows(stage, result string, count int) {
	if count <= 0 {
		return
	}
	Ingestion.RowsTotal.WithLabelValues(stage, result).Add(float64(count))
}

func RecordIngestionStage(stage, status string, duration time.Duration) {
	Ingestion.StageDuration.WithLabelValues(stage, status).Observe(duration.Seconds())
}

func RecordIngestionJob(mode, status string) {
	Ingestion.JobsTotal.WithLabelValues(mode, status).Inc()
}
