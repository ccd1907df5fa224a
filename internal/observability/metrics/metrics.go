package metrics

import (
	"database/sql"
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "propfolio_"

	// ResultSuccess labels a successful operation.
	ResultSuccess = "success"
	// ResultError labels a failed operation.
	ResultError = "error"
)

var (
	registerOnce sync.Once

	chargeGenerateTotal   *prometheus.CounterVec
	chargeGenerateLatency *prometheus.HistogramVec
	chargesCreatedTotal   prometheus.Counter

	lateFeeApplyTotal    *prometheus.CounterVec
	lateFeeApplyLatency  *prometheus.HistogramVec
	lateFeesAppliedTotal prometheus.Counter

	rentRollTotal   *prometheus.CounterVec
	rentRollLatency *prometheus.HistogramVec

	reportTotal   *prometheus.CounterVec
	reportLatency *prometheus.HistogramVec

	exportTotal   *prometheus.CounterVec
	exportLatency *prometheus.HistogramVec

	expenseImportRows *prometheus.CounterVec
)

// Init registers observability metrics and DB-backed gauges.
func Init(db *sql.DB, logger *log.Logger) {
	registerOnce.Do(func() {
		chargeGenerateTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "charge_generate_total",
				Help: "Total charge generation runs by result",
			},
			[]string{"result"},
		)
		chargeGenerateLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "charge_generate_latency_seconds",
				Help:    "Charge generation latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)
		chargesCreatedTotal = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "charges_created_total",
				Help: "Total rent charges created by the generator",
			},
		)

		lateFeeApplyTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "late_fee_apply_total",
				Help: "Total late fee runs by result",
			},
			[]string{"result"},
		)
		lateFeeApplyLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "late_fee_apply_latency_seconds",
				Help:    "Late fee run latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)
		lateFeesAppliedTotal = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "late_fees_applied_total",
				Help: "Total late fee charges created",
			},
		)

		rentRollTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "rent_roll_total",
				Help: "Total rent roll assemblies by result",
			},
			[]string{"result"},
		)
		rentRollLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "rent_roll_latency_seconds",
				Help:    "Rent roll assembly latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)

		reportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "report_total",
				Help: "Total P&L report builds by kind and result",
			},
			[]string{"kind", "result"},
		)
		reportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "report_latency_seconds",
				Help:    "P&L report build latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind", "result"},
		)

		exportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "export_total",
				Help: "Total exports by format and result",
			},
			[]string{"format", "result"},
		)
		exportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "export_latency_seconds",
				Help:    "Export latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format", "result"},
		)

		expenseImportRows = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "expense_import_rows_total",
				Help: "Total expense import rows by outcome",
			},
			[]string{"outcome"},
		)

		prometheus.MustRegister(
			chargeGenerateTotal,
			chargeGenerateLatency,
			chargesCreatedTotal,
			lateFeeApplyTotal,
			lateFeeApplyLatency,
			lateFeesAppliedTotal,
			rentRollTotal,
			rentRollLatency,
			reportTotal,
			reportLatency,
			exportTotal,
			exportLatency,
			expenseImportRows,
		)

		if db != nil {
			registerDBMetrics(db, logger)
		}
	})
}

// ObserveChargeGenerate records one charge generation run.
func ObserveChargeGenerate(result string, duration time.Duration) {
	if result == "" {
		result = ResultSuccess
	}
	if chargeGenerateTotal != nil {
		chargeGenerateTotal.WithLabelValues(result).Inc()
	}
	if chargeGenerateLatency != nil {
		chargeGenerateLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// AddChargesCreated counts charges created by the generator.
func AddChargesCreated(n int) {
	if chargesCreatedTotal != nil && n > 0 {
		chargesCreatedTotal.Add(float64(n))
	}
}

// ObserveLateFeeApply records one late fee run.
func ObserveLateFeeApply(result string, duration time.Duration) {
	if result == "" {
		result = ResultSuccess
	}
	if lateFeeApplyTotal != nil {
		lateFeeApplyTotal.WithLabelValues(result).Inc()
	}
	if lateFeeApplyLatency != nil {
		lateFeeApplyLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// AddLateFeesApplied counts late fee charges created.
func AddLateFeesApplied(n int) {
	if lateFeesAppliedTotal != nil && n > 0 {
		lateFeesAppliedTotal.Add(float64(n))
	}
}

// ObserveRentRoll records one rent roll assembly.
func ObserveRentRoll(result string, duration time.Duration) {
	if result == "" {
		result = ResultSuccess
	}
	if rentRollTotal != nil {
		rentRollTotal.WithLabelValues(result).Inc()
	}
	if rentRollLatency != nil {
		rentRollLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// ObserveReport records one P&L report build.
func ObserveReport(kind, result string, duration time.Duration) {
	if kind == "" {
		kind = "unknown"
	}
	if result == "" {
		result = ResultSuccess
	}
	if reportTotal != nil {
		reportTotal.WithLabelValues(kind, result).Inc()
	}
	if reportLatency != nil {
		reportLatency.WithLabelValues(kind, result).Observe(duration.Seconds())
	}
}

// ObserveExport records one export by format.
func ObserveExport(format, result string, duration time.Duration) {
	if format == "" {
		format = "unknown"
	}
	if result == "" {
		result = ResultSuccess
	}
	if exportTotal != nil {
		exportTotal.WithLabelValues(format, result).Inc()
	}
	if exportLatency != nil {
		exportLatency.WithLabelValues(format, result).Observe(duration.Seconds())
	}
}

// IncExpenseImportRow counts one expense import row outcome.
func IncExpenseImportRow(outcome string) {
	if outcome == "" {
		outcome = "unknown"
	}
	if expenseImportRows != nil {
		expenseImportRows.WithLabelValues(outcome).Inc()
	}
}
