package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	SourceImport   = "import"
	SourceFile     = "file"
	SourceRegister = "register"

	StatusApplied   = "applied"
	StatusDuplicate = "duplicate"
	StatusConflict  = "conflict"
	StatusError     = "error"
)

// Metrics holds the catalog counters.
type Metrics struct {
	recordsLoaded   *prometheus.CounterVec
	recordsRejected *prometheus.CounterVec
	receipts        *prometheus.CounterVec
}

// New registers the catalog counters with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		recordsLoaded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_records_loaded_total",
				Help: "Total number of records accepted into the catalog",
			},
			[]string{"source", "kind"},
		),

		recordsRejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_records_rejected_total",
				Help: "Total number of record lines or entries rejected",
			},
			[]string{"source"},
		),

		receipts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_receipts_total",
				Help: "Total number of stock receipts by outcome",
			},
			[]string{"status"},
		),
	}
}

// RecordLoaded counts an accepted record of the given type tag.
func (m *Metrics) RecordLoaded(source string, kind byte) {
	if m == nil {
		return
	}
	m.recordsLoaded.WithLabelValues(source, string(kind)).Inc()
}

func (m *Metrics) RecordRejected(source string) {
	if m == nil {
		return
	}
	m.recordsRejected.WithLabelValues(source).Inc()
}

func (m *Metrics) Receipt(status string) {
	if m == nil {
		return
	}
	m.receipts.WithLabelValues(status).Inc()
}
