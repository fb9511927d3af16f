package udf

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts function calls. A nil *Metrics records nothing.
type Metrics struct {
	rows     *prometheus.CounterVec
	nullRows *prometheus.CounterVec
	cache    *prometheus.CounterVec
	errors   *prometheus.CounterVec
}

// NewMetrics creates the counters and registers them with reg.
// A nil reg creates unregistered counters. Registering twice on the same
// registry panics, as with promauto.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		rows: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rextract_rows_total",
				Help: "Rows processed by extraction functions.",
			},
			[]string{"function"},
		),
		nullRows: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rextract_null_rows_total",
				Help: "Null rows produced by extraction functions.",
			},
			[]string{"function"},
		),
		cache: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rextract_pattern_cache_total",
				Help: "Compiled pattern cache lookups, by result.",
			},
			[]string{"function", "result"},
		),
		errors: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rextract_errors_total",
				Help: "Failed calls, by error kind.",
			},
			[]string{"function", "kind"},
		),
	}
}

func (m *Metrics) observeRows(function string, rows, nulls int) {
	if m == nil {
		return
	}
	m.rows.WithLabelValues(function).Add(float64(rows))
	m.nullRows.WithLabelValues(function).Add(float64(nulls))
}

func (m *Metrics) observeCache(function string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cache.WithLabelValues(function, result).Inc()
}

func (m *Metrics) observeError(function, kind string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(function, kind).Inc()
}
