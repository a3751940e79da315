package pipeline

import "github.com/prometheus/client_golang/prometheus"

// Metrics instruments the pipeline. All methods are nil-safe so callers
// that do not scrape can pass a nil *Metrics.
type Metrics struct {
	DocumentsProcessed prometheus.Counter
	RewriteFailures    prometheus.Counter
	TriplesNormalized  prometheus.Counter
	LinesRecovered     prometheus.Counter
}

// NewMetrics creates the pipeline counters. Call Register to attach them
// to a registry.
func NewMetrics() *Metrics {
	return &Metrics{
		DocumentsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "semtrace",
			Subsystem: "pipeline",
			Name:      "documents_processed_total",
			Help:      "Documents run through the full pipeline.",
		}),
		RewriteFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "semtrace",
			Subsystem: "pipeline",
			Name:      "rewrite_failures_total",
			Help:      "Documents rejected by the precondition rewriter.",
		}),
		TriplesNormalized: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "semtrace",
			Subsystem: "pipeline",
			Name:      "triples_normalized_total",
			Help:      "Triples emitted by the postcondition normalizer.",
		}),
		LinesRecovered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "semtrace",
			Subsystem: "pipeline",
			Name:      "line_numbers_recovered_total",
			Help:      "Subject line-number table entries recovered.",
		}),
	}
}

// Register attaches all counters to reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		m.DocumentsProcessed,
		m.RewriteFailures,
		m.TriplesNormalized,
		m.LinesRecovered,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) documentProcessed(triples, lines int) {
	if m == nil {
		return
	}
	m.DocumentsProcessed.Inc()
	m.TriplesNormalized.Add(float64(triples))
	m.LinesRecovered.Add(float64(lines))
}

func (m *Metrics) rewriteFailure() {
	if m == nil {
		return
	}
	m.RewriteFailures.Inc()
}
