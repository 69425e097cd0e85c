package exchange

import "github.com/prometheus/client_golang/prometheus"

// metrics mirrors the teacher's EngineStats/GetStats() counters
// (internal/orders/matching/engine_core.go), registered against a
// prometheus.Registry owned by this exchange instance rather than the
// global default registry, so two backtests in one process never collide
// (§4.4 "never the global default registry").
type metrics struct {
	ordersSubmitted prometheus.Counter
	ordersAccepted  prometheus.Counter
	ordersRejected  prometheus.Counter
	ordersFilled    prometheus.Counter
	fillLatency     prometheus.Histogram
	inflightDepth   prometheus.Gauge
}

func newMetrics(reg *prometheus.Registry) *metrics {
	m := &metrics{
		ordersSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "exchange_orders_submitted_total",
			Help: "Total orders submitted to the simulated exchange.",
		}),
		ordersAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "exchange_orders_accepted_total",
			Help: "Total orders accepted by the matching engine.",
		}),
		ordersRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "exchange_orders_rejected_total",
			Help: "Total orders rejected by the matching engine.",
		}),
		ordersFilled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "exchange_orders_filled_total",
			Help: "Total orders reaching FILLED.",
		}),
		fillLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "exchange_fill_latency_ns",
			Help:    "Commit-time minus send-time for filled orders, in nanoseconds.",
			Buckets: prometheus.ExponentialBuckets(1_000, 4, 10),
		}),
		inflightDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "exchange_inflight_queue_depth",
			Help: "Current depth of the commit-time-ordered inflight command queue.",
		}),
	}
	reg.MustRegister(m.ordersSubmitted, m.ordersAccepted, m.ordersRejected, m.ordersFilled, m.fillLatency, m.inflightDepth)
	return m
}
