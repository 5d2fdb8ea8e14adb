package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "mandlimart"

// Checkout outcomes.
const (
	OutcomePlaced        = "placed"
	OutcomeInvalid       = "invalid"
	OutcomeFailed        = "failed"
	OutcomeConflict      = "conflict"
	OutcomePartialCommit = "partial_commit"
)

// CheckoutMetrics tracks order placement and the cart cleanup follow-up.
type CheckoutMetrics struct {
	orders  *prometheus.CounterVec
	cleanup *prometheus.CounterVec
	streams prometheus.Gauge
}

func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	orders := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checkout_orders_total",
		Help:      "Order placement attempts by outcome.",
	}, []string{"outcome"})
	cleanup := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checkout_cart_cleanup_total",
		Help:      "Cart cleanup retries by result.",
	}, []string{"result"})
	streams := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "order_streams_active",
		Help:      "Open order status websocket streams.",
	})
	reg.MustRegister(orders, cleanup, streams)
	return &CheckoutMetrics{orders: orders, cleanup: cleanup, streams: streams}
}

func (m *CheckoutMetrics) Outcome(outcome string) {
	if m == nil || m.orders == nil {
		return
	}
	m.orders.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func (m *CheckoutMetrics) Cleanup(err error) {
	if m == nil || m.cleanup == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.cleanup.WithLabelValues(result).Inc()
}

// StreamOpened returns a func that must be called when the stream ends.
func (m *CheckoutMetrics) StreamOpened() func() {
	if m == nil || m.streams == nil {
		return func() {}
	}
	m.streams.Inc()
	return m.streams.Dec
}
