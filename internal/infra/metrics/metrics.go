// File: internal/infra/metrics/metrics.go
package metrics

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	paymentLinksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_links_total",
			Help: "Payment link creations by result (initiated/reused/failed).",
		},
		[]string{"result"},
	)

	callbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_callbacks_total",
			Help: "Webhook callbacks by outcome (success/failed/unknown/rejected/unauthenticated).",
		},
		[]string{"outcome"},
	)

	refundsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "refunds_total",
			Help: "Refund attempts by result (succeeded/rejected/failed).",
		},
		[]string{"result"},
	)

	processorLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "processor_call_latency_ms",
			Help:    "Outbound processor call latency distribution in milliseconds.",
			Buckets: []float64{10, 25, 50, 100, 200, 400, 800, 1600, 3000, 5000, 10000, 30000},
		},
		[]string{"operation", "success"},
	)
)

// MustRegister registers collectors with the default registry (idempotent).
func MustRegister() {
	once.Do(func() {
		prometheus.MustRegister(
			paymentLinksTotal, callbacksTotal, refundsTotal, processorLatencyMs,
		)
	})
}

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func IncPaymentLink(result string) {
	paymentLinksTotal.WithLabelValues(norm(result)).Inc()
}

func IncCallback(outcome string) {
	callbacksTotal.WithLabelValues(norm(outcome)).Inc()
}

func IncRefund(result string) {
	refundsTotal.WithLabelValues(norm(result)).Inc()
}

func ObserveProcessorCall(operation string, elapsed time.Duration, success bool) {
	processorLatencyMs.WithLabelValues(norm(operation), strconv.FormatBool(success)).
		Observe(float64(elapsed.Milliseconds()))
}
