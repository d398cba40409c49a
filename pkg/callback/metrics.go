package callback

import "github.com/prometheus/client_golang/prometheus"

var (
	deliveriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "callback_deliveries_total", Help: "delegated calls by outcome"},
		[]string{"outcome"},
	)

	rejectedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "callback_rejected_requests_total", Help: "callback requests rejected for bad headers"},
		[]string{"reason"},
	)

	deliveryTime = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "callback_delivery_time",
			Help:    "time from acceptance to webhook response.",
			Buckets: []float64{0.05, 0.5, 1, 5, 10, 30, 60},
		},
	)
)

func init() {
	prometheus.MustRegister(
		deliveriesTotal,
		rejectedTotal,
		deliveryTime,
	)
}
