package metrics

import "github.com/prometheus/client_golang/prometheus"

const (
	namespace = "asymmetric"
	subsystem = "http"
)

var (
	responseTime = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "response_time_seconds",
			Help:      "Time to answer a request; excludes detached webhook deliveries.",
			Buckets:   []float64{0.005, 0.05, 0.5, 1, 5, 10, 30, 60},
		},
		[]string{"method", "uri"},
	)

	requestsFromRole = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Subsystem: subsystem, Name: "requests_from_role_total", Help: "Requests by caller role."},
		[]string{"role"},
	)

	requestsToURI = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Subsystem: subsystem, Name: "requests_to_uri_total", Help: "Requests by status, route pattern and method."},
		[]string{"code", "uri", "method"},
	)

	delegatedRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Subsystem: subsystem, Name: "delegated_requests_total", Help: "Requests answered 202 and handed to a webhook."},
		[]string{"uri"},
	)

	inFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{Namespace: namespace, Subsystem: subsystem, Name: "in_flight_requests", Help: "Requests being answered."},
	)
)

func init() {
	prometheus.MustRegister(
		responseTime,
		requestsFromRole,
		requestsToURI,
		delegatedRequests,
		inFlight,
	)
}
