package metrics

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "weddingfilm"

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		},
		[]string{"method", "route", "status"},
	)

	bookingTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_transitions_total",
			Help:      "Booking status transition attempts by source, target and result.",
		},
		[]string{"from", "to", "result"},
	)

	referralCodeAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "referral_code_attempts_total",
			Help:      "Partner code generation attempts by result (created, collision, exhausted).",
		},
		[]string{"result"},
	)

	breakdowns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "price_breakdowns_total",
			Help:      "Price breakdown computations by result.",
		},
		[]string{"result"},
	)

	rateLimited = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_requests_total",
			Help:      "Requests rejected by the public rate limiter.",
		},
		[]string{"route"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, bookingTransitions, referralCodeAttempts, breakdowns, rateLimited)
	})
}

// Handler /metrics 엔드포인트
func Handler() http.Handler {
	return promhttp.Handler()
}

func IncHTTP(method, route string, status int) {
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

func IncTransition(from, to, result string) {
	bookingTransitions.WithLabelValues(from, to, result).Inc()
}

func IncReferralCode(result string) {
	referralCodeAttempts.WithLabelValues(result).Inc()
}

func IncBreakdown(result string) {
	breakdowns.WithLabelValues(result).Inc()
}

func IncRateLimited(route string) {
	rateLimited.WithLabelValues(route).Inc()
}
