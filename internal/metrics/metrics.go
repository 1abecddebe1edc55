// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rental_http_requests_total",
		Help: "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rental_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	AgreementsGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rental_agreements_generated_total",
		Help: "Rentals booked with a rendered agreement.",
	})

	RentalsExtended = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rental_extensions_total",
		Help: "Rental end dates moved.",
	})

	SideEffectFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rental_side_effect_failures_total",
		Help: "Post-booking side effects that failed, by kind.",
	}, []string{"kind"})

	RemindersSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rental_reminders_sent_total",
		Help: "Due date reminder emails sent.",
	})

	RateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rental_rate_limited_total",
		Help: "Requests rejected by the per-IP rate limiter.",
	})
)
