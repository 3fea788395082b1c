// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registration outcomes recorded by RegistrationAttempts
const (
	OutcomeRegistered = "registered"
	OutcomeFull       = "full"
	OutcomeDuplicate  = "duplicate"
	OutcomeNotFound   = "not_found"
	OutcomeInvalid    = "invalid"
	OutcomeBusy       = "busy"
	OutcomeError      = "error"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests by method, route and status.",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency by method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	RegistrationAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "registration_attempts_total",
		Help: "Registration attempts by outcome.",
	}, []string{"outcome"})
)
