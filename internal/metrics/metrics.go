// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HubSpotRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hubspot_requests_total",
		Help: "HubSpot API calls by method and response status.",
	}, []string{"method", "status"})

	HubSpotRateLimitRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hubspot_rate_limit_retries_total",
		Help: "Retries issued after a 429 from HubSpot.",
	})

	Bookings = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookings_total",
		Help: "Booking operations by kind (create, cancel) and outcome code.",
	}, []string{"operation", "outcome"})

	Compensations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "booking_compensations_total",
		Help: "Compensating writes by step and result.",
	}, []string{"step", "result"})

	Reconciliations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "capacity_reconciliations_total",
		Help: "Authoritative recounts by trigger and result.",
	}, []string{"trigger", "result"})

	CapacityDrift = promauto.NewCounter(prometheus.CounterOpts{
		Name: "capacity_drift_corrections_total",
		Help: "Recounts whose live count differed from the cached total_bookings.",
	})

	DeadLetters = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "background_task_dead_letters_total",
		Help: "Background tasks that failed and were dead-lettered.",
	}, []string{"task"})
)
