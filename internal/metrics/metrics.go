// Package metrics holds Prometheus instruments that are used across the
// application.  All collectors are registered with the global registry, so
// importing this package in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_sessions",
			Help: "Number of visitor sessions currently held in memory.",
		})

	SessionCreateTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "session_create_total",
			Help: "Cumulative number of visitor sessions created.",
		})

	SessionEvictTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_evict_total",
			Help: "Cumulative number of sessions evicted, by reason.",
		}, []string{"reason"})

	FormValidationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "form_validations_total",
			Help: "Field validations run, by field and result kind.",
		}, []string{"field", "result"})

	FormSubmissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "form_submissions_total",
			Help: "Form submissions, by outcome (accepted, rejected, forbidden).",
		}, []string{"outcome"})

	InteractionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "interactions_total",
			Help: "Playground widget interactions, by widget and action.",
		}, []string{"widget", "action"})
)

func init() {
	prometheus.MustRegister(
		ActiveSessions,
		SessionCreateTotal,
		SessionEvictTotal,
		FormValidationsTotal,
		FormSubmissionsTotal,
		InteractionsTotal,
	)
}
