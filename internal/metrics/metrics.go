// Package metrics holds the Prometheus collectors shared across the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "activitylog"

// AI fallback outcomes.
const (
	OutcomeSuccess    = "success"
	OutcomeMissingKey = "missing_key"
	OutcomeTimeout    = "timeout"
	OutcomeTransport  = "transport"
	OutcomeStatus     = "status"
	OutcomeMalformed  = "malformed"
)

var (
	AIFallbackTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ai_fallback_total",
			Help:      "AI fallback classifications by outcome.",
		},
		[]string{"outcome"},
	)

	ActivitiesRecordedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "activities_recorded_total",
			Help:      "Activities persisted, by category and classification source.",
		},
		[]string{"category", "source"},
	)

	TelegramRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "telegram_requests_total",
			Help:      "Bot API calls by method and outcome.",
		},
		[]string{"method", "outcome"},
	)

	UpdatesHandledTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "updates_handled_total",
			Help:      "Inbound updates by kind.",
		},
		[]string{"kind"},
	)
)
