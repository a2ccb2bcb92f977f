// Package metrics defines the application's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Ledger metrics
var (
	// BetsPlaced counts successfully placed wagers.
	BetsPlaced = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bets_placed_total",
			Help: "Total wagers accepted by the ledger",
		},
	)

	// BetsRejected counts wagers rejected with a typed error.
	BetsRejected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bets_rejected_total",
			Help: "Total wagers rejected (unknown bet, bad amount, limit)",
		},
	)

	// WagersResolved counts wagers moved to a terminal state.
	WagersResolved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wagers_resolved_total",
			Help: "Total wagers settled to won, lost, or void",
		},
	)
)

// Coordinator metrics
var (
	// CoordinatorPending tracks in-flight request count.
	CoordinatorPending = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "coordinator_pending_requests",
			Help: "Requests awaiting a response or timeout",
		},
	)

	// CoordinatorTimeouts counts requests rejected by the deadline sweep.
	CoordinatorTimeouts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "coordinator_request_timeouts_total",
			Help: "Requests that timed out before a response arrived",
		},
	)

	// CoordinatorLateResponses counts responses discarded because their
	// pending entry was already gone.
	CoordinatorLateResponses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "coordinator_late_responses_total",
			Help: "Responses discarded after their request timed out",
		},
	)

	// CacheHits counts send calls served from the response cache.
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "coordinator_cache_hits_total",
			Help: "Requests answered from the response cache",
		},
	)

	// CacheMisses counts send calls that went to the channel.
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "coordinator_cache_misses_total",
			Help: "Requests that required a channel round-trip",
		},
	)

	// PushesDispatched counts push frames routed to a handler.
	PushesDispatched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coordinator_pushes_dispatched_total",
			Help: "Push frames routed to handlers by push type",
		},
		[]string{"type"},
	)
)

// Redis metrics
var (
	// RedisOperationDuration observes command latency by command name.
	RedisOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "redis_operation_duration_seconds",
			Help:    "Redis command latency by command",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"command"},
	)

	// RedisOperationErrors counts failed commands by command name.
	RedisOperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redis_operation_errors_total",
			Help: "Redis command failures by command",
		},
		[]string{"command"},
	)

	// CircuitBreakerState exposes breaker state (0 closed, 1 half-open, 2 open).
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state per component (0 closed, 1 half-open, 2 open)",
		},
		[]string{"component"},
	)
)

// WebSocket metrics
var (
	// ConnectedClients tracks clients on the duplex channel.
	ConnectedClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connected_clients",
			Help: "Currently connected WebSocket clients",
		},
	)

	// SlowClientsEvicted counts clients dropped for full send buffers.
	SlowClientsEvicted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_slow_clients_evicted_total",
			Help: "Clients disconnected because their send buffer was full",
		},
	)
)
