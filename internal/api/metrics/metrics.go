// Package metrics defines and registers the custom Prometheus metrics of the
// attorney portfolio API. It is the single source of truth for metric names,
// labels and help strings.
//
// All metrics register with the default Prometheus registry at package init
// through promauto; the /metrics route exposes them alongside the HTTP
// metrics collected by echoprometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "attorney_portfolio"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts register and login attempts.
// Labels:
//   - action: "register" or "login"
//   - result: "success", or the error kind returned (e.g. "InvalidCredentials")
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of register and login attempts, by outcome.",
	},
	[]string{"action", "result"},
)

// AuthRejectionsTotal counts requests stopped by the auth middleware or the
// role guard.
// Label:
//   - reason: "missing_token", "invalid_token", "unknown_user" or "forbidden"
var AuthRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_rejections_total",
		Help:      "Total number of requests rejected by authentication or role checks.",
	},
	[]string{"reason"},
)

// ── Booking metrics ───────────────────────────────────────────────────────────

// BookingsCreatedTotal counts booking requests that returned a booking.
// Label:
//   - result: "created" or "replayed"
var BookingsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bookings_created_total",
		Help:      "Total number of bookings created or replayed through an Idempotency-Key.",
	},
	[]string{"result"},
)

// ── Sector recount metrics ────────────────────────────────────────────────────

// RecountQueueDepth tracks the number of sector recounts waiting in each
// worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var RecountQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "recount_queue_depth",
		Help:      "Current number of sector recounts pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// RecountsTotal counts recount jobs by outcome.
// Label:
//   - result: "ok", "error" or "dropped"
var RecountsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "recounts_total",
		Help:      "Total number of sector lawyer-count recounts, by outcome.",
	},
	[]string{"result"},
)

// RecountDuration measures how long a single recount takes.
var RecountDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "recount_duration_seconds",
		Help:      "Duration of a sector recount from dequeue to persistence.",
		Buckets:   prometheus.DefBuckets,
	},
)
