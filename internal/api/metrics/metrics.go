// Package metrics defines and registers all custom Prometheus metrics for the
// Modela identity gateway. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on package init
// via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "modela"

// ── Credential flow ───────────────────────────────────────────────────────────

// AuthAttemptsTotal counts login, registration and logout attempts.
// Labels:
//   - operation: "login", "register" or "logout"
//   - result: "success", "invalid", "unauthorized" or "error"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of credential flow attempts, by operation and result.",
	},
	[]string{"operation", "result"},
)

// ── Guards ────────────────────────────────────────────────────────────────────

// GuardDecisionsTotal counts route guard decisions.
// Labels:
//   - guard: "edge" or "render"
//   - decision: "pass", "login_redirect", "dashboard_redirect", "authorized", "checking"
var GuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Total number of route guard decisions.",
	},
	[]string{"guard", "decision"},
)

// ── Session store ─────────────────────────────────────────────────────────────

// SessionRestoresTotal counts session restoration outcomes.
// Label:
//   - outcome: "empty", "restored", "discarded", "unavailable" or "superseded"
var SessionRestoresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_restores_total",
		Help:      "Total number of session restorations, by outcome.",
	},
	[]string{"outcome"},
)

// ── Audit ─────────────────────────────────────────────────────────────────────

// AuditEventsDroppedTotal counts audit events discarded because the dispatcher
// was saturated or shut down.
var AuditEventsDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_dropped_total",
		Help:      "Total number of audit events dropped before being written.",
	},
)
