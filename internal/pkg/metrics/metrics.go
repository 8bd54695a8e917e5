// Package metrics defines and registers the custom Prometheus metrics of the
// portfolio API. It is the single source of truth for metric names, labels,
// and help strings.
//
// All metrics register with the default Prometheus registry on package init
// and are served by the /metrics route.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portfolio"

// ── Authorization metrics ────────────────────────────────────────────────────

// AuthDecisionsTotal counts gate evaluations.
// Labels:
//   - required_role: the endpoint's minimum role (e.g. "Editor")
//   - outcome: "granted", "insufficient_permission", "token_expired" or "unauthenticated"
var AuthDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_decisions_total",
		Help:      "Total number of authorization gate decisions.",
	},
	[]string{"required_role", "outcome"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Unit of work metrics ─────────────────────────────────────────────────────

// TransactionsTotal counts finished transaction scopes.
// Label:
//   - outcome: "committed", "rolled_back" or "commit_failed"
var TransactionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transactions_total",
		Help:      "Total number of unit-of-work scopes, by outcome.",
	},
	[]string{"outcome"},
)

// TransactionDuration measures a scope from session acquisition to release.
// Label:
//   - outcome: same values as TransactionsTotal
var TransactionDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "transaction_duration_seconds",
		Help:      "Duration of unit-of-work scopes.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
	[]string{"outcome"},
)
