// Package metrics defines and registers all custom Prometheus metrics for
// the household API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Collectors register with the default Prometheus registry at import time.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "household"

// ── Session metrics ──────────────────────────────────────────────────────────

// LoginsTotal counts successful logins.
var LoginsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of successful logins.",
	},
)

// RegistrationsTotal counts successful account registrations.
var RegistrationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of successful account registrations.",
	},
)

// AuthFailuresTotal counts failed authentication attempts.
// Label:
//   - flow: "login" or "refresh"
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of failed authentication attempts, by flow.",
	},
	[]string{"flow"},
)

// TokenRefreshesTotal counts successful credential pair rotations.
var TokenRefreshesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_refreshes_total",
		Help:      "Total number of successful credential pair rotations.",
	},
)

// SessionResetsTotal counts full session teardowns forced by an unusable
// refresh token.
var SessionResetsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_resets_total",
		Help:      "Total number of sessions torn down due to an unusable refresh token.",
	},
)

// ── Membership metrics ───────────────────────────────────────────────────────

// HouseholdsCreatedTotal counts newly created households.
var HouseholdsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "households_created_total",
		Help:      "Total number of households created.",
	},
)

// InvitationsCreatedTotal counts issued invitations.
var InvitationsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "invitations_created_total",
		Help:      "Total number of invitations issued.",
	},
)

// InvitationsRedeemedTotal counts redemption attempts.
// Label:
//   - result: "success" or "failure"
var InvitationsRedeemedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "invitations_redeemed_total",
		Help:      "Total number of invitation redemption attempts, by result.",
	},
	[]string{"result"},
)
