// Package metrics defines and registers all custom Prometheus metrics for the
// accounts API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation via promauto; the /metrics endpoint exposes them alongside
// the HTTP metrics collected by echoprometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "accounts"

// Result label values shared by the counters below.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// RegistrationsTotal counts registration attempts.
// Label:
//   - result: "success", "invalid", "conflict" or "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of account registration attempts, by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid", "not_found", "bad_password" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// TokenRejectionsTotal counts requests refused by the access gate.
// Label:
//   - reason: "missing", "malformed_header", "invalid", "expired" or "stale"
var TokenRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_rejections_total",
		Help:      "Total number of bearer tokens rejected by the access gate.",
	},
	[]string{"reason"},
)

// ── Recovery metrics ──────────────────────────────────────────────────────────

// RecoveryStepsTotal counts password-recovery operations.
// Labels:
//   - step: "initiate", "verify" or "complete"
//   - result: "success", "not_found", "mismatch", "expired", "invalid" or "error"
var RecoveryStepsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "recovery_steps_total",
		Help:      "Total number of password-recovery steps, by step and result.",
	},
	[]string{"step", "result"},
)

// MailDispatchTotal counts recovery emails handed to the mail transport.
// Label:
//   - result: "success" or "failure"
var MailDispatchTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mail_dispatch_total",
		Help:      "Total number of recovery emails dispatched, by result.",
	},
	[]string{"result"},
)

// MailDispatchDuration measures how long the mail transport takes to accept a message.
var MailDispatchDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "mail_dispatch_duration_seconds",
		Help:      "Duration of recovery email delivery to the SMTP relay.",
		Buckets:   prometheus.DefBuckets,
	},
)
