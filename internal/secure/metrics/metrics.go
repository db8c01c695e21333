package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result label values for counters that split success and failure.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Metrics provides observability for the secure account module.
// Every audited operation increments exactly one counter.
type Metrics struct {
	AccountsCreated         prometheus.Counter
	PermissionGrants        *prometheus.CounterVec
	PermissionRevocations   *prometheus.CounterVec
	VerificationTransitions *prometheus.CounterVec
	EmailUpdates            *prometheus.CounterVec
}

// New creates a Metrics instance registered on the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers all account metrics on reg. Tests pass a private
// registry so repeated construction cannot collide.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		AccountsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "custodia_accounts_created_total",
			Help: "Total number of secure accounts created",
		}),
		PermissionGrants: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "custodia_permission_grants_total",
			Help: "Permission grant attempts by result",
		}, []string{"result"}),
		PermissionRevocations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "custodia_permission_revocations_total",
			Help: "Permission revocation attempts by result",
		}, []string{"result"}),
		VerificationTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "custodia_verification_transitions_total",
			Help: "Verification lifecycle transition attempts by result",
		}, []string{"result"}),
		EmailUpdates: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "custodia_email_updates_total",
			Help: "Email update attempts by result",
		}, []string{"result"}),
	}
}

// IncrementAccountsCreated records a successful account construction.
func (m *Metrics) IncrementAccountsCreated() {
	m.AccountsCreated.Inc()
}

// IncrementPermissionGrant records the outcome of a grant attempt.
func (m *Metrics) IncrementPermissionGrant(result string) {
	m.PermissionGrants.WithLabelValues(result).Inc()
}

// IncrementPermissionRevocation records the outcome of a revocation attempt.
func (m *Metrics) IncrementPermissionRevocation(result string) {
	m.PermissionRevocations.WithLabelValues(result).Inc()
}

// IncrementVerificationTransition records the outcome of a verification
// request or approval.
func (m *Metrics) IncrementVerificationTransition(result string) {
	m.VerificationTransitions.WithLabelValues(result).Inc()
}

// IncrementEmailUpdate records the outcome of an email update attempt.
func (m *Metrics) IncrementEmailUpdate(result string) {
	m.EmailUpdates.WithLabelValues(result).Inc()
}
