package obs

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Counters over the auth core's observable outcomes.
var (
	loginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_logins_total",
			Help: "Login attempts by outcome.",
		},
		[]string{"result"},
	)

	registrationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_registrations_total",
			Help: "Registration submissions by outcome.",
		},
		[]string{"result"},
	)

	sessionLoadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_session_loads_total",
			Help: "Session restore attempts by outcome.",
		},
		[]string{"result"},
	)
)

// Init registers the module's metrics with the default registry.
func Init() {
	prometheus.MustRegister(loginsTotal, registrationsTotal, sessionLoadsTotal)
}

// IncLogin records a login attempt outcome ("success" or "failure").
func IncLogin(result string) {
	loginsTotal.WithLabelValues(result).Inc()
}

// IncRegistration records a registration outcome ("success" or "invalid").
func IncRegistration(result string) {
	registrationsTotal.WithLabelValues(result).Inc()
}

// IncSessionLoad records a session load outcome
// ("hit", "miss", "expired" or "corrupt").
func IncSessionLoad(result string) {
	sessionLoadsTotal.WithLabelValues(result).Inc()
}
