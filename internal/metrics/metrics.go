// Package metrics exposes authentication counters to prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Auth events.
const (
	EventSignup       = "signup"
	EventLogin        = "login"
	EventLogout       = "logout"
	EventVerify       = "verify"
	EventReverify     = "reverify"
	EventAuthenticate = "authenticate"
)

var (
	Registry = prometheus.NewRegistry()

	AuthEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "phonebook",
		Subsystem: "auth",
		Name:      "events_total",
		Help:      "Credential and session lifecycle events by outcome.",
	}, []string{"event", "outcome"})
)

func init() {
	Registry.MustRegister(
		AuthEvents,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

func RecordAuthEvent(event string, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	AuthEvents.WithLabelValues(event, outcome).Inc()
}

func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}
