// Package metrics exposes the Prometheus counters the transport layer
// increments on every authorization decision.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// IssuedTotal counts Authorizations successfully minted by a Checker.
var IssuedTotal = prometheus.NewCounter(prometheus.CounterOpts{
	Namespace: "ostiarius",
	Name:      "authorizations_issued_total",
	Help:      "Total number of authorizations issued by the checker.",
})

// RejectedTotal counts requests that failed KindUnauthorized.
var RejectedTotal = prometheus.NewCounter(prometheus.CounterOpts{
	Namespace: "ostiarius",
	Name:      "authorizations_rejected_total",
	Help:      "Total number of requests rejected for an unauthorized name/command pair.",
})

func init() {
	prometheus.MustRegister(IssuedTotal, RejectedTotal)
}

// Handler returns the http.Handler that serves the registered counters in
// Prometheus text exposition format, for mounting at a scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
