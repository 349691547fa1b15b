package client

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "corekinect_client",
			Name:      "requests_total",
			Help:      "API calls attempted, by operation.",
		},
		[]string{"operation"},
	)

	requestFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "corekinect_client",
			Name:      "request_failures_total",
			Help:      "API calls that returned an error, by operation and failure kind.",
		},
		[]string{"operation", "kind"},
	)
)
