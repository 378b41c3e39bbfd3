// Package metrics implements Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DecodedPackagesTotal counts raw packages handed to the package facade
	DecodedPackagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "udex_decoded_packages_total",
			Help: "Total number of raw packages decoded",
		},
		[]string{"format"},
	)

	// SubPayloadsTotal counts sub-payloads returned to consumers
	SubPayloadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "udex_subpayloads_total",
			Help: "Total number of sub-payloads emitted",
		},
		[]string{"format", "meta_type"},
	)

	// DegradedPackagesTotal counts packages that decoded to an empty or partial payload
	DegradedPackagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "udex_degraded_packages_total",
			Help: "Total number of packages degraded to an empty or partial payload",
		},
		[]string{"format", "reason"},
	)

	// HashCollisionsTotal counts fingerprints claimed by more than one URL
	HashCollisionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "udex_hash_collisions_total",
			Help: "Total number of fingerprint collisions seen during registration",
		},
	)

	// RegisteredTopicsTotal counts topics added to the hash tables
	RegisteredTopicsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "udex_registered_topics_total",
			Help: "Total number of topics registered",
		},
		[]string{"format"},
	)
)
