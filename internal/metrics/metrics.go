// Package metrics exposes Prometheus counters for the training pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// GenerationsTotal counts incident-batch generations by outcome.
	GenerationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "siemtrainer_generations_total",
		Help: "Incident batch generations by outcome (ok, upstream_error, bad_output).",
	}, []string{"outcome"})

	// EvaluationsTotal counts analyst evaluations by outcome.
	EvaluationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "siemtrainer_evaluations_total",
		Help: "Analyst evaluations by outcome (ok, unknown_token, upstream_error).",
	}, []string{"outcome"})

	// SeedFetchFailures counts seed-provider failures by source. Seed
	// failures degrade generation, they never fail it.
	SeedFetchFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "siemtrainer_seed_fetch_failures_total",
		Help: "Seed provider fetch failures by source (kev, misp).",
	}, []string{"source"})
)
