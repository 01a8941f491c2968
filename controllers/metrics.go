package controllers

import (
	"github.com/prometheus/client_golang/prometheus"
	"sigs.k8s.io/controller-runtime/pkg/metrics"
)

var (
	binderyControllerReconcileTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bindery_controller_reconcile_total",
			Help: "Number of reconciliations by controller.",
		},
		[]string{"controller"},
	)
	binderyControllerReconcileErrorTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bindery_controller_reconcile_error_total",
			Help: "Number of reconciliation errors by controller.",
		},
		[]string{"controller"},
	)

	moduleRegistryManifestParseFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bindery_moduleregistry_manifest_parse_failures_total",
			Help: "Total number of module manifests that failed to parse during reconciliation.",
		},
	)

	moduleRegistryViewBuildDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bindery_moduleregistry_view_build_duration_seconds",
			Help:    "Time taken to build and project a module view.",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func init() {
	metrics.Registry.MustRegister(
		binderyControllerReconcileTotal,
		binderyControllerReconcileErrorTotal,
		moduleRegistryManifestParseFailuresTotal,
		moduleRegistryViewBuildDuration,
	)
}
