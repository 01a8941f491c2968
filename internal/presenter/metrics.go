package presenter

import (
	"github.com/prometheus/client_golang/prometheus"
	"sigs.k8s.io/controller-runtime/pkg/metrics"
)

var (
	pageBuildDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bindery_panel_page_build_duration_seconds",
			Help:    "Time taken to build a module page from a registry snapshot.",
			Buckets: prometheus.DefBuckets,
		},
	)
	pageModules = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "bindery_panel_page_modules",
			Help: "Number of modules listed by the last page build.",
		},
	)
	viewBuildErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bindery_panel_view_build_errors_total",
			Help: "Total number of modules that could not be turned into a view.",
		},
	)
	unresolvedImports = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bindery_panel_unresolved_imports",
			Help: "Number of imports left unwired by the last page build.",
		},
		[]string{"resolution"},
	)
)

func init() {
	metrics.Registry.MustRegister(
		pageBuildDuration,
		pageModules,
		viewBuildErrorsTotal,
		unresolvedImports,
	)
}
