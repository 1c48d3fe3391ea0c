package state

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dashboard",
		Name:      "widget_mutations_total",
		Help:      "Widget collection mutations by operation.",
	}, []string{"op"})
	metricPersistFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "dashboard",
		Name:      "widget_persist_failures_total",
		Help:      "Write-through persistence attempts that failed.",
	})
	metricWidgets = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "dashboard",
		Name:      "widgets",
		Help:      "Number of widgets in the canonical collection.",
	})
)
