package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	storeOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bizpos",
		Subsystem: "settings",
		Name:      "store_operations_total",
		Help:      "Settings store loads and saves by outcome.",
	}, []string{"operation", "outcome"})

	editOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bizpos",
		Subsystem: "settings",
		Name:      "edits_total",
		Help:      "Settings edits by operation and outcome.",
	}, []string{"operation", "outcome"})
)
