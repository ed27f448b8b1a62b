package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	lessonsGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tutor_crm_lessons_created_total",
		Help: "Number of lesson occurrences persisted through bulk creation.",
	})

	seriesDeleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tutor_crm_series_deleted_total",
		Help: "Number of whole-series deletions, by scope.",
	}, []string{"scope"})
)
