package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var eventProcessDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name: "groupguard_event_duration_sec",
	Help: "Total duration of moderation event processing",
}, []string{"type"})

var eventProcessCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "groupguard_event_processed",
	Help: "Number of events processed",
}, []string{"type"})

var eventErrorCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "groupguard_event_errors",
	Help: "Number of events which failed processing",
}, []string{"type"})

var actionCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "groupguard_actions_issued",
	Help: "Number of enforcement actions issued against the backend",
}, []string{"action"})
