package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// EventsApplied counts realtime events applied to the store, by event name.
	EventsApplied = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "workspace_client_events_applied_total",
		Help: "Realtime events applied to the local store.",
	}, []string{"event"})

	// EventsDropped counts events ignored because the target entity is not
	// loaded locally or the event is for another channel.
	EventsDropped = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "workspace_client_events_dropped_total",
		Help: "Realtime events dropped as stale or out of scope.",
	}, []string{"event"})

	// Reconnects counts realtime transport reconnections.
	Reconnects = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "workspace_client_reconnects_total",
		Help: "Realtime transport reconnections.",
	})
)

func init() {
	prometheus.MustRegister(EventsApplied, EventsDropped, Reconnects)
}
