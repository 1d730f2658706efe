package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Dispatch metrics live in a standalone package so both the service and the
// HTTP layers can touch them without import cycles.

var (
	DispatchAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "message_dispatch_attempts_total",
		Help: "Dispatch attempts that reached a transport, by channel and final status",
	}, []string{"channel", "status"})

	DispatchDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "message_dispatch_duration_seconds",
		Help:    "End-to-end duration of the dispatch pipeline per channel",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
	}, []string{"channel"})
)

// Register registers the dispatch metrics on the given registry (or the
// default one if nil). Double registration is tolerated.
func Register(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range []prometheus.Collector{DispatchAttempts, DispatchDuration} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}
	return nil
}
