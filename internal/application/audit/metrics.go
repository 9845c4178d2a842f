package audit

import "github.com/prometheus/client_golang/prometheus"

// Metrics contadores del emisor de auditoría.
type Metrics struct {
	events   *prometheus.CounterVec
	recorded prometheus.Counter
	failed   prometheus.Counter
	dropped  prometheus.Counter
}

// NewMetrics crea los contadores y los registra en reg (nil = sin registrar).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "taskhub",
		Subsystem: "audit",
		Name:      "events_total",
		Help:      "Eventos de auditoría por resultado (recorded, failed, dropped).",
	}, []string{"result"})
	if reg != nil {
		reg.MustRegister(events)
	}
	return &Metrics{
		events:   events,
		recorded: events.WithLabelValues("recorded"),
		failed:   events.WithLabelValues("failed"),
		dropped:  events.WithLabelValues("dropped"),
	}
}
