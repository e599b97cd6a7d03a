// Package metrics exposes Prometheus instrumentation for the gateway and
// the dispatcher.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stoewer/go-strcase"
)

// Metrics holds the collectors. It implements dispatch.Recorder.
type Metrics struct {
	MessagesTotal    prometheus.Counter
	InvocationsTotal *prometheus.CounterVec
	FailuresTotal    *prometheus.CounterVec
}

// New creates the collectors and registers them on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		MessagesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pouch_agent_messages_total",
			Help: "User messages handled by the agent loop.",
		}),
		InvocationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pouch_agent_tool_invocations_total",
			Help: "Tool invocations dispatched, by operation.",
		}, []string{"operation"}),
		FailuresTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pouch_agent_tool_failures_total",
			Help: "Tool invocations that failed, by operation.",
		}, []string{"operation"}),
	}
	reg.MustRegister(m.MessagesTotal, m.InvocationsTotal, m.FailuresTotal)
	return m
}

// ObserveInvocation counts one dispatched invocation. Operation names are
// snake_cased so labels stay uniform with the metric names.
func (m *Metrics) ObserveInvocation(operation string, failed bool) {
	label := strcase.SnakeCase(operation)
	m.InvocationsTotal.WithLabelValues(label).Inc()
	if failed {
		m.FailuresTotal.WithLabelValues(label).Inc()
	}
}

// ObserveMessage counts one handled user message.
func (m *Metrics) ObserveMessage() {
	m.MessagesTotal.Inc()
}
