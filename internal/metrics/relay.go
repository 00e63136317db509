package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		dispatchTotal,
		messagesSentTotal,
		updatesTotal,
	)
}

var (
	dispatchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dispatch_total",
			Help:      "Endpoint requests by path and result code.",
		},
		[]string{"endpoint", "result"},
	)

	messagesSentTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_sent_total",
			Help:      "Messages delivered to Telegram by kind.",
		},
		[]string{"kind"},
	)

	updatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "updates_total",
			Help:      "Webhook updates by kind and whether a handler matched.",
		},
		[]string{"kind", "matched"},
	)
)

// IncDispatch counts one endpoint request. result is "sent" or an error code.
func IncDispatch(endpoint, result string) {
	dispatchTotal.WithLabelValues(endpoint, result).Inc()
}

// IncMessageSent counts one delivered message of the given Bot API method.
func IncMessageSent(method string) {
	messagesSentTotal.WithLabelValues(method).Inc()
}

// IncUpdate counts one webhook update.
func IncUpdate(kind string, matched bool) {
	m := "false"
	if matched {
		m = "true"
	}
	updatesTotal.WithLabelValues(kind, m).Inc()
}
