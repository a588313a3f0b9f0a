package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(conversationEventsTotal) }

var conversationEventsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "conversation_events_total",
		Help: "Side-channel conversation lifecycle events.",
	},
	[]string{"event"}, // 'question_sent', 'reply_received', 'recheck', 'user_not_found'
)

func IncConversationEvent(event string) {
	conversationEventsTotal.WithLabelValues(norm(event)).Inc()
}
