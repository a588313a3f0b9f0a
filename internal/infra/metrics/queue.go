package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(queueDepth, queueMessagesTotal) }

var queueDepth = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "trigger_queue_depth",
		Help: "Current number of ready messages per trigger queue.",
	},
	[]string{"queue"},
)

var queueMessagesTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "trigger_queue_messages_total",
		Help: "Trigger messages enqueued and dequeued per queue.",
	},
	[]string{"queue", "op"}, // op: 'enqueue', 'enqueue_delayed', 'dequeue'
)

func SetQueueDepth(queue string, depth int64) {
	queueDepth.WithLabelValues(norm(queue)).Set(float64(depth))
}

func IncQueueMessage(queue, op string) {
	queueMessagesTotal.WithLabelValues(norm(queue), norm(op)).Inc()
}
