// Package observability provides tracing and metrics instrumentation.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "clubhouse_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// MessagesSent counts accepted chat messages by room kind.
	MessagesSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "clubhouse_messages_sent_total",
		Help: "Total number of chat messages accepted",
	}, []string{"room_kind"})

	// SendRejections counts refused send attempts by error code.
	SendRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "clubhouse_send_rejections_total",
		Help: "Total number of rejected message sends by reason",
	}, []string{"reason"})

	// ModerationActions counts ban/unban operations by scope and action.
	ModerationActions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "clubhouse_moderation_actions_total",
		Help: "Total number of moderation actions",
	}, []string{"scope", "action"})
)
