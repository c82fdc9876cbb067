package denyfilter

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var messageCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "denyfilter_messages_processed",
	Help: "Number of messages handled by the denylist filter, by outcome",
}, []string{"outcome"})

var failureCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "denyfilter_action_failures",
	Help: "Number of moderation calls that failed, by failure kind",
}, []string{"kind"})
