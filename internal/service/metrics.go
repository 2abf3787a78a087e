package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var notificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "auth_activation_notifications_total",
		Help: "Total number of activation notification attempts.",
	},
	[]string{"status"}, // success, failure
)
