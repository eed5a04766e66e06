// Package metrics регистрирует счётчики Prometheus для операций жизненного цикла.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// TransitionsTotal считает переходы жизненного цикла по действию и исходу.
var TransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "lifecycle_transitions_total",
	Help: "Lifecycle transitions by action and outcome.",
}, []string{"action", "outcome"})

// SweepExecutionsTotal считает исполненные фоновым обходом удаления.
var SweepExecutionsTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "lifecycle_sweep_executions_total",
	Help: "Scheduled deletions executed by the sweep loop.",
})

// SweepFailuresTotal считает ошибки исполнения в фоновом обходе.
var SweepFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "lifecycle_sweep_failures_total",
	Help: "Per-account failures during the sweep loop.",
})

// RemindersSentTotal считает отправленные напоминания о запланированном удалении.
var RemindersSentTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "lifecycle_reminders_sent_total",
	Help: "Reminder notifications published by the sweep loop.",
})
