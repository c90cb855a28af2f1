// Package metrics объявляет счётчики Prometheus приложения.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LoginAttempts считает попытки входа по результату: success или failure.
	LoginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "task_tracker_login_attempts_total",
		Help: "Number of login attempts by result.",
	}, []string{"result"})

	// TasksSwept считает задачи, окончательно удалённые фоновой очисткой.
	TasksSwept = promauto.NewCounter(prometheus.CounterOpts{
		Name: "task_tracker_tasks_swept_total",
		Help: "Number of soft-deleted tasks permanently removed by the sweeper.",
	})
)
