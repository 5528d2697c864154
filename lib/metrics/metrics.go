package metrics

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "raci_approval"

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Количество HTTP запросов",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Длительность обработки HTTP запроса",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	submissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Отправки матриц на согласование",
		},
		[]string{"result"},
	)

	decisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decisions_total",
			Help:      "Решения согласующих",
		},
		[]string{"decision"},
	)

	resolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolutions_total",
			Help:      "Завершенные согласования мероприятий",
		},
		[]string{"status"},
	)

	remindersTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminders_sent_total",
			Help:      "Отправленные напоминания согласующим",
		},
	)

	wsClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ws_clients",
			Help:      "Подключенные websocket клиенты",
		},
	)
)

func RecordHTTPRequest(method, route string, statusCode int, durationSeconds float64) {
	httpRequestsTotal.WithLabelValues(method, route, statusClass(statusCode)).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(durationSeconds)
}

// RecordSubmission result: accepted, rejected или error
func RecordSubmission(result string) {
	submissionsTotal.WithLabelValues(result).Inc()
}

func RecordDecision(decision string) {
	decisionsTotal.WithLabelValues(decision).Inc()
}

func RecordResolution(status string) {
	resolutionsTotal.WithLabelValues(status).Inc()
}

func RecordReminders(count int) {
	remindersTotal.Add(float64(count))
}

func SetWsClients(count int) {
	wsClients.Set(float64(count))
}

// Handler /metrics для fiber
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}

func statusClass(statusCode int) string {
	if statusCode < 100 || statusCode > 599 {
		return "unknown"
	}
	return strconv.Itoa(statusCode/100) + "xx"
}
