package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор метрик сервиса.
// Все методы безопасны для nil-получателя: при выключенных метриках передаётся nil.
type Metrics struct {
	serviceName string

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration   *prometheus.HistogramVec
	DBQueryErrors     *prometheus.CounterVec
	DBOpenConnections *prometheus.GaugeVec

	BookingOperations *prometheus.CounterVec
	SlotCacheLookups  *prometheus.CounterVec
	Notifications     *prometheus.CounterVec
}

// New создает метрики и регистрирует их в глобальном реестре Prometheus
func New(serviceName string) *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer, serviceName)
}

// NewWithRegisterer создает метрики в указанном реестре
func NewWithRegisterer(reg prometheus.Registerer, serviceName string) *Metrics {
	m := &Metrics{
		serviceName: serviceName,
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"service", "method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"service", "method", "path"},
		),
		DBQueryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "db_query_duration_seconds",
				Help:    "Database query latency.",
				Buckets: []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"service", "operation"},
		),
		DBQueryErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "db_query_errors_total",
				Help: "Database query errors.",
			},
			[]string{"service", "operation"},
		),
		DBOpenConnections: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "db_connections",
				Help: "Database connection pool state.",
			},
			[]string{"service", "state"},
		),
		BookingOperations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "booking_operations_total",
				Help: "Booking operations by result.",
			},
			[]string{"service", "operation", "result"},
		),
		SlotCacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "slot_cache_lookups_total",
				Help: "Slot materialization cache lookups.",
			},
			[]string{"service", "result"},
		),
		Notifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notifications_total",
				Help: "Outgoing notifications by channel and result.",
			},
			[]string{"service", "channel", "result"},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBQueryErrors,
		m.DBOpenConnections,
		m.BookingOperations,
		m.SlotCacheLookups,
		m.Notifications,
	)

	return m
}

// ServiceName имя сервиса для лейблов
func (m *Metrics) ServiceName() string {
	if m == nil {
		return ""
	}
	return m.serviceName
}

// IncBookingOperation учитывает результат операции с бронированием (create, assign, complete...)
func (m *Metrics) IncBookingOperation(operation, result string) {
	if m == nil {
		return
	}
	m.BookingOperations.WithLabelValues(m.serviceName, operation, result).Inc()
}

// IncSlotCache учитывает попадание/промах кеша слотов
func (m *Metrics) IncSlotCache(result string) {
	if m == nil {
		return
	}
	m.SlotCacheLookups.WithLabelValues(m.serviceName, result).Inc()
}

// IncNotification учитывает отправку уведомления
func (m *Metrics) IncNotification(channel, result string) {
	if m == nil {
		return
	}
	m.Notifications.WithLabelValues(m.serviceName, channel, result).Inc()
}

// ObserveHTTPRequest учитывает HTTP запрос. path это шаблон маршрута, а не сырой URL.
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(m.serviceName, method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(m.serviceName, method, path).Observe(duration.Seconds())
}
