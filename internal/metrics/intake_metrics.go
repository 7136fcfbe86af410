package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// IntakeMetrics содержит метрики приёма и сопровождения заказов.
type IntakeMetrics struct {
	// Счётчики операций
	ordersSubmitted   *prometheus.CounterVec
	submitFailures    *prometheus.CounterVec
	statusTransitions *prometheus.CounterVec

	// Распределение расчётной стоимости заказа
	estimateTotal prometheus.Histogram

	// Время обработки HTTP-запросов по обработчикам
	requestDuration *prometheus.HistogramVec

	// Попадания/промахи кэша списка заказов
	listingCacheHits   prometheus.Counter
	listingCacheMisses prometheus.Counter
}

// NewIntakeMetrics создаёт метрики в default-регистраторе Prometheus.
func NewIntakeMetrics() *IntakeMetrics {
	return newIntakeMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newIntakeMetricsWithRegisterer(registerer prometheus.Registerer) *IntakeMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &IntakeMetrics{
		ordersSubmitted: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "intake_orders_submitted_total",
			Help: "Total number of successfully submitted orders by urgency",
		}, []string{"urgency"}),
		submitFailures: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "intake_order_submit_failures_total",
			Help: "Total number of rejected or failed order submissions by reason",
		}, []string{"reason"}),
		statusTransitions: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "intake_order_status_transitions_total",
			Help: "Total number of order status updates by target status",
		}, []string{"status"}),
		estimateTotal: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "intake_order_estimate_total",
			Help:    "Distribution of estimated order totals in currency units",
			Buckets: []float64{50, 100, 150, 250, 500, 1000, 2500, 5000},
		}),
		requestDuration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "intake_http_request_duration_seconds",
			Help:    "HTTP request latency by handler",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
		}, []string{"handler"}),
		listingCacheHits: registerCounter(registerer, prometheus.CounterOpts{
			Name: "intake_listing_cache_hits_total",
			Help: "Total number of admin listing cache hits",
		}),
		listingCacheMisses: registerCounter(registerer, prometheus.CounterOpts{
			Name: "intake_listing_cache_misses_total",
			Help: "Total number of admin listing cache misses",
		}),
	}
}

// RecordOrderSubmitted учитывает принятый заказ и его расчётную стоимость.
func (m *IntakeMetrics) RecordOrderSubmitted(urgency string, total float64) {
	m.ordersSubmitted.WithLabelValues(urgency).Inc()
	m.estimateTotal.Observe(total)
}

// RecordSubmitFailure учитывает отклонённую или неудачную заявку.
func (m *IntakeMetrics) RecordSubmitFailure(reason string) {
	m.submitFailures.WithLabelValues(reason).Inc()
}

// RecordStatusTransition учитывает смену статуса заказа.
func (m *IntakeMetrics) RecordStatusTransition(status string) {
	m.statusTransitions.WithLabelValues(status).Inc()
}

// RecordRequestDuration записывает время обработки HTTP-запроса.
func (m *IntakeMetrics) RecordRequestDuration(handler string, duration time.Duration) {
	m.requestDuration.WithLabelValues(handler).Observe(duration.Seconds())
}

// RecordListingCacheHit учитывает попадание в кэш списка заказов.
func (m *IntakeMetrics) RecordListingCacheHit() {
	m.listingCacheHits.Inc()
}

// RecordListingCacheMiss учитывает промах кэша списка заказов.
func (m *IntakeMetrics) RecordListingCacheMiss() {
	m.listingCacheMisses.Inc()
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogram(registerer prometheus.Registerer, opts prometheus.HistogramOpts) prometheus.Histogram {
	collector := prometheus.NewHistogram(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Histogram)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogramVec(registerer prometheus.Registerer, opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	collector := prometheus.NewHistogramVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.HistogramVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram vec %q: %v", opts.Name, err))
	}
	return collector
}
