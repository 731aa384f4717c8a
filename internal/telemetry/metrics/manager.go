package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Manager struct {
	// counters
	CounterRequests                *prometheus.CounterVec
	CounterWorkoutsProcessed       prometheus.Counter
	CounterLevelUps                prometheus.Counter
	CounterEquivalenceApplications prometheus.Counter
	CounterPropagationFailures     prometheus.Counter
	CounterSplitAnnouncements      prometheus.Counter
	CounterHandleRequestPanic      prometheus.Counter
	CounterRateLimitedRequests     prometheus.Counter

	// gauges
	GaugeRequests   prometheus.Gauge
	GaugeLifeSignal prometheus.Gauge

	// histograms
	HistWorkoutProcessingDuration prometheus.Histogram
	HistogramRequestDuration      *prometheus.HistogramVec
}

func NewTestManager() *Manager {
	return NewManager("backend", "test_server", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("backend", "test_server", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	counterRequests := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request",
		Help:      "The total number of incoming requests",
	}, []string{"method", "status"})
	counterWorkoutsProcessed := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "workouts_processed",
		Help:      "The total number of processed workout completions",
	})
	counterLevelUps := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "level_ups",
		Help:      "The total number of track level ups",
	})
	counterEquivalenceApplications := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "equivalence_applications",
		Help:      "The total number of applied level equivalence rules",
	})
	counterPropagationFailures := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "propagation_failures",
		Help:      "Failed best effort propagations of ancestor and equivalence updates",
	})
	counterSplitAnnouncements := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "split_announcements",
		Help:      "The total number of ready for split announcements",
	})
	counterHandleRequestPanic := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "handle_request_panic",
		Help:      "The total number of serve request panics",
	})
	counterRateLimitedRequests := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "rate_limited_requests",
		Help:      "The total number of rate limited requests",
	})

	gaugeRequests := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "current_requests",
		Help:      "Current number of requests served",
	})
	gaugeLifeSignal := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "life_signal",
		Help:      "Shows whether the service is alive",
	})

	histWorkoutProcessingDuration := factory.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Buckets:   []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			Name:      "workout_processing_duration_seconds",
			Help:      "Total duration of a single workout completion processing in seconds",
		},
	)

	histogramRequestDuration := factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request_duration_seconds",
		Help:      "Histogram of response time for requests in seconds",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"route", "method", "status_code"})

	return &Manager{
		CounterRequests:                counterRequests,
		CounterWorkoutsProcessed:       counterWorkoutsProcessed,
		CounterLevelUps:                counterLevelUps,
		CounterEquivalenceApplications: counterEquivalenceApplications,
		CounterPropagationFailures:     counterPropagationFailures,
		CounterSplitAnnouncements:      counterSplitAnnouncements,
		CounterHandleRequestPanic:      counterHandleRequestPanic,
		CounterRateLimitedRequests:     counterRateLimitedRequests,
		GaugeRequests:                  gaugeRequests,
		GaugeLifeSignal:                gaugeLifeSignal,
		HistWorkoutProcessingDuration:  histWorkoutProcessingDuration,
		HistogramRequestDuration:       histogramRequestDuration,
	}
}
