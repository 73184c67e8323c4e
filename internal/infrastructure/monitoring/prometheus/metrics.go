package prometheus

import (
	"time"

	"github.com/turtacn/pourbaix-engine/internal/domain/pourbaix"
	"github.com/turtacn/pourbaix-engine/pkg/errors"
)

// AppMetrics holds the engine's metrics.
type AppMetrics struct {
	// Diagram construction
	DiagramBuildsTotal   CounterVec
	DiagramBuildDuration HistogramVec
	DiagramEntries       GaugeVec
	DiagramStableDomains GaugeVec

	// Multi-entry generation
	GenerationCombinations CounterVec

	// Queries
	QueriesTotal     CounterVec
	MapPointsTotal   CounterVec
	MapBuildDuration HistogramVec
	MapWorkersActive GaugeVec

	// Snapshot cache
	CacheHitsTotal   CounterVec
	CacheMissesTotal CounterVec

	ErrorsTotal CounterVec
}

// Default Buckets
var (
	DefaultBuildDurationBuckets = []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10, 30}
	DefaultMapDurationBuckets   = []float64{.01, .05, .1, .5, 1, 5, 10, 30, 60}
)

// NewAppMetrics registers all metrics on collector.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	m.DiagramBuildsTotal = collector.RegisterCounter("diagram_builds_total", "Diagram constructions", "mode", "status")
	m.DiagramBuildDuration = collector.RegisterHistogram("diagram_build_duration_seconds", "Diagram construction duration", DefaultBuildDurationBuckets, "mode")
	m.DiagramEntries = collector.RegisterGauge("diagram_entries", "Entries of the last built diagram", "stage")
	m.DiagramStableDomains = collector.RegisterGauge("diagram_stable_domains", "Stable domains of the last built diagram")

	m.GenerationCombinations = collector.RegisterCounter("generation_combinations_total", "Multi-entry combinations by generator stage", "stage")

	m.QueriesTotal = collector.RegisterCounter("queries_total", "Diagram queries", "operation")
	m.MapPointsTotal = collector.RegisterCounter("map_points_total", "Stability map points evaluated", "quantity")
	m.MapBuildDuration = collector.RegisterHistogram("map_build_duration_seconds", "Stability map duration", DefaultMapDurationBuckets, "quantity")
	m.MapWorkersActive = collector.RegisterGauge("map_workers_active", "Stability map rows in flight")

	m.CacheHitsTotal = collector.RegisterCounter("cache_hits_total", "Snapshot cache hits", "cache")
	m.CacheMissesTotal = collector.RegisterCounter("cache_misses_total", "Snapshot cache misses", "cache")

	m.ErrorsTotal = collector.RegisterCounter("errors_total", "Errors by component and code", "component", "code")

	return m
}

// ObserveGeneration implements pourbaix.GenerationObserver.
func (m *AppMetrics) ObserveGeneration(stats pourbaix.GenerationStats) {
	m.GenerationCombinations.WithLabelValues("enumerated").Add(float64(stats.Enumerated))
	m.GenerationCombinations.WithLabelValues("covering").Add(float64(stats.Covering))
	m.GenerationCombinations.WithLabelValues("accepted").Add(float64(stats.Accepted))
}

var _ pourbaix.GenerationObserver = (*AppMetrics)(nil)

// Helpers

func buildMode(multiElement bool) string {
	if multiElement {
		return "multi_element"
	}
	return "single_element"
}

// RecordBuild records one diagram construction. d may be nil when err is set.
func RecordBuild(metrics *AppMetrics, d *pourbaix.Diagram, multiElement bool, duration time.Duration, err error) {
	mode := buildMode(multiElement)
	metrics.DiagramBuildDuration.WithLabelValues(mode).Observe(duration.Seconds())
	if err != nil {
		metrics.DiagramBuildsTotal.WithLabelValues(mode, "error").Inc()
		RecordError(metrics, "diagram", err)
		return
	}
	metrics.DiagramBuildsTotal.WithLabelValues(mode, "ok").Inc()
	metrics.DiagramEntries.WithLabelValues("input").Set(float64(len(d.UnprocessedEntries())))
	metrics.DiagramEntries.WithLabelValues("processed").Set(float64(len(d.AllEntries())))
	metrics.DiagramStableDomains.WithLabelValues().Set(float64(len(d.Domains())))
}

// RecordMap records a stability map of points evaluations of quantity.
func RecordMap(metrics *AppMetrics, quantity string, points int, duration time.Duration) {
	metrics.MapPointsTotal.WithLabelValues(quantity).Add(float64(points))
	metrics.MapBuildDuration.WithLabelValues(quantity).Observe(duration.Seconds())
}

// RecordQuery counts one query of operation.
func RecordQuery(metrics *AppMetrics, operation string) {
	metrics.QueriesTotal.WithLabelValues(operation).Inc()
}

// RecordCacheAccess counts a hit or a miss on cache.
func RecordCacheAccess(metrics *AppMetrics, cache string, hit bool) {
	if hit {
		metrics.CacheHitsTotal.WithLabelValues(cache).Inc()
	} else {
		metrics.CacheMissesTotal.WithLabelValues(cache).Inc()
	}
}

// RecordError counts err under its AppError code.
func RecordError(metrics *AppMetrics, component string, err error) {
	metrics.ErrorsTotal.WithLabelValues(component, errors.GetCode(err).String()).Inc()
}

//Personal.AI order the ending
