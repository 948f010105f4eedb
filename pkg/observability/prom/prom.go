// Package prom implements the observability hooks on top of Prometheus.
package prom

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Hooks implements [observability.ContainerHooks], [observability.CacheHooks]
// and [observability.HTTPHooks].
type Hooks struct {
	managedVersions *prometheus.CounterVec
	bomImports      *prometheus.CounterVec
	bomImportErrors *prometheus.CounterVec
	bomSkipped      *prometheus.CounterVec
	bomDuration     prometheus.Histogram
	bomEntries      prometheus.Histogram

	cacheHits   *prometheus.CounterVec
	cacheMisses *prometheus.CounterVec
	cacheBytes  *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
	httpErrors   *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
// A nil reg registers nothing, which is convenient in tests.
func New(reg prometheus.Registerer) *Hooks {
	h := &Hooks{
		managedVersions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "depmgmt_managed_versions_total",
				Help: "Managed version declarations by origin and outcome.",
			},
			[]string{"origin", "outcome"},
		),
		bomImports: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "depmgmt_bom_imports_total",
				Help: "BOM imports by scope kind.",
			},
			[]string{"scope_kind"},
		),
		bomImportErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "depmgmt_bom_import_errors_total",
				Help: "BOM imports that failed to resolve.",
			},
			[]string{"scope_kind"},
		),
		bomSkipped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "depmgmt_bom_imports_skipped_total",
				Help: "Duplicate or cyclic BOM imports that were ignored.",
			},
			[]string{"reason"},
		),
		bomDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "depmgmt_bom_import_duration_seconds",
				Help:    "Time taken to resolve and fold a BOM, including transitive imports.",
				Buckets: prometheus.DefBuckets,
			},
		),
		bomEntries: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "depmgmt_bom_import_entries",
				Help:    "Managed dependencies registered per BOM import.",
				Buckets: prometheus.ExponentialBuckets(1, 4, 6),
			},
		),
		cacheHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "depmgmt_cache_hits_total",
				Help: "Cache hits by key type.",
			},
			[]string{"key_type"},
		),
		cacheMisses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "depmgmt_cache_misses_total",
				Help: "Cache misses by key type.",
			},
			[]string{"key_type"},
		),
		cacheBytes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "depmgmt_cache_written_bytes_total",
				Help: "Bytes written to the cache by key type.",
			},
			[]string{"key_type"},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "depmgmt_repository_requests_total",
				Help: "Repository HTTP responses by host and status code.",
			},
			[]string{"host", "code"},
		),
		httpErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "depmgmt_repository_errors_total",
				Help: "Repository HTTP transport failures by host.",
			},
			[]string{"host"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "depmgmt_repository_request_duration_seconds",
				Help:    "Repository HTTP request latency by host.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"host"},
		),
	}
	if reg != nil {
		reg.MustRegister(h.Collectors()...)
	}
	return h
}

// Collectors returns every collector owned by h.
func (h *Hooks) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		h.managedVersions,
		h.bomImports,
		h.bomImportErrors,
		h.bomSkipped,
		h.bomDuration,
		h.bomEntries,
		h.cacheHits,
		h.cacheMisses,
		h.cacheBytes,
		h.httpRequests,
		h.httpErrors,
		h.httpDuration,
	}
}

func (h *Hooks) OnManagedVersion(_, origin string, won bool) {
	outcome := "active"
	if !won {
		outcome = "shadowed"
	}
	h.managedVersions.WithLabelValues(origin, outcome).Inc()
}

func (h *Hooks) OnBomImportStart(_ context.Context, scope, _ string) {
	h.bomImports.WithLabelValues(scopeKind(scope)).Inc()
}

func (h *Hooks) OnBomImportComplete(_ context.Context, scope, _ string, entries int, d time.Duration, err error) {
	if err != nil {
		h.bomImportErrors.WithLabelValues(scopeKind(scope)).Inc()
		return
	}
	h.bomDuration.Observe(d.Seconds())
	h.bomEntries.Observe(float64(entries))
}

func (h *Hooks) OnBomImportSkipped(_ context.Context, _, _, reason string) {
	h.bomSkipped.WithLabelValues(reason).Inc()
}

func (h *Hooks) OnCacheHit(_ context.Context, keyType string) {
	h.cacheHits.WithLabelValues(keyType).Inc()
}

func (h *Hooks) OnCacheMiss(_ context.Context, keyType string) {
	h.cacheMisses.WithLabelValues(keyType).Inc()
}

func (h *Hooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (h *Hooks) OnRequest(context.Context, string, string, string) {}

func (h *Hooks) OnResponse(_ context.Context, _, host, _ string, statusCode int, d time.Duration) {
	h.httpRequests.WithLabelValues(host, statusLabel(statusCode)).Inc()
	h.httpDuration.WithLabelValues(host).Observe(d.Seconds())
}

func (h *Hooks) OnError(_ context.Context, _, host, _ string, _ error) {
	h.httpErrors.WithLabelValues(host).Inc()
}

// scopeKind keeps label cardinality bounded: configuration names are user data.
func scopeKind(scope string) string {
	if scope == "" {
		return "global"
	}
	return "configuration"
}

func statusLabel(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
