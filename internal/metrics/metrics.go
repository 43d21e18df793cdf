// Package metrics defines the Prometheus collectors exported by the users API.
// They register with the default registry on import and are served on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "usercache"

// Cache lookup kinds and results.
const (
	KindUser = "user"
	KindList = "list"

	ResultHit  = "hit"
	ResultMiss = "miss"
)

// CacheLookupsTotal counts read-through lookups.
// Labels:
//   - kind: "user" for single records, "list" for paginated pages
//   - result: "hit" or "miss"
var CacheLookupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_lookups_total",
		Help:      "Total number of cache lookups, by kind and result.",
	},
	[]string{"kind", "result"},
)

// CacheInvalidationErrorsTotal counts swallowed cache eviction failures.
var CacheInvalidationErrorsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_invalidation_errors_total",
		Help:      "Total number of cache invalidation calls that failed and were ignored.",
	},
)

// HTTPRequestsTotal counts served requests.
// Labels:
//   - method: HTTP method
//   - route: matched route template (e.g. "/api/users/:id"), or "unmatched"
//   - status: response status code
var HTTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests, by method, route and status.",
	},
	[]string{"method", "route", "status"},
)

func CacheLookup(kind string, hit bool) {
	result := ResultMiss
	if hit {
		result = ResultHit
	}
	CacheLookupsTotal.WithLabelValues(kind, result).Inc()
}
