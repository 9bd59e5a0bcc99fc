package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Logins = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "filegate_logins_total",
		Help: "Total number of login attempts by result (success, invalid_credentials, invalid_request)",
	}, []string{"result"})
	TokenVerifications = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "filegate_token_verifications_total",
		Help: "Total number of bearer token verifications by result (success, missing, invalid)",
	}, []string{"result"})
	RateLimited = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "filegate_rate_limited_total",
		Help: "Total number of requests rejected by a rate limiter",
	}, []string{"limiter"})
	Downloads = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "filegate_downloads_total",
		Help: "Total number of artifact download redirects served",
	})
	Uploads = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "filegate_uploads_total",
		Help: "Total number of upload attempts by result (success, invalid_request, upstream_error)",
	}, []string{"result"})
	StorageRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "filegate_storage_requests_total",
		Help: "Total number of blob-store requests by operation and result",
	}, []string{"operation", "result"})
)

func init() {
	prometheus.MustRegister(Logins)
	prometheus.MustRegister(TokenVerifications)
	prometheus.MustRegister(RateLimited)
	prometheus.MustRegister(Downloads)
	prometheus.MustRegister(Uploads)
	prometheus.MustRegister(StorageRequests)
}

// MetricsHandler returns an http.Handler exposing Prometheus metrics.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
