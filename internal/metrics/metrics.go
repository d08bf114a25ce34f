package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "voicegen_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"endpoint", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "voicegen_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})

	// GenerationsTotal counts speech generations by voice.
	GenerationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "voicegen_generations_total",
		Help: "Total number of speech generations",
	}, []string{"voice"})

	// CreditsSpent accumulates credits charged for generations.
	CreditsSpent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "voicegen_credits_spent_total",
		Help: "Total credits spent",
	})

	// CreditsEarned accumulates credits granted for watched ads.
	CreditsEarned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "voicegen_credits_earned_total",
		Help: "Total credits earned from ads",
	})

	// AdsGranted counts reward-granting ad views by kind.
	AdsGranted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "voicegen_ads_granted_total",
		Help: "Total ad views that granted credits",
	}, []string{"kind"})

	// SynthCacheHits counts synthesized clips served from cache.
	SynthCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "voicegen_synth_cache_hits_total",
		Help: "Synthesized audio served from cache",
	})

	// SynthCacheMisses counts generations that hit the upstream.
	SynthCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "voicegen_synth_cache_misses_total",
		Help: "Synthesized audio fetched from the upstream service",
	})
)

// ObserveRequest records one finished HTTP request.
func ObserveRequest(endpoint string, status int, duration time.Duration) {
	requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
	requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// Handler exposes the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
