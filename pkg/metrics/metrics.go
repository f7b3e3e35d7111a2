package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "wordcollab"

var (
	WordsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: namespace, Name: "words_created_total", Help: "Number of words created."},
	)
	CollaboratorsAdded = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: namespace, Name: "collaborators_added_total", Help: "Number of collaborators appended to words."},
	)
	StoreErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "store_errors_total", Help: "Unexpected word store failures by operation."},
		[]string{"op"},
	)
	CacheRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "cache_requests_total", Help: "Word list cache lookups by result (hit, miss, error)."},
		[]string{"result"},
	)
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(WordsCreated)
	reg.MustRegister(CollaboratorsAdded)
	reg.MustRegister(StoreErrors)
	reg.MustRegister(CacheRequests)
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
}
