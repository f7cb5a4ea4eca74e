package wordblast

import (
	"strconv"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// sessions numbers the word blasters of the process. The number becomes the
// "session" label, so several blasters can share one registry.
var sessions atomic.Uint64

type metrics struct {
	// cacheLookups counts cache lookups by cache and result ("hit" or "miss")
	cacheLookups *prometheus.CounterVec
	// encoderCalls counts encoder invocations by operation
	encoderCalls *prometheus.CounterVec
}

// newMetrics registers the counters on reg under a fresh session label. A nil
// reg leaves them unregistered.
func newMetrics(reg prometheus.Registerer) *metrics {
	if reg != nil {
		session := strconv.FormatUint(sessions.Add(1), 10)
		reg = prometheus.WrapRegistererWith(prometheus.Labels{"session": session}, reg)
	}
	factory := promauto.With(reg)
	return &metrics{
		cacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fpblast_wordblast_cache_lookups_total",
			Help: "Total word blaster cache lookups by cache and result",
		}, []string{"cache", "result"}),
		encoderCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fpblast_wordblast_encoder_calls_total",
			Help: "Total floating-point encoder invocations by operation",
		}, []string{"kind"}),
	}
}

func (m *metrics) lookup(cache string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(cache, result).Inc()
}
