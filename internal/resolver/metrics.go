package resolver

import (
	"time"

	"github.com/goliatone/go-gist/pkg/interfaces"
)

// NoOpMetrics returns a recorder that drops every observation.
func NoOpMetrics() interfaces.ResolverMetrics {
	return noopMetrics{}
}

type noopMetrics struct{}

func (noopMetrics) ObserveResolveDuration(string, time.Duration) {}

func (noopMetrics) IncrementCacheHit(string) {}

func (noopMetrics) IncrementCacheMiss(string) {}

func (noopMetrics) IncrementFetch(string) {}

func (noopMetrics) IncrementResolveError(string) {}
