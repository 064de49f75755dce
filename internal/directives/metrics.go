package directives

import (
	"time"

	"github.com/goliatone/go-schemadocs/pkg/interfaces"
)

// NoOpMetrics returns a metrics recorder that drops every observation.
func NoOpMetrics() interfaces.DirectiveMetrics {
	return noopMetrics{}
}

type noopMetrics struct{}

func (noopMetrics) ObserveExpandDuration(string, time.Duration) {}

func (noopMetrics) IncrementExpandError(string) {}
