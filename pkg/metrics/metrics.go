package metrics

import (
	"context"
	"time"
)

// RecordCount records a count metric against the New Relic application in ctx.
func RecordCount(ctx context.Context, metricName string, count uint64) {
	record(ctx, metricName, float64(count))
}

// RecordDuration records a duration metric in milliseconds.
func RecordDuration(ctx context.Context, metricName string, duration time.Duration) {
	record(ctx, metricName, float64(duration)/float64(time.Millisecond))
}

// RecordEvent records a custom event with a name and set of attributes.
func RecordEvent(ctx context.Context, eventName string, kvPairs map[string]interface{}) {
	if nr := FromContext(ctx); nr != nil {
		nr.RecordCustomEvent(eventName, kvPairs)
	}
}

func record(ctx context.Context, metricName string, value float64) {
	if nr := FromContext(ctx); nr != nil {
		nr.RecordCustomMetric(metricName, value)
	}
}
