// Package backoff provides delay strategies for retry.
package backoff

import (
	"math"
	"math/rand"
	"time"
)

// Strategy is a function that provides the amount of time to wait before trying
// again. Note: attempts starts at 1
type Strategy func(attempts uint) time.Duration

// Constant returns a strategy that always returns the provided duration.
func Constant(interval time.Duration) Strategy {
	return func(uint) time.Duration {
		return interval
	}
}

// Exponential returns a strategy that exponentially increases based off of the
// number of attempts. Delays that overflow saturate at math.MaxInt64.
//
// delay = baseDelay * base^(attempts - 1)
// Ex. Exponential(2*time.Seconds, 3) = 2s, 6s, 18s, 54s, ...
func Exponential(baseDelay time.Duration, base float64) Strategy {
	return func(attempts uint) time.Duration {
		delay := float64(baseDelay) * math.Pow(base, float64(attempts-1))
		if delay >= math.MaxInt64 || math.IsNaN(delay) {
			return math.MaxInt64
		}
		return time.Duration(delay)
	}
}

// BinaryExponential returns an Exponential strategy with a base of 2.0
//
// delay = baseDelay * 2^(attempts - 1)
// Ex. BinaryExponential(2*time.Seconds) = 2s, 4s, 8s, 16s, ...
func BinaryExponential(baseDelay time.Duration) Strategy {
	return Exponential(baseDelay, 2)
}

// Capped limits the delays of strategy to maxDelay.
func Capped(strategy Strategy, maxDelay time.Duration) Strategy {
	return func(attempts uint) time.Duration {
		if delay := strategy(attempts); delay < maxDelay {
			return delay
		}
		return maxDelay
	}
}

// Jittered spreads the delays of strategy uniformly over delay +/- jitter*delay.
// For example, a delay of 100ms with a jitter of 0.1 results in a delay
// between 90ms and 110ms.
func Jittered(strategy Strategy, jitter float64) Strategy {
	return func(attempts uint) time.Duration {
		delay := float64(strategy(attempts))
		return time.Duration(delay * (1 + (rand.Float64()*jitter*2 - jitter)))
	}
}
