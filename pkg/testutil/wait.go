package testutil

import (
	"time"

	"github.com/pkg/errors"
)

// WaitFor polls condition every interval until it holds or timeout elapses.
func WaitFor(timeout, interval time.Duration, condition func() bool) error {
	if timeout < interval {
		return errors.New("timeout must be greater than interval")
	}

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for attempts := 1; ; attempts++ {
		if condition() {
			return nil
		}

		select {
		case <-deadline.C:
			return errors.Errorf("condition not met within %v after %d attempts", timeout, attempts)
		case <-ticker.C:
		}
	}
}
