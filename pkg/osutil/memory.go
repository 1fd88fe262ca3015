package osutil

import (
	"os"
	"strconv"
	"strings"

	"github.com/pbnjay/memory"
)

const (
	// This is the default value for cgroup's limit_in_bytes. This is not a
	// valid value and indicates that the memory is not restricted.
	// See https://unix.stackexchange.com/questions/420906/what-is-the-value-for-the-cgroups-limit-in-bytes-if-the-memory-is-not-restricte
	unrestrictedMemoryLimit = 9223372036854771712

	maxBallastCapacity = 0.5
)

var cgroupMemoryLimitLocations = []string{
	"/sys/fs/cgroup/memory.max",                   // cgroup v2
	"/sys/fs/cgroup/memory/memory.limit_in_bytes", // cgroup v1
}

// GetTotalMemory returns the total available memory size. The call is
// container-aware.
func GetTotalMemory() uint64 {
	totalMemory := memory.TotalMemory()

	for _, location := range cgroupMemoryLimitLocations {
		if limit, ok := readMemoryLimit(location); ok {
			if limit < totalMemory || totalMemory == 0 {
				totalMemory = limit
			}
			break
		}
	}
	return totalMemory
}

// GetBallastSize returns the size of a GC ballast taking capacity of the total
// memory. Capacity is clamped to [0, 0.5].
func GetBallastSize(capacity float32) uint64 {
	return ballastSize(GetTotalMemory(), capacity)
}

func ballastSize(totalMemory uint64, capacity float32) uint64 {
	if capacity <= 0 {
		return 0
	}
	if capacity > maxBallastCapacity {
		capacity = maxBallastCapacity
	}
	return uint64(float64(capacity) * float64(totalMemory))
}

// readMemoryLimit reads a cgroup memory limit. Unrestricted limits are
// reported as absent.
func readMemoryLimit(location string) (uint64, bool) {
	raw, err := os.ReadFile(location)
	if err != nil {
		return 0, false
	}

	value := strings.TrimSpace(string(raw))
	if value == "max" {
		return 0, false
	}

	limit, err := strconv.ParseUint(value, 10, 64)
	if err != nil || limit == unrestrictedMemoryLimit {
		return 0, false
	}
	return limit, true
}
