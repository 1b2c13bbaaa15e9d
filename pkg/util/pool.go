package util

import "runtime"

// Bounds for WorkerCount when no explicit count is given.
const (
	MinWorkers = 4
	MaxWorkers = 32
)

// WorkerCount sizes the declaration parser pool and the extraction workers
// feeding it. A positive override is returned as is; otherwise the count is
// twice the CPU count clamped to [MinWorkers, MaxWorkers].
func WorkerCount(override int) int {
	if override > 0 {
		return override
	}
	return clampWorkers(runtime.NumCPU() * 2)
}

func clampWorkers(n int) int {
	if n < MinWorkers {
		return MinWorkers
	}
	if n > MaxWorkers {
		return MaxWorkers
	}
	return n
}
