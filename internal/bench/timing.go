package bench

import "time"

// MinElapsed is the floor applied to elapsed times before computing throughput,
// so a phase that finishes within clock resolution still yields a finite rate.
const MinElapsed = time.Microsecond

// Time returns the wall-clock time fn took and fn's error.
func Time(fn func() error) (time.Duration, error) {
	start := time.Now()
	err := fn()
	return time.Since(start), err
}

// Throughput returns ops per second. elapsed is floored at MinElapsed.
func Throughput(ops int, elapsed time.Duration) float64 {
	if elapsed < MinElapsed {
		elapsed = MinElapsed
	}
	return float64(ops) / elapsed.Seconds()
}
