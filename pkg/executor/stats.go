package executor

import "sync/atomic"

// Stats tracks sync statistics
type Stats struct {
	Copied      int64
	Deleted     int64
	Skipped     int64
	Errors      int64
	BytesCopied int64
}

// UpdateStats updates statistics from results
func UpdateStats(stats *Stats, results []Result) {
	for _, result := range results {
		if result.Err != nil {
			atomic.AddInt64(&stats.Errors, 1)
			continue
		}

		switch result.Op {
		case OpCopy:
			atomic.AddInt64(&stats.Copied, 1)
			atomic.AddInt64(&stats.BytesCopied, result.Bytes)
		case OpDelete:
			atomic.AddInt64(&stats.Deleted, 1)
		case OpSkip:
			atomic.AddInt64(&stats.Skipped, 1)
		}
	}
}

// Failed returns the results that carry an error
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r)
		}
	}
	return failed
}
