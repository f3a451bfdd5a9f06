package syncer

import "github.com/yuya-takeyama/lms/pkg/executor"

// Summary aggregates the outcome of one operation. Failures lists every
// entry that could not be reconciled; they never turn into an error.
type Summary struct {
	executor.Stats
	Failures []executor.Result
}

func (s *Summary) add(results []executor.Result) {
	executor.UpdateStats(&s.Stats, results)
	s.Failures = append(s.Failures, executor.Failed(results)...)
}

// Merge adds the counts and failures of other to s.
func (s *Summary) Merge(other *Summary) {
	s.Copied += other.Copied
	s.Deleted += other.Deleted
	s.Skipped += other.Skipped
	s.Errors += other.Errors
	s.BytesCopied += other.BytesCopied
	s.Failures = append(s.Failures, other.Failures...)
}
