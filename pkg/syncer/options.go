package syncer

import (
	"github.com/yuya-takeyama/lms/internal/checksum"
	"github.com/yuya-takeyama/lms/pkg/executor"
	"github.com/yuya-takeyama/lms/pkg/logger"
	"github.com/yuya-takeyama/lms/pkg/progress"
)

// Options is fixed for the duration of one operation.
type Options struct {
	// NoDelete skips every deletion phase of Synchronize.
	NoDelete bool
	// Secure compares content with BLAKE2b-512 instead of XXH3.
	Secure bool
	// Verbose forwards per-entry info messages to Logger. Errors are
	// always forwarded.
	Verbose bool
	// Sequential runs every phase on the calling goroutine. Directory
	// deletion is sequential regardless.
	Sequential bool
	// DryRun logs and counts operations without performing them.
	DryRun bool
	// Concurrency bounds the parallel executor. Zero means one worker per CPU.
	Concurrency int
	// Excludes are doublestar patterns matched against slash-separated
	// relative paths in every scanned root.
	Excludes []string

	Logger   logger.Logger
	Progress progress.Sink
}

func (o Options) logger() logger.Logger {
	l := logger.OrNull(o.Logger)
	if !o.Verbose {
		return logger.QuietLogger{Logger: l}
	}
	return l
}

func (o Options) mode() executor.Mode {
	if o.Sequential {
		return executor.Sequential
	}
	return executor.Parallel
}

func (o Options) checksumMode() checksum.Mode {
	if o.Secure {
		return checksum.Secure
	}
	return checksum.Fast
}

func (o Options) executor(log logger.Logger, sink progress.Sink) *executor.Executor {
	return executor.New(
		executor.WithLogger(log),
		executor.WithProgress(sink),
		executor.WithConcurrency(o.Concurrency),
		executor.WithDryRun(o.DryRun),
	)
}
