package executor

import (
	"context"

	"github.com/yuya-takeyama/lms/internal/checksum"
	"github.com/yuya-takeyama/lms/internal/worker"
	"github.com/yuya-takeyama/lms/pkg/entry"
	"github.com/yuya-takeyama/lms/pkg/logger"
	"github.com/yuya-takeyama/lms/pkg/planner"
	"github.com/yuya-takeyama/lms/pkg/progress"
)

// Mode selects how a batch of independent operations is scheduled.
type Mode int

const (
	Parallel Mode = iota
	Sequential
)

func (m Mode) String() string {
	if m == Sequential {
		return "sequential"
	}
	return "parallel"
}

type Op string

const (
	OpCopy   Op = "copy"
	OpDelete Op = "delete"
	OpSkip   Op = "skip"
)

// Result is the outcome of one operation on one entry. Err is recorded for
// reporting only; a failed entry never stops the batch.
type Result struct {
	Entry entry.Entry
	Op    Op
	Err   error
	Bytes int64
}

type Executor struct {
	logger   logger.Logger
	progress progress.Sink
	pool     *worker.Pool
	dryRun   bool
}

type Option func(*Executor)

func WithLogger(l logger.Logger) Option {
	return func(e *Executor) { e.logger = logger.OrNull(l) }
}

func WithProgress(p progress.Sink) Option {
	return func(e *Executor) { e.progress = progress.OrNop(p) }
}

func WithConcurrency(n int) Option {
	return func(e *Executor) { e.pool = worker.NewPool(n) }
}

// WithDryRun logs and counts operations without touching the filesystem.
func WithDryRun(dryRun bool) Option {
	return func(e *Executor) { e.dryRun = dryRun }
}

func New(opts ...Option) *Executor {
	e := &Executor{
		logger:   logger.NullLogger{},
		progress: progress.Nop(),
		pool:     worker.NewPool(0),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CopyMany copies every entry from srcRoot to destRoot. Entries are
// independent of each other and may complete in any order.
func (e *Executor) CopyMany(ctx context.Context, entries []entry.Entry, srcRoot, destRoot string, mode Mode) ([]Result, error) {
	results := make([]Result, len(entries))
	err := e.run(ctx, mode, len(entries), func(i int) {
		results[i] = e.copyEntry(entries[i], srcRoot, destRoot)
		e.progress.Increment(1)
	})
	return compact(results), err
}

// DeleteMany removes every entry under root. Only files and symlinks belong
// here; directories go through DeleteOrdered.
func (e *Executor) DeleteMany(ctx context.Context, entries []entry.Entry, root string, mode Mode) ([]Result, error) {
	results := make([]Result, len(entries))
	err := e.run(ctx, mode, len(entries), func(i int) {
		results[i] = e.deleteEntry(entries[i], root)
		e.progress.Increment(1)
	})
	return compact(results), err
}

// DeleteOrdered removes directories deepest first on the calling goroutine,
// so no directory is removed before the directories inside it.
func (e *Executor) DeleteOrdered(ctx context.Context, dirs []entry.Dir, root string) ([]Result, error) {
	sorted := planner.SortByDepth(append([]entry.Dir(nil), dirs...))

	results := make([]Result, len(sorted))
	err := worker.RunSequential(ctx, len(sorted), func(i int) {
		results[i] = e.deleteEntry(sorted[i], root)
		e.progress.Increment(1)
	})
	return compact(results), err
}

// CompareAndCopy copies each file whose content differs between the roots,
// or whose content could not be hashed.
func (e *Executor) CompareAndCopy(ctx context.Context, files []entry.File, srcRoot, destRoot string, cmp checksum.Mode, mode Mode) ([]Result, error) {
	results := make([]Result, len(files))
	err := e.run(ctx, mode, len(files), func(i int) {
		f := files[i]
		if checksum.Same(f.Path(), srcRoot, destRoot, cmp) {
			e.logger.Info("same file", "path", f.Path(), "checksum", cmp.String())
			results[i] = Result{Entry: f, Op: OpSkip}
		} else {
			results[i] = e.copyEntry(f, srcRoot, destRoot)
		}
		e.progress.Increment(2)
	})
	return compact(results), err
}

func (e *Executor) run(ctx context.Context, mode Mode, n int, task func(i int)) error {
	if mode == Sequential {
		return worker.RunSequential(ctx, n, task)
	}
	return e.pool.Run(ctx, n, task)
}

func (e *Executor) copyEntry(en entry.Entry, srcRoot, destRoot string) Result {
	src := entry.Resolve(srcRoot, en)
	dest := entry.Resolve(destRoot, en)
	result := Result{Entry: en, Op: OpCopy}
	if f, ok := en.(entry.File); ok {
		result.Bytes = f.Size
	}

	msg := copyMessage(en.Kind())
	if e.dryRun {
		e.logger.Info("(dryrun) "+msg, "src", src, "dest", dest)
		return result
	}

	if err := en.Copy(src, dest); err != nil {
		e.logger.Error(msg, "src", src, "dest", dest, "error", err)
		result.Err = err
		return result
	}

	e.logger.Info(msg, "src", src, "dest", dest)
	return result
}

func (e *Executor) deleteEntry(en entry.Entry, root string) Result {
	path := entry.Resolve(root, en)
	result := Result{Entry: en, Op: OpDelete}
	msg := "delete " + string(en.Kind())

	if e.dryRun {
		e.logger.Info("(dryrun) "+msg, "path", path)
		return result
	}

	if err := en.Remove(path); err != nil {
		e.logger.Error(msg, "path", path, "error", err)
		result.Err = err
		return result
	}

	e.logger.Info(msg, "path", path)
	return result
}

func copyMessage(kind entry.Kind) string {
	if kind == entry.KindFile {
		return "copy file"
	}
	return "create " + string(kind)
}

// compact drops the slots of tasks that were never dispatched.
func compact(results []Result) []Result {
	out := results[:0]
	for _, r := range results {
		if r.Entry != nil {
			out = append(out, r)
		}
	}
	return out
}
