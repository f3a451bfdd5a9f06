// Package syncer reconciles a destination directory tree with a source tree.
//
// Every operation scans its roots, derives the work from set differences
// between the scans, and runs it in a fixed phase order. Only a root that
// cannot be scanned fails an operation; any single entry that cannot be
// copied or deleted is logged, recorded in the Summary and skipped.
package syncer

import (
	"context"
	"fmt"

	"github.com/yuya-takeyama/lms/internal/walker"
	"github.com/yuya-takeyama/lms/pkg/entry"
	"github.com/yuya-takeyama/lms/pkg/executor"
	"github.com/yuya-takeyama/lms/pkg/planner"
	"github.com/yuya-takeyama/lms/pkg/progress"
)

// Synchronize makes dest identical to src: missing entries are created,
// entries only in dest are deleted unless opts.NoDelete is set, and files
// present in both are overwritten when their content differs.
func Synchronize(ctx context.Context, src, dest string, opts Options) (*Summary, error) {
	log := opts.logger()

	srcSet, err := walker.Scan(src, opts.Excludes, log)
	if err != nil {
		return nil, fmt.Errorf("scan source: %w", err)
	}
	destSet, err := walker.Scan(dest, opts.Excludes, log)
	if err != nil {
		return nil, fmt.Errorf("scan destination: %w", err)
	}

	plan := planner.Diff(srcSet, destSet)
	if plan.Empty() {
		log.Info("no entries to create or remove", "compare", len(plan.CompareFiles))
	}

	sink := progress.OrNop(opts.Progress)
	sink.SetTotal(plan.Operations(opts.NoDelete))
	defer sink.Finish()

	exec := opts.executor(log, sink)
	mode := opts.mode()
	summary := &Summary{}

	phases := []func() ([]executor.Result, error){}
	replaced, remaining := plan.Replaced()

	if !opts.NoDelete {
		phases = append(phases,
			func() ([]executor.Result, error) {
				return exec.DeleteMany(ctx, entry.Entries(plan.RemoveSymlinks), dest, mode)
			},
			func() ([]executor.Result, error) {
				return exec.DeleteMany(ctx, entry.Entries(plan.RemoveFiles), dest, mode)
			},
			func() ([]executor.Result, error) {
				return exec.DeleteOrdered(ctx, replaced, dest)
			},
		)
	}

	phases = append(phases,
		func() ([]executor.Result, error) {
			return exec.CopyMany(ctx, entry.Entries(plan.CreateDirs), src, dest, mode)
		},
		func() ([]executor.Result, error) {
			return exec.CopyMany(ctx, entry.Entries(plan.CreateSymlinks), src, dest, mode)
		},
		func() ([]executor.Result, error) {
			return exec.CopyMany(ctx, entry.Entries(plan.CreateFiles), src, dest, mode)
		},
		func() ([]executor.Result, error) {
			return exec.CompareAndCopy(ctx, plan.CompareFiles, src, dest, opts.checksumMode(), mode)
		},
	)

	if !opts.NoDelete {
		phases = append(phases, func() ([]executor.Result, error) {
			return exec.DeleteOrdered(ctx, remaining, dest)
		})
	}

	return summary, runPhases(summary, phases)
}

// Copy copies every entry of src into dest without deleting or comparing
// anything.
func Copy(ctx context.Context, src, dest string, opts Options) (*Summary, error) {
	log := opts.logger()

	srcSet, err := walker.Scan(src, opts.Excludes, log)
	if err != nil {
		return nil, fmt.Errorf("scan source: %w", err)
	}

	sink := progress.OrNop(opts.Progress)
	sink.SetTotal(int64(srcSet.Len()))
	defer sink.Finish()

	exec := opts.executor(log, sink)
	mode := opts.mode()
	summary := &Summary{}

	return summary, runPhases(summary, []func() ([]executor.Result, error){
		func() ([]executor.Result, error) {
			return exec.CopyMany(ctx, entry.Entries(srcSet.Dirs()), src, dest, mode)
		},
		func() ([]executor.Result, error) {
			return exec.CopyMany(ctx, entry.Entries(srcSet.Symlinks()), src, dest, mode)
		},
		func() ([]executor.Result, error) {
			return exec.CopyMany(ctx, entry.Entries(srcSet.Files()), src, dest, mode)
		},
	})
}

// Remove deletes target and everything below it. The target directory
// itself is removed last.
func Remove(ctx context.Context, target string, opts Options) (*Summary, error) {
	log := opts.logger()

	targetSet, err := walker.Scan(target, opts.Excludes, log)
	if err != nil {
		return nil, fmt.Errorf("scan target: %w", err)
	}

	sink := progress.OrNop(opts.Progress)
	sink.SetTotal(int64(targetSet.Len() + 1))
	defer sink.Finish()

	exec := opts.executor(log, sink)
	mode := opts.mode()
	summary := &Summary{}

	// the root has depth 0, so it stays behind every other directory
	dirs := append(planner.SortByDepth(targetSet.Dirs()), entry.NewDir(""))

	return summary, runPhases(summary, []func() ([]executor.Result, error){
		func() ([]executor.Result, error) {
			return exec.DeleteMany(ctx, entry.Entries(targetSet.Files()), target, mode)
		},
		func() ([]executor.Result, error) {
			return exec.DeleteMany(ctx, entry.Entries(targetSet.Symlinks()), target, mode)
		},
		func() ([]executor.Result, error) {
			return exec.DeleteOrdered(ctx, dirs, target)
		},
	})
}

func runPhases(summary *Summary, phases []func() ([]executor.Result, error)) error {
	for _, phase := range phases {
		results, err := phase()
		summary.add(results)
		if err != nil {
			return err
		}
	}
	return nil
}
