package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/yuya-takeyama/lms/pkg/executor"
)

const timeFormat = "15:04:05.000"

// New creates a slog logger writing colored text to w. Colors are only used
// when w is a terminal.
func New(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: timeFormat,
		NoColor:    !isTerminal(w),
	}))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// PrintSummary prints a summary of the operation
func PrintSummary(w io.Writer, stats executor.Stats, dryRun bool, duration time.Duration) {
	fmt.Fprintln(w)
	if dryRun {
		fmt.Fprintln(w, "=== Summary (dryrun) ===")
	} else {
		fmt.Fprintln(w, "=== Summary ===")
	}
	fmt.Fprintf(w, "Copied: %d entries (%s)\n", stats.Copied, humanize.Bytes(uint64(stats.BytesCopied)))
	fmt.Fprintf(w, "Deleted: %d entries\n", stats.Deleted)
	if stats.Skipped > 0 {
		fmt.Fprintf(w, "Unchanged: %d files\n", stats.Skipped)
	}
	if stats.Errors > 0 {
		fmt.Fprintf(w, "Errors: %d\n", stats.Errors)
	}
	fmt.Fprintf(w, "Duration: %s\n", duration.Round(time.Millisecond))
}
