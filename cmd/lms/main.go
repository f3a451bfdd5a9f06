package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/yuya-takeyama/lms/internal/config"
	"github.com/yuya-takeyama/lms/internal/logging"
	"github.com/yuya-takeyama/lms/internal/progressbar"
	"github.com/yuya-takeyama/lms/pkg/logger"
	"github.com/yuya-takeyama/lms/pkg/progress"
	"github.com/yuya-takeyama/lms/pkg/syncer"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "lms",
		Short: "Multithreaded local directory synchronization",
		Long: `lms copies, synchronizes and removes local directory trees using a
bounded pool of workers. Files are compared by content with XXH3, or with
BLAKE2b-512 when --secure is given.`,
		Version:      fmt.Sprintf("%s (commit: %s, built at: %s by %s)", version, commit, date, builtBy),
		SilenceUsage: true,
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	config.AddFlags(rootCmd)

	rootCmd.AddCommand(newSyncCmd(), newCopyCmd(), newRemoveCmd())
	return rootCmd
}

func newSyncCmd() *cobra.Command {
	var resultJSONFile string

	cmd := &cobra.Command{
		Use:     "sync <SOURCE> <DESTINATION>",
		Aliases: []string{"s"},
		Short:   "Make DESTINATION identical to SOURCE",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(cmd)
			if err != nil {
				return err
			}

			src := args[0]
			if err := resolveSource(src); err != nil {
				return err
			}
			dest, err := resolveDestination(src, args[1], false, env.log)
			if err != nil {
				return err
			}

			start := time.Now()
			summary, err := syncer.Synchronize(cmd.Context(), src, dest, env.options("sync"))
			env.finish()
			if err != nil {
				return err
			}
			env.report(summary, time.Since(start))

			if resultJSONFile != "" {
				result := newSyncResult(src, dest, env.cfg.DryRun, summary)
				if err := writeSyncResult(resultJSONFile, result); err != nil {
					return fmt.Errorf("failed to write result JSON: %w", err)
				}
			}
			return nil
		},
	}

	config.AddSyncFlags(cmd)
	cmd.Flags().StringVar(&resultJSONFile, "result-json-file", "", "Path to output result as JSON file")
	return cmd
}

func newCopyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cp <SOURCE> <DESTINATION>",
		Short: "Copy SOURCE into DESTINATION without deleting anything",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(cmd)
			if err != nil {
				return err
			}

			src := args[0]
			if err := resolveSource(src); err != nil {
				return err
			}
			dest, err := resolveDestination(src, args[1], true, env.log)
			if err != nil {
				return err
			}

			start := time.Now()
			summary, err := syncer.Copy(cmd.Context(), src, dest, env.options("copy"))
			env.finish()
			if err != nil {
				return err
			}
			env.report(summary, time.Since(start))
			return nil
		},
	}
}

func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <TARGET>...",
		Short: "Remove one or more directory trees",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(cmd)
			if err != nil {
				return err
			}

			targets, err := resolveTargets(args, env.log)
			if err != nil {
				return err
			}

			start := time.Now()
			total := &syncer.Summary{}
			for _, target := range targets {
				summary, err := syncer.Remove(cmd.Context(), target, env.options("remove"))
				env.finish()
				if err != nil {
					return fmt.Errorf("remove %s: %w", target, err)
				}
				total.Merge(summary)
			}
			env.report(total, time.Since(start))
			return nil
		},
	}
}

// env carries what every subcommand needs once flags are parsed.
type env struct {
	cfg    *config.Config
	log    *slog.Logger
	stdout io.Writer
	stderr io.Writer
	bar    *progressbar.Bar
}

func setup(cmd *cobra.Command) (*env, error) {
	cfg, err := config.Load(cmd)
	if err != nil {
		return nil, err
	}

	log := logging.New(cmd.OutOrStdout(), cfg.Verbose)
	slog.SetDefault(log)
	if cfg.File != "" {
		log.Debug("config loaded", "file", cfg.File)
	}

	return &env{
		cfg:    cfg,
		log:    log,
		stdout: cmd.OutOrStdout(),
		stderr: cmd.ErrOrStderr(),
	}, nil
}

// options builds syncer options, starting a progress bar labelled label when
// the bar is wanted. Per-entry logging and the bar exclude each other.
func (e *env) options(label string) syncer.Options {
	var sink progress.Sink
	if !e.cfg.NoProgress && !e.cfg.Verbose && progressbar.Enabled(e.stderr) {
		e.bar = progressbar.New(e.stderr, label)
		sink = e.bar
	}
	return e.cfg.Options(logger.NewSlog(e.log), sink)
}

// finish stops the progress bar even when the operation failed before
// reaching its own Finish call.
func (e *env) finish() {
	if e.bar != nil {
		e.bar.Finish()
		e.bar = nil
	}
}

func (e *env) report(summary *syncer.Summary, duration time.Duration) {
	if e.cfg.Verbose || e.cfg.DryRun || summary.Errors > 0 {
		logging.PrintSummary(e.stdout, summary.Stats, e.cfg.DryRun, duration)
	}
}

func getAbsolutePath(path string) string {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path // fallback to original path
	}
	return absPath
}
