package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/yuya-takeyama/lms/pkg/syncer"
)

// SyncResult represents the actual execution results
type SyncResult struct {
	Source      string        `json:"source"`
	Destination string        `json:"destination"`
	DryRun      bool          `json:"dryrun"`
	Errors      []ErrorEntry  `json:"errors"`
	Summary     ResultSummary `json:"summary"`
}

type ErrorEntry struct {
	Action string `json:"action"` // "copy", "delete"
	Kind   string `json:"kind"`   // "file", "dir", "symlink"
	Path   string `json:"path"`
	Error  string `json:"error"`
}

type ResultSummary struct {
	Copied      int64 `json:"copied"`
	Deleted     int64 `json:"deleted"`
	Skipped     int64 `json:"skipped"`
	Failed      int64 `json:"failed"`
	BytesCopied int64 `json:"bytes_copied"`
}

func newSyncResult(src, dest string, dryRun bool, summary *syncer.Summary) SyncResult {
	result := SyncResult{
		Source:      getAbsolutePath(src),
		Destination: getAbsolutePath(dest),
		DryRun:      dryRun,
		Errors:      []ErrorEntry{},
		Summary: ResultSummary{
			Copied:      summary.Copied,
			Deleted:     summary.Deleted,
			Skipped:     summary.Skipped,
			Failed:      summary.Errors,
			BytesCopied: summary.BytesCopied,
		},
	}

	for _, f := range summary.Failures {
		result.Errors = append(result.Errors, ErrorEntry{
			Action: string(f.Op),
			Kind:   string(f.Entry.Kind()),
			Path:   f.Entry.Path(),
			Error:  f.Err.Error(),
		})
	}

	return result
}

func writeSyncResult(path string, result SyncResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}
