package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

var errNoTargets = errors.New("no valid target directories")

// resolveSource checks that src is an existing directory.
func resolveSource(src string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("source error: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("source error: %s is not a directory", src)
	}
	return nil
}

// resolveDestination creates dest when it is missing. When into is set and
// dest already exists, the source's base name is appended first, so copying
// into an existing directory nests the source inside it.
func resolveDestination(src, dest string, into bool, log *slog.Logger) (string, error) {
	if into {
		if _, err := os.Stat(dest); err == nil {
			if name := filepath.Base(filepath.Clean(src)); name != "." && name != string(filepath.Separator) {
				dest = filepath.Join(dest, name)
			}
		}
	}

	if _, err := os.Stat(dest); err == nil {
		return dest, nil
	}

	if err := os.MkdirAll(dest, 0755); err != nil {
		return "", fmt.Errorf("destination error: %w", err)
	}
	log.Debug("create destination", "path", dest)
	return dest, nil
}

// resolveTargets keeps the targets that are existing directories. Dropped
// targets are logged; it fails only when nothing remains.
func resolveTargets(targets []string, log *slog.Logger) ([]string, error) {
	var valid []string
	for _, target := range targets {
		info, err := os.Stat(target)
		switch {
		case err != nil:
			log.Error("target error", "path", target, "error", err)
		case !info.IsDir():
			log.Error("target error: not a directory", "path", target)
		default:
			valid = append(valid, target)
		}
	}

	if len(valid) == 0 {
		return nil, errNoTargets
	}
	return valid, nil
}
