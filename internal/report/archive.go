// Jester Report - Daily Rating Statistics Mailer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jester-report

package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
)

// Archive is the JSON record of one rendered report.
type Archive struct {
	RunID       string         `json:"run_id"`
	GeneratedAt time.Time      `json:"generated_at"`
	Subject     string         `json:"subject"`
	Template    string         `json:"template"`
	DryRun      bool           `json:"dry_run"`
	Fields      map[string]any `json:"fields"`
	Body        string         `json:"body"`
}

// ArchiveFileName returns the file name for a report generated at t.
func ArchiveFileName(t time.Time) string {
	return fmt.Sprintf("report-%s.json", t.Format("2006-01-02"))
}

// WriteArchive writes a as indented JSON into dir and returns the file path.
// The file is written to a temporary name and renamed into place so a
// reader never sees a partial report. A rerun on the same day replaces it.
func WriteArchive(dir string, a *Archive) (string, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create archive directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode report archive: %w", err)
	}

	path := filepath.Join(dir, ArchiveFileName(a.GeneratedAt))
	tmp, err := os.CreateTemp(dir, ".report-*.json.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create archive file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("failed to write archive file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("failed to close archive file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("failed to move archive into place: %w", err)
	}
	return path, nil
}

// ReadArchive loads an archive written by WriteArchive.
func ReadArchive(path string) (*Archive, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is produced by WriteArchive
	if err != nil {
		return nil, fmt.Errorf("failed to read archive: %w", err)
	}
	var a Archive
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("failed to decode archive: %w", err)
	}
	return &a, nil
}
