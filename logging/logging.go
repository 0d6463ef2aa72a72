// Package logging sets up the process-wide log file. Log lines append to
// logs/log_YYYYMM.log, so the file name rolls over once a month and old
// months are kept as-is.
package logging

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Filename returns the monthly log file name for the given time.
func Filename(dir string, now time.Time) string {
	return filepath.Join(dir, "log_"+now.Format("200601")+".log")
}

// Open creates the log directory if needed and returns a logger appending
// timestamped lines to the current month's file. The caller owns the
// returned file and closes it when the run ends.
func Open(dir string, now time.Time) (*slog.Logger, *os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(Filename(dir, now), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(f, nil))
	return logger, f, nil
}
