// Diagnostics channel shared by every fallible engine operation.
//
// Each reported error is appended to an in-memory history and written as
// one line to a log file next to the store:
//
//	[2025-04-10T18:03:12Z] DocumentNotFound(no document with id "abc")
//
// The log is opened in append mode for every line, so it survives process
// restarts and is never truncated by the engine. A log that cannot be
// written is not fatal: the failure is kept in Failures and reported to the
// slog logger, and the original error still reaches the caller.
package nosqlite

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Diagnostics records every error raised by a store. A nil *Diagnostics is
// valid and passes errors through unrecorded.
type Diagnostics struct {
	logPath  string
	errors   []*Error
	failures []error
	logger   *slog.Logger
}

// NewDiagnostics returns a channel that logs next to storePath. The log
// file is not created until the first error is reported.
func NewDiagnostics(storePath string, logger *slog.Logger) *Diagnostics {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Diagnostics{
		logPath: logPath(storePath),
		logger:  logger,
	}
}

// logPath replaces the extension of storePath with .log, or appends .log
// when there is no extension. A store that already ends in .log gets
// <path>.errors.log so the log never lands on the store itself.
func logPath(storePath string) string {
	ext := filepath.Ext(storePath)
	if ext == ".log" {
		return strings.TrimSuffix(storePath, ext) + ".errors.log"
	}
	return strings.TrimSuffix(storePath, ext) + ".log"
}

// LogPath returns the path of the append-only log file.
func (d *Diagnostics) LogPath() string {
	if d == nil {
		return ""
	}
	return d.logPath
}

// Report records err and returns it unchanged so callers can write
// `return d.Report(err)`.
func (d *Diagnostics) Report(err *Error) *Error {
	if d == nil || err == nil {
		return err
	}
	d.errors = append(d.errors, err)
	if werr := d.persist(err); werr != nil {
		d.failures = append(d.failures, werr)
		d.logger.LogAttrs(context.Background(), slog.LevelWarn, "diagnostics log write failed",
			slog.String("path", d.logPath),
			slog.String("error", werr.Error()),
		)
	}
	return err
}

// persist appends a single timestamped line for err.
func (d *Diagnostics) persist(err *Error) error {
	f, ferr := os.OpenFile(d.logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if ferr != nil {
		return ferr
	}
	if _, werr := f.WriteString(formatLine(time.Now(), err)); werr != nil {
		f.Close()
		return werr
	}
	return f.Close()
}

// formatLine renders one log line: [<RFC3339 UTC>] <Kind>(<detail>).
func formatLine(ts time.Time, err *Error) string {
	return fmt.Sprintf("[%s] %s(%s)\n", ts.UTC().Format(time.RFC3339), err.Kind, err.Detail)
}

// Errors returns every error reported in this process, oldest first.
func (d *Diagnostics) Errors() []*Error {
	if d == nil {
		return nil
	}
	out := make([]*Error, len(d.errors))
	copy(out, d.errors)
	return out
}

// Failures returns the errors hit while writing the log file itself.
func (d *Diagnostics) Failures() []error {
	if d == nil {
		return nil
	}
	out := make([]error, len(d.failures))
	copy(out, d.failures)
	return out
}
