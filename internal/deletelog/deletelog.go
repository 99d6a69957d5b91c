// Package deletelog writes one JSON record per delete attempt.
package deletelog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// FileName is the name of the delete log inside the log directory
const FileName = "delete_log"

// Log is the audit log of project deletions
type Log struct {
	logger *log.Logger
	closer io.Closer
}

// New writes records to w
func New(w io.Writer) *Log {
	return &Log{
		logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			Formatter:       log.JSONFormatter,
			Level:           log.InfoLevel,
		}),
	}
}

// Open appends records to delete_log inside dir
func Open(dir string) (*Log, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating log dir: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, FileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening delete log: %w", err)
	}
	l := New(f)
	l.closer = f
	return l, nil
}

// Close closes the underlying file, if any
func (l *Log) Close() error {
	if l == nil || l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

// OnDelete records a delete attempt. A nil err is logged as OK, anything
// else as FAIL with the error text.
func (l *Log) OnDelete(user, project string, options any, err error) {
	if l == nil {
		return
	}

	opts, marshalErr := json.Marshal(options)
	if marshalErr != nil {
		opts = []byte("{}")
	}
	keyvals := []any{"user", user, "project", project, "options", string(opts)}

	if err != nil {
		l.logger.Error("FAIL", append(keyvals, "error", err.Error())...)
		return
	}
	l.logger.Info("OK", keyvals...)
}
