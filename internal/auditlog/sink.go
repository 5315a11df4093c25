package auditlog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

const (
	// DefaultLogDir is used when no local log directory is configured.
	DefaultLogDir = "/var/log/ansible_audit"

	// FileMode is forced on every log file after each append.
	FileMode os.FileMode = 0o600

	dirMode os.FileMode = 0o755
)

// Sink persists audit records.
type Sink interface {
	// Append writes rec and returns the path of the file it went to.
	Append(rec AuditRecord) (string, error)
}

// LocalSink appends records as JSON lines to per-host files under Dir.
type LocalSink struct {
	dir      string
	run      Run
	logger   *slog.Logger
	dirReady bool
}

// NewLocalSink returns a sink writing under dir for the given run.
func NewLocalSink(dir string, run Run, logger *slog.Logger) *LocalSink {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &LocalSink{dir: dir, run: run, logger: logger}
}

// Dir returns the base directory of the sink.
func (s *LocalSink) Dir() string { return s.dir }

// Path returns the log file path for host in the current run.
func (s *LocalSink) Path(host string) string {
	return filepath.Join(s.dir, s.run.FileName(host))
}

// Append encodes rec as a single JSON line, appends it to the host's file
// and restricts the file to its owner.
func (s *LocalSink) Append(rec AuditRecord) (string, error) {
	line, err := encodeLine(rec)
	if err != nil {
		return "", fmt.Errorf("auditlog: failed to encode record: %w", err)
	}

	name := s.run.FileName(rec.Host.Name)
	if !filepath.IsLocal(name) || filepath.Base(name) != name {
		return "", fmt.Errorf("auditlog: host name %q is not usable as a file name", rec.Host.Name)
	}
	path := filepath.Join(s.dir, name)

	s.ensureDir()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, FileMode)
	if err != nil {
		return "", fmt.Errorf("auditlog: failed to open %s: %w", path, err)
	}
	if _, err := f.Write(line); err != nil {
		f.Close()
		return "", fmt.Errorf("auditlog: failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("auditlog: failed to close %s: %w", path, err)
	}

	// OpenFile only applies the mode on creation.
	if err := os.Chmod(path, FileMode); err != nil {
		return "", fmt.Errorf("auditlog: failed to chmod %s: %w", path, err)
	}
	return path, nil
}

func (s *LocalSink) ensureDir() {
	if s.dirReady {
		return
	}
	if err := os.MkdirAll(s.dir, dirMode); err != nil {
		s.logger.Warn("failed to create log directory", "dir", s.dir, "error", err)
		return
	}
	s.dirReady = true
}

func encodeLine(rec AuditRecord) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeRecord(&buf, rec); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeRecord writes rec followed by a newline.
func writeRecord(w io.Writer, rec AuditRecord) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(rec)
}
