// Package remote replicates audit log files to the hosts they describe.
//
// Transport is delegated to a Pusher. The production Pusher shells out to
// the ansible CLI so logs travel over the same channel as the audited tasks.
package remote

import (
	"context"
	"io/fs"
	"log/slog"
	"path"
	"path/filepath"
)

const (
	// DefaultDir is the audit directory created on every target host.
	DefaultDir = "/var/log/ansible_audit"

	// DirMode is applied to the remote audit directory.
	DirMode fs.FileMode = 0o700

	// FileMode is applied to each replicated log file.
	FileMode fs.FileMode = 0o600
)

// Pusher places files on remote hosts.
type Pusher interface {
	// EnsureDir creates dir on host (with parents) and sets its mode.
	EnsureDir(ctx context.Context, host, dir string, mode fs.FileMode) error

	// CopyFile copies the local file src to dst on host with the given mode.
	CopyFile(ctx context.Context, host, src, dst string, mode fs.FileMode) error
}

// Replicator copies local log files into a fixed directory on each host.
type Replicator struct {
	pusher Pusher
	dir    string
	logger *slog.Logger
}

// NewReplicator returns a Replicator targeting dir on each host. An empty
// dir selects DefaultDir.
func NewReplicator(pusher Pusher, dir string, logger *slog.Logger) *Replicator {
	if dir == "" {
		dir = DefaultDir
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Replicator{pusher: pusher, dir: dir, logger: logger}
}

// Dir returns the remote audit directory.
func (r *Replicator) Dir() string { return r.dir }

// Destination returns the remote path for a local log file.
func (r *Replicator) Destination(localPath string) string {
	return path.Join(r.dir, filepath.Base(localPath))
}

// Replicate ensures the audit directory exists on host and copies
// localPath into it under the same name. There is no retry.
func (r *Replicator) Replicate(ctx context.Context, host, localPath string) error {
	if err := r.pusher.EnsureDir(ctx, host, r.dir, DirMode); err != nil {
		return err
	}
	dst := r.Destination(localPath)
	if err := r.pusher.CopyFile(ctx, host, localPath, dst, FileMode); err != nil {
		return err
	}
	r.logger.Debug("replicated audit log", "host", host, "dst", dst)
	return nil
}
