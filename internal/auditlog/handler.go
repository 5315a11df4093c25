package auditlog

import (
	"context"
	"errors"
	"log/slog"
)

// Callback is the binding a runner adapter drives. One call per finished
// task; calls for one run must not overlap.
type Callback interface {
	OnTaskOK(ctx context.Context, ev Event)
	OnTaskFailed(ctx context.Context, ev Event)
}

// Replicator copies a local log file to the host it describes.
type Replicator interface {
	Replicate(ctx context.Context, host, localPath string) error
}

// outputError is implemented by errors that carry captured remote output.
type outputError interface {
	error
	Output() string
}

// Handler normalizes events, persists them locally and replicates the
// resulting file. Failures are logged as warnings and never returned.
type Handler struct {
	normalizer *Normalizer
	sink       Sink
	replicator Replicator
	logger     *slog.Logger
}

var _ Callback = (*Handler)(nil)

// NewHandler wires a handler. A nil replicator disables remote copies.
func NewHandler(normalizer *Normalizer, sink Sink, replicator Replicator, logger *slog.Logger) *Handler {
	if normalizer == nil {
		normalizer = NewNormalizer()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handler{
		normalizer: normalizer,
		sink:       sink,
		replicator: replicator,
		logger:     logger,
	}
}

// OnTaskOK records a successful task.
func (h *Handler) OnTaskOK(ctx context.Context, ev Event) {
	h.process(ctx, ev, StatusOK)
}

// OnTaskFailed records a failed task.
func (h *Handler) OnTaskFailed(ctx context.Context, ev Event) {
	h.process(ctx, ev, StatusFailed)
}

func (h *Handler) process(ctx context.Context, ev Event, status Status) {
	rec, ok := h.normalizer.Normalize(ev, status)
	if !ok {
		h.logger.Debug("ignoring task", "action", ev.Task.Action, "host", ev.Host.Name)
		return
	}

	path, err := h.sink.Append(rec)
	if err != nil {
		h.logger.Warn("failed to save audit log locally", "host", rec.Host.Name, "error", err)
		return
	}

	if h.replicator == nil {
		return
	}
	if err := h.replicator.Replicate(ctx, rec.Host.Name, path); err != nil {
		attrs := []any{"host", rec.Host.Name, "file", path, "error", err}
		var oe outputError
		if errors.As(err, &oe) {
			attrs = append(attrs, "output", oe.Output())
		}
		h.logger.Warn("failed to send audit log to remote host", attrs...)
		return
	}
	h.logger.Debug("audit log sent", "host", rec.Host.Name, "file", path)
}
