// Package ingest adapts a stream of runner events to an auditlog.Callback.
//
// The runner-side forwarder writes one JSON envelope per finished task:
//
//	{"event":"runner_on_ok","task":{...},"host":{...},"result":{...}}
//
// Envelopes are dispatched in order, one at a time.
package ingest

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aithmine/ansible-audit-callback-plugin/internal/auditlog"
)

// maxLine bounds a single envelope. Diffs of large templated files can be
// several megabytes.
const maxLine = 64 * 1024 * 1024

// Envelope is one line of the event stream.
type Envelope struct {
	Kind string `json:"event"`
	auditlog.Event
}

// Stats summarizes a stream.
type Stats struct {
	OK      int
	Failed  int
	Skipped int
}

// Dispatch reads envelopes from r until EOF and forwards them to cb.
// Malformed lines and unknown event kinds are logged and skipped. Only a
// read error from r is returned.
func Dispatch(ctx context.Context, r io.Reader, cb auditlog.Callback, logger *slog.Logger) (Stats, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var stats Stats
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLine)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		env, err := decodeEnvelope(text)
		if err != nil {
			logger.Warn("skipping malformed event", "line", line, "error", err)
			stats.Skipped++
			continue
		}

		switch strings.ToLower(env.Kind) {
		case "runner_on_ok", "ok":
			cb.OnTaskOK(ctx, env.Event)
			stats.OK++
		case "runner_on_failed", "failed":
			cb.OnTaskFailed(ctx, env.Event)
			stats.Failed++
		default:
			logger.Warn("skipping unknown event kind", "line", line, "event", env.Kind)
			stats.Skipped++
		}
	}
	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("ingest: failed to read events: %w", err)
	}
	return stats, nil
}

// decodeEnvelope keeps JSON numbers as json.Number so task args and diffs
// are written back exactly as the runner reported them.
func decodeEnvelope(text string) (Envelope, error) {
	var env Envelope
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	if err := dec.Decode(&env); err != nil {
		return Envelope{}, err
	}
	if dec.More() {
		return Envelope{}, errors.New("unexpected data after event")
	}
	return env, nil
}
