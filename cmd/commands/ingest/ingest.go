package ingest

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/aithmine/ansible-audit-callback-plugin/internal/auditlog"
	"github.com/aithmine/ansible-audit-callback-plugin/internal/config"
	eventstream "github.com/aithmine/ansible-audit-callback-plugin/internal/ingest"
	"github.com/aithmine/ansible-audit-callback-plugin/internal/logging"
	"github.com/aithmine/ansible-audit-callback-plugin/internal/remote"

	"github.com/spf13/cobra"
)

// newPusher builds the transport used for replication. Replaced in tests.
var newPusher = func(bin string, logger *slog.Logger) remote.Pusher {
	return remote.NewAnsiblePusher(bin, remote.WithLogger(logger))
}

// NewCommand returns the "ingest" command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Record a stream of task events",
		Long: `Read task-completion events as JSON lines and record each one.

Every line is an envelope written by the runner-side forwarder:

  {"event":"runner_on_ok","task":{"name":"...","action":"...","args":{}},
   "host":{"name":"web01","vars":{}},"result":{"changed":true}}

"event" is runner_on_ok or runner_on_failed. Each recorded task is appended
to <log-dir>/<host>_<run>.json and the file is copied to the host with
ansible. Failures are reported as warnings and never stop the stream.

Examples:
  forwarder | ansible-audit ingest
  ansible-audit ingest --file events.jsonl
  ANSIBLE_LOG_DIR=/tmp/audit ansible-audit ingest --file events.jsonl`,
		Args:         cobra.NoArgs,
		RunE:         runIngest,
		SilenceUsage: true,
	}

	cmd.Flags().StringP("file", "f", "", "Read events from a file instead of stdin")

	return cmd
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := logging.FromContext(ctx)

	settings, err := config.LoadSettings()
	if err != nil {
		return err
	}
	if settings.LogDirDefaulted {
		logger.Warn(config.EnvLogDir+" is not set, using default", "dir", settings.LogDir)
	}

	var in io.Reader = cmd.InOrStdin()
	if path, _ := cmd.Flags().GetString("file"); path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open events file: %w", err)
		}
		defer f.Close()
		in = f
	}

	run := auditlog.NewRun(time.Now())
	logger = logger.With("run_id", run.ID)

	sink := auditlog.NewLocalSink(settings.LogDir, run, logger)
	replicator := remote.NewReplicator(newPusher(settings.AnsibleBin, logger), settings.RemoteDir, logger)
	handler := auditlog.NewHandler(auditlog.NewNormalizer(), sink, replicator, logger)

	stats, err := eventstream.Dispatch(ctx, in, handler, logger)
	if err != nil {
		return err
	}
	logger.Debug("event stream finished",
		"ok", stats.OK, "failed", stats.Failed, "skipped", stats.Skipped, "dir", settings.LogDir)
	return nil
}
