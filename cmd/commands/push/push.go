package push

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/aithmine/ansible-audit-callback-plugin/internal/auditlog"
	"github.com/aithmine/ansible-audit-callback-plugin/internal/config"
	"github.com/aithmine/ansible-audit-callback-plugin/internal/logging"
	"github.com/aithmine/ansible-audit-callback-plugin/internal/remote"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// newPusher builds the transport used for replication. Replaced in tests.
var newPusher = func(bin string, logger *slog.Logger) remote.Pusher {
	return remote.NewAnsiblePusher(bin, remote.WithLogger(logger))
}

// NewCommand returns the "push" command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "push",
		Short: "Copy local audit log files to their hosts again",
		Long: `Copy local audit log files to the audit directory of the host each file
belongs to. Use this after a run where remote copies failed.

Each file is sent with the same two ansible calls used during ingest:
directory creation, then copy. Files are processed concurrently, bounded
by --parallel.

Examples:
  ansible-audit push
  ansible-audit push --host web01
  ansible-audit push --run 20240309_140000 --parallel 8`,
		Args:         cobra.NoArgs,
		RunE:         runPush,
		SilenceUsage: true,
	}

	cmd.Flags().String("host", "", "Only push files for this host")
	cmd.Flags().String("run", "", "Only push files from this run (YYYYMMDD_HHMMSS)")
	cmd.Flags().Int("parallel", 4, "Maximum number of concurrent transfers")

	return cmd
}

func runPush(cmd *cobra.Command, args []string) error {
	host, _ := cmd.Flags().GetString("host")
	runToken, _ := cmd.Flags().GetString("run")
	parallel, _ := cmd.Flags().GetInt("parallel")
	if parallel <= 0 {
		return fmt.Errorf("parallel must be greater than 0")
	}

	ctx := cmd.Context()
	logger := logging.FromContext(ctx)

	settings, err := config.LoadSettings()
	if err != nil {
		return err
	}

	files, err := auditlog.ListFiles(settings.LogDir)
	if err != nil {
		return err
	}
	var selected []auditlog.LogFile
	for _, f := range files {
		if host != "" && f.Host != host {
			continue
		}
		if runToken != "" && f.Run != runToken {
			continue
		}
		selected = append(selected, f)
	}
	if len(selected) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No audit log files to push.")
		return nil
	}

	replicator := remote.NewReplicator(newPusher(settings.AnsibleBin, logger), settings.RemoteDir, logger)
	failed := pushAll(ctx, replicator, selected, parallel, logger)

	fmt.Fprintf(cmd.OutOrStdout(), "Pushed %d of %d audit log file(s) to %s.\n",
		len(selected)-failed, len(selected), replicator.Dir())
	if failed > 0 {
		return fmt.Errorf("%d file(s) could not be pushed", failed)
	}
	return nil
}

// pushAll replicates every file and returns the number of failures. A
// failure never stops the remaining transfers.
func pushAll(ctx context.Context, replicator *remote.Replicator, files []auditlog.LogFile, parallel int, logger *slog.Logger) int {
	var failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for _, f := range files {
		g.Go(func() error {
			if err := replicator.Replicate(gctx, f.Host, f.Path); err != nil {
				failed.Add(1)
				attrs := []any{"host", f.Host, "file", f.Path, "error", err}
				var ce *remote.CommandError
				if errors.As(err, &ce) {
					attrs = append(attrs, "output", ce.Output())
				}
				logger.Warn("failed to push audit log", attrs...)
				return nil
			}
			logger.Info("pushed audit log", "host", f.Host, "file", f.Path)
			return nil
		})
	}
	_ = g.Wait()
	return int(failed.Load())
}
