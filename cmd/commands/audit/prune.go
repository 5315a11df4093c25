package audit

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aithmine/ansible-audit-callback-plugin/internal/auditlog"
	"github.com/aithmine/ansible-audit-callback-plugin/internal/config"

	"github.com/spf13/cobra"
)

func PruneCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete local audit log files older than a duration",
		Long: `Delete local audit log files whose last write is older than a duration.

Remote copies on the target hosts are not touched.

Examples:
  ansible-audit audit prune --older-than 30d
  ansible-audit audit prune --older-than 72h`,
		RunE:         runPrune,
		SilenceUsage: true,
	}

	cmd.Flags().String("older-than", "", "Remove log files older than this duration (e.g. 30d, 72h)")

	return cmd
}

func runPrune(cmd *cobra.Command, args []string) error {
	olderThanRaw, _ := cmd.Flags().GetString("older-than")
	olderThanRaw = strings.TrimSpace(olderThanRaw)
	if olderThanRaw == "" {
		return fmt.Errorf("--older-than is required")
	}

	olderThan, err := parseDuration(olderThanRaw)
	if err != nil {
		return err
	}

	settings, err := config.LoadSettings()
	if err != nil {
		return err
	}

	removed, err := auditlog.Prune(settings.LogDir, olderThan, time.Now())
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d audit log file(s) from %s.\n", removed, settings.LogDir)
	return nil
}

// parseDuration accepts time.ParseDuration syntax plus a whole-day "Nd"
// form.
func parseDuration(input string) (time.Duration, error) {
	var d time.Duration
	if days, ok := strings.CutSuffix(input, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", input)
		}
		d = time.Duration(n) * 24 * time.Hour
	} else {
		var err error
		if d, err = time.ParseDuration(input); err != nil {
			return 0, fmt.Errorf("invalid duration %q", input)
		}
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be positive")
	}
	return d, nil
}
