package audit

import "github.com/spf13/cobra"

// NewCommand returns the "audit" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "View and manage local audit logs",
		Long: "View the audit records stored in the local log directory and prune old log files.\n\n" +
			"The directory is taken from ANSIBLE_LOG_DIR, then the \"log-dir\" config key,\n" +
			"and defaults to /var/log/ansible_audit.",
		SilenceUsage: true,
	}

	cmd.AddCommand(ListCommand())
	cmd.AddCommand(PruneCommand())

	return cmd
}
