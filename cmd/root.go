package cmd

import (
	"fmt"
	"os"

	"github.com/aithmine/ansible-audit-callback-plugin/cmd/commands/audit"
	cfgcmd "github.com/aithmine/ansible-audit-callback-plugin/cmd/commands/config"
	"github.com/aithmine/ansible-audit-callback-plugin/cmd/commands/ingest"
	"github.com/aithmine/ansible-audit-callback-plugin/cmd/commands/push"
	"github.com/aithmine/ansible-audit-callback-plugin/internal/logging"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
func rootCmd() *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "ansible-audit",
		Short: "Audit log sink for Ansible task results",
		Long: `ansible-audit records every Ansible task result as a JSON line in a
per-host log file and copies that file to /var/log/ansible_audit on the
host the task ran against.

Fact gathering ("gather_facts" and "setup") is never recorded.

The local log directory is taken from ANSIBLE_LOG_DIR, then from the
"log-dir" config key, and defaults to /var/log/ansible_audit.

Quick start:
  forwarder | ansible-audit ingest        # record a stream of task events
  ansible-audit audit list --host web01   # show recorded tasks
  ansible-audit push                      # re-copy local logs to their hosts`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			envFile, _ := cmd.Flags().GetString("env-file")
			if envFile != "" {
				if err := godotenv.Load(envFile); err != nil {
					return fmt.Errorf("failed to load env file %s: %w", envFile, err)
				}
			}

			level, _ := cmd.Flags().GetString("log-level")
			logger := logging.New(cmd.ErrOrStderr(), level)
			cmd.SetContext(logging.WithLogger(cmd.Context(), logger))
			return nil
		},
	}

	cmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error")
	cmd.PersistentFlags().String("env-file", "", "Load environment variables from a dotenv file (existing variables win)")

	cmd.AddCommand(ingest.NewCommand())
	cmd.AddCommand(audit.NewCommand())
	cmd.AddCommand(push.NewCommand())
	cmd.AddCommand(cfgcmd.NewCommand())

	return cmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	var root = rootCmd()
	err := root.Execute()
	if err != nil {
		os.Exit(1)
	}
}
