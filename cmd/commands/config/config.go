package config

import (
	"github.com/aithmine/ansible-audit-callback-plugin/internal/config"

	"github.com/spf13/cobra"
)

// NewCommand returns the "config" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage ansible-audit configuration",
		Long: "View and modify persistent ansible-audit settings.\n\n" +
			"Configuration is stored at ~/.config/ansible-audit/config.json.\n" +
			"ANSIBLE_LOG_DIR, when set, overrides log-dir.\n\n" +
			config.KeysHelp(),
	}

	cmd.AddCommand(SetCommand())
	cmd.AddCommand(GetCommand())

	return cmd
}
