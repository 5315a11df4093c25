package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aithmine/ansible-audit-callback-plugin/internal/config"
	"github.com/aithmine/ansible-audit-callback-plugin/internal/util"

	"github.com/spf13/cobra"
)

// SetCommand returns the "config set" command.
func SetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: "Set a persistent configuration value.\n\n" +
			config.KeysHelp() +
			"\nExamples:\n" +
			"  ansible-audit config set log-dir /srv/ansible_audit\n" +
			"  ansible-audit config set ansible-bin /opt/ansible/bin/ansible",
		Args: cobra.ExactArgs(2),
		Run:  runSet,
	}

	return cmd
}

// validators maps key names to optional pre-save validation functions.
// Keys not present in this map have no extra validation.
var validators = map[string]func(value string) error{
	"log-dir":    validateAbsPath,
	"remote-dir": validateAbsPath,
}

func runSet(cmd *cobra.Command, args []string) {
	key := util.NormalizeKey(args[0])
	value := strings.TrimSpace(args[1])

	spec := config.Lookup(key)
	if spec == nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: unknown configuration key %q\n", args[0])
		fmt.Fprintf(cmd.ErrOrStderr(), "Valid keys: %s\n", strings.Join(config.KeyNames(), ", "))
		return
	}

	if validate, ok := validators[spec.Name]; ok {
		if err := validate(value); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			return
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return
	}

	spec.Set(cfg, value)
	if err := cfg.Save(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s set to %q\n", spec.Name, value)
}

// validateAbsPath rejects relative directories; the remote directory in
// particular is resolved on hosts with unknown working directories.
func validateAbsPath(value string) error {
	if value == "" {
		return nil
	}
	if !filepath.IsAbs(value) {
		return fmt.Errorf("path %q must be absolute", value)
	}
	return nil
}
