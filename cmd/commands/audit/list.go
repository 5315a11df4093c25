package audit

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/aithmine/ansible-audit-callback-plugin/internal/auditlog"
	"github.com/aithmine/ansible-audit-callback-plugin/internal/config"
	"github.com/aithmine/ansible-audit-callback-plugin/internal/styles"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func ListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent audit records",
		Long: `List recent audit records from the local log directory, newest first.
Records of one run are merged across hosts by timestamp.

Examples:
  ansible-audit audit list
  ansible-audit audit list --limit 50
  ansible-audit audit list --host web01
  ansible-audit audit list --run 20240309_140000 -o json`,
		RunE:         runList,
		SilenceUsage: true,
	}

	cmd.Flags().Int("limit", 25, "Number of records to display")
	cmd.Flags().String("host", "", "Only show records for this host")
	cmd.Flags().String("run", "", "Only show records from this run (YYYYMMDD_HHMMSS)")
	cmd.Flags().StringP("output", "o", "table", "Output format: table or json")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	if limit <= 0 {
		return fmt.Errorf("limit must be greater than 0")
	}

	host, _ := cmd.Flags().GetString("host")
	runToken, _ := cmd.Flags().GetString("run")
	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = "table"
	}
	if output != "table" && output != "json" {
		return fmt.Errorf("unsupported output format %q", output)
	}

	settings, err := config.LoadSettings()
	if err != nil {
		return err
	}

	records, err := collect(settings.LogDir, host, runToken, limit)
	if err != nil {
		return err
	}

	if output == "json" {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		encoder.SetEscapeHTML(false)
		if records == nil {
			records = []auditlog.AuditRecord{}
		}
		return encoder.Encode(records)
	}

	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No audit records found.")
		return nil
	}

	styled := isTerminal(cmd.OutOrStdout())
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tHOST\tEXECUTOR\tACTION\tTASK\tSTATUS")
	fmt.Fprintln(w, "----\t----\t--------\t------\t----\t------")
	for _, rec := range records {
		status := string(rec.Status)
		if rec.Changed {
			status += " (changed)"
		}
		if styled {
			status = styles.StatusLabel(string(rec.Status), rec.Changed)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			rec.Timestamp,
			rec.Host.Name,
			rec.Executor,
			rec.Task.Action,
			orDash(rec.Task.Name),
			status,
		)
	}
	return w.Flush()
}

// collect returns up to limit records, newest run first. Within a run the
// records of all hosts are merged newest first by timestamp.
func collect(dir, host, runToken string, limit int) ([]auditlog.AuditRecord, error) {
	files, err := auditlog.ListFiles(dir)
	if err != nil {
		return nil, err
	}

	var records, batch []auditlog.AuditRecord
	flush := func() bool {
		sort.SliceStable(batch, func(i, j int) bool {
			return batch[i].Timestamp > batch[j].Timestamp
		})
		for _, rec := range batch {
			records = append(records, rec)
			if len(records) == limit {
				return true
			}
		}
		batch = batch[:0]
		return false
	}

	current := ""
	for _, file := range files {
		if host != "" && file.Host != host {
			continue
		}
		if runToken != "" && file.Run != runToken {
			continue
		}
		if file.Run != current {
			if flush() {
				return records, nil
			}
			current = file.Run
		}
		fileRecords, err := auditlog.ReadRecords(file.Path)
		if err != nil {
			return nil, err
		}
		for i := len(fileRecords) - 1; i >= 0; i-- {
			batch = append(batch, fileRecords[i])
		}
	}
	flush()
	return records, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
