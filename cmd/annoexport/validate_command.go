package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"annoexport/internal/annotation"
)

type formatCheck struct {
	Format string `json:"format"`
	OK     bool   `json:"ok"`
	Reason string `json:"reason,omitempty"`
}

func newValidateCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "validate <bundle.json>",
		Short: "Check which formats a context bundle can export to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := ctx.registry()
			if err != nil {
				return err
			}

			exportCtx, warnings, err := annotation.LoadContext(args[0])
			if err != nil {
				return err
			}

			checks := make([]formatCheck, 0, len(registry.Formats()))
			for _, name := range registry.Formats() {
				exporter, _ := registry.Get(name)
				ok, reason := exporter.CanExport(exportCtx)
				checks = append(checks, formatCheck{Format: name, OK: ok, Reason: reason})
			}

			if jsonOutput {
				return writeJSON(cmd, map[string]any{
					"warnings": warnings,
					"formats":  checks,
				})
			}

			out := cmd.OutOrStdout()
			for _, warn := range warnings {
				fmt.Fprintln(out, "Warning:", warn)
			}
			fmt.Fprintf(out, "Bundle: %d annotations, %d items, %d schemas\n",
				len(exportCtx.Annotations), len(exportCtx.Items), len(exportCtx.Schemas))

			rows := make([][]string, 0, len(checks))
			for _, check := range checks {
				status := "ok"
				if !check.OK {
					status = "no"
				}
				rows = append(rows, []string{check.Format, status, check.Reason})
			}
			fmt.Fprintln(out, renderTable([]string{"Format", "Exportable", "Reason"}, rows, nil))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the checks as JSON")
	return cmd
}
