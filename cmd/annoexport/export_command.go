package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"annoexport/internal/annotation"
	"annoexport/internal/config"
	"annoexport/internal/export"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var outputDir string
	var optionFlags []string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "export <format> <bundle.json>",
		Short: "Export a context bundle to the named format",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			format := strings.TrimSpace(args[0])
			bundlePath := args[1]

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			registry, err := ctx.registry()
			if err != nil {
				return err
			}

			exportCtx, warnings, err := annotation.LoadContext(bundlePath)
			if err != nil {
				return err
			}
			for _, warn := range warnings {
				fmt.Fprintln(cmd.ErrOrStderr(), "Warning:", warn)
			}

			if err := validateOptionFlags(optionFlags); err != nil {
				return err
			}
			opts := buildOptions(cfg, optionFlags)

			target := resolveOutputDir(outputDir, exportCtx, cfg)
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("create output directory %q: %w", target, err)
			}

			lock := flock.New(filepath.Join(target, ".annoexport.lock"))
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire output lock: %w", err)
			}
			if !locked {
				return fmt.Errorf("another export is already writing to %s", target)
			}
			defer func() { _ = lock.Unlock() }()

			result, err := registry.Export(format, exportCtx, target, opts)
			if err != nil {
				if errors.Is(err, export.ErrUnknownFormat) {
					return fmt.Errorf("%w (run `annoexport formats` to list available formats)", err)
				}
				return err
			}

			if jsonOutput {
				if err := writeJSON(cmd, result); err != nil {
					return err
				}
			} else {
				printResult(cmd, result, target)
			}

			if !result.Success {
				return fmt.Errorf("export to %s failed", format)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (overrides bundle and config)")
	cmd.Flags().StringArrayVar(&optionFlags, "option", nil, "Format option as key=value (repeatable)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the result as JSON")
	return cmd
}

// buildOptions seeds export options from the config defaults, then applies
// --option overrides. Malformed entries are ignored here and rejected by
// validateOptionFlags so callers get a clear error.
func buildOptions(cfg *config.Config, flags []string) export.Options {
	opts := export.Options{
		export.OptTokenization:   cfg.Export.Tokenization,
		export.OptTagScheme:      cfg.Export.TagScheme,
		export.OptTextGridFormat: cfg.Export.TextGridFormat,
		export.OptLanguage:       cfg.Export.Language,
	}
	for _, flag := range flags {
		key, value, ok := strings.Cut(flag, "=")
		if !ok {
			continue
		}
		opts[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return opts
}

func validateOptionFlags(flags []string) error {
	for _, flag := range flags {
		key, _, ok := strings.Cut(flag, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return fmt.Errorf("malformed --option %q, expected key=value", flag)
		}
	}
	return nil
}

// resolveOutputDir applies the precedence flag > bundle > config.
func resolveOutputDir(flagValue string, exportCtx *annotation.ExportContext, cfg *config.Config) string {
	if v := strings.TrimSpace(flagValue); v != "" {
		return v
	}
	if v := strings.TrimSpace(exportCtx.OutputDir); v != "" {
		return v
	}
	return cfg.OutputDir
}

func printResult(cmd *cobra.Command, result *export.Result, outputDir string) {
	out := cmd.OutOrStdout()

	status := "succeeded"
	if !result.Success {
		status = "failed"
	}
	fmt.Fprintf(out, "Export to %s %s (%s)\n", result.Format, status, outputDir)

	if len(result.FilesWritten) > 0 {
		rows := make([][]string, 0, len(result.FilesWritten))
		for _, path := range result.FilesWritten {
			rows = append(rows, []string{path})
		}
		fmt.Fprintln(out, renderTable([]string{"File"}, rows, nil))
	}
	if len(result.Stats) > 0 {
		fmt.Fprintln(out, renderStats(result.Stats))
	}
	for _, warn := range result.Warnings {
		fmt.Fprintln(out, "Warning:", warn)
	}
	for _, msg := range result.Errors {
		fmt.Fprintln(out, "Error:", msg)
	}
}
