// Package commands holds the command-line subcommands added to the app.
package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pocketbase/pocketbase/core"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"contractorbill/collections"
	"contractorbill/services"
)

type exportFlags struct {
	format  string
	outDir  string
	premium float64
}

// NewExportCommand returns the "export" subcommand. It parses a bill workbook,
// validates it and writes the rendered bill into the output directory. The
// export is recorded in the app's history like one made from the UI.
func NewExportCommand(app core.App, logger *zap.Logger) *cobra.Command {
	var flags exportFlags

	cmd := &cobra.Command{
		Use:   "export <workbook.xlsx>",
		Short: "Render a bill workbook to a document",
		Long: `Read a bill workbook ("Title" and "Bill Quantity" sheets), validate it and
write the rendered bill.

Examples:
  contractorbill export bill.xlsx
  contractorbill export --format pdf --out ./bills bill.xlsx
  contractorbill export --premium 4.5 bill.xlsx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, app, logger, args[0], flags)
		},
	}

	names := make([]string, len(services.Formats))
	for i, f := range services.Formats {
		names[i] = string(f)
	}
	cmd.Flags().StringVarP(&flags.format, "format", "f", string(services.FormatZIP),
		"output format ("+strings.Join(names, ", ")+")")
	cmd.Flags().StringVarP(&flags.outDir, "out", "o", ".", "output directory")
	cmd.Flags().Float64VarP(&flags.premium, "premium", "p", 0, "tender premium percent, overriding the workbook")

	return cmd
}

func runExport(cmd *cobra.Command, app core.App, logger *zap.Logger, path string, flags exportFlags) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	format, err := services.ParseFormat(flags.format)
	if err != nil {
		return err
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open workbook: %w", err)
	}
	defer file.Close()

	bill, err := services.ParseBillFile(file)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("premium") {
		bill.ProjectDetails.TenderPremium = flags.premium
	}

	if err := collections.Setup(app, logger); err != nil {
		return err
	}
	exporter := services.NewExporter(collections.NewRecordStore(app), services.WithLogger(logger))

	artifact, err := exporter.ExportBill(cmd.Context(), bill.ProjectDetails, bill.Items, format)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(flags.outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	target := filepath.Join(flags.outDir, artifact.Name)
	if err := os.WriteFile(target, artifact.Data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", target, err)
	}

	logger.Info("wrote bill", zap.String("path", target))
	fmt.Fprintln(cmd.OutOrStdout(), target)
	return nil
}
