// Package normalize provides the normalize command implementation.
package normalize

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/agentstation/alicedeps/internal/cmd/alerts"
	"github.com/agentstation/alicedeps/internal/cmd/application"
	"github.com/agentstation/alicedeps/internal/cmd/globals"
	"github.com/agentstation/alicedeps/internal/cmd/output"
	normalizer "github.com/agentstation/alicedeps/pkg/normalize"
)

// NewCommand creates the normalize command using app context.
func NewCommand(app application.Application) *cobra.Command {
	var showRecords bool

	cmd := &cobra.Command{
		Use:     "normalize <workbook>",
		GroupID: "core",
		Short:   "Convert the delivery workbook into JSON record artifacts",
		Args:    cobra.ExactArgs(1),
		Long: `Normalize reads the "Livraison Modules" and "Livraison echanges" sheets of
the workbook and writes two artifacts next to it:

  <workbook>_clean.json         module deliveries ("<module>-<component>")
  <workbook>_clean-module.json  module exchanges

Both record sets are built before anything is written; on error neither
artifact is left behind.`,
		Example: `  alicedeps normalize deliveries.xlsx
  alicedeps normalize deliveries.xlsx --records
  alicedeps normalize deliveries.xlsx -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}

			result, err := client.Normalize(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			return printResult(cmd.OutOrStdout(), app, args[0], result, showRecords)
		},
	}

	cmd.Flags().BoolVar(&showRecords, "records", false, "List the normalized records")

	return cmd
}

func printResult(w io.Writer, app application.Application, workbook string, result *normalizer.Result, showRecords bool) error {
	flags := &globals.Flags{Format: app.OutputFormat()}
	format := output.DetectFormat(flags.Format)
	if format != output.FormatTable {
		return output.FormatRecords(w, result, flags)
	}

	alert := alerts.NewSuccess("Normalized " + filepath.Base(workbook)).WithDetails(
		fmt.Sprintf("%s: %d records -> %s", output.SourceDeliveries, len(result.Deliveries), result.DeliveriesPath),
		fmt.Sprintf("%s: %d records -> %s", output.SourceExchanges, len(result.Exchanges), result.ExchangesPath),
	)
	if err := alerts.NewFormatWriter(w, format).WriteAlert(alert); err != nil {
		return err
	}
	if !showRecords {
		return nil
	}
	return output.FormatRecords(w, result, flags)
}
