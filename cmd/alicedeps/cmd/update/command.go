// Package update provides the update command implementation.
package update

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/agentstation/alicedeps"
	"github.com/agentstation/alicedeps/internal/cmd/alerts"
	"github.com/agentstation/alicedeps/internal/cmd/application"
	"github.com/agentstation/alicedeps/internal/cmd/globals"
	"github.com/agentstation/alicedeps/internal/cmd/output"
)

// NewCommand creates the update command using app context.
func NewCommand(app application.Application) *cobra.Command {
	var flags *globals.PatchFlags

	cmd := &cobra.Command{
		Use:     "update <workbook> <project-dir>",
		GroupID: "core",
		Short:   "Normalize the workbook and patch the project in one run",
		Args:    cobra.ExactArgs(2),
		Long: `Update normalizes the delivery workbook, then patches every pom.xml under
the project directory from the records it produced.

The run is refused when the workbook yields no records at all. With --dry
the changes are listed and no descriptor is written.`,
		Example: `  alicedeps update deliveries.xlsx ./project
  alicedeps update deliveries.xlsx ./project --dry
  alicedeps update deliveries.xlsx ./project -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run(cmd.Context(), app, cmd.OutOrStdout(), args[0], args[1], flags.Dry)
		},
	}

	flags = globals.AddPatchFlags(cmd)

	return cmd
}

// Run performs one update and writes its change log to w.
func Run(ctx context.Context, app application.Application, w io.Writer, workbook, projectDir string, dry bool) error {
	client, err := app.Client(alicedeps.WithPreview(app.Preview() || dry))
	if err != nil {
		return err
	}

	result, err := client.Update(ctx, workbook, projectDir)
	if err != nil {
		return err
	}

	flags := &globals.Flags{Format: app.OutputFormat()}
	format := output.DetectFormat(flags.Format)
	if format != output.FormatTable {
		return output.FormatAny(w, result, flags)
	}
	return alerts.NewFormatWriter(w, format).WriteAlert(alerts.ChangeLog(result.Preview, result.Changes))
}
