// Package patch provides the patch command implementation.
package patch

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/agentstation/alicedeps"
	"github.com/agentstation/alicedeps/internal/cmd/alerts"
	"github.com/agentstation/alicedeps/internal/cmd/application"
	"github.com/agentstation/alicedeps/internal/cmd/globals"
	"github.com/agentstation/alicedeps/internal/cmd/output"
	"github.com/agentstation/alicedeps/pkg/pom"
)

// NewCommand creates the patch command using app context.
func NewCommand(app application.Application) *cobra.Command {
	var (
		artifacts *globals.ArtifactFlags
		flags     *globals.PatchFlags
	)

	cmd := &cobra.Command{
		Use:     "patch <project-dir>",
		GroupID: "core",
		Short:   "Update pom.xml version properties from record artifacts",
		Args:    cobra.ExactArgs(1),
		Long: `Patch rewrites the version properties of every pom.xml under the project
directory from two artifacts previously written by "alicedeps normalize".

Deliveries are matched before exchanges. A property takes the version of the
first record whose module name is contained in the property name.`,
		Example: `  alicedeps patch ./project --deliveries book_clean.json --exchanges book_clean-module.json
  alicedeps patch ./project --deliveries book_clean.json --exchanges book_clean-module.json --dry`,
		RunE: func(cmd *cobra.Command, args []string) error {
			preview := app.Preview() || flags.Dry
			client, err := app.Client(alicedeps.WithPreview(preview))
			if err != nil {
				return err
			}

			corpus, err := client.LoadRecords(artifacts.Deliveries, artifacts.Exchanges)
			if err != nil {
				return err
			}

			log, err := client.PatchCorpus(cmd.Context(), args[0], corpus)
			if err != nil {
				return err
			}

			return printChanges(cmd.OutOrStdout(), app, preview, log)
		},
	}

	artifacts = globals.AddArtifactFlags(cmd)
	flags = globals.AddPatchFlags(cmd)

	return cmd
}

func printChanges(w io.Writer, app application.Application, preview bool, log []pom.ChangeRecord) error {
	flags := &globals.Flags{Format: app.OutputFormat()}
	format := output.DetectFormat(flags.Format)
	if format != output.FormatTable {
		return output.FormatChanges(w, log, flags)
	}

	writer := alerts.NewFormatWriter(w, format).WithConfig(alerts.WriterConfig{})
	if err := writer.WriteAlert(alerts.ChangeLog(preview, log)); err != nil {
		return err
	}
	if len(log) == 0 {
		return nil
	}
	return output.FormatChanges(w, log, flags)
}
