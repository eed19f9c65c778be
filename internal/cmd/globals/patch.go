package globals

import "github.com/spf13/cobra"

// PatchFlags holds flags shared by the commands that patch descriptors.
type PatchFlags struct {
	Dry bool
}

// AddPatchFlags adds the patch flags to a command.
func AddPatchFlags(cmd *cobra.Command) *PatchFlags {
	flags := &PatchFlags{}
	cmd.Flags().BoolVar(&flags.Dry, "dry", false,
		"Preview changes without writing any descriptor")
	cmd.Flags().BoolVar(&flags.Dry, "dry-run", false, "")
	_ = cmd.Flags().MarkHidden("dry-run")
	return flags
}

// ArtifactFlags names previously written record artifacts.
type ArtifactFlags struct {
	Deliveries string
	Exchanges  string
}

// AddArtifactFlags adds the artifact flags to a command and marks them
// required.
func AddArtifactFlags(cmd *cobra.Command) *ArtifactFlags {
	flags := &ArtifactFlags{}
	cmd.Flags().StringVar(&flags.Deliveries, "deliveries", "",
		"Deliveries artifact (<workbook>_clean.json)")
	cmd.Flags().StringVar(&flags.Exchanges, "exchanges", "",
		"Exchanges artifact (<workbook>_clean-module.json)")
	_ = cmd.MarkFlagRequired("deliveries")
	_ = cmd.MarkFlagRequired("exchanges")
	return flags
}
