package commands

import (
	"github.com/spf13/cobra"

	"github.com/orizon-lang/orizon-derive/internal/cli"
)

// VersionCmd represents the version command
var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long:  `Display version, build date, commit hash, and platform information for the orizon-derive binary.`,
	RunE:  runVersion,
}

func init() {
	VersionCmd.Flags().BoolP("json", "j", false, "Output version info as JSON")
}

func runVersion(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	return cli.PrintVersion(cmd.OutOrStdout(), "orizon-derive", jsonOutput)
}
