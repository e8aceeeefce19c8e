package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/orizon-lang/orizon-derive/internal/deriving"
	"github.com/orizon-lang/orizon-derive/internal/oerrors"
)

// TraitsCmd represents the traits command
var TraitsCmd = &cobra.Command{
	Use:   "traits",
	Short: "List the derivable traits",
	Long: `List every trait the expander can derive, with its stability and the
language version constraint that gates it.`,
	RunE: runTraits,
}

func init() {
	TraitsCmd.Flags().BoolP("json", "j", false, "Output the catalog as JSON")
}

type traitInfo struct {
	Name      string `json:"name"`
	Stability string `json:"stability"`
	Since     string `json:"since,omitempty"`
}

func runTraits(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	entries := deriving.Builtin().Entries()

	if jsonOutput {
		infos := make([]traitInfo, 0, len(entries))
		for _, e := range entries {
			infos = append(infos, traitInfo{
				Name:      e.Name,
				Stability: e.Stability.String(),
				Since:     e.Since,
			})
		}
		data, err := json.MarshalIndent(infos, "", "  ")
		if err != nil {
			return oerrors.Wrap(err, "marshal trait catalog")
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	for _, e := range entries {
		fmt.Fprintf(cmd.OutOrStdout(), "%-12s %-9s %s\n", e.Name, e.Stability, e.Since)
	}
	return nil
}
