package cli

import (
	"fmt"
	"strings"

	"github.com/ppiankov/isbalign/internal/euler"
	"github.com/spf13/cobra"
)

// sequencesCmd represents the sequences command
var sequencesCmd = &cobra.Command{
	Use:   "sequences",
	Short: "List Euler sequences and the ISB sequence of each joint",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		w := cmd.OutOrStdout()

		var proper, taitBryan []string
		for _, s := range euler.Sequences() {
			if s.IsProper() {
				proper = append(proper, string(s))
			} else {
				taitBryan = append(taitBryan, string(s))
			}
		}
		fmt.Fprintf(w, "Proper Euler:  %s\n", strings.Join(proper, " "))
		fmt.Fprintf(w, "Tait-Bryan:    %s\n", strings.Join(taitBryan, " "))
		fmt.Fprintln(w)

		fmt.Fprintln(w, "ISB sequences:")
		for _, j := range euler.JointTypes() {
			parent, child := j.Segments()
			fmt.Fprintf(w, "  %-18s %s  (%s -> %s)\n", j, j.ISBSequence(), parent, child)
		}
	},
}

func init() {
	rootCmd.AddCommand(sequencesCmd)
}
