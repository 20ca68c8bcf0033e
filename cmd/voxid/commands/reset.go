package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/voxidlab/voxid/pkg/voiceid"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Remove every profile and all artifacts",
	Long: `Reset empties the profile document and purges every archived
capture and sample-log entry. It asks for confirmation unless --force
is given.`,
	Args: cobra.NoArgs,
	RunE: runReset,
}

var resetForce bool

func init() {
	resetCmd.Flags().BoolVarP(&resetForce, "force", "f", false, "skip the confirmation prompt")
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, _ []string) error {
	rt, err := openRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	if !resetForce {
		term := voiceid.NewTerminal(cmd.InOrStdin(), cmd.OutOrStdout())
		if !term.Confirm("Delete ALL profiles and archived samples?") {
			fmt.Fprintln(cmd.OutOrStdout(), rt.styles.Score.Render("Aborted."))
			return nil
		}
	}

	if err := rt.store.Reset(cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), rt.styles.Title.Render("All profiles removed."))
	return nil
}
