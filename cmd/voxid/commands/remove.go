package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove one profile and its artifacts",
	Long: `Remove deletes the profile for <name> (matched case-insensitively)
along with its archived captures and sample-log entries.`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

func init() {
	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	rt, err := openRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	removed, err := rt.store.Remove(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if !removed {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n",
			rt.styles.Warn.Render(fmt.Sprintf("No profile for %q.", args[0])))
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n",
		rt.styles.Title.Render("Removed"),
		rt.styles.Name.Render(args[0]))
	return nil
}
