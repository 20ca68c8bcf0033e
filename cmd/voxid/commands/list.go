package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/voxidlab/voxid/pkg/profile"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List enrolled profiles",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	rt, err := openRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	snap, err := rt.store.Snapshot(cmd.Context())
	if err != nil {
		return err
	}
	if snap.Len() == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), rt.styles.Score.Render("No profiles enrolled."))
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), rt.styles.Title.Render(fmt.Sprintf("%d profile(s):", snap.Len())))
	for _, name := range snap.Names() {
		rec, _ := snap.Lookup(name)
		fmt.Fprintf(cmd.OutOrStdout(), "  %s %s\n",
			rt.styles.Name.Render(rec.Name),
			rt.styles.Score.Render(fmt.Sprintf("(%d samples, updated %s)", rec.Samples, rec.UpdatedAt.Format(profile.TimeLayout))))
	}
	return nil
}
