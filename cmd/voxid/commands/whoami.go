package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Identify the speaker of a capture",
	Long: `Whoami reads one capture from the first --input file, embeds it,
and prints the best-matching enrolled name with its similarity score.
A score below the threshold, or a silent capture, prints Unknown.`,
	Args: cobra.NoArgs,
	RunE: runWhoami,
}

var whoamiInputs []string

func init() {
	whoamiCmd.Flags().StringArrayVarP(&whoamiInputs, "input", "i", nil, "WAV file to read the capture from (repeatable)")
	rootCmd.AddCommand(whoamiCmd)
}

func runWhoami(cmd *cobra.Command, _ []string) error {
	rt, err := openRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	sess := rt.session(whoamiInputs)
	out, err := sess.Identify(cmd.Context(),
		time.Duration(rt.cfg.Duration*float64(time.Second)),
		rt.cfg.Device, rt.cfg.Threshold)
	if err != nil {
		return err
	}

	if !out.Known() {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n",
			rt.styles.Warn.Render("Unknown"),
			rt.styles.Score.Render(fmt.Sprintf("(best score %.2f)", out.Score)))
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n",
		rt.styles.Name.Render(out.Name),
		rt.styles.Score.Render(fmt.Sprintf("(score %.2f)", out.Score)))
	return nil
}
