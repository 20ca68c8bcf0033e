package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/voxidlab/voxid/pkg/voiceid"
)

var ensureCmd = &cobra.Command{
	Use:   "ensure",
	Short: "Identify the speaker, enrolling if unknown",
	Long: `Ensure tries to identify the speaker across several captures. When
every attempt comes back unknown it offers interactive enrollment:
consent and the new name are read from the terminal, and a name too
close to an enrolled one triggers voice verification against that
profile before a different name is demanded.`,
	Args: cobra.NoArgs,
	RunE: runEnsure,
}

var (
	ensureInputs   []string
	ensureNoEnroll bool
	ensureAttempts int
)

func init() {
	ensureCmd.Flags().StringArrayVarP(&ensureInputs, "input", "i", nil, "WAV file to read a capture from (repeatable)")
	ensureCmd.Flags().BoolVar(&ensureNoEnroll, "no-enroll", false, "never offer enrollment")
	ensureCmd.Flags().IntVar(&ensureAttempts, "attempts", 3, "identification attempts before giving up")
	rootCmd.AddCommand(ensureCmd)
}

func runEnsure(cmd *cobra.Command, _ []string) error {
	rt, err := openRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	sess := rt.session(ensureInputs)
	term := voiceid.NewTerminal(cmd.InOrStdin(), cmd.OutOrStdout())
	sess.Notifier = term
	sess.Confirmer = term
	sess.Names = term

	out, err := sess.EnsureKnownSpeaker(cmd.Context(), voiceid.EnsureOptions{
		Duration:           time.Duration(rt.cfg.Duration * float64(time.Second)),
		Threshold:          rt.cfg.Threshold,
		AutoEnroll:         !ensureNoEnroll,
		MaxSilenceAttempts: ensureAttempts,
		Device:             rt.cfg.Device,
		NameThreshold:      rt.cfg.NameThreshold,
		Alpha:              rt.cfg.Alpha,
	})
	if err != nil {
		if errors.Is(err, voiceid.ErrEnrollmentAborted) || errors.Is(err, voiceid.ErrNameCollisionUnresolved) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", rt.styles.Warn.Render(err.Error()))
			return nil
		}
		return err
	}

	if !out.Known() {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", rt.styles.Warn.Render("Speaker remains unknown."))
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n",
		rt.styles.Name.Render(out.Name),
		rt.styles.Score.Render(fmt.Sprintf("(score %.2f)", out.Score)))
	return nil
}
