package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/voxidlab/voxid/pkg/profile"
	"github.com/voxidlab/voxid/pkg/voiceid"
)

var enrollCmd = &cobra.Command{
	Use:   "enroll <name>",
	Short: "Enroll a voice profile from audio samples",
	Long: `Enroll records the given number of samples, averages their
embeddings, and stores the result as the profile for <name>. Each
sample is read from the next --input file; silent files count against
the consecutive-silence limit and abort enrollment when it is reached.`,
	Args: cobra.ExactArgs(1),
	RunE: runEnroll,
}

var (
	enrollInputs  []string
	enrollSamples int
)

func init() {
	enrollCmd.Flags().StringArrayVarP(&enrollInputs, "input", "i", nil, "WAV file to read a capture from (repeatable)")
	enrollCmd.Flags().IntVarP(&enrollSamples, "samples", "n", 3, "number of samples to record")
	rootCmd.AddCommand(enrollCmd)
}

func runEnroll(cmd *cobra.Command, args []string) error {
	rt, err := openRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	e := &voiceid.Enroller{
		Store:     rt.store,
		Recorder:  newWavRecorder(enrollInputs),
		Extractor: rt.extractor(),
		Archive:   rt.archive,
		Samples:   rt.samples,
		Duration:  time.Duration(rt.cfg.Duration * float64(time.Second)),
		Device:    rt.cfg.Device,
		Notifier:  voiceid.NewTerminal(cmd.InOrStdin(), cmd.OutOrStdout()),
	}

	rec, err := e.Enroll(cmd.Context(), args[0], enrollSamples)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n",
		rt.styles.Title.Render("Enrolled"),
		rt.styles.Name.Render(rec.Name))
	fmt.Fprintf(cmd.OutOrStdout(), "%s\n",
		rt.styles.Score.Render(fmt.Sprintf("%d samples, updated %s", rec.Samples, rec.UpdatedAt.Format(profile.TimeLayout))))
	return nil
}
