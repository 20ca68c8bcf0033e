// Package commands implements the voxid CLI verbs.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/voxidlab/voxid/pkg/cli"
)

var (
	// Global flags
	configPath string
	verbose    bool

	// Global configuration (loaded at init time)
	globalConfig  *cli.Config
	configLoadErr error
)

var rootCmd = &cobra.Command{
	Use:   "voxid",
	Short: "Local speaker verification and enrollment",
	Long: `voxid - Offline speaker identification from voice samples.

Profiles are averaged voice embeddings stored in a local JSON document.
Captures are read from WAV files passed via --input; each command that
listens consumes one file per capture, in order.

Data lives under ~/.voxid by default:
  voice_profiles.json   enrolled profiles
  audio_samples/        archived enrollment captures (WAV)
  samples/              per-sample embedding log

Examples:
  # Enroll Alice from three recordings
  voxid enroll alice -i a1.wav -i a2.wav -i a3.wav

  # Identify a speaker
  voxid whoami -i clip.wav

  # Identify, enrolling interactively if unknown
  voxid ensure -i clip.wav -i retry1.wav -i retry2.wav`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default $VOXID_CONFIG or ~/.voxid/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func initConfig() {
	cfg, err := cli.Load(configPath)
	if err != nil {
		// Deferred reporting: commands that need config get a clear
		// error via getConfig, while 'voxid version' keeps working.
		configLoadErr = err
		return
	}
	globalConfig = cfg
}

func getConfig() (*cli.Config, error) {
	if globalConfig == nil {
		if configLoadErr != nil {
			return nil, fmt.Errorf("config not available: %w", configLoadErr)
		}
		cfg, err := cli.Load(configPath)
		if err != nil {
			return nil, fmt.Errorf("config not available: %w", err)
		}
		globalConfig = cfg
	}
	return globalConfig, nil
}
