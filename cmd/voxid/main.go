// Package main is the entry point for the voxid CLI.
//
// Usage:
//
//	voxid [flags] <command> [args]
//
// Commands:
//
//	enroll   - Enroll a voice profile from audio samples
//	whoami   - Identify the speaker of a capture
//	ensure   - Identify the speaker, enrolling if unknown
//	list     - List enrolled profiles
//	remove   - Remove one profile and its artifacts
//	reset    - Remove every profile and all artifacts
//	version  - Show version information
package main

import (
	"fmt"
	"os"

	"github.com/voxidlab/voxid/cmd/voxid/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
