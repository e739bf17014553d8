package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "skel",
	Short: "skel animates rigid-body assemblies described in YAML rigs",
	Long: `skel loads a rig file (shapes, a bone tree with joints and keyframes, and an
optional whole-body motion track) and validates it, runs it headless or
previews it in a window.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn or error")
}
