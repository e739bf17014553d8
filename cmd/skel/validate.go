package main

import (
	"fmt"
	"io"

	"github.com/phanxgames/skel/rig"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <rig.yaml>",
	Short: "Check a rig file for consistency",
	Long:  `Decodes the rig and reports unknown shapes, zero axes, out-of-order keyframes and duplicate bone names.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate(cmd.OutOrStdout(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(out io.Writer, path string) error {
	f, err := rig.LoadFile(path)
	if err != nil {
		return err
	}
	if err := f.Validate(); err != nil {
		return fmt.Errorf("validation failed:\n%w", err)
	}
	fmt.Fprintf(out, "Rig %q is valid.\n", f.Name)
	return nil
}
