package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Показать версию",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "whisper-transcribe %s\n", version)
		if verbose {
			fmt.Fprintf(cmd.OutOrStdout(), "  go:     %s\n", runtime.Version())
			fmt.Fprintf(cmd.OutOrStdout(), "  models: %s\n", cfg.Model.Dir)
		}
	},
}

var sysinfoCmd = &cobra.Command{
	Use:   "sysinfo",
	Short: "Показать возможности whisper.cpp (AVX, NEON, ...)",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), whisperSystemInfo())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd, sysinfoCmd)
}
