package main

import (
	"os"

	"github.com/spf13/cobra"
)

const appName = "cydwatch"

// Version is set at build time using ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   appName,
		Short: "Touchscreen stopwatch",
		Long: `A touchscreen stopwatch with START/STOP and RESET buttons, an RGB status LED
and an optional web monitor. It runs on a device with an XPT2046 touch panel
or as a desktop window with a tray icon.`,
		SilenceUsage: true,
	}
	cmd.AddCommand(newRunCmd(), newStatsCmd(), newVersionCmd())
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
