package cmd

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rajohns08/display-switch/internal/config"
	"github.com/rajohns08/display-switch/internal/daemon"
	"github.com/rajohns08/display-switch/internal/logger"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the display-switch daemon",
	Long: `Run the daemon that watches the configured USB device and switches
monitor inputs when it connects or disconnects.

The daemon also listens for system wake events and re-applies the last
switch, since most monitors forget their selected input while the host
sleeps.`,
	RunE: runDaemon,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runDaemon(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := daemon.New(config.Get()).Run(ctx)
	if errors.Is(err, context.Canceled) {
		logger.Info("Shutting down")
		return nil
	}
	return err
}
