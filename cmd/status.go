package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// statusWatch keeps the command attached, reporting bus state transitions
// until interrupted.
var statusWatch bool

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report whether the shared nROS session bus is running",
	Long: `Report the bus state as recorded by the rendezvous env file. "Started"
means the bus was started and not yet stopped through this tool; it does not
prove the daemon is still alive.

With --watch the command stays attached and prints a line on every
started/stopped transition until interrupted with Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().BoolVar(&statusWatch, "watch", false, "Keep watching and report bus state transitions")
}

func runStatus(cmd *cobra.Command, args []string) error {
	if err := printBusStatus(cmd); err != nil {
		return err
	}
	if !statusWatch {
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sup := newSupervisor()
	err := sup.Watch(ctx, func(running bool) {
		if running {
			fmt.Fprintln(cmd.OutOrStdout(), "nROS bus is started.")
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "nROS bus is stopped.")
		}
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// printBusStatus prints the one-line bus state shared by several commands.
func printBusStatus(cmd *cobra.Command) error {
	state := "stopped"
	if newSupervisor().IsRunning() {
		state = "started"
	}
	_, err := fmt.Fprintf(cmd.OutOrStdout(), "nROS bus is %s.\n", state)
	return err
}
