package cmd

import (
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"nros/internal/sessionbus"
)

// monitorCmd represents the monitor command
var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Stream the traffic flowing over the shared bus",
	Long: `Attach a monitor to the shared bus and stream its traffic to the
terminal until interrupted with Ctrl-C. Interruption is the normal way to
leave the monitor and exits 0; any other monitor failure is reported and
exits non-zero.`,
	Args: cobra.NoArgs,
	RunE: runMonitor,
}

func init() {
	rootCmd.AddCommand(monitorCmd)
}

func runMonitor(cmd *cobra.Command, args []string) error {
	sup := newSupervisor()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := sup.Monitor(ctx)
	if errors.Is(err, sessionbus.ErrNotRunning) {
		fmt.Fprintln(cmd.OutOrStdout(), "nROS bus not started.")
		return nil
	}
	return err
}
