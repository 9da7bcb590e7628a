package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// stopCmd represents the stop command
var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the shared nROS session bus",
	Long: `Stop the singleton session bus daemon. The recorded daemon process is
sent the termination signal (best-effort, without waiting for it to die) and
the rendezvous env file is removed. When the bus is not running this is a
no-op.`,
	Args: cobra.NoArgs,
	RunE: runStop,
}

func init() {
	rootCmd.AddCommand(stopCmd)
}

func runStop(cmd *cobra.Command, args []string) error {
	sup := newSupervisor()
	out := cmd.OutOrStdout()

	if !sup.IsRunning() {
		fmt.Fprintln(out, "nROS bus not started.")
		return nil
	}

	fmt.Fprintln(out, "Stopping nROS bus...")
	if err := sup.Stop(); err != nil {
		return err
	}
	return printBusStatus(cmd)
}
