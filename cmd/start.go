package cmd

import (
	"fmt"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the shared nROS session bus",
	Long: `Start the singleton session bus daemon shared by every nROS node on this
host. Starting is idempotent: when the bus is already running nothing is
spawned and the recorded configuration is reported instead.

The command blocks until the external bus launcher has exited; there is no
timeout, so a hung launcher blocks indefinitely.`,
	Args: cobra.NoArgs,
	RunE: runStart,
}

func init() {
	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	sup := newSupervisor()
	out := cmd.OutOrStdout()

	if sup.IsRunning() {
		fmt.Fprintln(out, "nROS bus already started.")
	} else {
		s := spinner.New(spinner.CharSets[14], 100*time.Millisecond,
			spinner.WithWriter(cmd.ErrOrStderr()))
		s.Suffix = " Starting nROS bus..."
		s.Start()
		_, _, err := sup.Start(cmd.Context())
		s.Stop()
		if err != nil {
			return err
		}
		fmt.Fprintln(out, "nROS bus is started.")
	}

	fmt.Fprintln(out, "Configuration:")
	return printBusConfig(cmd)
}
