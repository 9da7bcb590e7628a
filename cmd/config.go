package cmd

import (
	"errors"
	"fmt"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"nros/internal/sessionbus"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:     "config",
	Aliases: []string{"show-config"},
	Short:   "Show the shared bus connection variables",
	Long: `Show the connection variables recorded in the bus rendezvous env file,
as written by the bus launcher. These are the variables injected into every
node's environment at startup.`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	return printBusConfig(cmd)
}

// printBusConfig renders the env file variables as a table, or reports a
// stopped bus.
func printBusConfig(cmd *cobra.Command) error {
	cfg, err := newSupervisor().ReadConfig()
	if err != nil {
		if errors.Is(err, sessionbus.ErrNotRunning) {
			fmt.Fprintln(cmd.OutOrStdout(), "nROS bus not started.")
			return nil
		}
		return err
	}

	names := make([]string, 0, len(cfg))
	for name := range cfg {
		names = append(names, name)
	}
	sort.Strings(names)

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.AppendHeader(table.Row{"Variable", "Value"})
	for _, name := range names {
		t.AppendRow(table.Row{name, cfg[name]})
	}
	t.Render()
	return nil
}
