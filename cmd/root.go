package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"nros/internal/sessionbus"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
)

// newSupervisor builds the session bus supervisor used by every subcommand.
// Package-level so tests can point it at a scratch env file.
var newSupervisor = sessionbus.New

// rootCmd represents the base command for the nros bus-control application.
// It is the entry point when the application is called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "nros",
	Short: "Control the shared nROS session bus",
	Long: `nros manages the lifecycle of the session bus all nROS nodes on this
host rendezvous through: starting and stopping the singleton bus daemon,
reporting its status, showing its connection variables and monitoring the
traffic flowing over it.

Nodes themselves are separate programs built on the nros node packages; they
ensure the bus is running on startup, so using this tool is only required
for manual control and troubleshooting.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors
	// that are handled by the application.
	SilenceUsage: true,
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the
// application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
// This function is called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "nros version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitCodeError)
	}
}
