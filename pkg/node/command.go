package node

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"nros/pkg/logging"
)

// Command builds the cobra command running impl as a node process. The
// command carries the recognized common flag set plus any flags the node
// contributes through FlagContributor. Argument parse failures fail fast
// with a non-zero exit before any lifecycle state is entered.
func Command(kind string, impl Node) *cobra.Command {
	opts := Options{Kind: kind}
	var configPath string

	cmd := &cobra.Command{
		Use:          strings.ToLower(kind),
		Short:        fmt.Sprintf("Run the %s nROS node", kind),
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := setupLogging(&opts); err != nil {
				// logging is not available: diagnostics go to stderr
				fmt.Fprintf(cmd.ErrOrStderr(), "cannot initialize logging: %v\n", err)
				return err
			}
			defer logging.Close()

			if configPath != "" {
				opts.Config = configPath
			}
			rt := NewRuntime(impl, opts)

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return rt.Run(ctx)
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&opts.Name, "name", "n", "", fmt.Sprintf("node name (default: nros.%s-<pid>)", kind))
	fs.StringVarP(&configPath, "config", "C", "", "configuration file path (JSON)")
	fs.StringVar(&opts.LoggerConfig, "logger-config", "", "logging configuration override (JSON)")
	fs.BoolVar(&opts.Verbose, "verbose", false, "verbose logs")
	fs.BoolVar(&opts.Debug, "debug", false, "debug mode activation")

	if contributor, ok := impl.(FlagContributor); ok {
		contributor.AddFlags(fs)
	}
	return cmd
}

// Main is the main line of a node binary:
//
//	func main() {
//	    node.Main("Heartbeat", &heartbeatNode{})
//	}
//
// It exits 0 on clean termination after the dispatch loop, 1 on any fatal
// abort before the loop starts.
func Main(kind string, impl Node) {
	if err := Command(kind, impl).Execute(); err != nil {
		os.Exit(1)
	}
}

// setupLogging resolves the node log file, merges the user override over the
// defaults and activates logging. Failures here are fatal: the node cannot
// proceed without diagnostics.
func setupLogging(opts *Options) error {
	logPath, err := logging.ResolveLogPath(os.Args[0])
	if err != nil {
		return err
	}
	defaults := logging.DefaultConfig(logPath)
	if opts.Debug {
		defaults["level"] = "debug"
	}
	cfg, err := logging.BuildConfig(defaults, opts.LoggerConfig)
	if err != nil {
		return err
	}
	return logging.Init(cfg)
}
