// Package logging provides the logging layer shared by nROS nodes and the
// bus-control CLI.
//
// It is built on Go's standard slog package with a custom handler emitting
// the nROS line format:
//
//	[<level-initial>] <logger-name> > <message>
//
// Each node process logs to its own file. The path is resolved from the
// execution context (ResolveLogPath): privileged processes log under
// /var/log/nros, everyone else under ~/.nros/log, with the file named after
// the invoking program.
//
// Configuration is a plain mapping so that user overrides loaded from JSON
// can be deep-merged over the built-in defaults:
//
//	path, _ := logging.ResolveLogPath(os.Args[0])
//	cfg, err := logging.BuildConfig(logging.DefaultConfig(path), overridePath)
//	if err != nil {
//	    // malformed override: fatal, logging is not available yet
//	}
//	err = logging.Init(cfg)
//
// Messages are emitted through subsystem-tagged package functions:
//
//	logging.Info("Supervisor", "bus started, pid=%d", pid)
//	logging.Error("Node", err, "configuration failed")
package logging
