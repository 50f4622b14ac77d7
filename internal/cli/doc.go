// Package cli implements the rigmon command-line interface.
//
// There is a single Cobra root command taking two positional arguments:
//
//	rigmon <server_ip> <server_port>
//
// Missing arguments print a one-line usage message to stdout and exit with
// status 1. A bad port is reported as a structured CONFIG error. After the
// settings load, the command checks that stdout is a terminal, wires the
// device client into a poller and hands the model to monitor.Run.
//
// # Flags
//
// Only Cobra's built-in --help and --version are registered. Set
// RIGMON_DEBUG=1 to write debug logs to rigmon-debug.log in the working
// directory while the dashboard runs.
package cli
