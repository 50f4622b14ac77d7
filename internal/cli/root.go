package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rileyhilliard/rigmon/internal/errors"
	"github.com/spf13/cobra"
)

// usageLine is printed when the positional arguments are missing.
const usageLine = "Usage: rigmon <server_ip> <server_port>"

var rootCmd = newRootCmd()

// newRootCmd builds the root command. Tests build a fresh one per case since
// cobra keeps parsed flag values between executions.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rigmon <server_ip> <server_port>",
		Short: "Live health dashboard for a mining rig",
		Long: `Poll one miner over its TCP/JSON API and show a live dashboard of its
hashrate, rejected shares, chip temperatures and voltages, fan speeds and
subsystem status. The screen refreshes every 30 seconds. Press q to quit.

Examples:
  rigmon 192.168.1.50 4111
  RIGMON_DEBUG=1 rigmon miner.local 4111`,
		Args:          positionalArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return monitorCommand(cmd.Context(), cmd.OutOrStdout(), args[0], args[1])
		},
	}
	cmd.Version = versionString()
	cmd.SetVersionTemplate("rigmon {{.Version}}\n")
	return cmd
}

// positionalArgs requires exactly the address and port. Anything else prints
// the usage line and exits 1 without an error message.
func positionalArgs(cmd *cobra.Command, args []string) error {
	if len(args) != 2 {
		fmt.Fprintln(cmd.OutOrStdout(), usageLine)
		return errors.NewExitError(1)
	}
	return nil
}

// Execute runs the root command and exits the process on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, rootCmd, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if code != 0 {
		os.Exit(code)
	}
}

// run executes cmd with args and returns the process exit code.
func run(ctx context.Context, cmd *cobra.Command, args []string, stdout, stderr io.Writer) int {
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	if code, ok := errors.GetExitCode(err); ok {
		return code
	}
	fmt.Fprintln(stderr, err)
	return 1
}
