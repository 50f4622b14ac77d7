package cli

import (
	"context"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/rigmon/internal/config"
	"github.com/rileyhilliard/rigmon/internal/device"
	"github.com/rileyhilliard/rigmon/internal/errors"
	"github.com/rileyhilliard/rigmon/internal/logger"
	"github.com/rileyhilliard/rigmon/internal/monitor"
	"golang.org/x/term"
)

// debugLogFile receives log output while the dashboard owns the screen.
const debugLogFile = "rigmon-debug.log"

// monitorCommand starts the dashboard for the device at host:port.
func monitorCommand(ctx context.Context, out io.Writer, host, port string) error {
	settings, err := config.Load(host, port)
	if err != nil {
		return err
	}

	if !isTerminal(out) {
		return errors.New(errors.ErrTerminal,
			"rigmon needs an interactive terminal",
			"Run it directly in a terminal rather than piping its output.")
	}

	logger.SetDebug(settings.Debug)
	if settings.Debug {
		f, err := tea.LogToFile(debugLogFile, "rigmon")
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Can't open "+debugLogFile,
				"Run from a writable directory or unset RIGMON_DEBUG.")
		}
		defer f.Close()
	} else {
		// Anything written to the terminal would tear the dashboard.
		log.SetOutput(io.Discard)
	}

	client := device.NewClient(settings.Address(), settings.DialTimeout, settings.ReadTimeout)
	client.SetLogger(logger.New("[device]"))

	poller := monitor.NewSequentialPoller(client, logger.New("[poller]"))
	model := monitor.NewModel(settings.Host, poller, settings.Interval, 0).
		WithLogger(logger.New("[monitor]"))

	return monitor.Run(ctx, model, monitor.Terminal{Out: out, AltScreen: true})
}

// isTerminal reports whether w is a terminal device.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
