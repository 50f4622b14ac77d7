package monitor

import (
	"context"
	stderrors "errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"
)

// Terminal is the surface the dashboard draws on and reads keys from.
// The zero value uses the process's stdin and stdout.
type Terminal struct {
	In        io.Reader // nil for stdin
	Out       io.Writer // nil for stdout
	AltScreen bool      // draw on the alternate screen and restore it on exit
}

func (t Terminal) options() []tea.ProgramOption {
	var opts []tea.ProgramOption
	if t.In != nil {
		opts = append(opts, tea.WithInput(t.In))
	}
	if t.Out != nil {
		opts = append(opts, tea.WithOutput(t.Out))
	}
	if t.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	return opts
}

// Run drives the dashboard on term until the user quits, ctx is cancelled,
// or polling fails fatally. The terminal is restored on every exit path.
// It returns the fatal polling error, if any.
func Run(ctx context.Context, m Model, term Terminal) error {
	opts := append([]tea.ProgramOption{tea.WithContext(ctx)}, term.options()...)
	p := tea.NewProgram(m, opts...)

	final, err := p.Run()
	if fm, ok := final.(Model); ok && fm.Err() != nil {
		return fm.Err()
	}
	if err != nil && stderrors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		// Cancelled from outside, e.g. by a signal handler.
		return nil
	}
	return err
}
