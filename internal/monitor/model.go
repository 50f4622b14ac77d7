package monitor

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/rigmon/internal/dashboard"
	"github.com/rileyhilliard/rigmon/internal/logger"
)

// Phase is where the dashboard is in its lifecycle.
type Phase int

const (
	// PhaseFetching shows a placeholder until the first poll completes.
	PhaseFetching Phase = iota
	// PhaseDisplaying shows the latest frame and refreshes on a timer.
	PhaseDisplaying
)

// String returns a human-readable phase name.
func (p Phase) String() string {
	switch p {
	case PhaseFetching:
		return "fetching"
	case PhaseDisplaying:
		return "displaying"
	default:
		return "unknown"
	}
}

// DefaultInterval is the wait between the end of one frame and the next poll.
const DefaultInterval = 30 * time.Second

// Model is the Bubble Tea model for the device dashboard.
type Model struct {
	host     string // shown in titles, as typed by the user
	poller   Poller
	interval time.Duration
	timeout  time.Duration // Per-cycle deadline, 0 for none
	log      logger.Logger

	phase    Phase
	frame    *dashboard.Frame // Replaced wholesale by each completed poll
	polling  bool
	cycles   int
	err      error // Fatal error that ended the program
	quitting bool

	spinner spinner.Model
	width   int
	height  int
}

// tickMsg signals that the refresh interval elapsed.
type tickMsg time.Time

// frameMsg carries a completed cycle.
type frameMsg struct {
	frame dashboard.Frame
}

// pollErrMsg carries a fatal polling error.
type pollErrMsg struct {
	err error
}

// NewModel creates a dashboard for host using poller.
// interval 0 uses DefaultInterval. timeout bounds a whole cycle; 0 disables it.
func NewModel(host string, poller Poller, interval, timeout time.Duration) Model {
	if interval <= 0 {
		interval = DefaultInterval
	}

	sp := spinner.New(
		spinner.WithSpinner(FetchingSpinner),
		spinner.WithStyle(FetchingStyle),
	)

	return Model{
		host:     host,
		poller:   poller,
		interval: interval,
		timeout:  timeout,
		log:      logger.Noop(),
		phase:    PhaseFetching,
		polling:  true, // Init starts the first poll
		spinner:  sp,
	}
}

// WithLogger returns a copy of the model that logs cycles to l.
func (m Model) WithLogger(l logger.Logger) Model {
	if l != nil {
		m.log = l
	}
	return m
}

// Init starts the spinner and the first poll.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.pollCmd(),
	)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if handled, cmd := m.HandleKeyMsg(msg); handled {
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case spinner.TickMsg:
		// Stop animating once real data is on screen.
		if m.phase != PhaseFetching {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case frameMsg:
		frame := msg.frame
		m.frame = &frame
		m.phase = PhaseDisplaying
		m.polling = false
		m.cycles++
		if !frame.Complete() {
			m.log.Debug("cycle %d: %d section(s) unavailable", m.cycles, len(frame.Errors()))
		}
		return m, m.tickCmd()

	case pollErrMsg:
		m.err = msg.err
		m.polling = false
		m.quitting = true
		m.log.Error("polling %s failed: %v", m.host, msg.err)
		return m, tea.Quit

	case tickMsg:
		if m.polling {
			return m, nil
		}
		m.polling = true
		return m, m.pollCmd()
	}

	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.phase == PhaseFetching || m.frame == nil {
		return m.renderFetching()
	}
	return m.renderDashboard()
}

// Phase returns the current lifecycle phase.
func (m Model) Phase() Phase {
	return m.phase
}

// Frame returns the frame on screen, or nil before the first poll completes.
func (m Model) Frame() *dashboard.Frame {
	return m.frame
}

// Err returns the fatal error that stopped the dashboard, if any.
func (m Model) Err() error {
	return m.err
}

// tickCmd returns a command that fires after the refresh interval.
func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// pollCmd returns a command that runs one cycle and builds its frame.
func (m Model) pollCmd() tea.Cmd {
	poller := m.poller
	timeout := m.timeout
	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		results, err := poller.Poll(ctx)
		if err != nil {
			return pollErrMsg{err: err}
		}
		return frameMsg{frame: dashboard.Build(results, time.Now())}
	}
}
