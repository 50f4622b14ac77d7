// Package monitor implements the live TUI dashboard for a single miner.
//
// The dashboard shows status flags, hashrate, rejected shares, chip
// temperature and voltage extremes, and fan speeds, coloured by health level.
//
// # Architecture
//
// The package uses the Bubble Tea framework, which follows The Elm Architecture
// (Model-Update-View pattern):
//
//   - Model: Holds the phase, the frame on screen and the terminal size
//   - Update: Processes messages (keystrokes, tick events, completed polls)
//   - View: Renders the current frame to a string for display
//
// # Message Flow
//
// The dashboard runs a poll, draw, wait cycle:
//
//  1. Init starts the first poll and the "Fetching" spinner
//  2. pollCmd() asks the Poller for one result per command and builds a frame
//  3. frameMsg replaces the frame on screen in one step and schedules a tick
//  4. tickMsg fires after the interval (default 30s) and starts the next poll
//
// The first frame moves the model from PhaseFetching to PhaseDisplaying,
// even if some sections of it are unavailable. A fatal transport error
// arrives as pollErrMsg and stops the program.
//
// # Pollers
//
// SequentialPoller sends the four commands one after another, which is how
// the miner is normally driven. ParallelPoller sends them concurrently and is
// a drop-in replacement, since the view only ever sees whole frames.
//
// # Keyboard Shortcuts
//
//	q, Ctrl+C   - Quit
//
// All other keys are ignored.
package monitor
