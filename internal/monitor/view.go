package monitor

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rileyhilliard/rigmon/internal/dashboard"
	"github.com/rileyhilliard/rigmon/internal/health"
	"github.com/rileyhilliard/rigmon/internal/protocol"
)

// Box sizes in content rows, matching the classic three-panel layout.
const (
	generalBoxRows = 5
	chipsBoxRows   = 5
	fansBoxRows    = 4

	defaultWidth = 80
	minBoxWidth  = 24
)

// renderFetching renders the placeholder shown before the first frame.
func (m Model) renderFetching() string {
	return " " + m.spinner.View() + " " +
		FetchingStyle.Render(fmt.Sprintf("Fetching information from %s...", m.host))
}

// renderDashboard renders the three boxes for the current frame and a footer.
func (m Model) renderDashboard() string {
	width := m.boxWidth()
	f := m.frame

	boxes := []string{
		RenderBox(fmt.Sprintf(" Miner %s General Info ", m.host), generalLines(f), width, generalBoxRows),
		RenderBox(" Chips Info ", chipLines(f), width, chipsBoxRows),
		RenderBox(" Fans Speed ", fanLines(f), width, fansBoxRows),
	}

	var b strings.Builder
	b.WriteString(strings.Join(boxes, "\n"))
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

// renderFooter renders the key hint and the time of the last refresh.
func (m Model) renderFooter() string {
	hints := []string{
		"q quit",
		"refresh " + m.interval.String(),
	}
	if m.frame != nil && !m.frame.Time.IsZero() {
		hints = append(hints, "updated "+m.frame.Time.Format("15:04:05"))
	}
	return FooterStyle.Render(strings.Join(hints, " | "))
}

// boxWidth leaves a two column margin like the terminal layout it mirrors.
func (m Model) boxWidth() int {
	width := m.width
	if width <= 0 {
		width = defaultWidth
	}
	width -= 2
	if width < minBoxWidth {
		width = minBoxWidth
	}
	return width
}

// generalLines builds the status flags and board power rows.
func generalLines(f *dashboard.Frame) []string {
	stateOK := f.Available(protocol.KindState)
	flags := []struct {
		label string
		flag  protocol.Flag
		level health.Level
	}{
		{"HR: ", f.State.Power, f.Status.Power},
		{" Network: ", f.State.Network, f.Status.Network},
		{" Fans: ", f.State.Fan, f.Status.Fan},
		{" Temperature: ", f.State.Temperature, f.Status.Temperature},
	}

	var status strings.Builder
	for _, fl := range flags {
		status.WriteString(DefaultStyle.Render(fl.label))
		status.WriteString(LevelStyle(fl.level).Render(flagText(fl.flag, stateOK)))
	}

	return []string{
		status.String(),
		DefaultStyle.Render("Real-Time Hashrate: " + f.Power.RealtimeHashrate.String()),
		DefaultStyle.Render("Average Hashrate: " + f.Power.AverageHashrate.String()),
		DefaultStyle.Render("Rejected Shares: ") + LevelStyle(f.Status.Reject).Render(f.Power.Reject.String()),
		DefaultStyle.Render("Runtime: " + f.Power.Runtime.String()),
	}
}

// chipLines builds the chip count and min/max rows.
func chipLines(f *dashboard.Frame) []string {
	if !f.Available(protocol.KindChips) {
		return []string{CriticalStyle.Render("Chips data unavailable")}
	}
	s := f.Stats
	if s == nil {
		return []string{CriticalStyle.Render("No chips data available")}
	}

	return []string{
		DefaultStyle.Render("Number of Chips: " + strconv.Itoa(s.Count)),
		extremeLine("Min Temp: ", s.MinTemp, s.MinTemp.Chip.TempString(), "°C"),
		extremeLine("Max Temp: ", s.MaxTemp, s.MaxTemp.Chip.TempString(), "°C"),
		extremeLine("Min Voltage: ", s.MinVoltage, s.MinVoltage.Chip.VoltageString(), "V"),
		extremeLine("Max Voltage: ", s.MaxVoltage, s.MaxVoltage.Chip.VoltageString(), "V"),
	}
}

// fanLines builds one row per fan slot, numbered from 1.
func fanLines(f *dashboard.Frame) []string {
	if !f.Available(protocol.KindFans) {
		return []string{DefaultStyle.Render("Fan speeds: " + protocol.NotAvailable)}
	}
	lines := make([]string, 0, len(f.Fans))
	for i, rpm := range f.Fans {
		lines = append(lines, DefaultStyle.Render(fmt.Sprintf("Fan %d Speed: %s RPM", i+1, rpm)))
	}
	return lines
}

// extremeLine prints a reading as the device wrote it, coloured by level.
func extremeLine(label string, e dashboard.Extreme, value, unit string) string {
	return DefaultStyle.Render(label) +
		LevelStyle(e.Level).Render(value) +
		DefaultStyle.Render(fmt.Sprintf("%s (Chip No: %d)", unit, e.Chip.No))
}

// flagText is "OK" only for a reported true flag.
func flagText(f protocol.Flag, available bool) string {
	if !available {
		return protocol.NotAvailable
	}
	if f.OK() {
		return "OK"
	}
	return "Not OK"
}
