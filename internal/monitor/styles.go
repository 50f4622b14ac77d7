package monitor

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/rigmon/internal/health"
)

// Dashboard palette using ANSI codes so it works on basic terminals.
// ColorOrange is the 256-colour index the miner vendors use for warnings.
const (
	ColorGreen  lipgloss.Color = "2"
	ColorRed    lipgloss.Color = "1"
	ColorOrange lipgloss.Color = "209"
	ColorBlue   lipgloss.Color = "4"
	ColorMuted  lipgloss.Color = "8"
)

// Base styles for the dashboard
var (
	// DefaultStyle leaves the terminal's own foreground colour in place.
	DefaultStyle = lipgloss.NewStyle()

	CriticalStyle = lipgloss.NewStyle().Foreground(ColorRed)

	FetchingStyle = lipgloss.NewStyle().Foreground(ColorBlue)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Padding(0, 1)
)

// FetchingSpinner animates the placeholder shown before the first frame.
var FetchingSpinner = spinner.Spinner{
	Frames: []string{"◐", "◓", "◑", "◒"},
	FPS:    time.Second / 10,
}

// Box drawing characters for section borders.
const (
	boxHorizontal  = "═"
	boxVertical    = "║"
	boxTopLeft     = "╔"
	boxTopRight    = "╗"
	boxBottomLeft  = "╚"
	boxBottomRight = "╝"
)

// LevelStyle returns the style for a health level. Unknown keeps the
// terminal's default colour.
func LevelStyle(level health.Level) lipgloss.Style {
	color := LevelColor(level)
	if color == "" {
		return DefaultStyle
	}
	return lipgloss.NewStyle().Foreground(color)
}

// LevelColor returns the foreground colour for a health level, or "" for the
// terminal default.
func LevelColor(level health.Level) lipgloss.Color {
	switch level {
	case health.Normal:
		return ColorGreen
	case health.Warning:
		return ColorOrange
	case health.Critical:
		return ColorRed
	default:
		return ""
	}
}

// BoxTop renders the top border with the title centred on it.
// Format: ╔════════ Title ════════╗
func BoxTop(title string, width int) string {
	if width < 4 {
		width = 4
	}
	inner := width - 2

	// Leave room for at least one border char either side of the title.
	title = truncateTitle(title, width-4)
	titleWidth := lipgloss.Width(title)
	if titleWidth == 0 {
		return boxTopLeft + strings.Repeat(boxHorizontal, inner) + boxTopRight
	}

	left := width/2 - titleWidth/2 - 1
	if left < 1 {
		left = 1
	}
	right := inner - left - titleWidth
	if right < 0 {
		right = 0
	}

	return boxTopLeft +
		strings.Repeat(boxHorizontal, left) +
		title +
		strings.Repeat(boxHorizontal, right) +
		boxTopRight
}

// BoxBottom renders the bottom border of a box.
// Format: ╚═══════════════════════╝
func BoxBottom(width int) string {
	if width < 2 {
		width = 2
	}
	return boxBottomLeft + strings.Repeat(boxHorizontal, width-2) + boxBottomRight
}

// BoxLine renders a content line between the side borders, padded to width.
// Content wider than the box is cut so the right border stays aligned.
// Format: ║ content              ║
func BoxLine(content string, width int) string {
	if width < 4 {
		width = 4
	}
	innerWidth := width - 4

	if lipgloss.Width(content) > innerWidth {
		content = lipgloss.NewStyle().MaxWidth(innerWidth).Render(content)
	}
	padding := innerWidth - lipgloss.Width(content)
	if padding < 0 {
		padding = 0
	}

	return boxVertical + " " + content + strings.Repeat(" ", padding) + " " + boxVertical
}

// RenderBox draws a titled box around lines, padding with blank lines up to
// minLines rows of content.
func RenderBox(title string, lines []string, width, minLines int) string {
	rows := make([]string, 0, len(lines)+2)
	rows = append(rows, BoxTop(title, width))
	for _, line := range lines {
		rows = append(rows, BoxLine(line, width))
	}
	for i := len(lines); i < minLines; i++ {
		rows = append(rows, BoxLine("", width))
	}
	rows = append(rows, BoxBottom(width))
	return strings.Join(rows, "\n")
}

// truncateTitle shortens a title to maxLen cells, ending it with an ellipsis.
func truncateTitle(title string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if lipgloss.Width(title) <= maxLen {
		return title
	}
	runes := []rune(title)
	if maxLen-1 < len(runes) {
		runes = runes[:maxLen-1]
	}
	return string(runes) + "…"
}
