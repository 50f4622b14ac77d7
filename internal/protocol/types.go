package protocol

import (
	"math"
	"strconv"
	"strings"

	"github.com/rileyhilliard/rigmon/internal/device"
)

// NotAvailable is displayed in place of a value the device did not report.
const NotAvailable = "N/A"

// Kind identifies which reply a record was decoded from.
type Kind int

const (
	KindChips Kind = iota
	KindBoardPower
	KindFans
	KindState
)

// String returns the command name for the kind.
func (k Kind) String() string {
	return string(k.Command())
}

// Command returns the device command whose reply decodes to this kind.
func (k Kind) Command() device.Command {
	switch k {
	case KindChips:
		return device.CommandChipInfo
	case KindBoardPower:
		return device.CommandBoardPower
	case KindFans:
		return device.CommandFans
	case KindState:
		return device.CommandState
	default:
		return device.Command("unknown")
	}
}

// KindOf maps a device command to the record kind it produces.
func KindOf(cmd device.Command) (Kind, bool) {
	switch cmd {
	case device.CommandChipInfo:
		return KindChips, true
	case device.CommandBoardPower:
		return KindBoardPower, true
	case device.CommandFans:
		return KindFans, true
	case device.CommandState:
		return KindState, true
	default:
		return 0, false
	}
}

// Record is a decoded reply. The concrete type is one of ChipInfo,
// BoardPower, Fans or State.
type Record interface {
	Kind() Kind
}

// Chip is one ASIC's reading.
type Chip struct {
	No      int
	Temp    float64 // °C
	Voltage float64 // V
	PLL     float64

	// Temperature and voltage as the device wrote them. Empty for chips
	// built in code, which then print with the shortest exact form.
	TempText    string
	VoltageText string
}

// Active reports whether the chip reported anything. A chip with zero
// temperature, voltage and pll is disabled or missing.
func (c Chip) Active() bool {
	return c.Temp != 0 || c.Voltage != 0 || c.PLL != 0
}

// TempString returns the temperature for display.
func (c Chip) TempString() string {
	return readingText(c.TempText, c.Temp)
}

// VoltageString returns the voltage for display.
func (c Chip) VoltageString() string {
	return readingText(c.VoltageText, c.Voltage)
}

func readingText(text string, v float64) string {
	if text != "" {
		return text
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FilterChips returns the active chips in their original order.
// Applying it to its own output returns the same sequence.
func FilterChips(chips []Chip) []Chip {
	out := make([]Chip, 0, len(chips))
	for _, c := range chips {
		if c.Active() {
			out = append(out, c)
		}
	}
	return out
}

// ChipInfo is the decoded getchipinfo reply, already filtered to active chips.
type ChipInfo struct {
	Chips []Chip
}

func (ChipInfo) Kind() Kind { return KindChips }

// Value is an optional scalar as sent by the device. Hashrates and runtime
// arrive as strings or numbers depending on firmware, so the JSON text is kept.
type Value struct {
	text    string
	present bool
}

// StringValue returns a present string value.
func StringValue(s string) Value {
	return Value{text: s, present: true}
}

// NumberValue returns a present numeric value.
func NumberValue(f float64) Value {
	return Value{text: strconv.FormatFloat(f, 'f', -1, 64), present: true}
}

// Present reports whether the device sent the value.
func (v Value) Present() bool {
	return v.present
}

// String returns the value for display, or NotAvailable when absent.
func (v Value) String() string {
	if !v.present {
		return NotAvailable
	}
	return v.text
}

// Float parses the value as a number. Numeric strings are accepted.
func (v Value) Float() (float64, bool) {
	if !v.present {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v.text), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// BoardPower is the decoded boardpow reply.
type BoardPower struct {
	RealtimeHashrate Value
	AverageHashrate  Value
	Reject           Value // rejected shares, percent
	Runtime          Value
}

func (BoardPower) Kind() Kind { return KindBoardPower }

// Fans is the decoded fan reply: RPM per slot, slot 1 first. Readings keep
// the device's text so fractional speeds are not rounded away.
type Fans struct {
	RPM []Value
}

func (Fans) Kind() Kind { return KindFans }

// Flag is an optional boolean status flag.
type Flag struct {
	Set   bool // the device sent the flag
	Value bool
}

// FlagOf returns a flag that was reported with the given value.
func FlagOf(v bool) Flag {
	return Flag{Set: true, Value: v}
}

// OK is true only when the flag was reported and true. A missing flag is
// never healthy.
func (f Flag) OK() bool {
	return f.Set && f.Value
}

// State is the decoded state reply.
type State struct {
	Power       Flag
	Network     Flag
	Fan         Flag
	Temperature Flag
}

func (State) Kind() Kind { return KindState }
