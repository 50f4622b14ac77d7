// Package dashboard assembles decoded replies into the frame the monitor
// draws for one refresh cycle.
package dashboard

import (
	"fmt"
	"time"

	"github.com/rileyhilliard/rigmon/internal/health"
	"github.com/rileyhilliard/rigmon/internal/protocol"
)

// Kinds lists the frame sections in display order.
var Kinds = []protocol.Kind{
	protocol.KindState,
	protocol.KindBoardPower,
	protocol.KindChips,
	protocol.KindFans,
}

// Result is the outcome of fetching and decoding one command.
// Exactly one of Record and Err is set.
type Result struct {
	Kind   protocol.Kind
	Record protocol.Record
	Err    error
}

// Extreme is the chip holding a minimum or maximum reading, with the level
// of that reading.
type Extreme struct {
	Chip  protocol.Chip
	Level health.Level
}

// ChipStats summarizes the active chips. Ties go to the chip that comes
// first in the device's order.
type ChipStats struct {
	Count      int
	MinTemp    Extreme
	MaxTemp    Extreme
	MinVoltage Extreme
	MaxVoltage Extreme
}

// Status holds the classified levels for the general info section.
type Status struct {
	Power       health.Level
	Network     health.Level
	Fan         health.Level
	Temperature health.Level
	Reject      health.Level
}

// Frame is one cycle's snapshot of the device.
type Frame struct {
	Time   time.Time
	State  protocol.State
	Power  protocol.BoardPower
	Chips  []protocol.Chip
	Fans   []protocol.Value
	Stats  *ChipStats // nil when no chip data is available
	Status Status

	errs map[protocol.Kind]error
}

// Err returns why a section is unavailable, or nil.
func (f Frame) Err(kind protocol.Kind) error {
	return f.errs[kind]
}

// Available reports whether a section was fetched and decoded.
func (f Frame) Available(kind protocol.Kind) bool {
	return f.errs[kind] == nil
}

// Complete reports whether every section is available.
func (f Frame) Complete() bool {
	return len(f.errs) == 0
}

// Errors returns the unavailable sections and their causes.
func (f Frame) Errors() map[protocol.Kind]error {
	out := make(map[protocol.Kind]error, len(f.errs))
	for k, err := range f.errs {
		out[k] = err
	}
	return out
}

// Build aggregates one cycle's results into a frame. A section without a
// usable result is marked unavailable and left at its zero value.
func Build(results []Result, at time.Time) Frame {
	f := Frame{
		Time:  at,
		Chips: []protocol.Chip{},
		Fans:  []protocol.Value{},
		errs:  make(map[protocol.Kind]error),
	}

	seen := make(map[protocol.Kind]bool)
	for _, r := range results {
		seen[r.Kind] = true
		if r.Err != nil {
			f.errs[r.Kind] = r.Err
			continue
		}
		if r.Record == nil || r.Record.Kind() != r.Kind {
			f.errs[r.Kind] = fmt.Errorf("unexpected %T record for %s", r.Record, r.Kind)
			continue
		}
		switch rec := r.Record.(type) {
		case protocol.ChipInfo:
			f.Chips = protocol.FilterChips(rec.Chips)
		case protocol.BoardPower:
			f.Power = rec
		case protocol.Fans:
			f.Fans = append([]protocol.Value{}, rec.RPM...)
		case protocol.State:
			f.State = rec
		default:
			f.errs[r.Kind] = fmt.Errorf("unexpected %T record for %s", r.Record, r.Kind)
		}
	}
	for _, kind := range Kinds {
		if !seen[kind] {
			f.errs[kind] = fmt.Errorf("%s was not polled", kind)
		}
	}

	f.Stats = SelectStats(f.Chips)
	f.Status = classify(f.State, f.Power)
	return f
}

// SelectStats picks the min/max temperature and voltage chips. It returns
// nil for an empty slice rather than a degenerate summary.
func SelectStats(chips []protocol.Chip) *ChipStats {
	if len(chips) == 0 {
		return nil
	}

	minT, maxT, minV, maxV := chips[0], chips[0], chips[0], chips[0]
	for _, c := range chips[1:] {
		if c.Temp < minT.Temp {
			minT = c
		}
		if c.Temp > maxT.Temp {
			maxT = c
		}
		if c.Voltage < minV.Voltage {
			minV = c
		}
		if c.Voltage > maxV.Voltage {
			maxV = c
		}
	}

	return &ChipStats{
		Count:      len(chips),
		MinTemp:    Extreme{Chip: minT, Level: health.Temperature(minT.Temp)},
		MaxTemp:    Extreme{Chip: maxT, Level: health.Temperature(maxT.Temp)},
		MinVoltage: Extreme{Chip: minV, Level: health.Voltage(minV.Voltage)},
		MaxVoltage: Extreme{Chip: maxV, Level: health.Voltage(maxV.Voltage)},
	}
}

func classify(state protocol.State, power protocol.BoardPower) Status {
	reject, ok := power.Reject.Float()
	return Status{
		Power:       health.Subsystem(state.Power.OK()),
		Network:     health.Subsystem(state.Network.OK()),
		Fan:         health.Subsystem(state.Fan.OK()),
		Temperature: health.Subsystem(state.Temperature.OK()),
		Reject:      health.RejectedSharesValue(reject, ok),
	}
}
