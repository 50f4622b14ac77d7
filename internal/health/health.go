// Package health maps device readings to a status level.
//
// The thresholds are fixed by the miner's operating envelope and are not
// configurable. Every comparison is strict, so a value sitting exactly on a
// threshold belongs to the lower tier.
package health

// Level is the severity of a reading.
type Level int

const (
	// Unknown is used when a reading is missing or not numeric.
	Unknown Level = iota
	Normal
	Warning
	Critical
)

// String returns a lowercase label for the level.
func (l Level) String() string {
	switch l {
	case Normal:
		return "normal"
	case Warning:
		return "warning"
	case Critical:
		return "critical"
	default:
		return "unknown"
	}
}

// Chip temperature thresholds in °C.
const (
	TempWarning  = 90.0
	TempCritical = 95.0
)

// Chip voltage operating range in volts, inclusive.
const (
	VoltageMin = 0.46
	VoltageMax = 0.50
)

// Rejected share thresholds in percent.
const (
	RejectWarning  = 3.0
	RejectCritical = 10.0
)

// Temperature classifies a chip temperature.
func Temperature(celsius float64) Level {
	switch {
	case celsius > TempCritical:
		return Critical
	case celsius > TempWarning:
		return Warning
	default:
		return Normal
	}
}

// Voltage classifies a chip voltage. There is no warning tier.
func Voltage(volts float64) Level {
	if volts >= VoltageMin && volts <= VoltageMax {
		return Normal
	}
	return Critical
}

// Subsystem classifies a boolean status flag.
func Subsystem(ok bool) Level {
	if ok {
		return Normal
	}
	return Critical
}

// RejectedShares classifies the rejected share percentage.
func RejectedShares(percent float64) Level {
	switch {
	case percent > RejectCritical:
		return Critical
	case percent > RejectWarning:
		return Warning
	default:
		return Normal
	}
}

// RejectedSharesValue classifies an optional reading. ok is false when the
// device did not report a usable number.
func RejectedSharesValue(percent float64, ok bool) Level {
	if !ok {
		return Unknown
	}
	return RejectedShares(percent)
}
