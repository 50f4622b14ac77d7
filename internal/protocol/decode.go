package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/rileyhilliard/rigmon/internal/errors"
)

// Decode parses a raw reply into the record for kind.
func Decode(kind Kind, raw []byte) (Record, error) {
	var (
		rec Record
		err error
	)
	switch kind {
	case KindChips:
		rec, err = DecodeChips(raw)
	case KindBoardPower:
		rec, err = DecodeBoardPower(raw)
	case KindFans:
		rec, err = DecodeFans(raw)
	case KindState:
		rec, err = DecodeState(raw)
	default:
		err = errors.Decode(kind.String(), fmt.Errorf("unknown record kind %d", int(kind)))
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// DecodeChips decodes a getchipinfo reply and drops inactive chips.
// Entries that are not objects are skipped.
func DecodeChips(raw []byte) (ChipInfo, error) {
	ret, err := decodeRet(KindChips, raw)
	if err != nil {
		return ChipInfo{}, err
	}

	var entries []json.RawMessage
	if !decodeField(ret, "chips", &entries) {
		return ChipInfo{Chips: []Chip{}}, nil
	}

	chips := make([]Chip, 0, len(entries))
	for _, entry := range entries {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(entry, &fields); err != nil || fields == nil {
			continue
		}
		temp, tempText, _ := reading(fields["temp"])
		voltage, voltageText, _ := reading(fields["voltage"])
		pll, _ := number(fields["pll"])
		chips = append(chips, Chip{
			No:          chipNo(fields["no"]),
			Temp:        temp,
			Voltage:     voltage,
			PLL:         pll,
			TempText:    tempText,
			VoltageText: voltageText,
		})
	}

	return ChipInfo{Chips: FilterChips(chips)}, nil
}

// DecodeBoardPower decodes a boardpow reply.
func DecodeBoardPower(raw []byte) (BoardPower, error) {
	ret, err := decodeRet(KindBoardPower, raw)
	if err != nil {
		return BoardPower{}, err
	}
	return BoardPower{
		RealtimeHashrate: scalar(ret["rtpow"]),
		AverageHashrate:  scalar(ret["avgpow"]),
		Reject:           scalar(ret["reject"]),
		Runtime:          scalar(ret["runtime"]),
	}, nil
}

// DecodeFans decodes a fan reply. A fans member holding anything other than
// a list of numbers is treated as absent.
func DecodeFans(raw []byte) (Fans, error) {
	ret, err := decodeRet(KindFans, raw)
	if err != nil {
		return Fans{}, err
	}

	var entries []json.RawMessage
	if !decodeField(ret, "fans", &entries) {
		return Fans{RPM: []Value{}}, nil
	}

	rpm := make([]Value, 0, len(entries))
	for _, entry := range entries {
		_, text, ok := reading(entry)
		if !ok {
			return Fans{RPM: []Value{}}, nil
		}
		rpm = append(rpm, StringValue(text))
	}
	return Fans{RPM: rpm}, nil
}

// DecodeState decodes a state reply.
func DecodeState(raw []byte) (State, error) {
	ret, err := decodeRet(KindState, raw)
	if err != nil {
		return State{}, err
	}
	return State{
		Power:       flag(ret["pow"]),
		Network:     flag(ret["net"]),
		Fan:         flag(ret["fan"]),
		Temperature: flag(ret["temp"]),
	}, nil
}

// decodeRet validates the envelope and returns the members of "ret".
// A missing or null "ret" yields an empty map.
func decodeRet(kind Kind, raw []byte) (map[string]json.RawMessage, error) {
	if !utf8.Valid(raw) {
		return nil, errors.Decode(kind.String(), fmt.Errorf("reply is not valid UTF-8 (%d bytes)", len(raw)))
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, errors.Decode(kind.String(), err)
	}
	if envelope == nil {
		return nil, errors.Decode(kind.String(), fmt.Errorf("reply is not a JSON object"))
	}

	ret := make(map[string]json.RawMessage)
	if body, ok := envelope["ret"]; ok && !isNull(body) {
		if err := json.Unmarshal(body, &ret); err != nil {
			return nil, errors.Decode(kind.String(), fmt.Errorf("ret is not an object: %w", err))
		}
	}
	return ret, nil
}

// decodeField unmarshals ret[key] into out. It reports false when the key is
// missing, null, or of the wrong type.
func decodeField(ret map[string]json.RawMessage, key string, out interface{}) bool {
	body, ok := ret[key]
	if !ok || isNull(body) {
		return false
	}
	return json.Unmarshal(body, out) == nil
}

func isNull(body json.RawMessage) bool {
	return len(body) == 0 || bytes.Equal(bytes.TrimSpace(body), []byte("null"))
}

// number reads a JSON number or a numeric string.
func number(body json.RawMessage) (float64, bool) {
	if isNull(body) {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(body, &f); err == nil {
		return f, true
	}
	var s string
	if err := json.Unmarshal(body, &s); err != nil {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// reading is number plus the text the device used for it: the JSON number
// literal, or the trimmed content of a numeric string.
func reading(body json.RawMessage) (float64, string, bool) {
	f, ok := number(body)
	if !ok {
		return 0, "", false
	}
	text := string(bytes.TrimSpace(body))
	var s string
	if err := json.Unmarshal(body, &s); err == nil {
		text = strings.TrimSpace(s)
	}
	return f, text, true
}

// chipNo reads a chip number. Values that are not whole numbers in the
// int32 range are dropped like any other mistyped field.
func chipNo(body json.RawMessage) int {
	f, ok := number(body)
	if !ok || f != math.Trunc(f) || f < math.MinInt32 || f > math.MaxInt32 {
		return 0
	}
	return int(f)
}

// scalar keeps a value's display text. Strings are unquoted, numbers keep
// the device's formatting, anything else is shown as compact JSON.
func scalar(body json.RawMessage) Value {
	if isNull(body) {
		return Value{}
	}
	var s string
	if err := json.Unmarshal(body, &s); err == nil {
		return StringValue(s)
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, body); err != nil {
		return Value{}
	}
	return Value{text: compact.String(), present: true}
}

// flag reads a boolean status. Numbers count as true when nonzero; any other
// type leaves the flag unset.
func flag(body json.RawMessage) Flag {
	if isNull(body) {
		return Flag{}
	}
	var b bool
	if err := json.Unmarshal(body, &b); err == nil {
		return FlagOf(b)
	}
	var f float64
	if err := json.Unmarshal(body, &f); err == nil {
		return FlagOf(f != 0)
	}
	return Flag{}
}
