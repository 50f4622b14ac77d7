// Package protocol decodes the miner's JSON replies into typed records.
//
// Every reply is a JSON object whose "ret" member holds the command-specific
// fields:
//
//	getchipinfo  ret.chips   [{no, temp, voltage, pll}, ...]
//	boardpow     ret.rtpow, ret.avgpow, ret.reject, ret.runtime
//	fan          ret.fans    [rpm, ...]
//	state        ret.pow, ret.net, ret.fan, ret.temp
//
// Decoding is permissive about content and strict about framing. A reply that
// is not UTF-8 or not a JSON object fails with an errors.ErrDecode error. A
// missing "ret" or a missing or mistyped field only makes that field
// unavailable. Absent values are modelled explicitly (Value, Flag) so callers
// never confuse "not reported" with zero or false.
package protocol
