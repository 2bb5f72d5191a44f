// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package strength

import (
	"fmt"
	"math"
)

// AttackerModel is a named guessing rate, in attempts per second.
type AttackerModel struct {
	Name string
	Rate float64
}

// DefaultAttackers are a throttled/slow hash attacker and a fast offline one.
var DefaultAttackers = []AttackerModel{
	{Name: "slow_attack", Rate: 1e4},
	{Name: "fast_attack", Rate: 1e8},
}

// CrackTimeEstimator produces a display string per attacker model.
type CrackTimeEstimator interface {
	Estimate(f Features, score int) map[string]string
}

const (
	minute     = 60.0
	hour       = 3600.0
	day        = 86400.0
	year       = day * 365
	century    = year * 100
	millennium = year * 1000
)

// FeatureEstimator models an exhaustive search over the password's character
// set, shortened by the predictable structure found in its features. The
// score is ignored.
type FeatureEstimator struct {
	Attackers []AttackerModel
	Localizer Localizer
}

func (e FeatureEstimator) Estimate(f Features, _ int) map[string]string {
	if f.IsLeaked {
		return compromised(e.attackers(), e.Localizer)
	}

	bits := effectiveLength(f) * math.Log2(float64(charsetSize(f)))
	return renderAll(bits, e.attackers(), e.Localizer)
}

// ScoreEstimator derives the search space from the score alone, 0.8 bits per
// score point.
type ScoreEstimator struct {
	Attackers []AttackerModel
	Localizer Localizer
}

func (e ScoreEstimator) Estimate(f Features, score int) map[string]string {
	if f.IsLeaked {
		return compromised(e.attackers(), e.Localizer)
	}

	return renderAll(float64(score)*0.8, e.attackers(), e.Localizer)
}

func (e FeatureEstimator) attackers() []AttackerModel {
	if len(e.Attackers) == 0 {
		return DefaultAttackers
	}
	return e.Attackers
}

func (e ScoreEstimator) attackers() []AttackerModel {
	if len(e.Attackers) == 0 {
		return DefaultAttackers
	}
	return e.Attackers
}

// charsetSize is never zero: a password without any recognised class is
// treated as lowercase.
func charsetSize(f Features) int {
	size := 0
	if f.Lower > 0 {
		size += 26
	}
	if f.Upper > 0 {
		size += 26
	}
	if f.Digits > 0 {
		size += 10
	}
	if f.Special > 0 {
		size += 33
	}
	if size == 0 {
		size = 26
	}

	return size
}

// effectiveLength is the length minus the structure penalties, floored at 1.
func effectiveLength(f Features) float64 {
	reduction := 0.0
	if float64(f.Proximity) > 0.5*float64(f.Length) {
		reduction += 2
	}
	if f.Repeats > 3 {
		reduction += float64(f.Repeats) / 2
	}
	if f.Sequential > 2 {
		reduction += float64(f.Sequential) / 2
	}

	return math.Max(1, float64(f.Length)-reduction)
}

// expectedAttempts is half of the 2^bits search space.
func expectedAttempts(bits float64) float64 {
	return math.Pow(2, bits) / 2
}

func renderAll(bits float64, attackers []AttackerModel, l Localizer) map[string]string {
	attempts := expectedAttempts(bits)
	out := make(map[string]string, len(attackers))
	for _, a := range attackers {
		out[a.Name] = FormatDuration(attempts/a.Rate, l)
	}

	return out
}

func compromised(attackers []AttackerModel, l Localizer) map[string]string {
	if l == nil {
		l = English{}
	}

	msg := l.Localize(MsgCrackCompromise, nil)
	out := make(map[string]string, len(attackers))
	for _, a := range attackers {
		out[a.Name] = msg
	}

	return out
}

// Millennia at or above this are printed in scientific notation.
const maxPlainValue = 1e6

// FormatDuration renders seconds in the largest fitting unit, with 2 decimals.
func FormatDuration(seconds float64, l Localizer) string {
	if l == nil {
		l = English{}
	}

	var id string
	var value float64
	switch {
	case math.IsInf(seconds, 1) || math.IsNaN(seconds):
		return l.Localize(MsgCrackForever, nil)
	case seconds < 1:
		return l.Localize(MsgCrackInstant, nil)
	case seconds < minute:
		id, value = MsgCrackSeconds, seconds
	case seconds < hour:
		id, value = MsgCrackMinutes, seconds/minute
	case seconds < day:
		id, value = MsgCrackHours, seconds/hour
	case seconds < year:
		id, value = MsgCrackDays, seconds/day
	case seconds < century:
		id, value = MsgCrackYears, seconds/year
	case seconds < millennium:
		id, value = MsgCrackCenturies, seconds/century
	default:
		id, value = MsgCrackMillennia, seconds/millennium
	}

	format := "%.2f"
	if value >= maxPlainValue {
		format = "%.2e"
	}
	return l.Localize(id, map[string]string{"Value": fmt.Sprintf(format, value)})
}
