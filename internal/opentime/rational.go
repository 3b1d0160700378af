// Package opentime implements exact frame/rate time arithmetic for the
// timeline engine. Every temporal value is carried as a (value, rate)
// pair; nothing in this package stores a bare float of seconds.
package opentime

import (
	"fmt"
	"math"
)

// Epsilon bounds the floating error tolerated by comparisons. Cross products
// of value*rate stay well inside float64 precision for realistic timelines,
// so this only absorbs rescale round-off.
const Epsilon = 1e-9

// RationalTime is value/rate seconds, kept as a fraction.
type RationalTime struct {
	Value float64 `json:"value"`
	Rate  float64 `json:"rate"`
}

func NewRationalTime(value, rate float64) RationalTime {
	return RationalTime{Value: value, Rate: rate}
}

// FromFrames builds a RationalTime from a whole frame count at rate.
func FromFrames(frames int, rate float64) RationalTime {
	return RationalTime{Value: float64(frames), Rate: rate}
}

// FromMilliseconds is the wire-format construction path: clients send
// millisecond offsets, the engine keeps them at rate 1000.
func FromMilliseconds(ms float64) RationalTime {
	return RationalTime{Value: ms, Rate: 1000}
}

// Seconds converts to float seconds. Only for display and for handing
// values to the render layer; never feed the result back into arithmetic.
func (t RationalTime) Seconds() float64 {
	if t.Rate == 0 {
		return 0
	}
	return t.Value / t.Rate
}

// RescaledTo returns the same instant expressed at newRate, via
// value * newRate / oldRate rather than a round-trip through seconds.
func (t RationalTime) RescaledTo(newRate float64) RationalTime {
	if t.Rate == newRate || t.Rate == 0 {
		return RationalTime{Value: t.Value, Rate: newRate}
	}
	return RationalTime{Value: t.Value * newRate / t.Rate, Rate: newRate}
}

// Add rescales other to t's rate and adds.
func (t RationalTime) Add(other RationalTime) RationalTime {
	o := other.RescaledTo(t.Rate)
	return RationalTime{Value: t.Value + o.Value, Rate: t.Rate}
}

// Sub rescales other to t's rate and subtracts.
func (t RationalTime) Sub(other RationalTime) RationalTime {
	o := other.RescaledTo(t.Rate)
	return RationalTime{Value: t.Value - o.Value, Rate: t.Rate}
}

// Cmp orders two times exactly by cross-multiplication: a.value*b.rate
// against b.value*a.rate. Comparing converted float seconds is the known
// epsilon trap, so it is avoided here.
func (t RationalTime) Cmp(other RationalTime) int {
	lhs := t.Value * other.Rate
	rhs := other.Value * t.Rate
	if math.Abs(lhs-rhs) <= Epsilon*math.Max(1, math.Max(math.Abs(lhs), math.Abs(rhs))) {
		return 0
	}
	if lhs < rhs {
		return -1
	}
	return 1
}

func (t RationalTime) Equal(other RationalTime) bool     { return t.Cmp(other) == 0 }
func (t RationalTime) Less(other RationalTime) bool      { return t.Cmp(other) < 0 }
func (t RationalTime) LessEqual(other RationalTime) bool { return t.Cmp(other) <= 0 }

// IsNegative reports a value below zero at any rate.
func (t RationalTime) IsNegative() bool {
	return t.Value < 0
}

func (t RationalTime) String() string {
	return fmt.Sprintf("RationalTime(%g, %g)", t.Value, t.Rate)
}
