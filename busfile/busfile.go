// Copyright 2026 Dan White <dan@whiteaudio.com>
// Licensed under the MIT license. See license text in the LICENSE file.

/*
Package busfile parses the bus file DSL describing digital stimulus for an
analog circuit simulation, and the optional expected-response section used
for verification.

A bus file is line oriented:

	risefall = 0.2n          # parameters first, one name=value per line
	bittime = 1n
	bitlow = 0
	bithigh = 5

	Signals:
	a b sel[1:0]
	Vectors:
	0 1 00
	1 0 [2](1,3)             # vector range, expands to several rows

	Outputs:                 # optional expected-response section
	out
	Vectors:
	0 1 1 0

Signal names may use bracket notation to declare a bus; vector rows may use
range tokens to expand counting sequences. See ExpandName and the Parser
documentation for the grammars.
*/
package busfile

import (
	"github.com/cockroachdb/apd/v3"

	"github.com/etihwnad/ee-tools/internal/dec"
)

// Edge selects the active clock transition.
type Edge int

// Edge polarities. EdgeNone suppresses clock generation.
const (
	EdgeRising Edge = iota
	EdgeFalling
	EdgeNone
)

func (e Edge) String() string {
	switch e {
	case EdgeRising:
		return "rising"
	case EdgeFalling:
		return "falling"
	case EdgeNone:
		return "none"
	}
	return "invalid"
}

// Params holds the timing and level parameters of a bus file, already
// converted from engineering notation to exact decimals. Optional
// parameters are nil when the file does not set them.
type Params struct {
	RiseFall *apd.Decimal
	BitTime  *apd.Decimal
	BitLow   *apd.Decimal
	BitHigh  *apd.Decimal

	Edge Edge

	ClockDelay    *apd.Decimal
	ClockRiseFall *apd.Decimal
	Tsu           *apd.Decimal
	Th            *apd.Decimal
}

// A Signal is a scalar signal name with its ordered bit sequence, one bit
// per vector row.
type Signal struct {
	Name string
	Bits string
}

// A File is the parsed contents of a bus file. All signals share the same
// bit-sequence length; Outputs is nil when the file has no Outputs section.
type File struct {
	Params  Params
	Signals []Signal
	Outputs []Signal
}

// Timing holds the derived quantities shared by waveform synthesis and
// verification, with optional parameters resolved to their defaults:
// clockrisefall falls back to risefall, clockdelay to a quarter bit time
// (which centers data transitions mid clock phase).
type Timing struct {
	RiseFall *apd.Decimal
	BitTime  *apd.Decimal
	BitLow   *apd.Decimal
	BitHigh  *apd.Decimal

	ClockRiseFall *apd.Decimal
	ClockDelay    *apd.Decimal

	// BitPeriod is the effective data bit period,
	// bittime + clockrisefall + (clockrisefall - risefall). It absorbs the
	// clock's own skew so data and clock edges land mid-phase of each other.
	BitPeriod *apd.Decimal
	// ClockPeriod is bittime + 2*clockrisefall.
	ClockPeriod *apd.Decimal
	// ClockHigh is the clock high time, half of (bittime - clockrisefall).
	ClockHigh *apd.Decimal
	// Threshold is the logic-1 decision level,
	// bitlow + 0.75*(bithigh - bitlow).
	Threshold *apd.Decimal

	Tsu *apd.Decimal
	Th  *apd.Decimal
}

var (
	two     = dec.MustParse("2")
	half    = dec.MustParse("0.5")
	quarter = dec.MustParse("0.25")
	wthresh = dec.MustParse("0.75")
)

// Timing resolves p into the derived timing quantities.
func (p *Params) Timing() Timing {
	crf := p.ClockRiseFall
	if crf == nil {
		crf = p.RiseFall
	}
	delay := p.ClockDelay
	if delay == nil {
		delay = dec.Mul(quarter, p.BitTime)
	}
	return Timing{
		RiseFall:      p.RiseFall,
		BitTime:       p.BitTime,
		BitLow:        p.BitLow,
		BitHigh:       p.BitHigh,
		ClockRiseFall: crf,
		ClockDelay:    delay,
		BitPeriod:     dec.Add(p.BitTime, dec.Sub(dec.Mul(two, crf), p.RiseFall)),
		ClockPeriod:   dec.Add(p.BitTime, dec.Mul(two, crf)),
		ClockHigh:     dec.Mul(half, dec.Sub(p.BitTime, crf)),
		Threshold:     dec.Add(p.BitLow, dec.Mul(wthresh, dec.Sub(p.BitHigh, p.BitLow))),
		Tsu:           p.Tsu,
		Th:            p.Th,
	}
}
