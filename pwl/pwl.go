// Copyright 2026 Dan White <dan@whiteaudio.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package pwl synthesizes piecewise-linear simulator sources from parsed
// bus files: per-signal PWL voltage sources and a clock pulse source.
//
package pwl

import (
	"bufio"
	"fmt"
	"io"

	"github.com/cockroachdb/apd/v3"
	"github.com/pkg/errors"

	"github.com/etihwnad/ee-tools/busfile"
	"github.com/etihwnad/ee-tools/internal/dec"
)

// A Breakpoint is one (time, voltage) point of a PWL source. Times are
// strictly increasing within a signal and the first breakpoint is at t=0.
type Breakpoint struct {
	T *apd.Decimal
	V *apd.Decimal
}

// Signal converts a bit sequence into PWL breakpoints. The first
// breakpoint fixes the initial level at t=0; afterwards a point pair is
// emitted only where the sequence changes value, at the interval boundary
// and risefall later. After each transition the time reference is
// re-anchored to the start of the new level, so runs of unchanged bits
// never accumulate truncation.
func Signal(tm busfile.Timing, bits string) ([]Breakpoint, error) {
	if bits == "" {
		return nil, errors.New("empty bit sequence")
	}

	bps := []Breakpoint{{T: dec.MustParse("0"), V: level(tm, bits[0])}}
	t := dec.MustParse("0")
	last := bits[0]
	t = dec.Add(t, tm.BitPeriod)
	for i := 1; i < len(bits); i++ {
		bit := bits[i]
		if bit != last {
			bps = append(bps,
				Breakpoint{T: t, V: level(tm, last)},
				Breakpoint{T: dec.Add(t, tm.RiseFall), V: level(tm, bit)},
			)
			// Measure the next interval from the start of the new
			// level, not the start of the transition.
			t = dec.Add(t, tm.RiseFall)
		}
		t = dec.Add(t, tm.BitPeriod)
		last = bit
	}
	return bps, nil
}

func level(tm busfile.Timing, bit byte) *apd.Decimal {
	if bit == '1' {
		return tm.BitHigh
	}
	return tm.BitLow
}

// Clock returns the pulse-source definition for the bus clock. The edge
// polarity selects which level the pulse starts from; busfile.EdgeNone is
// rejected here, callers suppress the clock instead.
func Clock(tm busfile.Timing, edge busfile.Edge) (string, error) {
	var v1, v2 *apd.Decimal
	switch edge {
	case busfile.EdgeRising:
		v1, v2 = tm.BitLow, tm.BitHigh
	case busfile.EdgeFalling:
		v1, v2 = tm.BitHigh, tm.BitLow
	default:
		return "", &busfile.InvalidEdgeError{Edge: edge.String()}
	}
	return fmt.Sprintf("Vclock clock 0 pulse(%s %s %s %s %s %s %s)",
		text(v1), text(v2), text(tm.ClockDelay),
		text(tm.ClockRiseFall), text(tm.ClockRiseFall),
		text(tm.ClockHigh), text(tm.ClockPeriod)), nil
}

// Write writes the complete PWL deck for f: a leading blank line, the
// clock pulse source unless edge=none, then one PWL voltage source per
// input signal, each followed by a blank separator line.
func Write(w io.Writer, f *busfile.File) error {
	tm := f.Params.Timing()
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw)

	if f.Params.Edge != busfile.EdgeNone {
		clk, err := Clock(tm, f.Params.Edge)
		if err != nil {
			return err
		}
		fmt.Fprintln(bw, clk)
		fmt.Fprintln(bw)
	}

	for _, sig := range f.Signals {
		bps, err := Signal(tm, sig.Bits)
		if err != nil {
			return errors.Wrap(err, sig.Name)
		}
		fmt.Fprintf(bw, "V%s %s 0 PWL\n", sig.Name, sig.Name)
		for _, bp := range bps {
			fmt.Fprintf(bw, "+ %s %s\n", text(bp.T), text(bp.V))
		}
		fmt.Fprintln(bw)
	}
	return errors.Wrap(bw.Flush(), "writing PWL file")
}

// text formats a decimal in plain notation with trailing zeros dropped;
// simulators do not all accept the E notation apd defaults to.
func text(d *apd.Decimal) string {
	r, _ := new(apd.Decimal).Reduce(d)
	return r.Text('f')
}
