// Copyright 2026 Dan White <dan@whiteaudio.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package verify reconstructs digital bit sequences from sampled analog
// simulation traces and compares them against a bus file's expected
// outputs.
//
package verify

import (
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/etihwnad/ee-tools/busfile"
	"github.com/etihwnad/ee-tools/internal/dec"
)

// A TraceSet provides simulation traces on a shared time axis. Time values
// are ordered by magnitude; the sign of samples near zero may be corrupted
// by the simulator, so consumers compare against |t|.
type TraceSet interface {
	// Names lists the available trace names.
	Names() []string
	// Time returns the shared time axis.
	Time() []float64
	// Samples returns the samples for a named net, aligned to Time.
	Samples(name string) ([]float64, bool)
}

// A MissingTraceError reports a net required by the output spec that the
// trace set does not contain.
type MissingTraceError struct {
	Net string
}

func (e *MissingTraceError) Error() string {
	return "specified output signal " + strconv.Quote(e.Net) + " was not found in the trace data"
}

// A SignalResult is the verdict for one output signal.
type SignalResult struct {
	Name   string
	Want   string
	Got    string
	Passed bool
}

// A Result is the verdict for a whole verification run. A bit mismatch is
// a failed SignalResult, not an error; Passed is true only when every
// signal matched exactly.
type Result struct {
	Signals []SignalResult
	Passed  bool
}

// A Verifier checks traces against bus file output specs. The zero value
// logs to the logrus standard logger.
type Verifier struct {
	Log logrus.FieldLogger
}

// Verify checks ts against the output spec of f with a zero-value Verifier.
func Verify(f *busfile.File, ts TraceSet) (*Result, error) {
	var v Verifier
	return v.Verify(f, ts)
}

// Verify reconstructs one bit per expected vector row from the trace of
// each output signal and compares the result to the spec. Bits are sampled
// around successive clock edges: the first edge at clockdelay, then every
// clock period. Around each edge, all samples from the last one before the
// setup window start through the last one before the hold window end are
// averaged and compared against the logic threshold.
func (v *Verifier) Verify(f *busfile.File, ts TraceSet) (*Result, error) {
	if len(f.Outputs) == 0 {
		return nil, errors.New("no output spec found in bus file")
	}
	if f.Params.Tsu == nil {
		return nil, &busfile.ParamMissingError{Param: "tsu"}
	}
	if f.Params.Th == nil {
		return nil, &busfile.ParamMissingError{Param: "th"}
	}

	tm := f.Params.Timing()
	log := v.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	available := make(map[string]bool)
	for _, n := range ts.Names() {
		available[n] = true
	}

	time := ts.Time()
	if len(time) == 0 {
		return nil, errors.New("trace data has an empty time axis")
	}
	res := &Result{Passed: true}
	thresh := dec.Float(tm.Threshold)
	for _, sig := range f.Outputs {
		net := "V(" + sig.Name + ")"
		if !available[net] {
			return nil, &MissingTraceError{Net: net}
		}
		trace, ok := ts.Samples(net)
		if !ok {
			return nil, &MissingTraceError{Net: net}
		}
		if len(trace) != len(time) {
			return nil, errors.Errorf("trace %s has %d samples but the time axis has %d", net, len(trace), len(time))
		}
		got := reconstruct(tm, len(sig.Bits), time, trace, thresh, log)
		sr := SignalResult{Name: sig.Name, Want: sig.Bits, Got: got, Passed: got == sig.Bits}
		if sr.Passed {
			log.Infof("%s passed - outputs were: %s", sig.Name, got)
		} else {
			res.Passed = false
			log.Errorf("%s failed. actual: %s spec'd: %s", sig.Name, got, sig.Bits)
		}
		res.Signals = append(res.Signals, sr)
	}
	return res, nil
}

// reconstruct recovers n bits from a trace. Edge times accumulate in
// exact decimal so repeated periods cannot drift; sample indices only move
// forward, keeping the scan linear over the whole trace.
func reconstruct(tm busfile.Timing, n int, time, trace []float64, thresh float64, log logrus.FieldLogger) string {
	edge := tm.ClockDelay
	var b strings.Builder
	su, hold := 0, 0
	for i := 0; i < n; i++ {
		suT := dec.Float(dec.Sub(edge, tm.Tsu))
		holdT := dec.Float(dec.Add(edge, dec.Add(tm.Th, tm.ClockRiseFall)))
		su = hold + lastBefore(time[hold:], suT)
		hold = su + lastBefore(time[su:], holdT)

		var val float64
		if hold != su {
			sum := 0.0
			for _, s := range trace[su : hold+1] {
				sum += s
			}
			val = sum / float64(hold-su+1)
		} else {
			val = trace[su]
		}
		log.Debugf("bit %d: edge=%s window=[%d,%d] avg=%g", i, edge.Text('f'), su, hold, val)

		// Strict inequality: a value sitting exactly on the threshold
		// reads as logic 0.
		if val > thresh {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
		edge = dec.Add(edge, tm.ClockPeriod)
	}
	return b.String()
}

// lastBefore returns the index of the last sample whose |time| is strictly
// less than target, or 0 when the first sample already reaches it. Some
// simulators emit otherwise-ordered time points with a flipped sign near
// zero, hence the magnitude comparison.
func lastBefore(time []float64, target float64) int {
	idx := 0
	for i, t := range time {
		if math.Abs(t) < target {
			idx = i
		} else {
			break
		}
	}
	return idx
}
