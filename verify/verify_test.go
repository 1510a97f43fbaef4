package verify_test

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/etihwnad/ee-tools/busfile"
	"github.com/etihwnad/ee-tools/internal/dec"
	"github.com/etihwnad/ee-tools/verify"
)

// memTraces is an in-memory TraceSet, standing in for the raw file reader.
type memTraces struct {
	time []float64
	data map[string][]float64
}

func (m *memTraces) Names() []string {
	names := []string{"time"}
	for n := range m.data {
		names = append(names, n)
	}
	return names
}

func (m *memTraces) Time() []float64 { return m.time }

func (m *memTraces) Samples(name string) ([]float64, bool) {
	d, ok := m.data[name]
	return d, ok
}

func quiet() *verify.Verifier {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return &verify.Verifier{Log: log}
}

// testFile expects "101" on out: bittime=1n, clockrisefall=100p, so clock
// period 1.2n; edges at 500p, 1.7n, 2.9n; sampling windows [300p,800p],
// [1.5n,2.0n], [2.7n,3.2n].
func testFile(bits string) *busfile.File {
	return &busfile.File{
		Params: busfile.Params{
			RiseFall:      dec.MustParse("100e-12"),
			BitTime:       dec.MustParse("1e-9"),
			BitLow:        dec.MustParse("0"),
			BitHigh:       dec.MustParse("5"),
			Edge:          busfile.EdgeRising,
			ClockDelay:    dec.MustParse("500e-12"),
			ClockRiseFall: dec.MustParse("100e-12"),
			Tsu:           dec.MustParse("200e-12"),
			Th:            dec.MustParse("200e-12"),
		},
		Signals: []busfile.Signal{{Name: "in", Bits: bits}},
		Outputs: []busfile.Signal{{Name: "out", Bits: bits}},
	}
}

// ideal "101" response sampled every 100p from 0 to 3.5n: high until 1.2n,
// low until 2.3n, high after.
func idealTraces() *memTraces {
	var times []float64
	var volts []float64
	for i := 0; i <= 35; i++ {
		t := float64(i) * 100e-12
		times = append(times, t)
		switch {
		case t < 1.2e-9:
			volts = append(volts, 5.0)
		case t < 2.3e-9:
			volts = append(volts, 0.0)
		default:
			volts = append(volts, 5.0)
		}
	}
	return &memTraces{time: times, data: map[string][]float64{"V(out)": volts}}
}

func TestVerify_pass(t *testing.T) {
	res, err := quiet().Verify(testFile("101"), idealTraces())
	require.NoError(t, err)
	assert.True(t, res.Passed)
	require.Len(t, res.Signals, 1)
	assert.Equal(t, "101", res.Signals[0].Got)
	assert.True(t, res.Signals[0].Passed)
}

// A mismatch is a failed result, not an error.
func TestVerify_mismatch(t *testing.T) {
	res, err := quiet().Verify(testFile("111"), idealTraces())
	require.NoError(t, err)
	assert.False(t, res.Passed)
	require.Len(t, res.Signals, 1)
	sr := res.Signals[0]
	assert.False(t, sr.Passed)
	assert.Equal(t, "111", sr.Want)
	assert.Equal(t, "101", sr.Got)
}

// Some simulators corrupt the sign of time points near zero while keeping
// the magnitude right; verification must compare magnitudes.
func TestVerify_corruptedTimeSign(t *testing.T) {
	tr := idealTraces()
	tr.time[6] = -tr.time[6]
	res, err := quiet().Verify(testFile("101"), tr)
	require.NoError(t, err)
	assert.True(t, res.Passed)
}

func TestVerify_missingNet(t *testing.T) {
	f := testFile("101")
	f.Outputs[0].Name = "nope"
	_, err := quiet().Verify(f, idealTraces())
	var mt *verify.MissingTraceError
	require.ErrorAs(t, err, &mt)
	assert.Equal(t, "V(nope)", mt.Net)
}

func TestVerify_noOutputs(t *testing.T) {
	f := testFile("101")
	f.Outputs = nil
	_, err := quiet().Verify(f, idealTraces())
	require.Error(t, err)
}

// A window average sitting exactly on the 75% threshold reads as logic 0:
// the comparison is strictly greater-than.
func TestVerify_thresholdIsStrict(t *testing.T) {
	f := testFile("0")
	f.Params.BitHigh = dec.MustParse("4") // threshold exactly 3.0
	// sparse axis: both window searches land on sample 0, so the single
	// sample value is used directly
	tr := &memTraces{
		time: []float64{0, 1e-9},
		data: map[string][]float64{"V(out)": {3.0, 3.0}},
	}
	res, err := quiet().Verify(f, tr)
	require.NoError(t, err)
	assert.Equal(t, "0", res.Signals[0].Got)
	assert.True(t, res.Passed)

	// just above the threshold flips to 1
	tr.data["V(out)"] = []float64{3.0001, 3.0001}
	res, err = quiet().Verify(f, tr)
	require.NoError(t, err)
	assert.Equal(t, "1", res.Signals[0].Got)
}

// Non-uniform sampling: the setup and hold indices move only forward, and
// all samples between them (inclusive) are averaged.
func TestVerify_windowAverage(t *testing.T) {
	f := testFile("1")
	// window 1 is [300p, 800p]: setup index is the last sample before
	// 300p (200p), hold index the last before 800p (600p)
	tr := &memTraces{
		time: []float64{0, 200e-12, 350e-12, 600e-12, 900e-12},
		data: map[string][]float64{
			// samples 1..3 average to 4.0 > 3.75
			"V(out)": {0.0, 4.5, 4.0, 3.5, 0.0},
		},
	}
	res, err := quiet().Verify(f, tr)
	require.NoError(t, err)
	assert.Equal(t, "1", res.Signals[0].Got)
}

func TestVerify_lengthMismatch(t *testing.T) {
	f := testFile("1")
	tr := &memTraces{
		time: []float64{0, 1e-9},
		data: map[string][]float64{"V(out)": {0}},
	}
	_, err := quiet().Verify(f, tr)
	require.Error(t, err)
}
