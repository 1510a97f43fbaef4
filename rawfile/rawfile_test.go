package rawfile_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/etihwnad/ee-tools/rawfile"
)

const testRaw = `Title: * C:\sim\mux.net
Date: Sat Aug 29 12:00:00 2026
Plotname: Transient Analysis
Flags: real
No. Variables: 3
No. Points: 4
Offset: 0.0000000000000000e+000
Command: Linear Technology Corporation LTspice IV
Variables:
	0	time	time
	1	V(out)	voltage
	2	V(clock)	voltage
Values:
0	0.000000000000000e+000
	0.000000e+000
	3.300000e+000
1	1.000000000000000e-009
	5.000000e+000
	0.000000e+000
2	2.000000000000000e-009
	5.000000e+000
	3.300000e+000
3	3.000000000000000e-009
	0.000000e+000
	0.000000e+000
`

func TestRead(t *testing.T) {
	f, err := rawfile.Read(strings.NewReader(testRaw))
	require.NoError(t, err)

	assert.Equal(t, "* C:\\sim\\mux.net", f.Title)
	assert.Equal(t, "Transient Analysis", f.Plotname)
	assert.Equal(t, []string{"time", "V(out)", "V(clock)"}, f.Names())

	time := f.Time()
	require.Len(t, time, 4)
	assert.Equal(t, 0.0, time[0])
	assert.Equal(t, 1e-9, time[1])
	assert.Equal(t, 3e-9, time[3])

	out, ok := f.Samples("V(out)")
	require.True(t, ok)
	assert.Equal(t, []float64{0, 5, 5, 0}, out)

	clock, ok := f.Samples("V(clock)")
	require.True(t, ok)
	assert.Equal(t, 3.3, clock[0])

	_, ok = f.Samples("V(missing)")
	assert.False(t, ok)
}

func TestRead_binaryRejected(t *testing.T) {
	src := `Title: * test
No. Variables: 2
No. Points: 10
Binary:
`
	_, err := rawfile.Read(strings.NewReader(src))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "binary")
}

func TestRead_complexRejected(t *testing.T) {
	src := `Title: * test
Flags: complex
No. Variables: 2
No. Points: 10
`
	_, err := rawfile.Read(strings.NewReader(src))
	require.Error(t, err)
}

func TestRead_truncated(t *testing.T) {
	// Values section ends before the promised point count
	src := `No. Variables: 2
No. Points: 3
Variables:
	0	time	time
	1	V(out)	voltage
Values:
0	0.0e+000
	1.0e+000
`
	_, err := rawfile.Read(strings.NewReader(src))
	require.Error(t, err)
}

func TestRead_noValues(t *testing.T) {
	_, err := rawfile.Read(strings.NewReader("Title: empty\n"))
	require.Error(t, err)
}
