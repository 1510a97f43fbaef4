package busfile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/etihwnad/ee-tools/busfile"
)

func TestExpandName(t *testing.T) {
	td := []struct {
		in   string
		want []string
	}{
		{"bus[4:0]", []string{"bus[4]", "bus[3]", "bus[2]", "bus[1]", "bus[0]"}},
		{"bus[0:4]", []string{"bus[0]", "bus[1]", "bus[2]", "bus[3]", "bus[4]"}},
		{"q[1:1]", []string{"q[1]"}},
		{"d[1:0]_in", []string{"d[1]_in", "d[0]_in"}},
	}
	for _, tc := range td {
		got, err := busfile.ExpandName(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestExpandName_bad(t *testing.T) {
	for _, in := range []string{
		"bus[4:0", // missing ]
		"bus[40]", // missing :
		"bus4:0]", // missing [
		"[3:0]",   // no name
		"bus[a:0]",
		"bus[0:b]",
	} {
		_, err := busfile.ExpandName(in)
		var ne *busfile.NameExpandError
		require.ErrorAs(t, err, &ne, "input %q", in)
		assert.Equal(t, in, ne.Signal)
	}
}

func TestExpandRange(t *testing.T) {
	td := []struct {
		in   string
		want []string
	}{
		{"[2](0,3)", []string{"00", "01", "10", "11"}},
		{"[2](3,0)", []string{"11", "10", "01", "00"}},
		{"[3](2,5)", []string{"010", "011", "100", "101"}},
		{"[1](0,0)", []string{"0"}},
		// step magnitude, direction from the endpoints
		{"[4](0,2,8)", []string{"0000", "0010", "0100", "0110", "1000"}},
		{"[4](8,2,0)", []string{"1000", "0110", "0100", "0010", "0000"}},
		{"[4](8,-2,0)", []string{"1000", "0110", "0100", "0010", "0000"}},
		// hex and binary endpoints
		{"[4](0x0,0b11)", []string{"0000", "0001", "0010", "0011"}},
		{"[4](0xE,0xF)", []string{"1110", "1111"}},
		// stop not landed on exactly
		{"[3](0,3,7)", []string{"000", "011", "110"}},
	}
	for _, tc := range td {
		got, err := busfile.ExpandRange(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestExpandRange_bad(t *testing.T) {
	for _, in := range []string{
		"[2](0,4)",     // 4 needs 3 bits
		"[2](4,0)",     // start too wide
		"[2]0,3)",      // missing (
		"[2](0,3",      // missing )
		"[x](0,3)",     // bad bit count
		"[0](0,0)",     // zero width
		"[2](0)",       // too few values
		"[2](0,1,2,3)", // too many values
		"[2](0,0,3)",   // zero step
		"[2](-1,3)",    // negative
		"[2](0,q)",
	} {
		_, err := busfile.ExpandRange(in)
		var re *busfile.VectorRangeError
		require.ErrorAs(t, err, &re, "input %q", in)
		assert.Equal(t, in, re.Token)
	}
}

// The boundary case: stop equal to 2^N-1 just fits.
func TestExpandRange_fullWidth(t *testing.T) {
	got, err := busfile.ExpandRange("[2](0,3)")
	require.NoError(t, err)
	assert.Len(t, got, 4)
}
