// Copyright 2026 Dan White <dan@whiteaudio.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package busfile

import "strconv"

// A ParamMissingError reports a required parameter absent from the bus file.
type ParamMissingError struct {
	Param string
}

func (e *ParamMissingError) Error() string {
	return "required parameter " + strconv.Quote(e.Param) + " was not found in bus file"
}

// A NameExpandError reports a bus signal name that could not be expanded.
type NameExpandError struct {
	Signal string
	Reason string
}

func (e *NameExpandError) Error() string {
	return "improperly formatted bus signal " + strconv.Quote(e.Signal) + ": " + e.Reason
}

// A VectorRangeError reports a vector range token that could not be expanded.
type VectorRangeError struct {
	Token  string
	Reason string
}

func (e *VectorRangeError) Error() string {
	return "bad vector range " + strconv.Quote(e.Token) + ": " + e.Reason
}

// A VectorLengthError reports a vector row whose width does not match the
// signal count.
type VectorLengthError struct {
	Vector string
	Width  int
	Want   int
}

func (e *VectorLengthError) Error() string {
	return "vector " + strconv.Quote(e.Vector) + " has length " +
		strconv.Itoa(e.Width) + " and should have length " + strconv.Itoa(e.Want)
}

// An InvalidEdgeError reports an edge setting outside rising/falling/none.
type InvalidEdgeError struct {
	Edge string
}

func (e *InvalidEdgeError) Error() string {
	return "invalid edge value " + strconv.Quote(e.Edge) + ": valid values are rising, falling, none"
}

// An OutputCountError reports an output section whose vector row count does
// not match the input section.
type OutputCountError struct {
	Inputs  int
	Outputs int
}

func (e *OutputCountError) Error() string {
	return "number of output vectors (" + strconv.Itoa(e.Outputs) +
		") does not match number of input vectors (" + strconv.Itoa(e.Inputs) + ")"
}
