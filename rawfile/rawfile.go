// Copyright 2026 Dan White <dan@whiteaudio.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package rawfile reads LTspice-style ASCII raw files. It is a plain data
// provider for the verify package: a shared time axis plus named traces
// aligned to it. Binary and complex (AC analysis) raw files are rejected.
//
package rawfile

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// A File holds the traces of one simulation run. It implements
// verify.TraceSet.
type File struct {
	Title    string
	Plotname string

	names []string // trace names in file order, names[0] is the axis
	time  []float64
	data  map[string][]float64
}

// Open reads the raw file at path.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "no raw file")
	}
	defer f.Close()
	rf, err := Read(f)
	return rf, errors.Wrap(err, path)
}

// Read parses an ASCII raw file.
func Read(r io.Reader) (*File, error) {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	f := &File{data: make(map[string][]float64)}
	nvars, npoints := 0, 0

	for s.Scan() {
		line := s.Text()
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "title":
			f.Title = value
		case "plotname":
			f.Plotname = value
		case "flags":
			if strings.Contains(strings.ToLower(value), "complex") {
				return nil, errors.New("complex raw data is not supported")
			}
		case "no. variables":
			n, err := strconv.Atoi(value)
			if err != nil {
				return nil, errors.Errorf("bad variable count %q", value)
			}
			nvars = n
		case "no. points":
			n, err := strconv.Atoi(value)
			if err != nil {
				return nil, errors.Errorf("bad point count %q", value)
			}
			npoints = n
		case "binary":
			return nil, errors.New("binary raw files are not supported, re-run the simulation with ASCII output")
		case "variables":
			if err := f.readVariables(s, nvars); err != nil {
				return nil, err
			}
		case "values":
			if err := f.readValues(s, nvars, npoints); err != nil {
				return nil, err
			}
			return f, nil
		}
	}
	if err := s.Err(); err != nil {
		return nil, errors.Wrap(err, "reading raw file")
	}
	return nil, errors.New("no Values section found in raw file")
}

func (f *File) readVariables(s *bufio.Scanner, nvars int) error {
	if nvars < 1 {
		return errors.New("Variables section before variable count")
	}
	for i := 0; i < nvars; i++ {
		if !s.Scan() {
			return errors.New("truncated Variables section")
		}
		// index, name, kind
		fields := strings.Fields(s.Text())
		if len(fields) < 2 {
			return errors.Errorf("bad variable line %q", s.Text())
		}
		f.names = append(f.names, fields[1])
	}
	return nil
}

func (f *File) readValues(s *bufio.Scanner, nvars, npoints int) error {
	if len(f.names) != nvars {
		return errors.New("Values section before Variables section")
	}
	f.time = make([]float64, 0, npoints)
	for _, n := range f.names[1:] {
		f.data[n] = make([]float64, 0, npoints)
	}
	for p := 0; p < npoints; p++ {
		for v := 0; v < nvars; v++ {
			if !s.Scan() {
				return errors.Errorf("truncated Values section at point %d", p)
			}
			fields := strings.Fields(s.Text())
			// the first variable of each point carries the point index
			if v == 0 {
				if len(fields) != 2 {
					return errors.Errorf("bad point header %q", s.Text())
				}
				fields = fields[1:]
			}
			if len(fields) != 1 {
				return errors.Errorf("bad value line %q", s.Text())
			}
			val, err := strconv.ParseFloat(fields[0], 64)
			if err != nil {
				return errors.Wrapf(err, "bad value at point %d", p)
			}
			if v == 0 {
				f.time = append(f.time, val)
			} else {
				name := f.names[v]
				f.data[name] = append(f.data[name], val)
			}
		}
	}
	return nil
}

// Names lists the trace names, the time axis first.
func (f *File) Names() []string { return f.names }

// Time returns the shared time axis.
func (f *File) Time() []float64 { return f.time }

// Samples returns the samples of a named trace.
func (f *File) Samples(name string) ([]float64, bool) {
	d, ok := f.data[name]
	return d, ok
}
