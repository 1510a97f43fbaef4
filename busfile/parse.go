// Copyright 2026 Dan White <dan@whiteaudio.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package busfile

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/cockroachdb/apd/v3"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/etihwnad/ee-tools/unit"
)

// A Parser parses bus files. The zero value is a strict parser logging to
// the logrus standard logger.
type Parser struct {
	// Permissive passes malformed bus signal names through as single
	// wires (with a warning) instead of failing the parse.
	Permissive bool
	// Log receives warnings about recoverable problems, such as unknown
	// parameter names. Defaults to the logrus standard logger.
	Log logrus.FieldLogger
}

// Parse parses a bus file with a strict zero-value Parser.
func Parse(r io.Reader) (*File, error) {
	var p Parser
	return p.Parse(r)
}

// ParseFile parses the bus file at path with a strict zero-value Parser.
func ParseFile(path string) (*File, error) {
	var p Parser
	return p.ParseFile(path)
}

// ParseFile parses the bus file at path.
func (p *Parser) ParseFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "no bus file")
	}
	defer f.Close()
	bf, err := p.Parse(f)
	return bf, errors.Wrap(err, path)
}

// Parse parses a bus file. Parsing is all or nothing: any structural
// problem returns a nil File.
func (p *Parser) Parse(r io.Reader) (*File, error) {
	cur, err := newCursor(r)
	if err != nil {
		return nil, err
	}

	params, err := p.readParams(cur)
	if err != nil {
		return nil, err
	}
	signals, err := p.readSignals(cur, "signals:")
	if err != nil {
		return nil, err
	}
	vectors, err := p.readVectors(cur, len(signals))
	if err != nil {
		return nil, err
	}

	f := &File{Params: *params, Signals: zip(signals, vectors)}

	line, ok := cur.peekContent()
	if !ok {
		return f, nil
	}
	if !strings.EqualFold(firstToken(line), "outputs:") {
		return nil, errors.Errorf("expected \"Outputs:\" or end of file, got %q", line)
	}
	// Output vectors only make sense with the setup/hold windows that
	// verification samples with.
	if params.Tsu == nil {
		return nil, &ParamMissingError{Param: "tsu"}
	}
	if params.Th == nil {
		return nil, &ParamMissingError{Param: "th"}
	}
	outSignals, err := p.readSignals(cur, "outputs:")
	if err != nil {
		return nil, err
	}
	outVectors, err := p.readVectors(cur, len(outSignals))
	if err != nil {
		return nil, err
	}
	if len(outVectors) != len(vectors) {
		return nil, &OutputCountError{Inputs: len(vectors), Outputs: len(outVectors)}
	}
	f.Outputs = zip(outSignals, outVectors)
	return f, nil
}

func (p *Parser) logger() logrus.FieldLogger {
	if p.Log != nil {
		return p.Log
	}
	return logrus.StandardLogger()
}

// parameter names recognized in the header section. Required parameters
// are checked once the Signals: keyword is reached.
var (
	requiredParams = []string{"risefall", "bittime", "bitlow", "bithigh"}
	optionalParams = []string{"edge", "clockdelay", "clockrisefall", "tsu", "th"}
)

// readParams reads name=value lines up to (and through) the Signals:
// keyword. Unknown parameter names are logged and ignored.
func (p *Parser) readParams(cur *cursor) (*Params, error) {
	seen := make(map[string]string)
	for {
		line, ok := cur.nextContent()
		if !ok {
			return nil, errors.New(`keyword "Signals:" not found`)
		}
		if strings.EqualFold(firstToken(line), "signals:") {
			break
		}
		name, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, errors.Errorf("improperly formatted parameter line %q", line)
		}
		name = strings.ToLower(strings.TrimSpace(name))
		value = strings.TrimSpace(value)
		if !knownParam(name) {
			p.logger().Warnf("unknown parameter %q ignored", name)
			continue
		}
		seen[name] = value
	}

	for _, name := range requiredParams {
		if seen[name] == "" {
			return nil, &ParamMissingError{Param: name}
		}
	}

	params := &Params{Edge: EdgeRising}
	if e, ok := seen["edge"]; ok {
		switch strings.ToLower(e) {
		case "rising":
			params.Edge = EdgeRising
		case "falling":
			params.Edge = EdgeFalling
		case "none":
			params.Edge = EdgeNone
		default:
			return nil, &InvalidEdgeError{Edge: e}
		}
	}
	num := func(name string) (*apd.Decimal, error) {
		v, ok := seen[name]
		if !ok {
			return nil, nil
		}
		d, err := unit.Parse(v)
		return d, errors.Wrap(err, "parameter "+name)
	}
	for _, f := range []struct {
		name string
		dst  **apd.Decimal
	}{
		{"risefall", &params.RiseFall},
		{"bittime", &params.BitTime},
		{"bitlow", &params.BitLow},
		{"bithigh", &params.BitHigh},
		{"clockdelay", &params.ClockDelay},
		{"clockrisefall", &params.ClockRiseFall},
		{"tsu", &params.Tsu},
		{"th", &params.Th},
	} {
		d, err := num(f.name)
		if err != nil {
			return nil, err
		}
		*f.dst = d
	}
	return params, nil
}

func knownParam(name string) bool {
	for _, p := range requiredParams {
		if name == p {
			return true
		}
	}
	for _, p := range optionalParams {
		if name == p {
			return true
		}
	}
	return false
}

// readSignals reads the section keyword (Signals: or Outputs:) and the
// signal name lines that follow, up to and through the Vectors: keyword.
// Bus names are expanded to individual wires.
func (p *Parser) readSignals(cur *cursor, keyword string) ([]string, error) {
	line, ok := cur.nextContent()
	if !ok {
		return nil, errors.Errorf("keyword %q expected, found end of file", keyword)
	}
	if !strings.EqualFold(firstToken(line), keyword) {
		return nil, errors.Errorf("keyword %q expected, found %q", keyword, firstToken(line))
	}

	var signals []string
	for {
		line, ok := cur.nextContent()
		if !ok {
			return nil, errors.New(`keyword "Vectors:" not reached before end of file`)
		}
		if strings.EqualFold(firstToken(line), "vectors:") {
			break
		}
		for _, tok := range strings.Fields(line) {
			if !strings.ContainsAny(tok, "[]") {
				signals = append(signals, tok)
				continue
			}
			nodes, err := p.expandName(tok)
			if err != nil {
				return nil, err
			}
			signals = append(signals, nodes...)
		}
	}
	if len(signals) == 0 {
		return nil, errors.Errorf("no signal names found in %q section", keyword)
	}
	return signals, nil
}

// readVectors reads vector rows until end of file or an Outputs: line
// (left unconsumed). Each row must assemble to exactly width bits.
func (p *Parser) readVectors(cur *cursor, width int) ([]string, error) {
	var rows []string
	for {
		line, ok := cur.peekContent()
		if !ok || strings.EqualFold(firstToken(line), "outputs:") {
			break
		}
		cur.nextContent()

		lineRows := []string{""}
		for _, tok := range strings.Fields(line) {
			if !strings.ContainsAny(tok, "[]") {
				bits, err := binWord(tok)
				if err != nil {
					return nil, err
				}
				for i := range lineRows {
					lineRows[i] += bits
				}
				continue
			}
			expanded, err := ExpandRange(tok)
			if err != nil {
				return nil, err
			}
			if len(lineRows) > 1 {
				// A second range on the same line must pair up
				// row for row with the first.
				if len(expanded) != len(lineRows) {
					return nil, &VectorRangeError{Token: tok,
						Reason: "ranges on the same line must have the same length"}
				}
				for i := range lineRows {
					lineRows[i] += expanded[i]
				}
				continue
			}
			pre := lineRows[0]
			lineRows = make([]string, len(expanded))
			for i, e := range expanded {
				lineRows[i] = pre + e
			}
		}

		for _, row := range lineRows {
			if len(row) != width {
				return nil, &VectorLengthError{Vector: row, Width: len(row), Want: width}
			}
		}
		rows = append(rows, lineRows...)
	}
	if len(rows) == 0 {
		return nil, errors.New("no vector rows found")
	}
	return rows, nil
}

// zip transposes vector rows into per-signal bit sequences.
func zip(signals []string, rows []string) []Signal {
	out := make([]Signal, len(signals))
	for i, name := range signals {
		bits := make([]byte, len(rows))
		for j, row := range rows {
			bits[j] = row[i]
		}
		out[i] = Signal{Name: name, Bits: string(bits)}
	}
	return out
}

func firstToken(line string) string {
	f := strings.Fields(line)
	if len(f) == 0 {
		return ""
	}
	return f[0]
}

// cursor is a one-line-lookahead reader over the input text. Section
// boundaries peek at the next content line without consuming it.
type cursor struct {
	lines []string
	pos   int
}

func newCursor(r io.Reader) (*cursor, error) {
	var lines []string
	s := bufio.NewScanner(r)
	for s.Scan() {
		lines = append(lines, s.Text())
	}
	if err := s.Err(); err != nil {
		return nil, errors.Wrap(err, "reading bus file")
	}
	return &cursor{lines: lines}, nil
}

// peekContent returns the next non-blank, non-comment line without
// consuming it.
func (c *cursor) peekContent() (string, bool) {
	for i := c.pos; i < len(c.lines); i++ {
		t := strings.TrimSpace(c.lines[i])
		if t == "" || strings.HasPrefix(t, "#") {
			continue
		}
		c.pos = i
		return t, true
	}
	c.pos = len(c.lines)
	return "", false
}

// nextContent returns and consumes the next non-blank, non-comment line.
func (c *cursor) nextContent() (string, bool) {
	line, ok := c.peekContent()
	if ok {
		c.pos++
	}
	return line, ok
}
