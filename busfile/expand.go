// Copyright 2026 Dan White <dan@whiteaudio.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package busfile

import (
	"fmt"
	"strconv"
	"strings"
)

// ExpandName expands bus notation in a signal name into individual wire
// names. "bus[4:0]" expands to bus[4], bus[3], ... bus[0]; "bus[0:4]"
// counts up instead. A suffix after the closing bracket is carried onto
// every wire: "d[1:0]_in" gives d[1]_in, d[0]_in.
//
// Only a complete bus expands. Anything with a bracket but missing one of
// '[', ':' or ']', or with non-integer bounds, returns a *NameExpandError:
// users get told instead of silently getting bogus wires.
func ExpandName(signal string) ([]string, error) {
	// anatomy of a bus signal: name[left:right]suffix
	name, tail, lbrack := strings.Cut(signal, "[")
	left, end, colon := strings.Cut(tail, ":")
	right, suffix, rbrack := strings.Cut(end, "]")

	if name == "" {
		return nil, &NameExpandError{Signal: signal, Reason: "no signal name"}
	}
	if !lbrack || !colon || !rbrack {
		return nil, &NameExpandError{Signal: signal, Reason: "one of ([,:,]) is missing"}
	}

	start, err := strconv.Atoi(left)
	if err != nil {
		return nil, &NameExpandError{Signal: signal, Reason: "bad bus range start " + strconv.Quote(left)}
	}
	stop, err := strconv.Atoi(right)
	if err != nil {
		return nil, &NameExpandError{Signal: signal, Reason: "bad bus range stop " + strconv.Quote(right)}
	}

	inc := 1
	if stop < start { // [4:0] or [0:4]
		inc = -1
	}
	nodes := make([]string, 0, (stop-start)*inc+1)
	for i := start; i != stop+inc; i += inc {
		nodes = append(nodes, fmt.Sprintf("%s[%d]%s", name, i, suffix))
	}
	return nodes, nil
}

// expandName applies ExpandName, honoring the parser's permissive mode: a
// malformed (but named) bus passes through as a single wire with a warning
// instead of failing the parse.
func (p *Parser) expandName(signal string) ([]string, error) {
	nodes, err := ExpandName(signal)
	if err == nil {
		return nodes, nil
	}
	if !p.Permissive {
		return nil, err
	}
	name, _, _ := strings.Cut(signal, "[")
	if name == "" {
		return nil, err
	}
	if strings.Contains(signal, ":") {
		// Complete-looking bus with bad bounds: keep the full text.
		p.logger().Warnf("bad bus range in %q, passing through as wire", signal)
		return []string{signal}, nil
	}
	p.logger().Warnf("improperly specified bus %q, passing through as wire %q", signal, name)
	return []string{name}, nil
}

// ExpandRange expands a vector range token "[N](start,stop)" or
// "[N](start,step,stop)" into N-bit zero-padded binary strings for every
// integer from start to stop inclusive. The direction comes from comparing
// start and stop numerically; step gives the stride magnitude. start and
// stop accept decimal, "0x" hex or "0b" binary literals.
func ExpandRange(token string) ([]string, error) {
	bad := func(reason string) error {
		return &VectorRangeError{Token: token, Reason: reason}
	}

	head, tail, ok := strings.Cut(token, "]")
	if !ok || !strings.HasPrefix(head, "[") {
		return nil, bad("expected [nbits](start,stop)")
	}
	nbits, err := strconv.Atoi(head[1:])
	if err != nil || nbits < 1 || nbits > 62 {
		return nil, bad("bad bit count " + strconv.Quote(head[1:]))
	}
	if !strings.HasPrefix(tail, "(") || !strings.HasSuffix(tail, ")") {
		return nil, bad("expected (start,stop) after bit count")
	}

	parts := strings.Split(tail[1:len(tail)-1], ",")
	var startTok, stopTok string
	step := int64(1)
	switch len(parts) {
	case 2:
		startTok, stopTok = parts[0], parts[1]
	case 3:
		startTok, stopTok = parts[0], parts[2]
		step, err = strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
		if err != nil {
			return nil, bad("bad step " + strconv.Quote(parts[1]))
		}
		if step < 0 {
			step = -step
		}
		if step == 0 {
			return nil, bad("step must be nonzero")
		}
	default:
		return nil, bad("expected (start,stop) or (start,step,stop)")
	}

	start, err := parseIntLiteral(startTok)
	if err != nil {
		return nil, bad("bad range start " + strconv.Quote(startTok))
	}
	stop, err := parseIntLiteral(stopTok)
	if err != nil {
		return nil, bad("bad range stop " + strconv.Quote(stopTok))
	}
	if start < 0 || stop < 0 {
		return nil, bad("range values must be non-negative")
	}
	if max := int64(1)<<uint(nbits) - 1; start > max || stop > max {
		return nil, bad("insufficient bits to express range")
	}

	if stop < start {
		step = -step
	}
	var out []string
	for v := start; (step > 0 && v <= stop) || (step < 0 && v >= stop); v += step {
		out = append(out, fmt.Sprintf("%0*b", nbits, v))
	}
	return out, nil
}

// parseIntLiteral parses a decimal, "0x" hex or "0b" binary integer.
func parseIntLiteral(s string) (int64, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.HasPrefix(s, "0x"):
		return strconv.ParseInt(s[2:], 16, 64)
	case strings.HasPrefix(s, "0b"):
		return strconv.ParseInt(s[2:], 2, 64)
	default:
		return strconv.ParseInt(s, 10, 64)
	}
}

// binWord converts a literal vector token to a string of 0s and 1s. Hex
// tokens expand to four bits per digit, zero-padded; "0b" tokens drop the
// prefix; anything else must already be a binary literal.
func binWord(token string) (string, error) {
	switch {
	case strings.HasPrefix(token, "0x"), strings.HasPrefix(token, "0X"):
		var b strings.Builder
		for _, r := range token[2:] {
			v, err := strconv.ParseUint(string(r), 16, 8)
			if err != nil {
				return "", &VectorRangeError{Token: token, Reason: "bad hex digit " + strconv.Quote(string(r))}
			}
			fmt.Fprintf(&b, "%04b", v)
		}
		return b.String(), nil
	case strings.HasPrefix(token, "0b"), strings.HasPrefix(token, "0B"):
		token = token[2:]
		fallthrough
	default:
		for _, r := range token {
			if r != '0' && r != '1' {
				return "", &VectorRangeError{Token: token, Reason: "not a binary literal"}
			}
		}
		return token, nil
	}
}
