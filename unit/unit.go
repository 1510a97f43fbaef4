// Copyright 2026 Dan White <dan@whiteaudio.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package unit converts engineering-notation numeric literals ("3.0u",
// "100n", "2.5meg") to exact decimal values.
//
package unit

import (
	"regexp"
	"strings"

	"github.com/cockroachdb/apd/v3"

	"github.com/etihwnad/ee-tools/internal/dec"
)

// A ParseError reports a literal whose numeric prefix could not be parsed.
type ParseError struct {
	Input string
}

func (e *ParseError) Error() string {
	return "bad unit: " + e.Input
}

// reUnit splits a literal into its numeric prefix and an optional
// engineering suffix. Longer suffixes (meg, mil) must come before their
// one-letter prefixes in the alternation.
var reUnit = regexp.MustCompile(`^([0-9e+\-.]+)(t|g|meg|x|k|mil|m|u|n|p|f)?`)

var multiplier = map[string]*apd.Decimal{
	"t":   dec.MustParse("1.0e12"),
	"g":   dec.MustParse("1.0e9"),
	"meg": dec.MustParse("1.0e6"),
	"x":   dec.MustParse("1.0e6"),
	"k":   dec.MustParse("1.0e3"),
	"mil": dec.MustParse("25.4e-6"),
	"m":   dec.MustParse("1.0e-3"),
	"u":   dec.MustParse("1.0e-6"),
	"n":   dec.MustParse("1.0e-9"),
	"p":   dec.MustParse("1.0e-12"),
	"f":   dec.MustParse("1.0e-15"),
}

// Parse converts an engineering-notation literal to its exact decimal
// value: Parse("3.0u") equals Parse("3.0e-6"). Suffixes are matched
// case-insensitively; anything after a recognized suffix is ignored, so
// "100ns" parses as 100n.
func Parse(s string) (*apd.Decimal, error) {
	m := reUnit.FindStringSubmatch(strings.ToLower(strings.TrimSpace(s)))
	if m == nil || m[1] == "" {
		return nil, &ParseError{Input: s}
	}
	d, err := dec.Parse(m[1])
	if err != nil {
		return nil, &ParseError{Input: s}
	}
	if m[2] == "" {
		return d, nil
	}
	return dec.Mul(d, multiplier[m[2]]), nil
}
