// Package dec wraps a single apd context so that exact decimal arithmetic
// stays expression-shaped at call sites. All waveform timing math must stay
// in decimal; binary floats drift across repeated additions.
package dec

import "github.com/cockroachdb/apd/v3"

// 50 digits covers any realistic combination of engineering-unit values.
var ctx = apd.BaseContext.WithPrecision(50)

// MustParse parses a decimal literal known at compile time.
func MustParse(s string) *apd.Decimal {
	d, _, err := apd.NewFromString(s)
	if err != nil {
		panic("dec: bad literal " + s + ": " + err.Error())
	}
	return d
}

// Parse parses a decimal string.
func Parse(s string) (*apd.Decimal, error) {
	d, _, err := apd.NewFromString(s)
	return d, err
}

// Add returns x + y.
func Add(x, y *apd.Decimal) *apd.Decimal {
	z := new(apd.Decimal)
	ctx.Add(z, x, y)
	return z
}

// Sub returns x - y.
func Sub(x, y *apd.Decimal) *apd.Decimal {
	z := new(apd.Decimal)
	ctx.Sub(z, x, y)
	return z
}

// Mul returns x * y.
func Mul(x, y *apd.Decimal) *apd.Decimal {
	z := new(apd.Decimal)
	ctx.Mul(z, x, y)
	return z
}

// Float returns the nearest float64. Used only at the boundary with
// simulator trace data, which is float-valued anyway.
func Float(x *apd.Decimal) float64 {
	f, err := x.Float64()
	if err != nil {
		panic("dec: " + err.Error())
	}
	return f
}
