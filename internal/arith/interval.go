// Package arith provides outward-rounded interval arithmetic over the reals
// and rectangular enclosures of complex sets.
//
// Every operation returns an enclosure of the exact image set: lower bounds
// are rounded toward -Inf and upper bounds toward +Inf by one ulp, so results
// never underestimate the true extent.
package arith

import (
	"fmt"
	"math"
)

// Interval is the closed real interval [Lo, Hi].
type Interval struct {
	Lo float64
	Hi float64
}

// Exact returns the degenerate interval [x, x].
func Exact(x float64) Interval {
	return Interval{Lo: x, Hi: x}
}

// Around returns [mid-rad, mid+rad], widened by a few ulps of the magnitude
// so that points computed from unrounded digits still fall inside.
func Around(mid, rad float64) Interval {
	rad = math.Abs(rad)
	pad := (math.Abs(mid) + rad) * 0x1p-50
	return Interval{Lo: down(mid - rad - pad), Hi: up(mid + rad + pad)}
}

// Entire is the whole real line.
var Entire = Interval{Lo: math.Inf(-1), Hi: math.Inf(1)}

func down(x float64) float64 { return math.Nextafter(x, math.Inf(-1)) }
func up(x float64) float64   { return math.Nextafter(x, math.Inf(1)) }

// rounded widens [lo, hi] outward by one ulp. An undefined end, as from
// Inf-Inf or 0*Inf, makes the result Entire.
func rounded(lo, hi float64) Interval {
	if math.IsNaN(lo) || math.IsNaN(hi) {
		return Entire
	}
	return Interval{Lo: down(lo), Hi: up(hi)}
}

// IsNaN reports whether either end of a is undefined.
func (a Interval) IsNaN() bool {
	return math.IsNaN(a.Lo) || math.IsNaN(a.Hi)
}

// Add returns a + b.
func (a Interval) Add(b Interval) Interval {
	return rounded(a.Lo+b.Lo, a.Hi+b.Hi)
}

// Sub returns a - b.
func (a Interval) Sub(b Interval) Interval {
	return rounded(a.Lo-b.Hi, a.Hi-b.Lo)
}

// Neg returns -a. Negation is exact.
func (a Interval) Neg() Interval {
	return Interval{Lo: -a.Hi, Hi: -a.Lo}
}

// Mul returns a * b.
func (a Interval) Mul(b Interval) Interval {
	p1 := a.Lo * b.Lo
	p2 := a.Lo * b.Hi
	p3 := a.Hi * b.Lo
	p4 := a.Hi * b.Hi
	lo := math.Min(math.Min(p1, p2), math.Min(p3, p4))
	hi := math.Max(math.Max(p1, p2), math.Max(p3, p4))
	return rounded(lo, hi)
}

// Scale returns k * a for an exact scalar k.
func (a Interval) Scale(k float64) Interval {
	return a.Mul(Exact(k))
}

// Square returns {x*x : x in a}, which is tighter than a.Mul(a) when a
// straddles zero.
func (a Interval) Square() Interval {
	if a.IsNaN() {
		return Interval{Lo: 0, Hi: math.Inf(1)}
	}
	if a.Lo >= 0 {
		return rounded(a.Lo*a.Lo, a.Hi*a.Hi)
	}
	if a.Hi <= 0 {
		return rounded(a.Hi*a.Hi, a.Lo*a.Lo)
	}
	m := math.Max(-a.Lo, a.Hi)
	return Interval{Lo: 0, Hi: up(m * m)}
}

// Recip returns 1/a. ok is false when a contains zero.
func (a Interval) Recip() (Interval, bool) {
	if a.IsNaN() || a.Contains(0) {
		return Entire, false
	}
	return rounded(1/a.Hi, 1/a.Lo), true
}

// Contains reports whether x lies in a.
func (a Interval) Contains(x float64) bool {
	return a.Lo <= x && x <= a.Hi
}

// Excludes reports whether x is provably outside a. An undefined interval
// excludes nothing.
func (a Interval) Excludes(x float64) bool {
	return a.Lo > x || a.Hi < x
}

// Below reports whether every point of a is strictly below x.
func (a Interval) Below(x float64) bool {
	return a.Hi < x
}

// Above reports whether every point of a is strictly above x.
func (a Interval) Above(x float64) bool {
	return a.Lo > x
}

// Mid returns the midpoint of a.
func (a Interval) Mid() float64 {
	return a.Lo + (a.Hi-a.Lo)/2
}

// Width returns Hi - Lo.
func (a Interval) Width() float64 {
	return a.Hi - a.Lo
}

// ContainsInteger reports whether some integer may lie in a. It is true
// for unbounded and undefined intervals.
func (a Interval) ContainsInteger() bool {
	if a.IsNaN() || math.IsInf(a.Lo, 0) || math.IsInf(a.Hi, 0) {
		return true
	}
	return math.Floor(a.Hi) >= a.Lo
}

func (a Interval) String() string {
	return fmt.Sprintf("[%g, %g]", a.Lo, a.Hi)
}
