package arith

import "fmt"

// Complex is a rectangular enclosure {x + iy : x in Re, y in Im}.
type Complex struct {
	Re Interval
	Im Interval
}

// Point returns the degenerate enclosure of z.
func Point(z complex128) Complex {
	return Complex{Re: Exact(real(z)), Im: Exact(imag(z))}
}

// Rect returns the enclosure of the rectangle centered at z with the given
// real and imaginary half-widths.
func Rect(z complex128, reRad, imRad float64) Complex {
	return Complex{Re: Around(real(z), reRad), Im: Around(imag(z), imRad)}
}

// Add returns a + b.
func (a Complex) Add(b Complex) Complex {
	return Complex{Re: a.Re.Add(b.Re), Im: a.Im.Add(b.Im)}
}

// Sub returns a - b.
func (a Complex) Sub(b Complex) Complex {
	return Complex{Re: a.Re.Sub(b.Re), Im: a.Im.Sub(b.Im)}
}

// Neg returns -a.
func (a Complex) Neg() Complex {
	return Complex{Re: a.Re.Neg(), Im: a.Im.Neg()}
}

// Mul returns a * b.
func (a Complex) Mul(b Complex) Complex {
	return Complex{
		Re: a.Re.Mul(b.Re).Sub(a.Im.Mul(b.Im)),
		Im: a.Re.Mul(b.Im).Add(a.Im.Mul(b.Re)),
	}
}

// Conj returns the complex conjugate of a.
func (a Complex) Conj() Complex {
	return Complex{Re: a.Re, Im: a.Im.Neg()}
}

// Abs2 returns an enclosure of |z|^2 over a.
func (a Complex) Abs2() Interval {
	return a.Re.Square().Add(a.Im.Square())
}

// Inv returns an enclosure of 1/z over a. ok is false when a may contain
// zero, in which case the result is meaningless.
func (a Complex) Inv() (Complex, bool) {
	r, ok := a.Abs2().Recip()
	if !ok {
		return Complex{}, false
	}
	c := a.Conj()
	return Complex{Re: c.Re.Mul(r), Im: c.Im.Mul(r)}, true
}

// Contains reports whether z lies in a.
func (a Complex) Contains(z complex128) bool {
	return a.Re.Contains(real(z)) && a.Im.Contains(imag(z))
}

// Mid returns the center of the rectangle.
func (a Complex) Mid() complex128 {
	return complex(a.Re.Mid(), a.Im.Mid())
}

func (a Complex) String() string {
	return fmt.Sprintf("%v+i%v", a.Re, a.Im)
}
