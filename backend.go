package cplxfnc

import (
	"math"
	"math/cmplx"
)

// smallestNormal guards relative errors of midpoints at or near zero.
const smallestNormal = 0x1p-1022

// Ball is a certified enclosure: the exact value lies within Rad of Mid.
// Rad is +Inf when the backend could not enclose the value at all.
type Ball struct {
	Mid complex128
	Rad float64
}

// Finite reports whether b encloses a finite value.
func (b Ball) Finite() bool {
	return !math.IsInf(b.Rad, 0) && !math.IsNaN(b.Rad) && !cmplx.IsNaN(b.Mid)
}

// RelErr returns Rad relative to |Mid|, or +Inf for a non-finite ball.
// An exact zero (Mid == 0, Rad == 0) has relative error 0.
func (b Ball) RelErr() float64 {
	if !b.Finite() {
		return math.Inf(1)
	}
	if b.Rad == 0 {
		return 0
	}
	return b.Rad / math.Max(cmplx.Abs(b.Mid), smallestNormal)
}

// Backend evaluates functions in ball arithmetic at a fixed working
// precision. Implementations must be deterministic and free of shared
// mutable state, and the radius they return must not grow with prec.
type Backend interface {
	Zeta(s, a complex128, prec uint) (Ball, error)
	GammaInc(s, z complex128, prec uint) (Ball, error)
}
