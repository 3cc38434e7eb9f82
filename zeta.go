package cplxfnc

import (
	"math"
	"math/cmplx"
)

// nonPositiveInt reports whether v is 0, -1, -2, ...
func nonPositiveInt(v complex128) bool {
	return imag(v) == 0 && real(v) <= 0 && real(v) == math.Trunc(real(v))
}

// zeta drives the backend's Hurwitz zeta through an Escalator. A at a
// non-positive integer is rejected up front; the pole at s = 1 comes back
// from the backend as a non-finite ball. Both surface as ErrInvalidArgument.
func (e *Evaluator) zeta(cfg Config, s, a complex128) (Result, error) {
	if cmplx.IsNaN(s) || cmplx.IsInf(s) || cmplx.IsNaN(a) || cmplx.IsInf(a) {
		return Result{}, newError("zeta", ErrInvalidArgument, "arguments must be finite", s, a)
	}
	if nonPositiveInt(a) {
		return Result{}, newError("zeta", ErrInvalidArgument, "a is a non-positive integer (pole)", s, a)
	}
	esc := Escalator{InitPrec: cfg.ZetaPrec, Limit: cfg.Limit, Logger: e.logger}
	return esc.Evaluate("zeta", func(prec uint) (Ball, error) {
		return e.backend.Zeta(s, a, prec)
	}, cfg.Tol, s, a)
}
