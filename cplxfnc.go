// Package cplxfnc evaluates the Hurwitz zeta function ζ(s, a) and the upper
// incomplete gamma function Γ(s, z) for complex arguments to a requested
// relative tolerance, down to double-precision rounding.
//
// Values are computed in ball arithmetic (Arb, via cgo): each attempt
// returns a midpoint and a certified radius, and the working precision is
// doubled until the radius relative to the midpoint is at most tol. For
// |z| >= Crossover the incomplete gamma function is summed from its
// asymptotic expansion instead, with an explicit truncation bound. A value
// is either certified to tol or the call fails; see ErrToleranceUnreachable,
// ErrAsymptoticDomain and ErrInvalidArgument.
//
// Build requirements: libflint (>= 3.0) for the Arb backend and libmpc,
// libmpfr, libgmp for the series arithmetic.
//
// Minimal usage:
//
//	v, err := cplxfnc.Zeta(2, 1, 1e-16) // π²/6
//	g, err := cplxfnc.GammaInc(-0.1, -3.4, 1e-16)
//
// SPDX-License-Identifier: MIT
package cplxfnc

import "sync"

var defaultEvaluator = sync.OnceValues(func() (*Evaluator, error) { return New() })

func withTol(tol float64) (*Evaluator, Config, error) {
	e, err := defaultEvaluator()
	if err != nil {
		return nil, Config{}, err
	}
	cfg := e.Config()
	cfg.Tol = tol
	return e, cfg, nil
}

// Zeta returns ζ(s, a) with relative error at most tol using the default
// configuration.
func Zeta(s, a complex128, tol float64) (complex128, error) {
	e, cfg, err := withTol(tol)
	if err != nil {
		return 0, err
	}
	r, err := e.zeta(cfg, s, a)
	return r.Value, err
}

// GammaInc returns Γ(s, z) with relative error at most tol using the
// default configuration. See Evaluator.GammaInc for the branch convention.
func GammaInc(s, z complex128, tol float64) (complex128, error) {
	e, cfg, err := withTol(tol)
	if err != nil {
		return 0, err
	}
	r, err := e.gammaInc(cfg, s, z)
	return r.Value, err
}
