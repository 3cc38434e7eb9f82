package cplxfnc

import (
	"math"
	"math/cmplx"

	"github.com/cimatosa/cplxfnc/mpc"
	"go.uber.org/zap"
)

const (
	// Crossover is the |z| from which GammaInc switches to the asymptotic series.
	Crossover = 100

	// MaxAsympOrder bounds |1-s| in the asymptotic regime. Up to this order
	// the series guard cannot trip for |z| >= Crossover; larger orders go
	// to the backend.
	MaxAsympOrder = 20
)

// asymptotic reports whether Γ(s, z) is evaluated from the series.
func asymptotic(s, z complex128) bool {
	return cmplx.Abs(z) >= Crossover && cmplx.Abs(1-s) <= MaxAsympOrder
}

// belowCut reports whether z lies on the negative real axis approached
// from below, which a caller signals with a negative zero imaginary part.
func belowCut(z complex128) bool {
	return real(z) < 0 && imag(z) == 0 && math.Signbit(imag(z))
}

func (e *Evaluator) gammaInc(cfg Config, s, z complex128) (Result, error) {
	if !validTol(cfg.Tol) {
		return Result{}, newError("gamma_inc", ErrInvalidArgument, "tol must be positive and finite", s, z)
	}
	if cmplx.IsNaN(s) || cmplx.IsInf(s) || cmplx.IsNaN(z) || cmplx.IsInf(z) {
		return Result{}, newError("gamma_inc", ErrInvalidArgument, "arguments must be finite", s, z)
	}

	// On the cut, the limit from below is the reflection of the principal
	// value: Γ(s, x-i0) = conj(Γ(conj(s), x+i0)).
	if belowCut(z) {
		r, err := e.gammaInc(cfg, cmplx.Conj(s), complex(real(z), 0))
		if err != nil {
			return Result{}, labelled(err, "gamma_inc", s, z)
		}
		r.Value = cmplx.Conj(r.Value)
		return r, nil
	}

	if asymptotic(s, z) {
		e.logger.Debug("asymptotic regime", zap.Complex128("s", s), zap.Complex128("z", z))
		return gammaIncAsymp(s, z, cfg.Tol)
	}

	esc := Escalator{InitPrec: cfg.GammaPrec, Limit: cfg.Limit, Logger: e.logger}
	return esc.Evaluate("gamma_inc", func(prec uint) (Ball, error) {
		return e.backend.GammaInc(s, z, prec)
	}, cfg.Tol, s, z)
}

// gammaIncAsymp evaluates Γ(s, z) = e^{-z} z^{s-1} Σ_k (1-s)_k (-1/z)^k,
// i.e. UAsymp(1-s, 1-s, z) scaled back, entirely at high precision.
func gammaIncAsymp(s, z complex128, tol float64) (Result, error) {
	// exp((s-1) log z - z) needs extra bits to keep the relative error of
	// the exponential independent of |z|.
	_, exp := math.Frexp(cmplx.Abs(z))
	prec := uint(asympPrec + max(exp, 0) + 8)

	sm := mpc.New(prec).SetComplex128(s)
	zm := mpc.New(prec).SetComplex128(z)
	one := mpc.New(prec).SetComplex128(1)
	a := mpc.New(prec).Sub(one, sm)
	defer func() {
		sm.Close()
		zm.Close()
		one.Close()
		a.Close()
	}()

	ser, err := asympSeries(a, one, zm, prec)
	if err != nil {
		return Result{}, labelled(err, "gamma_inc", s, z)
	}
	defer ser.sum.Close()

	w := mpc.New(prec).Log(zm)
	defer w.Close()
	w.Mul(w, a).Neg(w).Sub(w, zm).Exp(w).Mul(w, ser.sum)
	v := w.Complex128()

	rel := ser.relErr()
	if rel > tol {
		return Result{}, &Error{Func: "gamma_inc", Args: []complex128{s, z}, Prec: prec, RelErr: rel,
			Reason: "asymptotic truncation error above tol", Err: ErrToleranceUnreachable}
	}
	if cmplx.IsInf(v) || cmplx.Abs(v) < smallestNormal {
		return Result{}, &Error{Func: "gamma_inc", Args: []complex128{s, z}, Prec: prec, RelErr: rel,
			Reason: "result outside double range", Err: ErrInvalidArgument}
	}
	return Result{Value: v, Prec: prec, Attempts: 1, RelErr: rel, Regime: RegimeAsymptotic}, nil
}
