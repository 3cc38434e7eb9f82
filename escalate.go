package cplxfnc

import (
	"math"
	"math/cmplx"

	"go.uber.org/zap"
)

// Regime identifies how a value was obtained.
type Regime int

const (
	// RegimeDirect means the backend was driven by an Escalator.
	RegimeDirect Regime = iota
	// RegimeAsymptotic means the value came from an asymptotic series.
	RegimeAsymptotic
)

func (r Regime) String() string {
	switch r {
	case RegimeDirect:
		return "direct"
	case RegimeAsymptotic:
		return "asymptotic"
	}
	return "unknown"
}

// Result is a certified value together with how it was obtained.
type Result struct {
	Value    complex128
	Prec     uint    // working precision of the accepted attempt
	Attempts int     // backend calls made
	RelErr   float64 // certified relative error, <= the requested tol
	Regime   Regime
}

// Op evaluates a function at the given working precision.
type Op func(prec uint) (Ball, error)

// Escalator retries an Op at doubling precision until the returned ball is
// tight enough. It holds no state between calls.
type Escalator struct {
	InitPrec uint // first working precision; 0 means 53
	Limit    int  // number of attempts; values < 1 mean 1
	Logger   *zap.Logger
}

// validTol reports whether tol is usable as a relative tolerance.
func validTol(tol float64) bool {
	return tol > 0 && !math.IsInf(tol, 1)
}

// Evaluate runs op until its relative radius is at most tol, doubling the
// precision after each failed attempt. It gives up after Limit attempts or
// when the next precision would exceed MaxPrec. fn and args only label
// logs and errors.
func (e *Escalator) Evaluate(fn string, op Op, tol float64, args ...complex128) (Result, error) {
	log := e.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if !validTol(tol) {
		return Result{}, newError(fn, ErrInvalidArgument, "tol must be positive and finite", args...)
	}
	prec := e.InitPrec
	if prec == 0 {
		prec = 53
	}
	limit := max(e.Limit, 1)

	var (
		last   Ball
		finite bool
	)
	for attempt := 1; ; attempt++ {
		ball, err := op(prec)
		if err != nil {
			return Result{}, &Error{Func: fn, Args: args, Prec: prec, Reason: "backend", Err: err}
		}
		last = ball
		finite = finite || ball.Finite()
		rel := ball.RelErr()
		log.Debug("precision attempt",
			zap.String("func", fn),
			zap.Int("attempt", attempt),
			zap.Uint("prec", prec),
			zap.Complex128("mid", ball.Mid),
			zap.Float64("rad", ball.Rad),
			zap.Float64("rel_err", rel))

		if ball.Finite() && rel <= tol {
			if cmplx.IsInf(ball.Mid) {
				return Result{}, &Error{Func: fn, Args: args, Prec: prec, RelErr: rel,
					Reason: "result overflows double precision", Err: ErrInvalidArgument}
			}
			return Result{Value: ball.Mid, Prec: prec, Attempts: attempt, RelErr: rel, Regime: RegimeDirect}, nil
		}

		next := prec * 2
		if attempt >= limit || next > MaxPrec {
			break
		}
		prec = next
	}

	if !finite {
		return Result{}, &Error{Func: fn, Args: args, Prec: prec, RelErr: last.RelErr(),
			Reason: "no finite enclosure at any precision (singularity)", Err: ErrInvalidArgument}
	}
	log.Warn("precision limit reached",
		zap.String("func", fn),
		zap.Any("args", args),
		zap.Int("limit", limit),
		zap.Uint("prec", prec),
		zap.Float64("tol", tol),
		zap.Complex128("mid", last.Mid),
		zap.Float64("rad", last.Rad),
		zap.Float64("rel_err", last.RelErr()))
	return Result{}, &Error{Func: fn, Args: args, Prec: prec, RelErr: last.RelErr(), Err: ErrToleranceUnreachable}
}
