package cplxfnc

import (
	"errors"
	"fmt"
	"strings"
)

// Every evaluation failure wraps exactly one of these. Match with errors.Is.
var (
	// ErrToleranceUnreachable is returned when the precision ceiling was hit
	// before the certified relative error dropped below tol.
	ErrToleranceUnreachable = errors.New("cplxfnc: tolerance unreachable")

	// ErrAsymptoticDomain is returned when an asymptotic series cannot resolve
	// the requested arguments to double precision.
	ErrAsymptoticDomain = errors.New("cplxfnc: asymptotic expansion invalid for arguments")

	// ErrInvalidArgument covers non-positive tol, non-finite arguments,
	// singularities reported by the backend and results outside the double range.
	ErrInvalidArgument = errors.New("cplxfnc: invalid argument")
)

// Error describes a failed evaluation.
type Error struct {
	Func   string       // "zeta", "gamma_inc" or "u_asymp"
	Args   []complex128 // arguments as given by the caller
	Prec   uint         // last working precision in bits, 0 if none was used
	RelErr float64      // last certified relative error, 0 if unknown
	Reason string
	Err    error // one of the sentinels above, or a backend error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("cplxfnc: ")
	b.WriteString(e.Func)
	b.WriteByte('(')
	for i, a := range e.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%v", a)
	}
	b.WriteString("): ")
	b.WriteString(strings.TrimPrefix(e.Err.Error(), "cplxfnc: "))
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	if e.Prec > 0 {
		fmt.Fprintf(&b, " (prec=%d bits, rel_err=%.3g)", e.Prec, e.RelErr)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

func newError(fn string, sentinel error, reason string, args ...complex128) *Error {
	return &Error{Func: fn, Args: args, Reason: reason, Err: sentinel}
}
