package cplxfnc

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/cimatosa/cplxfnc/mpc"
)

const (
	// asympPrec is the working precision of series summation. Rounding at
	// this precision stays far below the truncation error.
	asympPrec = 128

	// asympRounding bounds the relative rounding error accumulated by a
	// series sum and its prefactor at asympPrec bits.
	asympRounding = 0x1p-100

	// asympNegligible stops summation once a term no longer affects the
	// sum at asympPrec bits.
	asympNegligible = 0x1p-120

	// asympFloor is the relative truncation error the series must reach:
	// the unit roundoff of a double.
	asympFloor = 0x1p-53

	// asympBoundFactor scales the first omitted term into a bound on the
	// truncation error for |arg z| <= π/2.
	asympBoundFactor = 2

	maxAsympTerms = 4096
)

// series is a truncated asymptotic sum with its error bound.
type series struct {
	sum     *mpc.Complex
	abs     float64 // |sum|
	bound   float64 // bound on |sum - exact|
	omitted float64 // |first omitted term|; 0 when the series terminated
	terms   int
}

// relErr is the certified relative error of the sum, including rounding.
func (s series) relErr() float64 {
	if s.abs == 0 {
		return math.Inf(1)
	}
	return s.bound/s.abs + asympRounding
}

// terminates reports whether (a)_k (c)_k vanishes from some k on, that is
// whether a or c is a non-positive integer within reach of maxAsympTerms.
func terminates(a, c *mpc.Complex) bool {
	for _, v := range []complex128{a.Complex128(), c.Complex128()} {
		if nonPositiveInt(v) && real(v) > -maxAsympTerms {
			return true
		}
	}
	return false
}

// sectorFactor widens the bound for |arg z| > π/2, where the first omitted
// term alone no longer bounds the remainder. It is χ(n) = √π Γ(n/2+1) /
// Γ(n/2+1/2) from DLMF 13.7(ii), growing like √(πn/2).
func sectorFactor(z complex128, n int) float64 {
	if real(z) >= 0 {
		return 1
	}
	p := float64(n) / 2
	num, _ := math.Lgamma(p + 1)
	den, _ := math.Lgamma(p + 0.5)
	return math.Sqrt(math.Pi) * math.Exp(num-den)
}

// asympSeries sums Σ_k (a)_k (c)_k / k! · (-1/z)^k, the large-|z| expansion
// of z^a U(a, b, z) with c = a - b + 1.
//
// If a or c is a non-positive integer the series is a polynomial in 1/z and
// is summed to its last term, however large the terms grow on the way; the
// bound then only covers rounding. Otherwise the series diverges and is
// truncated optimally: summation stops in front of the smallest term, which
// becomes the first omitted one, or once a term is negligible at working
// precision. The bound is asympBoundFactor times the first omitted term,
// times sectorFactor off the right half plane.
func asympSeries(a, c, z *mpc.Complex, prec uint) (series, error) {
	zAbs := z.Abs()
	if zAbs == 0 || math.IsNaN(zAbs) || math.IsInf(zAbs, 0) {
		return series{}, &Error{Err: ErrInvalidArgument, Reason: "|z| must be finite and non-zero"}
	}
	poly := terminates(a, c)

	r := mpc.New(prec).SetComplex128(-1)
	r.Div(r, z) // -1/z
	ak := mpc.New(prec).Set(a)
	ck := mpc.New(prec).Set(c)
	t := mpc.New(prec).SetComplex128(1)
	next := mpc.New(prec)
	sum := mpc.New(prec)
	tAbs := 1.0
	defer func() {
		r.Close()
		ak.Close()
		ck.Close()
		t.Close()
		next.Close()
	}()

	var (
		omitted float64
		largest = 1.0
		n       int
	)
	for k := 0; ; k++ {
		if k == maxAsympTerms {
			omitted = tAbs
			break
		}
		// t_{k+1} = t_k (a+k)(c+k) / (k+1) · (-1/z)
		next.Mul(t, ak).Mul(next, ck).DivUint(next, uint(k+1)).Mul(next, r)
		nAbs := next.Abs()
		if nAbs >= tAbs && !poly {
			// t_k is the smallest term; leave it out.
			omitted = tAbs
			break
		}
		sum.Add(sum, t)
		n++
		if nAbs == 0 {
			break
		}
		t, next = next, t
		tAbs = nAbs
		largest = max(largest, tAbs)
		if !poly && tAbs <= asympNegligible*sum.Abs() {
			omitted = tAbs
			break
		}
		ak.AddUint(ak, 1)
		ck.AddUint(ck, 1)
	}

	s := series{sum: sum, abs: sum.Abs(), omitted: omitted, terms: n}
	if poly && omitted == 0 {
		// Each addition rounds relative to a partial sum no larger than
		// n·largest.
		s.bound = float64(n) * largest * math.Ldexp(1, 2-int(prec))
	} else {
		s.bound = asympBoundFactor * omitted * sectorFactor(z.Complex128(), n)
	}
	if !(s.bound <= asympFloor*s.abs) {
		sum.Close()
		s.sum = nil
		return s, &Error{Err: ErrAsymptoticDomain, Reason: fmt.Sprintf(
			"smallest term %.3g against |sum| %.3g after %d terms", s.omitted, s.abs, s.terms)}
	}
	return s, nil
}

// UAsymp evaluates z^a U(a, b, z) from the asymptotic expansion of the
// confluent hypergeometric function of the second kind, for real a, b, z.
// With b = a it satisfies
//
//	Γ(-s, z) = UAsymp(s+1, s+1, z) · e^{-z} · z^{-(s+1)}.
//
// The expansion is only used where it resolves the value to double
// precision; elsewhere (for example UAsymp(2, 2, 30)) the error wraps
// ErrAsymptoticDomain.
func UAsymp(a, b, z float64) (float64, error) {
	args := []complex128{complex(a, 0), complex(b, 0), complex(z, 0)}
	for _, v := range args {
		if cmplx.IsNaN(v) || cmplx.IsInf(v) {
			return 0, newError("u_asymp", ErrInvalidArgument, "arguments must be finite", args...)
		}
	}
	am := mpc.New(asympPrec).SetComplex128(complex(a, 0))
	bm := mpc.New(asympPrec).SetComplex128(complex(b, 0))
	cm := mpc.New(asympPrec).Sub(am, bm)
	cm.AddUint(cm, 1)
	zm := mpc.New(asympPrec).SetComplex128(complex(z, 0))
	defer func() {
		am.Close()
		bm.Close()
		cm.Close()
		zm.Close()
	}()

	s, err := asympSeries(am, cm, zm, asympPrec)
	if err != nil {
		return 0, labelled(err, "u_asymp", args...)
	}
	defer s.sum.Close()
	return real(s.sum.Complex128()), nil
}

// labelled fills in the call site of an *Error raised by a helper.
func labelled(err error, fn string, args ...complex128) error {
	var e *Error
	if errors.As(err, &e) {
		e.Func, e.Args = fn, args
	}
	return err
}
