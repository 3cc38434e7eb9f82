// Package mpc provides the arbitrary-precision complex scratch type used by
// cplxfnc for work that has to be carried out above double precision: the
// summation of asymptotic series and the exponential prefactors that scale
// them back to a function value.
//
// It wraps the GNU MPC/MPFR/GMP libraries via cgo. Values are created at a
// fixed precision in bits, loaded from and rounded back to complex128, and
// combined with mutating operations that return the receiver for chaining.
//
// Build requirements:
//   - libmpc, libmpfr, libgmp (headers + libs)
//     Debian/Ubuntu: sudo apt-get install -y libmpc-dev libmpfr-dev libgmp-dev build-essential
//     macOS/Homebrew: brew install mpc mpfr gmp
//
// Minimal usage:
//
//	z := mpc.New(128).SetComplex128(-100)
//	w := mpc.New(128).Log(z)
//	fmt.Println(w.Complex128()) // (4.605170185988092+3.141592653589793i)
//
// SPDX-License-Identifier: MIT
package mpc

/*
#cgo CFLAGS: -O2
#cgo LDFLAGS: -lmpc -lmpfr -lgmp
#include <stdlib.h>
#include <string.h>
#include <mpc.h>
#include <mpfr.h>

static char* apc_mpfr_to_str_sci(mpfr_srcptr x, int digits) {
    if (digits < 1) digits = 1;
    int n = mpfr_snprintf(NULL, 0, "%.*Re", digits, x);
    if (n < 0) return NULL;
    char *buf = (char*)malloc((size_t)n + 1);
    if (!buf) return NULL;
    if (mpfr_snprintf(buf, (size_t)n + 1, "%.*Re", digits, x) < 0) {
        free(buf);
        return NULL;
    }
    return buf;
}

static char* apc_mpc_to_a_plus_bi(mpc_srcptr z, int digits) {
    char *rs = apc_mpfr_to_str_sci(mpc_realref(z), digits);
    char *is = apc_mpfr_to_str_sci(mpc_imagref(z), digits);
    if (!rs || !is) { if (rs) free(rs); if (is) free(is); return NULL; }
    int neg = (is[0] == '-') ? 1 : 0;
    size_t rn = strlen(rs);
    size_t in = strlen(is);
    size_t total = rn + 1 + (neg ? (in - 1) : in) + 1 + 1; // re + sign + im + 'i' + NUL
    char *out = (char*)malloc(total);
    if (!out) { free(rs); free(is); return NULL; }
    char *p = out;
    memcpy(p, rs, rn); p += rn;
    *p++ = neg ? '-' : '+';
    if (neg) { memcpy(p, is + 1, in - 1); p += in - 1; }
    else { memcpy(p, is, in); p += in; }
    *p++ = 'i';
    *p = '\0';
    free(rs); free(is);
    return out;
}

// Helpers so Go code doesn't reference MPC macros directly (cgo can't see macros).
static void apc_mpc_get_d_d(mpc_srcptr z, double *re, double *im) {
    *re = mpfr_get_d(mpc_realref(z), MPFR_RNDN);
    *im = mpfr_get_d(mpc_imagref(z), MPFR_RNDN);
}

static double apc_mpc_abs_d(mpc_srcptr z) {
    mpfr_t r;
    mpfr_init2(r, mpfr_get_prec(mpc_realref(z)));
    mpc_abs(r, z, MPFR_RNDU);
    double d = mpfr_get_d(r, MPFR_RNDU);
    mpfr_clear(r);
    return d;
}
*/
import "C"

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"unsafe"
)

// default rounding mode (nearest, nearest)
var defaultRnd = C.mpc_rnd_t(C.MPC_RNDNN)

// Complex is an arbitrary-precision complex backed by GNU MPC/MPFR.
// Use New/Parse; zero value is not usable.
type Complex struct {
	z    C.mpc_t
	prec uint
	init bool
}

// New allocates a value with the given precision in bits. If bits==0, 53 is used.
// The value is +0+0i.
func New(bits uint) *Complex {
	if bits == 0 {
		bits = 53
	}
	c := &Complex{prec: bits}
	C.mpc_init2(&c.z[0], C.mpfr_prec_t(bits))
	C.mpc_set_ui_ui(&c.z[0], 0, 0, defaultRnd)
	c.init = true
	runtime.SetFinalizer(c, func(cc *Complex) {
		if cc.init {
			C.mpc_clear(&cc.z[0])
			cc.init = false
		}
	})
	return c
}

// Close frees C resources.
func (c *Complex) Close() {
	if c != nil && c.init {
		C.mpc_clear(&c.z[0])
		c.init = false
	}
}

// SetComplex128 sets c = v exactly (a double always fits in >= 53 bits).
// Signed zeros are preserved, so branch cuts see the side v approaches from.
func (c *Complex) SetComplex128(v complex128) *Complex {
	C.mpc_set_d_d(&c.z[0], C.double(real(v)), C.double(imag(v)), defaultRnd)
	return c
}

// Complex128 rounds c to the nearest complex128. Parts outside the double
// range become ±Inf or ±0.
func (c *Complex) Complex128() complex128 {
	var re, im C.double
	C.apc_mpc_get_d_d(&c.z[0], &re, &im)
	return complex(float64(re), float64(im))
}

// Abs returns |c| rounded up to a float64.
func (c *Complex) Abs() float64 {
	return float64(C.apc_mpc_abs_d(&c.z[0]))
}

// Parse parses a complex literal at given precision. Accepts:
//
//	"a+bi", "a-bi", "i", "-i", plain real "a", or MPC form "(a b)" / "(a, b)".
func Parse(s string, prec uint) (*Complex, error) {
	z := New(prec)
	if err := z.SetString(s); err != nil {
		z.Close()
		return nil, err
	}
	return z, nil
}

// ParseComplex128 parses a complex literal (see Parse) and rounds it to complex128.
func ParseComplex128(s string) (complex128, error) {
	z, err := Parse(s, 53)
	if err != nil {
		return 0, err
	}
	defer z.Close()
	return z.Complex128(), nil
}

// SetString sets c from a complex string (see Parse).
func (c *Complex) SetString(s string) error {
	if !c.init {
		return errors.New("mpc: not initialized")
	}
	re, im, ok := normalizeToPair(s)
	if !ok {
		return fmt.Errorf("mpc: invalid complex literal %q", s)
	}
	var r, i C.mpfr_t
	C.mpfr_init2(&r[0], C.mpfr_prec_t(c.prec))
	C.mpfr_init2(&i[0], C.mpfr_prec_t(c.prec))
	defer C.mpfr_clear(&r[0])
	defer C.mpfr_clear(&i[0])

	cr := C.CString(strings.TrimSpace(re))
	ci := C.CString(strings.TrimSpace(im))
	defer C.free(unsafe.Pointer(cr))
	defer C.free(unsafe.Pointer(ci))

	if C.mpfr_set_str(&r[0], cr, 10, C.MPFR_RNDN) != 0 {
		return fmt.Errorf("mpc: invalid real part %q", re)
	}
	if C.mpfr_set_str(&i[0], ci, 10, C.MPFR_RNDN) != 0 {
		return fmt.Errorf("mpc: invalid imaginary part %q", im)
	}
	C.mpc_set_fr_fr(&c.z[0], &r[0], &i[0], defaultRnd)
	return nil
}

// normalizeToPair converts common forms into separate real/imag strings.
func normalizeToPair(in string) (string, string, bool) {
	s := strings.TrimSpace(in)
	if s == "" {
		return "", "", false
	}
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		mid := strings.TrimSpace(s[1 : len(s)-1])
		mid = strings.ReplaceAll(mid, ",", " ")
		f := strings.Fields(mid)
		switch len(f) {
		case 1:
			return f[0], "0", true
		case 2:
			return f[0], f[1], true
		}
		return "", "", false
	}
	s = strings.ReplaceAll(s, "I", "i")
	s = strings.ReplaceAll(s, "j", "i")
	if s == "i" || s == "+i" {
		return "0", "1", true
	}
	if s == "-i" {
		return "0", "-1", true
	}
	if strings.HasSuffix(s, "i") {
		core := strings.TrimSpace(s[:len(s)-1])
		idx := lastSignNotInExponent(core)
		if idx > 0 {
			re := strings.TrimSpace(core[:idx])
			im := strings.TrimSpace(core[idx:])
			if im == "+" {
				return re, "1", true
			}
			if im == "-" {
				return re, "-1", true
			}
			return re, im, true
		}
		return "0", core, true
	}
	return s, "0", true
}

// lastSignNotInExponent finds last '+'/'-' not part of an exponent and not at position 0.
func lastSignNotInExponent(s string) int {
	for i := len(s) - 1; i > 0; i-- {
		if s[i] == '+' || s[i] == '-' {
			if s[i-1] != 'e' && s[i-1] != 'E' {
				return i
			}
		}
	}
	return -1
}

// StringScientific formats c as "a+bi" with digits after the decimal point of each mantissa.
func (c *Complex) StringScientific(digits int) string {
	if digits < 1 {
		digits = 1
	}
	if !c.init {
		return "(invalid)"
	}
	p := C.apc_mpc_to_a_plus_bi(&c.z[0], C.int(digits))
	if p == nil {
		return "<oom>"
	}
	defer C.free(unsafe.Pointer(p))
	return C.GoString(p)
}

// Algebraic ops (mutating; return receiver for chaining)
func (c *Complex) Set(a *Complex) *Complex { C.mpc_set(&c.z[0], &a.z[0], defaultRnd); return c }
func (c *Complex) Add(a, b *Complex) *Complex {
	C.mpc_add(&c.z[0], &a.z[0], &b.z[0], defaultRnd)
	return c
}
func (c *Complex) Sub(a, b *Complex) *Complex {
	C.mpc_sub(&c.z[0], &a.z[0], &b.z[0], defaultRnd)
	return c
}
func (c *Complex) Mul(a, b *Complex) *Complex {
	C.mpc_mul(&c.z[0], &a.z[0], &b.z[0], defaultRnd)
	return c
}
func (c *Complex) Div(a, b *Complex) *Complex {
	C.mpc_div(&c.z[0], &a.z[0], &b.z[0], defaultRnd)
	return c
}
func (c *Complex) Neg(a *Complex) *Complex { C.mpc_neg(&c.z[0], &a.z[0], defaultRnd); return c }

// AddUint sets c = a + n.
func (c *Complex) AddUint(a *Complex, n uint) *Complex {
	C.mpc_add_ui(&c.z[0], &a.z[0], C.ulong(n), defaultRnd)
	return c
}

// DivUint sets c = a / n.
func (c *Complex) DivUint(a *Complex, n uint) *Complex {
	C.mpc_div_ui(&c.z[0], &a.z[0], C.ulong(n), defaultRnd)
	return c
}

// Elementary/transcendental (principal branches)
func (c *Complex) Exp(a *Complex) *Complex { C.mpc_exp(&c.z[0], &a.z[0], defaultRnd); return c }
func (c *Complex) Log(a *Complex) *Complex { C.mpc_log(&c.z[0], &a.z[0], defaultRnd); return c }
