package cplxfnc

/*
#cgo CFLAGS: -O2
#cgo LDFLAGS: -lflint -lmpfr -lgmp
#include <flint/acb.h>
#include <flint/acb_hypgeom.h>

typedef struct {
    double re, im;
    double rad_re, rad_im;
    int finite;
} cf_ball;

// acb_realref/arb_midref and friends are macros; keep them on the C side.
static void cf_ball_from_acb(cf_ball *out, const acb_t r) {
    out->finite = acb_is_finite(r);
    out->re = arf_get_d(arb_midref(acb_realref(r)), ARF_RND_NEAR);
    out->im = arf_get_d(arb_midref(acb_imagref(r)), ARF_RND_NEAR);
    out->rad_re = mag_get_d(arb_radref(acb_realref(r)));
    out->rad_im = mag_get_d(arb_radref(acb_imagref(r)));
}

static cf_ball cf_hurwitz_zeta(double sr, double si, double ar, double ai, long prec) {
    cf_ball out;
    acb_t s, a, r;
    acb_init(s); acb_init(a); acb_init(r);
    acb_set_d_d(s, sr, si);
    acb_set_d_d(a, ar, ai);
    acb_hurwitz_zeta(r, s, a, (slong)prec);
    cf_ball_from_acb(&out, r);
    acb_clear(s); acb_clear(a); acb_clear(r);
    return out;
}

static cf_ball cf_gamma_upper(double sr, double si, double zr, double zi, long prec) {
    cf_ball out;
    acb_t s, z, r;
    acb_init(s); acb_init(z); acb_init(r);
    acb_set_d_d(s, sr, si);
    acb_set_d_d(z, zr, zi);
    acb_hypgeom_gamma_upper(r, s, z, 0, (slong)prec);
    cf_ball_from_acb(&out, r);
    acb_clear(s); acb_clear(z); acb_clear(r);
    return out;
}
*/
import "C"

import "math"

// ArbBackend evaluates through the Arb ball arithmetic shipped with FLINT 3
// (acb_hurwitz_zeta, acb_hypgeom_gamma_upper).
//
// Build requirements:
//   - libflint >= 3.0 (headers + libs), libmpfr, libgmp
//     Debian/Ubuntu: sudo apt-get install -y libflint-dev libmpfr-dev libgmp-dev
//     macOS/Homebrew: brew install flint
//
// Arb drops the sign of zero, so every input on the negative real axis is
// evaluated on the principal branch (approached from above).
type ArbBackend struct{}

var _ Backend = ArbBackend{}

func (ArbBackend) Zeta(s, a complex128, prec uint) (Ball, error) {
	b := C.cf_hurwitz_zeta(C.double(real(s)), C.double(imag(s)),
		C.double(real(a)), C.double(imag(a)), C.long(prec))
	return ballFromC(b), nil
}

func (ArbBackend) GammaInc(s, z complex128, prec uint) (Ball, error) {
	b := C.cf_gamma_upper(C.double(real(s)), C.double(imag(s)),
		C.double(real(z)), C.double(imag(z)), C.long(prec))
	return ballFromC(b), nil
}

func ballFromC(b C.cf_ball) Ball {
	mid := complex(float64(b.re), float64(b.im))
	if b.finite == 0 {
		return Ball{Mid: mid, Rad: math.Inf(1)}
	}
	return Ball{Mid: mid, Rad: math.Hypot(float64(b.rad_re), float64(b.rad_im))}
}
