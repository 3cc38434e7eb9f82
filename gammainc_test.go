package cplxfnc

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mathext"
)

// negZero returns x - 0i, the lower side of the negative real axis.
func negZero(x float64) complex128 { return complex(x, math.Copysign(0, -1)) }

func TestGammaIncValues(t *testing.T) {
	tests := []struct {
		s, z float64
		want complex128
	}{
		{0.1, 0, 9.513507698668730583},
		{0.1, 0.2, 1.147142308841143432},
		{-0.1, 0.2, 1.309085029262058386},
		{-0.1, -0.2, complex(2.244594932018723621e-01, -3.545116443131486328)},
		{0.1, -0.2, complex(1.261497716974915306, -2.681240576562865741)},
		{0.1, 3.6, 7.139895306917340770e-03},
		{-0.1, 3.6, 5.316825867403934119e-03},
		{-0.1, -3.6, complex(-1.385474258490043198e+01, 1.029493619287218387)},
		{0.1, -3.6, complex(-1.470966500411006805e+01, -7.870585916384116310)},
		{0.1, 35, 2.507803962240207714e-17},
		{-0.1, 35, 1.224975948200624745e-17},
		{-0.1, -35, complex(-3.121408819369658203e+13, 1.014207205407956836e+13)},
		{0.1, -35, complex(-6.317194842916432031e+13, -2.052581029404798828e+13)},
		{0.7, 0, 1.298055332647557902},
		{0.7, 0.2, 8.708550683086664357e-01},
		{-0.7, 0.2, 2.144758190472303205},
		{-0.7, -0.2, complex(-5.626333277697939117, -1.861781304118119262)},
		{0.7, -0.2, complex(1.594122980989071126, -4.075021584136763186e-01)},
		{0.7, 3.6, 1.741672659177810611e-02},
		{-0.7, 3.6, 2.209864656742336481e-03},
		{-0.7, -3.6, complex(1.287103472976329765, 7.653748047830923440)},
		{0.7, -3.6, complex(1.743109319991031469e+01, -2.220522164277728550e+01)},
		{0.7, 35, 2.152113631628143448e-16},
		{-0.7, 35, 1.427911776467840647e-18},
		{-0.7, -35, complex(2.327806486873239258e+12, 3.203950762893728027e+12)},
		{0.7, -35, complex(3.237120356616813125e+14, -4.455513933236563125e+14)},
		{1.4, 0, 8.872638175030752583e-01},
		{1.4, 0.2, 8.203878342822439329e-01},
		{-1.4, 0.2, 4.389320140563227390},
		{-1.4, -0.2, complex(-8.117429966348737036e-01, 1.068268532119652292e+01)},
		{1.4, -0.2, complex(9.133602809230350061e-01, 8.031665584610631070e-02)},
		{1.4, 3.6, 5.006432694972635933e-02},
		{-1.4, 3.6, 8.022778914012548964e-04},
		{-1.4, -3.6, complex(3.231673854159030856, -1.761672154428874260)},
		{1.4, -3.6, complex(1.700254235204954156e+01, 4.959772744276735779e+01)},
		{1.4, 35, 2.643473874145858520e-15},
		{-1.4, 35, 1.163689654085433191e-19},
		{-1.4, -35, complex(1.038558195075698395e+11, -3.196353459301074829e+11)},
		{1.4, -35, complex(2.008325774023882750e+15, 6.180991171998044000e+15)},
	}
	for _, tt := range tests {
		got, err := GammaInc(complex(tt.s, 0), complex(tt.z, 0), 1e-16)
		require.NoError(t, err, "gamma_inc(%g, %g)", tt.s, tt.z)
		assert.Less(t, relDiff(got, tt.want), 1e-15, "gamma_inc(%g, %g) = %v, want %v", tt.s, tt.z, got, tt.want)
	}
}

// Γ(a, x) = Q(a, x) Γ(a) for real a > 0 and x >= 0.
func TestGammaIncRealReference(t *testing.T) {
	for _, a := range []float64{0.5, 1.4, 3} {
		for _, x := range []float64{0.3, 2, 10} {
			got, err := GammaInc(complex(a, 0), complex(x, 0), 1e-16)
			require.NoError(t, err)
			want := mathext.GammaIncRegComp(a, x) * math.Gamma(a)
			assert.InEpsilon(t, want, real(got), 1e-12, "gamma_inc(%g, %g)", a, x)
		}
	}
}

func TestGammaIncErrors(t *testing.T) {
	e, err := New(WithLimit(1))
	require.NoError(t, err)
	_, err = e.GammaInc(0.1+1i, 35)
	require.ErrorIs(t, err, ErrToleranceUnreachable)

	_, err = e.GammaInc(-0.1, 0)
	require.ErrorIs(t, err, ErrInvalidArgument)

	for _, args := range [][2]complex128{{cmplx.NaN(), 1}, {1, cmplx.Inf()}} {
		_, err = e.GammaInc(args[0], args[1])
		require.ErrorIs(t, err, ErrInvalidArgument)
	}
	_, err = GammaInc(1, 1, -1)
	require.ErrorIs(t, err, ErrInvalidArgument)

	// Both regimes refuse an unbounded tolerance.
	for _, z := range []complex128{1, 200} {
		_, err = GammaInc(0.5, z, math.Inf(1))
		require.ErrorIs(t, err, ErrInvalidArgument, "z %v", z)
	}
}

func TestGammaIncRegime(t *testing.T) {
	e, err := New()
	require.NoError(t, err)
	tests := []struct {
		s, z complex128
		want Regime
	}{
		{0.5, 150, RegimeAsymptotic},
		{0.5, -150, RegimeAsymptotic},
		{-3 + 2i, 100i, RegimeAsymptotic},
		{0.5, 99, RegimeDirect},
		{25, 150, RegimeDirect},
		{0.5, 3, RegimeDirect},
	}
	for _, tt := range tests {
		r, err := e.GammaIncResult(tt.s, tt.z)
		require.NoError(t, err, "gamma_inc(%v, %v)", tt.s, tt.z)
		assert.Equal(t, tt.want, r.Regime, "gamma_inc(%v, %v)", tt.s, tt.z)
		assert.LessOrEqual(t, r.RelErr, DefaultTol)
	}
}

// Both regimes agree at the crossover for Γ(-s, ±100), s in [0, 10].
func TestGammaIncCrossoverAgreement(t *testing.T) {
	cfg := DefaultConfig()
	esc := Escalator{InitPrec: cfg.GammaPrec, Limit: cfg.Limit}
	for i := 0; i < 75; i++ {
		s := -10 * float64(i) / 74
		for _, x := range []float64{Crossover, -Crossover} {
			sc, z := complex(s, 0), complex(x, 0)
			require.True(t, asymptotic(sc, z))

			asym, err := gammaIncAsymp(sc, z, cfg.Tol)
			require.NoError(t, err, "s=%g z=%g", s, x)
			direct, err := esc.Evaluate("gamma_inc", func(prec uint) (Ball, error) {
				return ArbBackend{}.GammaInc(sc, z, prec)
			}, cfg.Tol, sc, z)
			require.NoError(t, err, "s=%g z=%g", s, x)

			assert.Less(t, relDiff(asym.Value, direct.Value), 5e-16, "s=%g z=%g", s, x)
		}
	}
}

// UAsymp(s+1, s+1, z) = Γ(-s, z) e^z z^{s+1}.
func TestGammaIncUAsympRoundTrip(t *testing.T) {
	for _, s := range []float64{0, 0.3, 2.5, 7, 10} {
		for _, x := range []float64{100, -100, 250} {
			u, err := UAsymp(s+1, s+1, x)
			require.NoError(t, err)
			g, err := GammaInc(complex(-s, 0), complex(x, 0), 1e-16)
			require.NoError(t, err)
			z := complex(x, 0)
			back := g * cmplx.Exp(z) * cmplx.Pow(z, complex(s+1, 0))
			assert.InEpsilon(t, u, real(back), 1e-13, "s=%g z=%g", s, x)
			assert.Less(t, math.Abs(imag(back)), 1e-13*math.Abs(u), "s=%g z=%g", s, x)
		}
	}
}

func TestGammaIncBranchConjugates(t *testing.T) {
	for _, s := range []float64{-1.4, -0.1, 0.7, 2.5} {
		for _, x := range []float64{-0.2, -3.6, -35, -150} {
			above, err := GammaInc(complex(s, 0), complex(x, 0), 1e-16)
			require.NoError(t, err)
			below, err := GammaInc(complex(s, 0), negZero(x), 1e-16)
			require.NoError(t, err)
			assert.Equal(t, cmplx.Conj(above), below, "s=%g x=%g", s, x)
			assert.NotZero(t, imag(above), "s=%g x=%g", s, x)
		}
	}
}

// Values off the axis approach the value on the matching side of the cut.
func TestGammaIncBranchContinuity(t *testing.T) {
	for _, s := range []complex128{0.1, -0.7, 0.3 + 0.5i} {
		for _, x := range []float64{-0.2, -3.6, -35} {
			above, err := GammaInc(s, complex(x, 0), 1e-16)
			require.NoError(t, err)
			below, err := GammaInc(s, negZero(x), 1e-16)
			require.NoError(t, err)

			var prevUp, prevDown float64 = math.Inf(1), math.Inf(1)
			for _, eps := range []float64{1e-4, 1e-7, 1e-10} {
				up, err := GammaInc(s, complex(x, eps), 1e-16)
				require.NoError(t, err)
				down, err := GammaInc(s, complex(x, -eps), 1e-16)
				require.NoError(t, err)

				dUp, dDown := relDiff(up, above), relDiff(down, below)
				assert.Less(t, dUp, prevUp, "s=%v x=%g eps=%g", s, x, eps)
				assert.Less(t, dDown, prevDown, "s=%v x=%g eps=%g", s, x, eps)
				prevUp, prevDown = dUp, dDown
			}
			assert.Less(t, prevUp, 1e-8, "s=%v x=%g", s, x)
			assert.Less(t, prevDown, 1e-8, "s=%v x=%g", s, x)
			// The two sides of the cut really differ.
			assert.Greater(t, relDiff(above, below), 1e-3, "s=%v x=%g", s, x)
		}
	}
}

func TestGammaIncBelowCutErrorKeepsArgs(t *testing.T) {
	e, err := New(WithTol(1e-40))
	require.NoError(t, err)
	z := negZero(-Crossover)
	_, err = e.GammaInc(0.5, z)
	require.ErrorIs(t, err, ErrToleranceUnreachable)

	var ge *Error
	require.True(t, errors.As(err, &ge))
	assert.Equal(t, "gamma_inc", ge.Func)
	require.Len(t, ge.Args, 2)
	assert.True(t, math.Signbit(imag(ge.Args[1])))
}
