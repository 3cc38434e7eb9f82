package cplxfnc

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Evaluator evaluates ζ(s, a) and Γ(s, z) with a fixed backend. It is safe
// for concurrent use; the configuration may be changed while evaluations
// run, and each evaluation uses the configuration current at its start.
type Evaluator struct {
	mu      sync.RWMutex
	cfg     Config
	backend Backend
	logger  *zap.Logger
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithConfig replaces the whole configuration.
func WithConfig(cfg Config) Option { return func(e *Evaluator) { e.cfg = cfg } }

// WithTol sets the relative tolerance.
func WithTol(tol float64) Option { return func(e *Evaluator) { e.cfg.Tol = tol } }

// WithLimit sets the number of working precisions tried.
func WithLimit(limit int) Option { return func(e *Evaluator) { e.cfg.Limit = limit } }

// WithBackend replaces the default ArbBackend.
func WithBackend(b Backend) Option { return func(e *Evaluator) { e.backend = b } }

// WithLogger sets the logger; the default discards everything.
func WithLogger(l *zap.Logger) Option { return func(e *Evaluator) { e.logger = l } }

// New returns an Evaluator using DefaultConfig and ArbBackend unless
// overridden by opts.
func New(opts ...Option) (*Evaluator, error) {
	e := &Evaluator{cfg: DefaultConfig(), backend: ArbBackend{}, logger: zap.NewNop()}
	for _, o := range opts {
		o(e)
	}
	if e.backend == nil {
		return nil, fmt.Errorf("%w: nil backend", ErrInvalidArgument)
	}
	if e.logger == nil {
		e.logger = zap.NewNop()
	}
	if err := e.cfg.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// Config returns a copy of the current configuration.
func (e *Evaluator) Config() Config {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cfg
}

// SetConfig validates and installs cfg.
func (e *Evaluator) SetConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	e.mu.Lock()
	e.cfg = cfg
	e.mu.Unlock()
	return nil
}

// SetTol changes the relative tolerance.
func (e *Evaluator) SetTol(tol float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	cfg := e.cfg
	cfg.Tol = tol
	if err := cfg.Validate(); err != nil {
		return err
	}
	e.cfg = cfg
	return nil
}

// SetLimit changes the number of working precisions tried.
func (e *Evaluator) SetLimit(limit int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	cfg := e.cfg
	cfg.Limit = limit
	if err := cfg.Validate(); err != nil {
		return err
	}
	e.cfg = cfg
	return nil
}

// Zeta returns the Hurwitz zeta function ζ(s, a).
func (e *Evaluator) Zeta(s, a complex128) (complex128, error) {
	r, err := e.zeta(e.Config(), s, a)
	return r.Value, err
}

// ZetaResult is Zeta with the precision and error actually achieved.
func (e *Evaluator) ZetaResult(s, a complex128) (Result, error) {
	return e.zeta(e.Config(), s, a)
}

// GammaInc returns the upper incomplete gamma function Γ(s, z).
//
// On the negative real axis the result is the limit from the half plane
// the argument comes from: z = x+0i gives the principal value (limit from
// above), z = x-0i (negative zero imaginary part) the limit from below.
func (e *Evaluator) GammaInc(s, z complex128) (complex128, error) {
	r, err := e.gammaInc(e.Config(), s, z)
	return r.Value, err
}

// GammaIncResult is GammaInc with the precision, error and regime used.
func (e *Evaluator) GammaIncResult(s, z complex128) (Result, error) {
	return e.gammaInc(e.Config(), s, z)
}

// Point is one argument pair: (s, a) for zeta, (s, z) for gamma_inc.
type Point struct {
	S complex128
	X complex128
}

// ZetaBatch evaluates ζ at every point concurrently. Results are in input
// order. The first failure cancels the remaining work.
func (e *Evaluator) ZetaBatch(ctx context.Context, pts []Point) ([]complex128, error) {
	return e.batch(ctx, pts, e.zeta)
}

// GammaIncBatch evaluates Γ at every point concurrently (see ZetaBatch).
func (e *Evaluator) GammaIncBatch(ctx context.Context, pts []Point) ([]complex128, error) {
	return e.batch(ctx, pts, e.gammaInc)
}

func (e *Evaluator) batch(ctx context.Context, pts []Point, f func(Config, complex128, complex128) (Result, error)) ([]complex128, error) {
	cfg := e.Config()
	out := make([]complex128, len(pts))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, p := range pts {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := f(cfg, p.S, p.X)
			if err != nil {
				return fmt.Errorf("point %d: %w", i, err)
			}
			out[i] = r.Value
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
