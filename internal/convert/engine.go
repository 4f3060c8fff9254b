// Package convert derives and applies the transform that turns angles
// reported in a study's own frames and Euler order into ISB angles.
package convert

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/ppiankov/isbalign/internal/cache"
	"github.com/ppiankov/isbalign/internal/euler"
	"github.com/ppiankov/isbalign/internal/frame"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrNonConvertibleSequence is returned when no strategy is allowed for the request.
	ErrNonConvertibleSequence = errors.New("sequence not convertible to ISB")
	// ErrAsymmetricOrientation is returned when parent and child axes differ.
	ErrAsymmetricOrientation = errors.New("parent and child orientations differ")
	// ErrUnknownCorrection is returned for corrections without a calibration matrix.
	ErrUnknownCorrection = errors.New("unknown literature correction")
	// ErrInvalidRequest is returned for malformed orders or orientations.
	ErrInvalidRequest = errors.New("invalid conversion request")
)

// InvariantViolation is the panic value raised when a derived strategy fails
// to rebuild its own probe rotations.
type InvariantViolation struct {
	Strategy Strategy
	Residual float64
}

func (v *InvariantViolation) Error() string {
	return fmt.Sprintf("strategy %s failed self-check: residual %.3g", v.Strategy, v.Residual)
}

// probe attitudes, expressed in zxy; never user data
var probes = [][2][3]float64{
	{{0.5, -0.8, 1.2}, {-0.01, 0.02, -0.03}},
	{{0.3, 0.4, -0.6}, {1.1, -0.2, 0.7}},
	{{-1.3, 0.25, 0.45}, {0.2, -0.9, -0.35}},
}

const probeSequence = euler.ZXY

// Request describes one conversion problem.
type Request struct {
	Reported         euler.Sequence
	Target           euler.Sequence
	Parent           frame.Orientation
	Child            frame.Orientation
	ParentCorrection Correction
	ChildCorrection  Correction
	SignFlipAllowed  bool
}

func (r Request) validate() error {
	if !r.Reported.Valid() || !r.Target.Valid() {
		return fmt.Errorf("%w: sequences %q -> %q", ErrInvalidRequest, r.Reported, r.Target)
	}
	if !r.Parent.Valid() || !r.Child.Valid() {
		return fmt.Errorf("%w: orientation %s / %s", ErrInvalidRequest, r.Parent, r.Child)
	}
	if r.Parent != r.Child {
		return fmt.Errorf("%w: %s vs %s", ErrAsymmetricOrientation, r.Parent, r.Child)
	}
	for _, c := range []Correction{r.ParentCorrection, r.ChildCorrection} {
		if c != NoCorrection && !c.IsLiterature() {
			return fmt.Errorf("%w: %q", ErrUnknownCorrection, c)
		}
	}
	return nil
}

func (r Request) corrected() bool {
	return r.ParentCorrection != NoCorrection || r.ChildCorrection != NoCorrection
}

func (r Request) key(opts Options) string {
	return cache.Key(
		string(r.Reported), string(r.Target),
		r.Parent.String(), r.Child.String(),
		string(r.ParentCorrection), string(r.ChildCorrection),
		fmt.Sprint(r.SignFlipAllowed, opts.AllowFullRecompute, opts.RatioTolerance),
	)
}

// Options configures an Engine.
type Options struct {
	RatioTolerance     float64
	SelfCheckTolerance float64
	AllowFullRecompute bool
	Cache              cache.Cache // nil disables memoization
	CacheTTL           time.Duration
	Logger             *zap.Logger
}

// DefaultOptions returns the tolerances used by the reference conversion.
func DefaultOptions() Options {
	return Options{
		RatioTolerance:     1e-3,
		SelfCheckTolerance: 1e-9,
		AllowFullRecompute: true,
	}
}

// Engine derives conversion strategies. It is safe for concurrent use.
type Engine struct {
	opts   Options
	logger *zap.Logger
}

// NewEngine creates an engine, filling unset tolerances with defaults.
func NewEngine(opts Options) *Engine {
	def := DefaultOptions()
	if opts.RatioTolerance <= 0 {
		opts.RatioTolerance = def.RatioTolerance
	}
	if opts.SelfCheckTolerance <= 0 {
		opts.SelfCheckTolerance = def.SelfCheckTolerance
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{opts: opts, logger: logger.Named("convert")}
}

// Derive returns the strategy converting req.Reported angles into req.Target
// angles. It panics with *InvariantViolation if the result fails its self-check.
func (e *Engine) Derive(req Request) (Strategy, error) {
	if err := req.validate(); err != nil {
		return Strategy{}, err
	}

	key := req.key(e.opts)
	if s, ok := e.lookup(key); ok {
		return s, nil
	}

	s, err := e.derive(req)
	if err != nil {
		return Strategy{}, err
	}
	e.store(key, s)
	return s, nil
}

type probeSample struct {
	reported [3]float64
	isb      *mat.Dense
}

func (e *Engine) derive(req Request) (Strategy, error) {
	samples := sampleProbes(req)
	base := Strategy{
		Signs:            [3]float64{1, 1, 1},
		From:             req.Reported,
		To:               req.Target,
		Parent:           req.Parent,
		Child:            req.Child,
		ParentCorrection: req.ParentCorrection,
		ChildCorrection:  req.ChildCorrection,
	}

	if req.Parent == frame.ISB && !req.corrected() && req.Reported == req.Target {
		s := base
		s.Kind = Identity
		e.selfCheck(s, samples)
		return s, nil
	}

	if req.SignFlipAllowed {
		if signs, ok := e.signFlip(req, samples); ok {
			s := base
			s.Kind = SignFlip
			s.Signs = signs
			e.selfCheck(s, samples)
			e.logger.Debug("sign flip strategy",
				zap.String("from", string(req.Reported)),
				zap.String("to", string(req.Target)),
				zap.Stringer("orientation", req.Parent),
				zap.Float64s("signs", signs[:]))
			return s, nil
		}
	}

	if !e.opts.AllowFullRecompute {
		return Strategy{}, fmt.Errorf("%w: %s in %s has no constant sign relation to %s",
			ErrNonConvertibleSequence, req.Reported, req.Parent, req.Target)
	}

	s := base
	s.Kind = FullRecompute
	s.Flip = preferFlip(req.Target, samples)
	e.selfCheck(s, samples)
	e.logger.Debug("full recompute strategy",
		zap.String("from", string(req.Reported)),
		zap.String("to", string(req.Target)),
		zap.Stringer("orientation", req.Parent),
		zap.Bool("flip", s.Flip))
	return s, nil
}

// sampleProbes builds, for every probe pair, the reported angle triple and
// the same relative rotation expressed in ISB frames.
func sampleProbes(req Request) []probeSample {
	out := make([]probeSample, 0, len(probes))
	for _, p := range probes {
		r1 := euler.Matrix(probeSequence, p[0])
		r2 := euler.Matrix(probeSequence, p[1])
		var r12 mat.Dense
		r12.Mul(r1.T(), r2)
		out = append(out, probeSample{
			reported: euler.Angles(&r12, req.Reported),
			isb:      toISB(req.Parent, req.Child, &r12, req.ParentCorrection, req.ChildCorrection),
		})
	}
	return out
}

// signFlip derives a constant sign triple from the probes. Without a
// calibration matrix the frame is a signed permutation and the closed form
// must agree with the probes.
func (e *Engine) signFlip(req Request, samples []probeSample) ([3]float64, bool) {
	measured, ok := e.probeSigns(req.Target, samples)
	if !ok {
		return measured, false
	}
	if req.corrected() {
		return measured, true
	}
	closed, ok := closedFormSigns(req.Parent, req.Reported, req.Target)
	if !ok || closed != measured {
		e.logger.Warn("probe and closed-form signs disagree",
			zap.String("from", string(req.Reported)),
			zap.Stringer("orientation", req.Parent),
			zap.Bool("closed_form", ok))
		return measured, false
	}
	return closed, true
}

// closedFormSigns maps each reported rotation axis through the frame matrix.
// The image of local axis j is column j of R; its single non-zero entry names
// the ISB axis and its sign.
func closedFormSigns(o frame.Orientation, reported, target euler.Sequence) ([3]float64, bool) {
	r := o.Matrix()
	want := target.Axes()
	var signs [3]float64
	for n, col := range reported.Axes() {
		row := want[n]
		v := r.At(row, col)
		if v == 0 {
			return signs, false
		}
		signs[n] = v
	}
	return signs, true
}

func (e *Engine) probeSigns(target euler.Sequence, samples []probeSample) ([3]float64, bool) {
	var signs [3]float64
	for n, p := range samples {
		angles := euler.Angles(p.isb, target)
		s, ok := ratioSigns(angles, p.reported, e.opts.RatioTolerance)
		if !ok {
			s, ok = ratioSigns(euler.Flip(angles, target), p.reported, e.opts.RatioTolerance)
		}
		if !ok || (n > 0 && s != signs) {
			return signs, false
		}
		signs = s
	}
	return signs, true
}

func ratioSigns(target, reported [3]float64, tol float64) ([3]float64, bool) {
	var signs [3]float64
	for i := range target {
		if math.Abs(reported[i]) < 1e-9 {
			return signs, false
		}
		ratio := target[i] / reported[i]
		if math.Abs(math.Abs(ratio)-1) > tol {
			return signs, false
		}
		signs[i] = math.Copysign(1, ratio)
	}
	return signs, true
}

// preferFlip reports whether the second decomposition tracks the reported
// angles more closely over all probes.
func preferFlip(target euler.Sequence, samples []probeSample) bool {
	var plain, flipped float64
	for _, p := range samples {
		angles := euler.Angles(p.isb, target)
		plain += deviation(angles, p.reported)
		flipped += deviation(euler.Flip(angles, target), p.reported)
	}
	return flipped < plain
}

func deviation(target, reported [3]float64) float64 {
	var d float64
	for i := range target {
		if reported[i] == 0 {
			continue
		}
		d += math.Abs(math.Abs(target[i]/reported[i]) - 1)
	}
	return d
}

// selfCheck rebuilds every probe rotation from the converted angles.
func (e *Engine) selfCheck(s Strategy, samples []probeSample) {
	for _, p := range samples {
		a1, a2, a3 := s.Apply(p.reported[0], p.reported[1], p.reported[2])
		rebuilt := euler.Matrix(s.To, [3]float64{a1, a2, a3})
		if d := euler.MaxAbsDiff(rebuilt, p.isb); d > e.opts.SelfCheckTolerance {
			panic(&InvariantViolation{Strategy: s, Residual: d})
		}
	}
}

func (e *Engine) lookup(key string) (Strategy, bool) {
	if e.opts.Cache == nil {
		return Strategy{}, false
	}
	raw, ok := e.opts.Cache.Get(key)
	if !ok {
		return Strategy{}, false
	}
	var s Strategy
	if err := json.Unmarshal(raw, &s); err != nil {
		e.logger.Warn("discarding unreadable cached strategy", zap.Error(err))
		_ = e.opts.Cache.Delete(key)
		return Strategy{}, false
	}
	return s, true
}

func (e *Engine) store(key string, s Strategy) {
	if e.opts.Cache == nil {
		return
	}
	raw, err := json.Marshal(s)
	if err != nil {
		e.logger.Warn("strategy not cached", zap.Error(err))
		return
	}
	if err := e.opts.Cache.Set(key, raw, e.opts.CacheTTL); err != nil {
		e.logger.Warn("strategy not cached", zap.Error(err))
	}
}
