// Package predict estimates win/draw/loss probabilities for a matchup.
package predict

import (
	"math"

	"github.com/courtiq/skillrank/internal/domain/model"
)

// Default calibration constants. Sensitivity is chosen so a 0.2 skill gap
// yields a clearly favored outcome without saturating at the extremes; the
// draw band shrinks exponentially as the gap widens.
const (
	DefaultSensitivity = 6.0
	DefaultDrawBase    = 0.25
	DefaultDrawDecay   = 4.0
)

// Option applies a configuration option to the Predictor.
type Option func(*Predictor)

// WithSensitivity sets the logistic steepness k.
func WithSensitivity(k float64) Option {
	return func(p *Predictor) {
		if k > 0 {
			p.sensitivity = k
		}
	}
}

// WithDrawBase sets the draw probability at equal skill.
func WithDrawBase(b float64) Option {
	return func(p *Predictor) {
		if b >= 0 && b < 1 {
			p.drawBase = b
		}
	}
}

// WithDrawDecay sets how fast the draw band shrinks with the skill gap.
func WithDrawDecay(m float64) Option {
	return func(p *Predictor) {
		if m > 0 {
			p.drawDecay = m
		}
	}
}

// Predictor is a Bradley-Terry style comparator with a draw band. Pure and
// safe for concurrent use.
type Predictor struct {
	sensitivity float64
	drawBase    float64
	drawDecay   float64
}

// NewPredictor creates a predictor with configuration options.
func NewPredictor(opts ...Option) *Predictor {
	p := &Predictor{
		sensitivity: DefaultSensitivity,
		drawBase:    DefaultDrawBase,
		drawDecay:   DefaultDrawDecay,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Predict returns the outcome distribution for a hypothetical match between
// two skills, from the first player's perspective. Inputs outside [0,1] are
// clamped, never rejected.
func (p *Predictor) Predict(skillA, skillB float64) model.OutcomeProbabilities {
	a := clamp01(skillA)
	b := clamp01(skillB)
	d := a - b

	winRaw := 1 / (1 + math.Exp(-p.sensitivity*d))
	pDraw := p.drawBase * math.Exp(-p.drawDecay*math.Abs(d))

	return model.OutcomeProbabilities{
		PWin:  winRaw * (1 - pDraw),
		PDraw: pDraw,
		PLoss: (1 - winRaw) * (1 - pDraw),
	}
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}
