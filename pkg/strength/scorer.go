package strength

import (
	"fmt"
	"math"
)

// ScoreModel turns Features into a score between 0 and 100.
type ScoreModel interface {
	Score(f Features) (int, error)
}

// RuleScorer is the deterministic scoring formula. It never fails.
type RuleScorer struct{}

func (RuleScorer) Score(f Features) (int, error) {
	raw := float64(f.Length)*2 +
		f.Entropy*10 +
		float64(f.Upper+f.Digits+f.Special)*5 -
		float64(f.Repeats)*3 -
		float64(f.Sequential)*2
	if f.IsLeaked {
		raw -= 30
	}

	return clampScore(raw), nil
}

// Predictor is a learned regression model over a feature vector laid out as
// returned by Features.Vector.
type Predictor interface {
	Predict(vector []float64) (float64, error)
}

// ModelScorer adapts a Predictor to ScoreModel. Prediction failures and
// non-finite outputs are reported as ErrModelOutput.
type ModelScorer struct {
	Model Predictor
}

func (m ModelScorer) Score(f Features) (int, error) {
	if m.Model == nil {
		return 0, fmt.Errorf("no predictor configured: %w", ErrModelOutput)
	}

	out, err := m.Model.Predict(f.Vector())
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrModelOutput, err)
	}
	if math.IsNaN(out) || math.IsInf(out, 0) {
		return 0, fmt.Errorf("%w: prediction %v is not finite", ErrModelOutput, out)
	}

	return clampScore(out), nil
}

// Vector returns the features in the order learned models are trained on:
// length, entropy, upper, lower, digits, special, repeats, sequential,
// proximity, is_leaked (0 or 1).
func (f Features) Vector() []float64 {
	leaked := 0.0
	if f.IsLeaked {
		leaked = 1
	}

	return []float64{
		float64(f.Length),
		f.Entropy,
		float64(f.Upper),
		float64(f.Lower),
		float64(f.Digits),
		float64(f.Special),
		float64(f.Repeats),
		float64(f.Sequential),
		float64(f.Proximity),
		leaked,
	}
}

// clampScore truncates toward zero and saturates to [0, 100].
func clampScore(raw float64) int {
	score := math.Trunc(raw)
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}

	return int(score)
}
