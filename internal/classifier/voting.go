package classifier

import (
	"encoding/json"
	"fmt"
)

// TypeVoting identifies a voting ensemble in an artifact.
const TypeVoting = "voting"

// VotingSoft is the only voting mode that can produce probabilities.
const VotingSoft = "soft"

// NamedEstimator is one member of a voting ensemble.
type NamedEstimator struct {
	Name      string    `json:"name"`
	Estimator Estimator `json:"estimator"`
}

// Voting averages member probabilities, optionally weighted, and predicts
// the class with the highest averaged probability.
type Voting struct {
	Voting     string           `json:"voting"`
	Estimators []NamedEstimator `json:"estimators"`
	Weights    []float64        `json:"weights,omitempty"`
}

// NumFeatures implements Estimator.
func (v *Voting) NumFeatures() int {
	if len(v.Estimators) == 0 {
		return 0
	}
	return v.Estimators[0].Estimator.NumFeatures()
}

// PredictProba implements Estimator.
func (v *Voting) PredictProba(x []float64) ([2]float64, error) {
	var avg [2]float64
	total := 0.0
	for i, m := range v.Estimators {
		p, err := m.Estimator.PredictProba(x)
		if err != nil {
			return [2]float64{}, fmt.Errorf("voting member %s: %w", m.Name, err)
		}
		w := 1.0
		if len(v.Weights) > 0 {
			w = v.Weights[i]
		}
		avg[0] += w * p[0]
		avg[1] += w * p[1]
		total += w
	}
	avg[0] /= total
	avg[1] /= total
	return avg, nil
}

// Predict implements Estimator.
func (v *Voting) Predict(x []float64) (int, error) {
	p, err := v.PredictProba(x)
	if err != nil {
		return 0, err
	}
	return argmax(p), nil
}

func (v *Voting) validate() error {
	if v.Voting != VotingSoft {
		return fmt.Errorf("%w: voting=%q cannot estimate probabilities, want %q", ErrIncompatible, v.Voting, VotingSoft)
	}
	if len(v.Estimators) == 0 {
		return fmt.Errorf("%w: voting ensemble has no estimators", ErrIncompatible)
	}
	if len(v.Weights) > 0 && len(v.Weights) != len(v.Estimators) {
		return fmt.Errorf("%w: voting has %d weights for %d estimators", ErrIncompatible, len(v.Weights), len(v.Estimators))
	}
	sum := 0.0
	for _, w := range v.Weights {
		if w < 0 {
			return fmt.Errorf("%w: voting weight %v is negative", ErrIncompatible, w)
		}
		sum += w
	}
	if len(v.Weights) > 0 && sum == 0 {
		return fmt.Errorf("%w: voting weights sum to zero", ErrIncompatible)
	}
	n := v.Estimators[0].Estimator.NumFeatures()
	for _, m := range v.Estimators[1:] {
		if m.Estimator.NumFeatures() != n {
			return fmt.Errorf("%w: voting member %s expects %d features, want %d",
				ErrIncompatible, m.Name, m.Estimator.NumFeatures(), n)
		}
	}
	return nil
}

// MarshalJSON writes the estimator with its type tag.
func (v *Voting) MarshalJSON() ([]byte, error) {
	type plain Voting
	return json.Marshal(struct {
		Type string `json:"type"`
		*plain
	}{TypeVoting, (*plain)(v)})
}
