package classifier

import (
	"encoding/json"
	"fmt"
	"math"
)

// TypeLinearSVM identifies a linear SVM estimator in an artifact.
const TypeLinearSVM = "linear_svm"

// LinearSVM is a fitted linear support-vector classifier. Labels follow the
// sign of the decision value; probabilities come from the fitted Platt
// sigmoid p1 = 1 / (1 + exp(ProbA*f + ProbB)).
type LinearSVM struct {
	Coef      []float64 `json:"coef"`
	Intercept float64   `json:"intercept"`
	ProbA     float64   `json:"prob_a"`
	ProbB     float64   `json:"prob_b"`
}

// NumFeatures implements Estimator.
func (s *LinearSVM) NumFeatures() int {
	return len(s.Coef)
}

// Decision returns the signed distance to the separating hyperplane.
func (s *LinearSVM) Decision(x []float64) (float64, error) {
	if len(x) != len(s.Coef) {
		return 0, fmt.Errorf("linear_svm: got %d features, want %d", len(x), len(s.Coef))
	}
	f := s.Intercept
	for i, w := range s.Coef {
		f += w * x[i]
	}
	return f, nil
}

// Predict implements Estimator.
func (s *LinearSVM) Predict(x []float64) (int, error) {
	f, err := s.Decision(x)
	if err != nil {
		return 0, err
	}
	if f > 0 {
		return 1, nil
	}
	return 0, nil
}

// PredictProba implements Estimator.
func (s *LinearSVM) PredictProba(x []float64) ([2]float64, error) {
	f, err := s.Decision(x)
	if err != nil {
		return [2]float64{}, err
	}
	p1 := platt(f, s.ProbA, s.ProbB)
	return [2]float64{1 - p1, p1}, nil
}

// platt evaluates the sigmoid without overflowing for large |A*f+B|.
func platt(f, a, b float64) float64 {
	z := a*f + b
	if z >= 0 {
		e := math.Exp(-z)
		return e / (1 + e)
	}
	return 1 / (1 + math.Exp(z))
}

func (s *LinearSVM) validate() error {
	if len(s.Coef) == 0 {
		return fmt.Errorf("%w: linear_svm has no coefficients", ErrIncompatible)
	}
	if s.ProbA == 0 {
		return fmt.Errorf("%w: linear_svm prob_a must be non-zero", ErrIncompatible)
	}
	return nil
}

// MarshalJSON writes the estimator with its type tag.
func (s *LinearSVM) MarshalJSON() ([]byte, error) {
	type plain LinearSVM
	return json.Marshal(struct {
		Type string `json:"type"`
		*plain
	}{TypeLinearSVM, (*plain)(s)})
}
