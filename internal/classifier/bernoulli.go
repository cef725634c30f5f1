package classifier

import (
	"encoding/json"
	"fmt"
	"math"
)

// TypeBernoulliNB identifies a Bernoulli naive Bayes estimator in an artifact.
const TypeBernoulliNB = "bernoulli_nb"

// BernoulliNB is a fitted Bernoulli naive Bayes classifier over two classes.
// Features are binarised with x > Binarize (0 when unset).
type BernoulliNB struct {
	Classes        []int       `json:"classes"`
	ClassLogPrior  []float64   `json:"class_log_prior"`
	FeatureLogProb [][]float64 `json:"feature_log_prob"`
	Binarize       *float64    `json:"binarize,omitempty"`
}

// NumFeatures implements Estimator.
func (b *BernoulliNB) NumFeatures() int {
	if len(b.FeatureLogProb) == 0 {
		return 0
	}
	return len(b.FeatureLogProb[0])
}

func (b *BernoulliNB) threshold() float64 {
	if b.Binarize == nil {
		return 0
	}
	return *b.Binarize
}

func (b *BernoulliNB) jointLogLikelihood(x []float64) ([2]float64, error) {
	var jll [2]float64
	if len(x) != b.NumFeatures() {
		return jll, fmt.Errorf("bernoulli_nb: got %d features, want %d", len(x), b.NumFeatures())
	}
	t := b.threshold()
	for c := 0; c < 2; c++ {
		sum := b.ClassLogPrior[c]
		for j, v := range x {
			lp := b.FeatureLogProb[c][j]
			if v > t {
				sum += lp
			} else {
				sum += math.Log1p(-math.Exp(lp))
			}
		}
		jll[c] = sum
	}
	return jll, nil
}

// Predict implements Estimator.
func (b *BernoulliNB) Predict(x []float64) (int, error) {
	jll, err := b.jointLogLikelihood(x)
	if err != nil {
		return 0, err
	}
	return b.Classes[argmax(jll)], nil
}

// PredictProba implements Estimator.
func (b *BernoulliNB) PredictProba(x []float64) ([2]float64, error) {
	jll, err := b.jointLogLikelihood(x)
	if err != nil {
		return [2]float64{}, err
	}
	m := math.Max(jll[0], jll[1])
	norm := m + math.Log(math.Exp(jll[0]-m)+math.Exp(jll[1]-m))
	return [2]float64{math.Exp(jll[0] - norm), math.Exp(jll[1] - norm)}, nil
}

func (b *BernoulliNB) validate() error {
	if len(b.Classes) != 2 || b.Classes[0] != 0 || b.Classes[1] != 1 {
		return fmt.Errorf("%w: bernoulli_nb classes must be [0 1], got %v", ErrIncompatible, b.Classes)
	}
	if len(b.ClassLogPrior) != 2 || len(b.FeatureLogProb) != 2 {
		return fmt.Errorf("%w: bernoulli_nb needs parameters for exactly two classes", ErrIncompatible)
	}
	n := len(b.FeatureLogProb[0])
	if n == 0 || len(b.FeatureLogProb[1]) != n {
		return fmt.Errorf("%w: bernoulli_nb feature_log_prob rows must be equal and non-empty", ErrIncompatible)
	}
	for _, row := range b.FeatureLogProb {
		for _, lp := range row {
			if !(lp < 0) {
				return fmt.Errorf("%w: bernoulli_nb feature_log_prob must be negative, got %v", ErrIncompatible, lp)
			}
		}
	}
	return nil
}

// MarshalJSON writes the estimator with its type tag.
func (b *BernoulliNB) MarshalJSON() ([]byte, error) {
	type plain BernoulliNB
	return json.Marshal(struct {
		Type string `json:"type"`
		*plain
	}{TypeBernoulliNB, (*plain)(b)})
}
