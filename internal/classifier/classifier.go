// Package classifier evaluates fitted binary classification pipelines that
// were exported to JSON model artifacts.
//
// A pipeline is a Preprocessor (standardisation of numeric columns and
// one-hot encoding of categorical columns) followed by an Estimator. The
// estimators mirror their fitted counterparts: Bernoulli naive Bayes, a
// linear SVM with Platt scaling, and a soft-voting ensemble of the two.
// Models are immutable once loaded and safe for concurrent use.
package classifier

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownCategory is returned when a categorical value was not seen at fit time.
	ErrUnknownCategory = errors.New("unknown category")
	// ErrMissingColumn is returned when a row lacks a column the pipeline expects.
	ErrMissingColumn = errors.New("missing column")
	// ErrCorrupt is returned when an artifact cannot be decoded.
	ErrCorrupt = errors.New("corrupt model artifact")
	// ErrIncompatible is returned when an artifact decodes but cannot be used.
	ErrIncompatible = errors.New("incompatible model artifact")
)

// Row is a single input record keyed by column name.
type Row struct {
	Numeric     map[string]float64
	Categorical map[string]string
}

// Prediction is the output of a binary classifier for one row.
// Proba[1] is the probability of the positive class.
type Prediction struct {
	Label int        `json:"label"`
	Proba [2]float64 `json:"proba"`
}

// Positive returns the probability of class 1.
func (p Prediction) Positive() float64 {
	return p.Proba[1]
}

// Estimator scores an encoded feature vector.
type Estimator interface {
	Predict(x []float64) (int, error)
	PredictProba(x []float64) ([2]float64, error)
	NumFeatures() int
}

// Model is a named, fitted pipeline.
type Model struct {
	name string
	prep *Preprocessor
	est  Estimator
}

// NewModel assembles a pipeline and checks that the estimator accepts the
// preprocessor's output width.
func NewModel(name string, prep *Preprocessor, est Estimator) (*Model, error) {
	if prep == nil || est == nil {
		return nil, fmt.Errorf("%w: pipeline needs a preprocessor and an estimator", ErrIncompatible)
	}
	if err := prep.validate(); err != nil {
		return nil, err
	}
	if got, want := est.NumFeatures(), prep.NumFeatures(); got != want {
		return nil, fmt.Errorf("%w: estimator expects %d features, preprocessor produces %d",
			ErrIncompatible, got, want)
	}
	return &Model{name: name, prep: prep, est: est}, nil
}

// Name returns the model name recorded in the artifact.
func (m *Model) Name() string {
	return m.name
}

// Predict returns the class label and class probabilities for a row.
func (m *Model) Predict(row Row) (Prediction, error) {
	x, err := m.prep.Transform(row)
	if err != nil {
		return Prediction{}, err
	}
	label, err := m.est.Predict(x)
	if err != nil {
		return Prediction{}, err
	}
	proba, err := m.est.PredictProba(x)
	if err != nil {
		return Prediction{}, err
	}
	return Prediction{Label: label, Proba: proba}, nil
}

// PredictProba returns only the class probabilities for a row.
func (m *Model) PredictProba(row Row) ([2]float64, error) {
	x, err := m.prep.Transform(row)
	if err != nil {
		return [2]float64{}, err
	}
	return m.est.PredictProba(x)
}

// argmax picks the first class with the highest score.
func argmax(scores [2]float64) int {
	if scores[1] > scores[0] {
		return 1
	}
	return 0
}
