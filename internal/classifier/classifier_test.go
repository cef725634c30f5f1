package classifier_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kartoza/cardio-risk/internal/classifier"
	"github.com/kartoza/cardio-risk/internal/classifier/classifiertest"
)

func tinyPreprocessor() *classifier.Preprocessor {
	return &classifier.Preprocessor{
		Numeric:     []classifier.NumericColumn{{Name: "x", Mean: 10, Scale: 2}},
		Categorical: []classifier.CategoricalColumn{{Name: "c", Categories: []string{"a", "b"}}},
	}
}

func TestTransform(t *testing.T) {
	p := tinyPreprocessor()
	require.Equal(t, 3, p.NumFeatures())

	x, err := p.Transform(classifier.Row{
		Numeric:     map[string]float64{"x": 14},
		Categorical: map[string]string{"c": "b"},
	})
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 0, 1}, x)
}

func TestTransformUnknownCategory(t *testing.T) {
	_, err := tinyPreprocessor().Transform(classifier.Row{
		Numeric:     map[string]float64{"x": 10},
		Categorical: map[string]string{"c": "z"},
	})
	assert.ErrorIs(t, err, classifier.ErrUnknownCategory)
}

func TestTransformMissingColumn(t *testing.T) {
	_, err := tinyPreprocessor().Transform(classifier.Row{
		Categorical: map[string]string{"c": "a"},
	})
	assert.ErrorIs(t, err, classifier.ErrMissingColumn)
}

func TestBernoulliNB(t *testing.T) {
	nb := &classifier.BernoulliNB{
		Classes:        []int{0, 1},
		ClassLogPrior:  []float64{math.Log(0.5), math.Log(0.5)},
		FeatureLogProb: [][]float64{{math.Log(0.2)}, {math.Log(0.8)}},
	}

	p, err := nb.PredictProba([]float64{1})
	require.NoError(t, err)
	assert.InDelta(t, 0.8, p[1], 1e-12)
	assert.InDelta(t, 1.0, p[0]+p[1], 1e-12)
	label, err := nb.Predict([]float64{1})
	require.NoError(t, err)
	assert.Equal(t, 1, label)

	p, err = nb.PredictProba([]float64{-1})
	require.NoError(t, err)
	assert.InDelta(t, 0.2, p[1], 1e-12)
	label, err = nb.Predict([]float64{-1})
	require.NoError(t, err)
	assert.Equal(t, 0, label)

	threshold := 2.0
	nb.Binarize = &threshold
	p, err = nb.PredictProba([]float64{1})
	require.NoError(t, err)
	assert.InDelta(t, 0.2, p[1], 1e-12, "1 is not above the binarize threshold")

	_, err = nb.PredictProba([]float64{1, 2})
	assert.Error(t, err)
}

func TestLinearSVM(t *testing.T) {
	svm := &classifier.LinearSVM{Coef: []float64{1, -1}, Intercept: 0.5, ProbA: -2, ProbB: 0}

	f, err := svm.Decision([]float64{1, 0})
	require.NoError(t, err)
	assert.InDelta(t, 1.5, f, 1e-12)

	label, err := svm.Predict([]float64{1, 0})
	require.NoError(t, err)
	assert.Equal(t, 1, label)

	p, err := svm.PredictProba([]float64{1, 0})
	require.NoError(t, err)
	assert.InDelta(t, 1/(1+math.Exp(-3)), p[1], 1e-12)
	assert.InDelta(t, 1.0, p[0]+p[1], 1e-12)

	label, err = svm.Predict([]float64{0, 2})
	require.NoError(t, err)
	assert.Equal(t, 0, label)
}

func TestVotingAveragesMemberProbabilities(t *testing.T) {
	nb := &classifier.BernoulliNB{
		Classes:        []int{0, 1},
		ClassLogPrior:  []float64{math.Log(0.5), math.Log(0.5)},
		FeatureLogProb: [][]float64{{math.Log(0.2), math.Log(0.5)}, {math.Log(0.8), math.Log(0.5)}},
	}
	svm := &classifier.LinearSVM{Coef: []float64{1, -1}, Intercept: 0.5, ProbA: -2, ProbB: 0}
	x := []float64{1, 0}
	svmP1 := 1 / (1 + math.Exp(-3))

	v := &classifier.Voting{
		Voting: classifier.VotingSoft,
		Estimators: []classifier.NamedEstimator{
			{Name: "bnb", Estimator: nb},
			{Name: "svm", Estimator: svm},
		},
	}
	p, err := v.PredictProba(x)
	require.NoError(t, err)
	assert.InDelta(t, (0.8+svmP1)/2, p[1], 1e-12)

	v.Weights = []float64{3, 1}
	p, err = v.PredictProba(x)
	require.NoError(t, err)
	assert.InDelta(t, (3*0.8+svmP1)/4, p[1], 1e-12)
	assert.InDelta(t, 1.0, p[0]+p[1], 1e-12)

	label, err := v.Predict(x)
	require.NoError(t, err)
	assert.Equal(t, 1, label)
}

func TestFixtureModels(t *testing.T) {
	nb, svm, ensemble := classifiertest.Models(t)

	for _, m := range []*classifier.Model{nb, svm, ensemble} {
		low, err := m.Predict(classifiertest.LowRiskRow())
		require.NoError(t, err, m.Name())
		assert.Equal(t, 0, low.Label, m.Name())
		assert.InDelta(t, 1.0, low.Proba[0]+low.Proba[1], 1e-9, m.Name())

		high, err := m.Predict(classifiertest.HighRiskRow())
		require.NoError(t, err, m.Name())
		assert.Equal(t, 1, high.Label, m.Name())
		assert.Greater(t, high.Positive(), 0.5, m.Name())

		proba, err := m.PredictProba(classifiertest.HighRiskRow())
		require.NoError(t, err)
		assert.Equal(t, high.Proba, proba)
	}
}

func TestNewModelRejectsWidthMismatch(t *testing.T) {
	_, err := classifier.NewModel("svm", tinyPreprocessor(), &classifier.LinearSVM{Coef: []float64{1}, ProbA: -1})
	assert.ErrorIs(t, err, classifier.ErrIncompatible)
}
