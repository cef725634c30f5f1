// Package classifiertest provides fitted pipelines with hand-picked
// parameters for tests in packages that load or evaluate models.
package classifiertest

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/kartoza/cardio-risk/internal/classifier"
	"github.com/kartoza/cardio-risk/internal/config"
)

// Preprocessor returns the encoding used by every fixture model: six
// standardised numeric columns followed by one-hot blocks with categories
// in sorted order.
func Preprocessor() *classifier.Preprocessor {
	return &classifier.Preprocessor{
		Numeric: []classifier.NumericColumn{
			{Name: "Age", Mean: 53.51, Scale: 9.43},
			{Name: "RestingBP", Mean: 132.40, Scale: 18.51},
			{Name: "Cholesterol", Mean: 198.80, Scale: 109.38},
			{Name: "FastingBS", Mean: 0.233, Scale: 0.423},
			{Name: "MaxHR", Mean: 136.81, Scale: 25.46},
			{Name: "Oldpeak", Mean: 0.887, Scale: 1.066},
		},
		Categorical: []classifier.CategoricalColumn{
			{Name: "Sex", Categories: []string{"F", "M"}},
			{Name: "ChestPainType", Categories: []string{"ASY", "ATA", "NAP", "TA"}},
			{Name: "RestingECG", Categories: []string{"LVH", "Normal", "ST"}},
			{Name: "ExerciseAngina", Categories: []string{"N", "Y"}},
			{Name: "ST_Slope", Categories: []string{"Down", "Flat", "Up"}},
		},
	}
}

// feature probabilities P(x=1 | class) for class 0 and class 1, in
// Preprocessor column order.
var featureProb = [2][20]float64{
	{0.38, 0.42, 0.62, 0.11, 0.68, 0.25, 0.35, 0.65, 0.25, 0.36, 0.32, 0.07, 0.20, 0.64, 0.16, 0.86, 0.14, 0.04, 0.19, 0.77},
	{0.62, 0.52, 0.45, 0.33, 0.33, 0.70, 0.10, 0.90, 0.77, 0.05, 0.14, 0.04, 0.21, 0.56, 0.23, 0.38, 0.62, 0.10, 0.75, 0.15},
}

// BernoulliNB returns a naive Bayes estimator fitted on a 410/508 class split.
func BernoulliNB() *classifier.BernoulliNB {
	nb := &classifier.BernoulliNB{
		Classes:        []int{0, 1},
		ClassLogPrior:  []float64{math.Log(410.0 / 918.0), math.Log(508.0 / 918.0)},
		FeatureLogProb: make([][]float64, 2),
	}
	for c := range featureProb {
		nb.FeatureLogProb[c] = make([]float64, len(featureProb[c]))
		for j, p := range featureProb[c] {
			nb.FeatureLogProb[c][j] = math.Log(p)
		}
	}
	return nb
}

// LinearSVM returns a linear SVM with a Platt sigmoid.
func LinearSVM() *classifier.LinearSVM {
	return &classifier.LinearSVM{
		Coef: []float64{
			0.15, 0.05, -0.20, 0.25, -0.15, 0.35, // numeric
			-0.40, 0.40, // Sex
			0.60, -0.45, -0.30, 0.15, // ChestPainType
			0.00, 0.00, 0.05, // RestingECG
			-0.30, 0.30, // ExerciseAngina
			0.20, 0.55, -0.75, // ST_Slope
		},
		Intercept: 0.10,
		ProbA:     -1.8,
		ProbB:     0.05,
	}
}

// Voting returns an unweighted soft-voting ensemble of BernoulliNB and LinearSVM.
func Voting() *classifier.Voting {
	return &classifier.Voting{
		Voting: classifier.VotingSoft,
		Estimators: []classifier.NamedEstimator{
			{Name: "bnb", Estimator: BernoulliNB()},
			{Name: "svm", Estimator: LinearSVM()},
		},
	}
}

// Models returns the three fixture pipelines.
func Models(t testing.TB) (nb, svm, ensemble *classifier.Model) {
	t.Helper()

	var err error
	if nb, err = classifier.NewModel("bernoulli_nb", Preprocessor(), BernoulliNB()); err != nil {
		t.Fatalf("bernoulli_nb fixture: %v", err)
	}
	if svm, err = classifier.NewModel("linear_svm", Preprocessor(), LinearSVM()); err != nil {
		t.Fatalf("linear_svm fixture: %v", err)
	}
	if ensemble, err = classifier.NewModel("ensemble_voting", Preprocessor(), Voting()); err != nil {
		t.Fatalf("ensemble fixture: %v", err)
	}
	return nb, svm, ensemble
}

// WriteArtifacts saves the three fixture pipelines into dir under names.
func WriteArtifacts(t testing.TB, dir string, names config.ArtifactNames) {
	t.Helper()

	nb, svm, ensemble := Models(t)
	for path, m := range map[string]*classifier.Model{
		filepath.Join(dir, names.BernoulliNB): nb,
		filepath.Join(dir, names.LinearSVM):   svm,
		filepath.Join(dir, names.Ensemble):    ensemble,
	} {
		if err := m.Save(path); err != nil {
			t.Fatalf("write artifact %s: %v", path, err)
		}
	}
}

// LowRiskRow is the form's default record; every fixture model scores it low.
func LowRiskRow() classifier.Row {
	return classifier.Row{
		Numeric: map[string]float64{
			"Age": 40, "RestingBP": 120, "Cholesterol": 200,
			"FastingBS": 0, "MaxHR": 150, "Oldpeak": 1.0,
		},
		Categorical: map[string]string{
			"Sex": "M", "ChestPainType": "ATA", "RestingECG": "Normal",
			"ExerciseAngina": "N", "ST_Slope": "Up",
		},
	}
}

// HighRiskRow is a record every fixture model scores high.
func HighRiskRow() classifier.Row {
	return classifier.Row{
		Numeric: map[string]float64{
			"Age": 65, "RestingBP": 160, "Cholesterol": 150,
			"FastingBS": 1, "MaxHR": 100, "Oldpeak": 3.0,
		},
		Categorical: map[string]string{
			"Sex": "M", "ChestPainType": "ASY", "RestingECG": "ST",
			"ExerciseAngina": "Y", "ST_Slope": "Flat",
		},
	}
}
