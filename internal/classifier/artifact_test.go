package classifier_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kartoza/cardio-risk/internal/classifier"
	"github.com/kartoza/cardio-risk/internal/classifier/classifiertest"
)

func TestSaveLoad(t *testing.T) {
	_, _, ensemble := classifiertest.Models(t)
	path := filepath.Join(t.TempDir(), "model.json")

	require.NoError(t, ensemble.Save(path))

	loaded, err := classifier.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "ensemble_voting", loaded.Name())

	want, err := ensemble.Predict(classifiertest.HighRiskRow())
	require.NoError(t, err)
	got, err := loaded.Predict(classifiertest.HighRiskRow())
	require.NoError(t, err)
	assert.Equal(t, want.Label, got.Label)
	assert.InDelta(t, want.Proba[1], got.Proba[1], 1e-12)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := classifier.Load(filepath.Join(t.TempDir(), "absent.json"))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

const svmEstimator = `{"type":"linear_svm","coef":[1,0,0],"intercept":0,"prob_a":-1,"prob_b":0}`

const preprocessorJSON = `{"numeric":[{"name":"x","mean":0,"scale":1}],"categorical":[{"name":"c","categories":["a","b"]}]}`

func artifact(format string, version int, estimator string) string {
	return `{"format":"` + format + `","version":` + strconv.Itoa(version) +
		`,"name":"m","pipeline":{"preprocessor":` + preprocessorJSON + `,"estimator":` + estimator + `}}`
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{"valid", artifact(classifier.ArtifactFormat, 1, svmEstimator), nil},
		{"not json", "\x80\x04pickle", classifier.ErrCorrupt},
		{"truncated", `{"format":"cardiorisk-model",`, classifier.ErrCorrupt},
		{"wrong format", artifact("sklearn-pickle", 1, svmEstimator), classifier.ErrIncompatible},
		{"wrong version", artifact(classifier.ArtifactFormat, 2, svmEstimator), classifier.ErrIncompatible},
		{"unknown estimator", artifact(classifier.ArtifactFormat, 1, `{"type":"random_forest"}`), classifier.ErrIncompatible},
		{"width mismatch", artifact(classifier.ArtifactFormat, 1,
			`{"type":"linear_svm","coef":[1,0],"intercept":0,"prob_a":-1,"prob_b":0}`), classifier.ErrIncompatible},
		{"hard voting", artifact(classifier.ArtifactFormat, 1,
			`{"type":"voting","voting":"hard","estimators":[{"name":"svm","estimator":`+svmEstimator+`}]}`), classifier.ErrIncompatible},
		{"soft voting", artifact(classifier.ArtifactFormat, 1,
			`{"type":"voting","voting":"soft","estimators":[{"name":"svm","estimator":`+svmEstimator+`}]}`), nil},
		{"positive log prob", artifact(classifier.ArtifactFormat, 1,
			`{"type":"bernoulli_nb","classes":[0,1],"class_log_prior":[-0.7,-0.7],"feature_log_prob":[[0,-1,-1],[-1,-1,-1]]}`), classifier.ErrIncompatible},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := classifier.Decode(strings.NewReader(tt.content))
			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.NotNil(t, m)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoadCorruptFileNamesPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model_linear_svm.json")
	require.NoError(t, os.WriteFile(path, []byte("not a model"), 0644))

	_, err := classifier.Load(path)
	require.ErrorIs(t, err, classifier.ErrCorrupt)
	assert.Contains(t, err.Error(), "model_linear_svm.json")
}
