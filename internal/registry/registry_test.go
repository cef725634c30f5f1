package registry

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/kartoza/cardio-risk/internal/classifier"
	"github.com/kartoza/cardio-risk/internal/classifier/classifiertest"
	"github.com/kartoza/cardio-risk/internal/config"
)

func newTestLoader(t *testing.T, dir string) *Loader {
	t.Helper()
	return NewLoader(dir, config.DefaultArtifactNames(), zaptest.NewLogger(t))
}

func TestLoadAllPresent(t *testing.T) {
	dir := t.TempDir()
	classifiertest.WriteArtifacts(t, dir, config.DefaultArtifactNames())

	avail := newTestLoader(t, dir).Load()
	require.True(t, avail.Ready())
	require.NoError(t, avail.Err())

	set, ok := avail.Models()
	require.True(t, ok)
	assert.Equal(t, "bernoulli_nb", set.BernoulliNB.Name())
	assert.Equal(t, "linear_svm", set.LinearSVM.Name())
	assert.Equal(t, "ensemble_voting", set.Ensemble.Name())
}

func TestLoadMissingArtifact(t *testing.T) {
	names := config.DefaultArtifactNames()
	for _, missing := range []string{names.BernoulliNB, names.LinearSVM, names.Ensemble} {
		t.Run(missing, func(t *testing.T) {
			dir := t.TempDir()
			classifiertest.WriteArtifacts(t, dir, names)
			require.NoError(t, os.Remove(filepath.Join(dir, missing)))

			avail := newTestLoader(t, dir).Load()
			assert.False(t, avail.Ready())

			set, ok := avail.Models()
			assert.False(t, ok)
			assert.Nil(t, set)

			err := avail.Err()
			assert.ErrorIs(t, err, ErrModelUnavailable)
			assert.ErrorIs(t, err, fs.ErrNotExist)
			assert.Contains(t, err.Error(), missing)
		})
	}
}

func TestLoadCorruptArtifact(t *testing.T) {
	dir := t.TempDir()
	names := config.DefaultArtifactNames()
	classifiertest.WriteArtifacts(t, dir, names)
	require.NoError(t, os.WriteFile(filepath.Join(dir, names.LinearSVM), []byte("\x80\x04\x95"), 0644))

	avail := newTestLoader(t, dir).Load()
	assert.False(t, avail.Ready())
	assert.ErrorIs(t, avail.Err(), ErrModelUnavailable)
	assert.ErrorIs(t, avail.Err(), classifier.ErrCorrupt)
}

func TestLoadEmptyDirectory(t *testing.T) {
	avail := newTestLoader(t, t.TempDir()).Load()
	assert.False(t, avail.Ready())
	assert.ErrorIs(t, avail.Err(), ErrModelUnavailable)
}

func TestLoadRunsOnce(t *testing.T) {
	dir := t.TempDir()
	classifiertest.WriteArtifacts(t, dir, config.DefaultArtifactNames())

	loader := newTestLoader(t, dir)
	first := loader.Load()
	require.True(t, first.Ready())

	// Disk is not read again, so removing the files changes nothing.
	require.NoError(t, os.RemoveAll(dir))
	second := loader.Load()
	require.True(t, second.Ready())

	a, _ := first.Models()
	b, _ := second.Models()
	assert.Same(t, a, b)
}

func TestLoadFailureIsCached(t *testing.T) {
	dir := t.TempDir()
	loader := newTestLoader(t, dir)
	require.False(t, loader.Load().Ready())

	// Repairing the artifacts needs a restart.
	classifiertest.WriteArtifacts(t, dir, config.DefaultArtifactNames())
	assert.False(t, loader.Load().Ready())
}

func TestWatchMarksStale(t *testing.T) {
	dir := t.TempDir()
	names := config.DefaultArtifactNames()
	classifiertest.WriteArtifacts(t, dir, names)

	loader := newTestLoader(t, dir)
	require.True(t, loader.Load().Ready())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, loader.Watch(ctx))

	// Unrelated files do not matter.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	time.Sleep(100 * time.Millisecond)
	assert.False(t, loader.Stale())

	classifiertest.WriteArtifacts(t, dir, names)
	assert.Eventually(t, loader.Stale, 2*time.Second, 20*time.Millisecond)

	// Still serving the originally loaded models.
	assert.True(t, loader.Load().Ready())
}

func TestWatchMissingDirectory(t *testing.T) {
	loader := newTestLoader(t, filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, loader.Watch(context.Background()))
}

func TestShippedArtifacts(t *testing.T) {
	dir := filepath.Join("..", "..", "models")
	if _, err := os.Stat(dir); err != nil {
		t.Skipf("shipped models not present: %v", err)
	}

	avail := newTestLoader(t, dir).Load()
	require.NoError(t, avail.Err())
	set, ok := avail.Models()
	require.True(t, ok)

	for _, m := range []*classifier.Model{set.BernoulliNB, set.LinearSVM, set.Ensemble} {
		for _, row := range []classifier.Row{classifiertest.LowRiskRow(), classifiertest.HighRiskRow()} {
			p, err := m.Predict(row)
			require.NoError(t, err, m.Name())
			assert.InDelta(t, 1.0, p.Proba[0]+p.Proba[1], 1e-9, m.Name())
		}
	}
}
