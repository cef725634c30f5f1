// Package registry loads the three model artifacts once per process and
// reports whether the full set is available.
package registry

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/kartoza/cardio-risk/internal/classifier"
	"github.com/kartoza/cardio-risk/internal/config"
)

// ErrModelUnavailable means at least one artifact failed to load.
var ErrModelUnavailable = errors.New("model unavailable")

// ModelSet holds the three loaded models. It is read-only after load.
type ModelSet struct {
	BernoulliNB *classifier.Model
	LinearSVM   *classifier.Model
	Ensemble    *classifier.Model
}

// Availability is the outcome of loading: either a complete ModelSet or
// the error that kept it from loading, never both.
type Availability struct {
	set *ModelSet
	err error
}

// Models returns the loaded set and whether it is present.
func (a Availability) Models() (*ModelSet, bool) {
	return a.set, a.set != nil
}

// Ready reports whether all three models loaded.
func (a Availability) Ready() bool {
	return a.set != nil
}

// Err returns the load failure, wrapping ErrModelUnavailable, or nil.
func (a Availability) Err() error {
	return a.err
}

// Loader reads the artifacts from a directory at most once.
type Loader struct {
	dir    string
	names  config.ArtifactNames
	logger *zap.Logger

	once   sync.Once
	result Availability
	stale  atomic.Bool
}

// NewLoader creates a loader for the artifacts in dir
func NewLoader(dir string, names config.ArtifactNames, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{dir: dir, names: names, logger: logger}
}

// Dir returns the model directory.
func (l *Loader) Dir() string {
	return l.dir
}

// Load reads all artifacts on first call and returns the cached result on
// every later call.
func (l *Loader) Load() Availability {
	l.once.Do(func() {
		l.result = l.load()
	})
	return l.result
}

// Stale reports whether an artifact changed on disk after it was loaded.
func (l *Loader) Stale() bool {
	return l.stale.Load()
}

func (l *Loader) load() Availability {
	set := &ModelSet{}
	targets := []struct {
		file string
		dst  **classifier.Model
	}{
		{l.names.BernoulliNB, &set.BernoulliNB},
		{l.names.LinearSVM, &set.LinearSVM},
		{l.names.Ensemble, &set.Ensemble},
	}

	var errs []error
	for _, target := range targets {
		path := filepath.Join(l.dir, target.file)
		m, err := classifier.Load(path)
		if err != nil {
			l.logger.Error("failed to load model artifact", zap.String("path", path), zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", target.file, err))
			continue
		}
		*target.dst = m
		l.logger.Info("loaded model artifact", zap.String("model", m.Name()), zap.String("path", path))
	}

	if len(errs) > 0 {
		return Availability{err: fmt.Errorf("%w: %w", ErrModelUnavailable, errors.Join(errs...))}
	}
	return Availability{set: set}
}

// artifactPaths returns the cleaned absolute-or-relative paths of the three artifacts.
func (l *Loader) artifactPaths() map[string]bool {
	return map[string]bool{
		filepath.Clean(filepath.Join(l.dir, l.names.BernoulliNB)): true,
		filepath.Clean(filepath.Join(l.dir, l.names.LinearSVM)):   true,
		filepath.Clean(filepath.Join(l.dir, l.names.Ensemble)):    true,
	}
}
