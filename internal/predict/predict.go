// Package predict runs a patient record through the three loaded models.
package predict

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/kartoza/cardio-risk/internal/classifier"
	"github.com/kartoza/cardio-risk/internal/models"
	"github.com/kartoza/cardio-risk/internal/registry"
)

// ErrInference means a model rejected the record.
var ErrInference = errors.New("inference failed")

// Outcome holds one prediction per model. All three are always present.
type Outcome struct {
	ID          string                `json:"id"`
	BernoulliNB classifier.Prediction `json:"bernoulli_nb"`
	LinearSVM   classifier.Prediction `json:"linear_svm"`
	Ensemble    classifier.Prediction `json:"ensemble"`
}

// Option configures an Invoker
type Option func(*Invoker) error

// WithCacheSize keeps up to n outcomes keyed by record. Zero disables it.
func WithCacheSize(n int) Option {
	return func(i *Invoker) error {
		if n <= 0 {
			i.cache = nil
			return nil
		}
		cache, err := lru.New[models.PatientRecord, Outcome](n)
		if err != nil {
			return fmt.Errorf("failed to create prediction cache: %w", err)
		}
		i.cache = cache
		return nil
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(i *Invoker) error {
		i.logger = logger
		return nil
	}
}

// Invoker evaluates records one at a time against a shared, read-only
// ModelSet.
type Invoker struct {
	set    *registry.ModelSet
	cache  *lru.Cache[models.PatientRecord, Outcome]
	logger *zap.Logger
	mu     sync.Mutex
}

// NewInvoker returns an Invoker over a complete model set
func NewInvoker(set *registry.ModelSet, opts ...Option) (*Invoker, error) {
	if set == nil || set.BernoulliNB == nil || set.LinearSVM == nil || set.Ensemble == nil {
		return nil, registry.ErrModelUnavailable
	}

	i := &Invoker{set: set, logger: zap.NewNop()}
	for _, opt := range opts {
		if err := opt(i); err != nil {
			return nil, err
		}
	}
	return i, nil
}

// Predict runs every model on the same row. It returns either all three
// predictions or an error wrapping ErrInference; never a partial outcome.
func (i *Invoker) Predict(ctx context.Context, rec models.PatientRecord) (*Outcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	id := uuid.NewString()
	if i.cache != nil {
		if cached, ok := i.cache.Get(rec); ok {
			cached.ID = id
			i.logger.Debug("prediction served from cache", zap.String("id", id))
			return &cached, nil
		}
	}

	start := time.Now()
	row := rec.Row()
	out := Outcome{}
	runs := []struct {
		name  string
		model *classifier.Model
		dst   *classifier.Prediction
	}{
		{"bernoulli_nb", i.set.BernoulliNB, &out.BernoulliNB},
		{"linear_svm", i.set.LinearSVM, &out.LinearSVM},
		{"ensemble", i.set.Ensemble, &out.Ensemble},
	}
	for _, run := range runs {
		p, err := run.model.Predict(row)
		if err != nil {
			i.logger.Warn("model rejected record", zap.String("model", run.name), zap.Error(err))
			return nil, fmt.Errorf("%w: %s: %w", ErrInference, run.name, err)
		}
		*run.dst = p
	}

	if i.cache != nil {
		i.cache.Add(rec, out)
	}

	out.ID = id
	i.logger.Info("prediction complete",
		zap.String("id", id),
		zap.Int("ensemble_label", out.Ensemble.Label),
		zap.Float64("ensemble_high_risk", out.Ensemble.Positive()),
		zap.Duration("took", time.Since(start)),
	)
	return &out, nil
}
