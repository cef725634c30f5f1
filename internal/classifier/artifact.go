package classifier

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

const (
	// ArtifactFormat tags every model artifact this package reads.
	ArtifactFormat = "cardiorisk-model"
	// ArtifactVersion is the only artifact layout version understood.
	ArtifactVersion = 1
)

type artifactFile struct {
	Format   string       `json:"format"`
	Version  int          `json:"version"`
	Name     string       `json:"name"`
	Pipeline pipelineFile `json:"pipeline"`
}

type pipelineFile struct {
	Preprocessor *Preprocessor  `json:"preprocessor"`
	Estimator    json.RawMessage `json:"estimator"`
}

// Load reads a model artifact from disk. A missing file keeps its
// fs.ErrNotExist cause; undecodable content wraps ErrCorrupt; anything the
// runtime cannot evaluate wraps ErrIncompatible.
func Load(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open model artifact: %w", err)
	}
	defer f.Close()

	m, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Decode reads a model artifact from r.
func Decode(r io.Reader) (*Model, error) {
	var file artifactFile
	if err := json.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if file.Format != ArtifactFormat {
		return nil, fmt.Errorf("%w: format %q, want %q", ErrIncompatible, file.Format, ArtifactFormat)
	}
	if file.Version != ArtifactVersion {
		return nil, fmt.Errorf("%w: version %d, want %d", ErrIncompatible, file.Version, ArtifactVersion)
	}
	if len(file.Pipeline.Estimator) == 0 {
		return nil, fmt.Errorf("%w: pipeline has no estimator", ErrIncompatible)
	}

	est, err := decodeEstimator(file.Pipeline.Estimator)
	if err != nil {
		return nil, err
	}
	return NewModel(file.Name, file.Pipeline.Preprocessor, est)
}

// Save writes the model as an artifact that Load can read back.
func (m *Model) Save(path string) error {
	est, err := json.Marshal(m.est)
	if err != nil {
		return fmt.Errorf("failed to marshal estimator: %w", err)
	}

	data, err := json.MarshalIndent(artifactFile{
		Format:  ArtifactFormat,
		Version: ArtifactVersion,
		Name:    m.name,
		Pipeline: pipelineFile{
			Preprocessor: m.prep,
			Estimator:    est,
		},
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal model artifact: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write model artifact: %w", err)
	}
	return nil
}

// decodeEstimator dispatches on the "type" tag.
func decodeEstimator(raw json.RawMessage) (Estimator, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, fmt.Errorf("%w: estimator: %v", ErrCorrupt, err)
	}

	switch head.Type {
	case TypeBernoulliNB:
		var b BernoulliNB
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, head.Type, err)
		}
		if err := b.validate(); err != nil {
			return nil, err
		}
		return &b, nil

	case TypeLinearSVM:
		var s LinearSVM
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, head.Type, err)
		}
		if err := s.validate(); err != nil {
			return nil, err
		}
		return &s, nil

	case TypeVoting:
		var doc struct {
			Voting     string    `json:"voting"`
			Weights    []float64 `json:"weights"`
			Estimators []struct {
				Name      string          `json:"name"`
				Estimator json.RawMessage `json:"estimator"`
			} `json:"estimators"`
		}
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, head.Type, err)
		}
		v := &Voting{Voting: doc.Voting, Weights: doc.Weights}
		for _, member := range doc.Estimators {
			est, err := decodeEstimator(member.Estimator)
			if err != nil {
				return nil, fmt.Errorf("voting member %s: %w", member.Name, err)
			}
			v.Estimators = append(v.Estimators, NamedEstimator{Name: member.Name, Estimator: est})
		}
		if err := v.validate(); err != nil {
			return nil, err
		}
		return v, nil

	default:
		return nil, fmt.Errorf("%w: unsupported estimator type %q", ErrIncompatible, head.Type)
	}
}
