package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

// Config holds the application configuration
type Config struct {
	Port        int           `yaml:"port"`
	ModelDir    string        `yaml:"model_dir"`
	Language    string        `yaml:"language"`
	CacheSize   int           `yaml:"cache_size"`
	WatchModels bool          `yaml:"watch_models"`
	Artifacts   ArtifactNames `yaml:"artifacts"`
	Log         LogConfig     `yaml:"log"`
	Version     string        `yaml:"-"`
}

// ArtifactNames are the fixed file names of the three model artifacts
// inside ModelDir.
type ArtifactNames struct {
	BernoulliNB string `yaml:"bernoulli_nb"`
	LinearSVM   string `yaml:"linear_svm"`
	Ensemble    string `yaml:"ensemble"`
}

// LogConfig controls logger level and optional rotated file output
type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// Supported UI languages
var Languages = []string{"en", "id"}

// DefaultArtifactNames returns the artifact names the models are shipped under
func DefaultArtifactNames() ArtifactNames {
	return ArtifactNames{
		BernoulliNB: "model_bernoulli_nb.json",
		LinearSVM:   "model_linear_svm.json",
		Ensemble:    "model_ensemble_voting.json",
	}
}

// Default returns the configuration used when no file is present
func Default() Config {
	return Config{
		Port:        8080,
		ModelDir:    "./models",
		Language:    "en",
		CacheSize:   128,
		WatchModels: true,
		Artifacts:   DefaultArtifactNames(),
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// Load reads a YAML config file on top of Default(). A missing file is not
// an error. Relative paths in the file are resolved against its directory.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	base := filepath.Dir(path)
	cfg.ModelDir = resolve(base, cfg.ModelDir)
	if cfg.Log.File != "" {
		cfg.Log.File = resolve(base, cfg.Log.File)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges
func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.ModelDir == "" {
		return fmt.Errorf("model_dir is required")
	}
	if !supportedLanguage(c.Language) {
		return fmt.Errorf("language %q not supported (use one of %v)", c.Language, Languages)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("cache_size must not be negative")
	}
	a := c.Artifacts
	if a.BernoulliNB == "" || a.LinearSVM == "" || a.Ensemble == "" {
		return fmt.Errorf("all three artifact names are required")
	}
	return nil
}

func supportedLanguage(lang string) bool {
	for _, l := range Languages {
		if l == lang {
			return true
		}
	}
	return false
}

func resolve(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
