// Package config loads the command-line tool's settings from an optional
// YAML file, CAZY_* environment variables and built-in defaults.
package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/dabane-ghassan/cazy-little-helper/internal/logging"
	"github.com/dabane-ghassan/cazy-little-helper/pkg/cazy/internalerr"
	"github.com/dabane-ghassan/cazy-little-helper/pkg/cazy/pmi"
)

// Config is the root configuration
type Config struct {
	Biblio     BiblioConfig     `mapstructure:"biblio"`
	NCBI       NCBIConfig       `mapstructure:"ncbi"`
	Model      ModelConfig      `mapstructure:"model"`
	Preprocess PreprocessConfig `mapstructure:"preprocess"`
	Retrieval  RetrievalConfig  `mapstructure:"retrieval"`
	Train      TrainConfig      `mapstructure:"train"`
	Store      StoreConfig      `mapstructure:"store"`
	Log        logging.Config   `mapstructure:"log"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

// BiblioConfig points at the Biblio full-text service
type BiblioConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// NCBIConfig configures the E-utilities and ID converter clients
type NCBIConfig struct {
	EutilsURL string        `mapstructure:"eutils_url"`
	IDConvURL string        `mapstructure:"idconv_url"`
	Tool      string        `mapstructure:"tool"`
	Email     string        `mapstructure:"email"`
	APIKey    string        `mapstructure:"api_key"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// ModelConfig locates the classifier artifact
type ModelConfig struct {
	Path string `mapstructure:"path"`
}

// PreprocessConfig mirrors the preprocessing loader settings
type PreprocessConfig struct {
	MinCount     int64   `mapstructure:"min_count"`
	Threshold    float64 `mapstructure:"threshold"`
	Delimiter    string  `mapstructure:"delimiter"`
	Scorer       string  `mapstructure:"scorer"`
	StoplistPath string  `mapstructure:"stoplist_path"`
	LexiconPath  string  `mapstructure:"lexicon_path"`
	Stem         bool    `mapstructure:"stem"`
}

// RetrievalConfig sets the pause between two external calls
type RetrievalConfig struct {
	Delay time.Duration `mapstructure:"delay"`
}

// TrainConfig controls the create command
type TrainConfig struct {
	ValSize      float64 `mapstructure:"val_size"`
	Seed         int64   `mapstructure:"seed"`
	Epochs       int     `mapstructure:"epochs"`
	LearningRate float64 `mapstructure:"learning_rate"`
}

// StoreConfig enables the run store when Path is set
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// MetricsConfig enables a Prometheus text dump when OutPath is set
type MetricsConfig struct {
	OutPath string `mapstructure:"out_path"`
}

// Validate checks the fully populated configuration.
func (c *Config) Validate() error {
	if err := checkURL("biblio.base_url", c.Biblio.BaseURL); err != nil {
		return err
	}
	if err := checkURL("ncbi.eutils_url", c.NCBI.EutilsURL); err != nil {
		return err
	}
	if err := checkURL("ncbi.idconv_url", c.NCBI.IDConvURL); err != nil {
		return err
	}
	if c.Biblio.Timeout < 0 || c.NCBI.Timeout < 0 {
		return invalid("timeouts must not be negative")
	}
	if c.Retrieval.Delay < 0 {
		return invalid("retrieval.delay must not be negative, got %v", c.Retrieval.Delay)
	}

	if c.Preprocess.MinCount < 1 {
		return invalid("preprocess.min_count must be ≥ 1, got %d", c.Preprocess.MinCount)
	}
	if c.Preprocess.Delimiter == "" {
		return invalid("preprocess.delimiter is required")
	}
	if _, err := pmi.NewScorer(c.Preprocess.Scorer); err != nil {
		return invalid("preprocess.scorer: %v", err)
	}

	if c.Train.ValSize <= 0 || c.Train.ValSize >= 1 {
		return invalid("train.val_size must be in (0,1), got %v", c.Train.ValSize)
	}
	if c.Train.Epochs < 1 {
		return invalid("train.epochs must be ≥ 1, got %d", c.Train.Epochs)
	}
	if c.Train.LearningRate <= 0 {
		return invalid("train.learning_rate must be positive, got %v", c.Train.LearningRate)
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return invalid("log.level: %v", err)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return invalid("log.format %q is invalid; expected json|console", c.Log.Format)
	}
	return nil
}

func checkURL(key, raw string) error {
	if raw == "" {
		return invalid("%s is required", key)
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return invalid("%s %q is not an http(s) URL", key, raw)
	}
	return nil
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("config: %s: %w", fmt.Sprintf(format, args...), internalerr.ErrInvalidConfig)
}
