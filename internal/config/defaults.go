package config

import (
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultBiblioURL    = "http://localhost/Biblio"
	DefaultEutilsURL    = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"
	DefaultIDConvURL    = "https://www.ncbi.nlm.nih.gov/pmc/utils/idconv/v1.0/"
	DefaultTool         = "cazy-little-helper"
	DefaultHTTPTimeout  = 60 * time.Second
	DefaultModelPath    = "models/cazy_helper.json"
	DefaultDelay        = 3 * time.Second
	DefaultMinCount     = 5
	DefaultThreshold    = 100.0
	DefaultDelimiter    = "_"
	DefaultScorer       = "default"
	DefaultValSize      = 0.15
	DefaultSeed         = 42
	DefaultEpochs       = 60
	DefaultLearningRate = 0.5
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "console"
)

// setDefaults registers every key with viper so that CAZY_* variables
// override keys absent from the file.
func setDefaults(v *viper.Viper) {
	v.SetDefault("biblio.base_url", DefaultBiblioURL)
	v.SetDefault("biblio.timeout", DefaultHTTPTimeout)

	v.SetDefault("ncbi.eutils_url", DefaultEutilsURL)
	v.SetDefault("ncbi.idconv_url", DefaultIDConvURL)
	v.SetDefault("ncbi.tool", DefaultTool)
	v.SetDefault("ncbi.email", "")
	v.SetDefault("ncbi.api_key", "")
	v.SetDefault("ncbi.timeout", DefaultHTTPTimeout)

	v.SetDefault("model.path", DefaultModelPath)

	v.SetDefault("preprocess.min_count", DefaultMinCount)
	v.SetDefault("preprocess.threshold", DefaultThreshold)
	v.SetDefault("preprocess.delimiter", DefaultDelimiter)
	v.SetDefault("preprocess.scorer", DefaultScorer)
	v.SetDefault("preprocess.stoplist_path", "")
	v.SetDefault("preprocess.lexicon_path", "")
	v.SetDefault("preprocess.stem", true)

	v.SetDefault("retrieval.delay", DefaultDelay)

	v.SetDefault("train.val_size", DefaultValSize)
	v.SetDefault("train.seed", DefaultSeed)
	v.SetDefault("train.epochs", DefaultEpochs)
	v.SetDefault("train.learning_rate", DefaultLearningRate)

	v.SetDefault("store.path", "")

	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)
	v.SetDefault("log.output_paths", []string{"stderr"})

	v.SetDefault("metrics.out_path", "")
}
