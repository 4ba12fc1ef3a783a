// Package config resolves the land pipeline engine's configuration:
// the data directory, provider credentials, and the tunables each
// component (fetch concurrency, scoring thresholds, similarity
// parameters, export batch sizes) needs. Values come from environment
// variables first, then an optional config file loaded through viper,
// then documented defaults — the same precedence order the teacher's
// LLM client used for API key resolution.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all engine configuration.
type Config struct {
	DataDir string `mapstructure:"data_dir"`

	Providers Providers `mapstructure:"providers"`
	Fetch     Fetch     `mapstructure:"fetch"`
	Readable  Readable  `mapstructure:"readable"`
	Scoring   Scoring   `mapstructure:"scoring"`
	Embedding Embedding `mapstructure:"embedding"`
	Similarity Similarity `mapstructure:"similarity"`
	Export    Export    `mapstructure:"export"`
	Logging   Logging   `mapstructure:"logging"`
}

// Providers holds credentials and provider selectors for every pluggable
// collaborator the engine calls out to.
type Providers struct {
	SerpAPIKey     string `mapstructure:"serpapi_api_key"`
	SEORankAPIKey  string `mapstructure:"seorank_api_key"`
	OpenRouterKey  string `mapstructure:"openrouter_api_key"`
	EmbedProvider  string `mapstructure:"embed_provider"` // "fake" | "genai"
	GenAIAPIKey    string `mapstructure:"genai_api_key"`
}

// Fetch holds crawl pipeline tunables (C3).
type Fetch struct {
	WorkerCount       int           `mapstructure:"worker_count"`        // N
	PerDomainLimit    int           `mapstructure:"per_domain_limit"`    // M
	RequestTimeout    time.Duration `mapstructure:"request_timeout"`     // 30s default
	MaxRedirects      int           `mapstructure:"max_redirects"`       // 5 default
	MaxRetries        int           `mapstructure:"max_retries"`         // R default
	RetryBaseDelay    time.Duration `mapstructure:"retry_base_delay"`    // 1s default
	MaxDiscoveryDepth int           `mapstructure:"max_discovery_depth"` // off-domain discovery cap
	CrawlDelay        time.Duration `mapstructure:"crawl_delay"`         // per-domain politeness delay
}

// Readable holds readable-pipeline tunables (C4).
type Readable struct {
	MinLengthForLLMGate int           `mapstructure:"min_length_for_llm_gate"`
	LLMTimeout          time.Duration `mapstructure:"llm_timeout"` // 60s default
}

// Scoring holds dictionary/scorer weights (C2).
type Scoring struct {
	TitleWeight       int `mapstructure:"title_weight"`       // 10
	DescriptionWeight int `mapstructure:"description_weight"` // 3
	ReadableWeight    int `mapstructure:"readable_weight"`    // 1
}

// Embedding holds paragraph extraction/embedding tunables (C5).
type Embedding struct {
	MinParagraphChars int           `mapstructure:"min_paragraph_chars"` // W, default ~80
	BatchSize         int           `mapstructure:"batch_size"`          // B
	BatchTimeout      time.Duration `mapstructure:"batch_timeout"`       // 120s default
}

// Similarity holds the similarity-engine defaults (C6).
type Similarity struct {
	Threshold float64 `mapstructure:"threshold"`
	LSHBits   int     `mapstructure:"lsh_bits"` // K, default 20
	TopK      int     `mapstructure:"top_k"`
	MaxPairs  int     `mapstructure:"max_pairs"`
}

// Export holds export-engine tunables (C7).
type Export struct {
	CorpusBatchSize int `mapstructure:"corpus_batch_size"` // K, default 1000
}

// Logging holds logger tunables.
type Logging struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

// Default returns the documented defaults for every tunable.
func Default() Config {
	return Config{
		DataDir: "./data",
		Fetch: Fetch{
			WorkerCount:       8,
			PerDomainLimit:    2,
			RequestTimeout:    30 * time.Second,
			MaxRedirects:      5,
			MaxRetries:        3,
			RetryBaseDelay:    time.Second,
			MaxDiscoveryDepth: 3,
			CrawlDelay:        0,
		},
		Readable: Readable{
			MinLengthForLLMGate: 300,
			LLMTimeout:          60 * time.Second,
		},
		Scoring: Scoring{
			TitleWeight:       10,
			DescriptionWeight: 3,
			ReadableWeight:    1,
		},
		Embedding: Embedding{
			MinParagraphChars: 80,
			BatchSize:         32,
			BatchTimeout:      120 * time.Second,
		},
		Similarity: Similarity{
			Threshold: 0.8,
			LSHBits:   20,
			TopK:      10,
			MaxPairs:  0,
		},
		Export: Export{
			CorpusBatchSize: 1000,
		},
		Logging: Logging{
			Level: "info",
		},
	}
}

// Load resolves configuration: it loads a .env file if present (ignored
// if missing, matching the teacher's own godotenv.Load() handling),
// binds MWI_* environment variables through viper, optionally merges an
// on-disk config file, and falls back to Default() for anything unset.
func Load(configFile string) (Config, error) {
	_ = godotenv.Load() // best effort; absence of a .env file is not an error

	cfg := Default()

	v := viper.New()
	v.SetEnvPrefix("MWI")
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return cfg, fmt.Errorf("load config file %s: %w", configFile, err)
		}
		if err := v.Unmarshal(&cfg); err != nil {
			return cfg, fmt.Errorf("decode config file %s: %w", configFile, err)
		}
	}

	if dir := os.Getenv("MWI_DATA_LOCATION"); dir != "" {
		cfg.DataDir = dir
	}
	if v := os.Getenv("MWI_SERPAPI_API_KEY"); v != "" {
		cfg.Providers.SerpAPIKey = v
	}
	if v := os.Getenv("MWI_SEORANK_API_KEY"); v != "" {
		cfg.Providers.SEORankAPIKey = v
	}
	if v := os.Getenv("MWI_OPENROUTER_API_KEY"); v != "" {
		cfg.Providers.OpenRouterKey = v
	}
	if v := os.Getenv("MWI_EMBED_PROVIDER"); v != "" {
		cfg.Providers.EmbedProvider = v
	}
	if cfg.Providers.EmbedProvider == "" {
		cfg.Providers.EmbedProvider = "fake"
	}
	if v := os.Getenv("MWI_GENAI_API_KEY"); v != "" {
		cfg.Providers.GenAIAPIKey = v
	}
	if v := os.Getenv("MWI_LOG_PRETTY"); v == "1" || v == "true" {
		cfg.Logging.Pretty = true
	}

	return cfg, nil
}

// DBPath is the path to the SQLite database file inside DataDir.
func (c Config) DBPath() string {
	return filepath.Join(c.DataDir, "mwi.db")
}
