package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the campusqa service configuration.
type Config struct {
	HTTP         HTTPConfig         `yaml:"http"`
	Database     DatabaseConfig     `yaml:"database"`
	DocStore     DocStoreConfig     `yaml:"docstore"`
	Embedding    EmbeddingConfig    `yaml:"embedding"`
	AI           AIConfig           `yaml:"ai"`
	Retrieval    RetrievalConfig    `yaml:"retrieval"`
	Intent       IntentConfig       `yaml:"intent"`
	Conversation ConversationConfig `yaml:"conversation"`
	Retention    RetentionConfig    `yaml:"retention"`
	Catalog      CatalogConfig      `yaml:"catalog"`
	Crawler      CrawlerConfig      `yaml:"crawler"`
	Logging      LoggingConfig      `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
	MaxUploadMB     int `yaml:"max_upload_mb"`

	APIKeys     []string `yaml:"api_keys"` // empty disables bearer auth
	CORSOrigins []string `yaml:"cors_origins"`
}

// DatabaseConfig holds the relational store settings.
// Empty DSN selects SQLite at data/campusqa.db, postgres:// selects PostgreSQL.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// DocStoreConfig holds the resource document store settings.
type DocStoreConfig struct {
	Driver           string   `yaml:"driver"` // memory, redis (default: memory)
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	ScanCount        int      `yaml:"scan_count"`
	KeyPrefix        string   `yaml:"key_prefix"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// EmbeddingConfig holds embedding settings. Provider "none" uses the digest embedding only.
type EmbeddingConfig struct {
	Provider   string `yaml:"provider"` // none, openai
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions"`
	Cache      bool   `yaml:"cache"`
	CacheTTLH  int    `yaml:"cache_ttl_hours"` // 0 keeps cached vectors forever
}

// AIConfig holds the generative AI collaborator settings (any OpenAI-compatible endpoint).
type AIConfig struct {
	Provider    string  `yaml:"provider"` // none, openai
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	TimeoutSec  int     `yaml:"timeout_sec"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float32 `yaml:"temperature"`
}

// RetrievalConfig holds scorer vocabulary and ask-path limits.
type RetrievalConfig struct {
	AskLimit      int               `yaml:"ask_limit"`
	AskThreshold  float64           `yaml:"ask_threshold"`
	MaxCandidates int               `yaml:"max_candidates"`
	CategoryTerms map[string]string `yaml:"category_terms"`
	KeyTerms      []string          `yaml:"key_terms"`
}

// IntentConfig holds the phrase lists of the intent classifier.
type IntentConfig struct {
	Greetings          []string `yaml:"greetings"`
	ResourcePhrases    []string `yaml:"resource_phrases"`
	EducationalPhrases []string `yaml:"educational_phrases"`
}

// ConversationConfig bounds the history fed into prompts.
type ConversationConfig struct {
	MaxTurns     int `yaml:"max_turns"`
	AnswerBudget int `yaml:"answer_budget"`
}

// RetentionConfig controls history pruning.
type RetentionConfig struct {
	Enabled   bool   `yaml:"enabled"`
	KeepCount int    `yaml:"keep_count"`
	Schedule  string `yaml:"schedule"` // cron expression
}

// CatalogConfig holds pagination and batch limits for resources.
type CatalogConfig struct {
	DefaultPageSize int `yaml:"default_page_size"`
	MaxPageSize     int `yaml:"max_page_size"`
	MaxBatchSize    int `yaml:"max_batch_size"`
}

// CrawlerConfig holds page fetching settings.
type CrawlerConfig struct {
	TimeoutSec int    `yaml:"timeout_sec"`
	MaxChars   int    `yaml:"max_chars"`
	UserAgent  string `yaml:"user_agent"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
// A .env file in the working directory, if present, is loaded first.
func Load(env string) (Config, error) {
	_ = godotenv.Load()

	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse decodes YAML bytes, expands ${VAR} references, applies defaults and validates.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8000
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 60
	}
	if len(c.HTTP.CORSOrigins) == 0 {
		c.HTTP.CORSOrigins = []string{"*"}
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.HTTP.MaxUploadMB <= 0 {
		c.HTTP.MaxUploadMB = 10
	}
	if c.DocStore.Driver == "" {
		c.DocStore.Driver = "memory"
	}
	if c.DocStore.KeyPrefix == "" {
		c.DocStore.KeyPrefix = "campusqa:"
	}
	if c.DocStore.ReadinessTimeout <= 0 {
		c.DocStore.ReadinessTimeout = 10
	}
	if c.Embedding.Provider == "" {
		c.Embedding.Provider = "none"
	}
	if c.Embedding.Dimensions <= 0 {
		c.Embedding.Dimensions = 384
	}
	if c.AI.Provider == "" {
		c.AI.Provider = "none"
	}
	if c.AI.TimeoutSec <= 0 {
		c.AI.TimeoutSec = 20
	}
	if c.AI.MaxTokens <= 0 {
		c.AI.MaxTokens = 1024
	}
	if c.Retrieval.AskLimit <= 0 {
		c.Retrieval.AskLimit = 3
	}
	if c.Retrieval.AskThreshold <= 0 {
		c.Retrieval.AskThreshold = 0.1
	}
	if c.Retrieval.MaxCandidates <= 0 {
		c.Retrieval.MaxCandidates = 1000
	}
	if len(c.Retrieval.CategoryTerms) == 0 {
		c.Retrieval.CategoryTerms = DefaultCategoryTerms()
	}
	if len(c.Retrieval.KeyTerms) == 0 {
		c.Retrieval.KeyTerms = DefaultKeyTerms()
	}
	if len(c.Intent.Greetings) == 0 {
		c.Intent.Greetings = DefaultGreetings()
	}
	if len(c.Intent.ResourcePhrases) == 0 {
		c.Intent.ResourcePhrases = DefaultResourcePhrases()
	}
	if len(c.Intent.EducationalPhrases) == 0 {
		c.Intent.EducationalPhrases = DefaultEducationalPhrases()
	}
	if c.Conversation.MaxTurns <= 0 {
		c.Conversation.MaxTurns = 5
	}
	if c.Conversation.AnswerBudget <= 0 {
		c.Conversation.AnswerBudget = 200
	}
	if c.Retention.KeepCount <= 0 {
		c.Retention.KeepCount = 10
	}
	if c.Retention.Schedule == "" {
		c.Retention.Schedule = "0 3 * * *"
	}
	if c.Catalog.DefaultPageSize <= 0 {
		c.Catalog.DefaultPageSize = 100
	}
	if c.Catalog.MaxPageSize <= 0 {
		c.Catalog.MaxPageSize = 500
	}
	if c.Catalog.MaxBatchSize <= 0 {
		c.Catalog.MaxBatchSize = 100
	}
	if c.Crawler.TimeoutSec <= 0 {
		c.Crawler.TimeoutSec = 15
	}
	if c.Crawler.MaxChars <= 0 {
		c.Crawler.MaxChars = 2000
	}
	if c.Crawler.UserAgent == "" {
		c.Crawler.UserAgent = "campusqa-crawler/1.0"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.DocStore.Driver {
	case "memory":
	case "redis":
		if len(c.DocStore.Addrs) == 0 {
			return fmt.Errorf("docstore.addrs is required for the redis driver")
		}
	default:
		return fmt.Errorf("docstore.driver must be \"memory\" or \"redis\", got %q", c.DocStore.Driver)
	}
	if err := validateProvider("embedding.provider", c.Embedding.Provider); err != nil {
		return err
	}
	if c.Embedding.Provider == "openai" && c.Embedding.Model == "" {
		return fmt.Errorf("embedding.model is required for the openai provider")
	}
	if err := validateProvider("ai.provider", c.AI.Provider); err != nil {
		return err
	}
	if c.AI.Provider == "openai" && c.AI.Model == "" {
		return fmt.Errorf("ai.model is required for the openai provider")
	}
	if c.Retrieval.AskThreshold > 1 {
		return fmt.Errorf("retrieval.ask_threshold must be within [0,1], got %v", c.Retrieval.AskThreshold)
	}
	if c.Catalog.DefaultPageSize > c.Catalog.MaxPageSize {
		return fmt.Errorf("catalog.default_page_size must not exceed catalog.max_page_size")
	}
	return nil
}

func validateProvider(key, provider string) error {
	switch provider {
	case "none", "openai":
		return nil
	default:
		return fmt.Errorf("%s must be \"none\" or \"openai\", got %q", key, provider)
	}
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// relative to the source file, for tests run from package directories
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1])
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
