package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xxxsen/common/logger"
)

type Config struct {
	Port               int              `json:"port"`
	JWTSecret          string           `json:"jwt_secret"`
	AccessPasswordHash string           `json:"access_password_hash"`
	SessionTTLMinutes  int              `json:"session_ttl_minutes"`
	LogConfig          logger.LogConfig `json:"log_config"`
	AI                 AIConfig         `json:"ai"`
	Corpus             CorpusConfig     `json:"corpus"`
	Retrieval          RetrievalConfig  `json:"retrieval"`
	History            HistoryConfig    `json:"history"`
}

type AIConfig struct {
	Provider        string      `json:"provider"`
	Data            interface{} `json:"data"`
	EmbedProvider   string      `json:"embed_provider"`
	EmbedData       interface{} `json:"embed_data"`
	ChatModel       string      `json:"chat_model"`
	SuggestionModel string      `json:"suggestion_model"`
	EmbeddingModel  string      `json:"embedding_model"`
	MaxTokens       int         `json:"max_tokens"`
	Temperature     float64     `json:"temperature"`
	Timeout         int         `json:"timeout"`
	EmbedCacheSize  int         `json:"embed_cache_size"`
	EmbedCacheTTL   int         `json:"embed_cache_ttl_minutes"`
}

type CorpusConfig struct {
	Source   string               `json:"source"`
	File     FileCorpusConfig     `json:"file"`
	Postgres PostgresCorpusConfig `json:"postgres"`
}

type FileCorpusConfig struct {
	Store         FileStoreConfig `json:"store"`
	SectionsKey   string          `json:"sections_key"`
	EmbeddingsKey string          `json:"embeddings_key"`
}

type FileStoreConfig struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type PostgresCorpusConfig struct {
	DSN string `json:"dsn"`
}

type RetrievalConfig struct {
	TokenBudget int    `json:"token_budget"`
	Separator   string `json:"separator"`
	Encoding    string `json:"encoding"`
	MaxSources  int    `json:"max_sources"`
}

type HistoryConfig struct {
	Window         int `json:"window"`
	QuestionWindow int `json:"question_window"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	// API keys and secrets may be given as ${ENV_VAR} references.
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := json.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Port == 0 {
		return nil, fmt.Errorf("port is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("jwt_secret is required")
	}
	if cfg.AccessPasswordHash == "" {
		return nil, fmt.Errorf("access_password_hash is required")
	}
	if cfg.SessionTTLMinutes == 0 {
		cfg.SessionTTLMinutes = 60
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	if err := applyAIDefaults(&cfg.AI); err != nil {
		return nil, err
	}
	if err := applyCorpusDefaults(&cfg.Corpus); err != nil {
		return nil, err
	}
	applyRetrievalDefaults(&cfg.Retrieval)
	applyHistoryDefaults(&cfg.History)
	return &cfg, nil
}

func applyAIDefaults(cfg *AIConfig) error {
	if cfg.Provider == "" {
		return fmt.Errorf("ai.provider is required")
	}
	if cfg.EmbedProvider == "" {
		cfg.EmbedProvider = cfg.Provider
	}
	if cfg.EmbedData == nil {
		cfg.EmbedData = cfg.Data
	}
	if cfg.ChatModel == "" {
		cfg.ChatModel = "gpt-4o-mini"
	}
	if cfg.SuggestionModel == "" {
		cfg.SuggestionModel = cfg.ChatModel
	}
	if cfg.EmbeddingModel == "" {
		cfg.EmbeddingModel = "text-embedding-3-large"
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 2000
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 1
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60
	}
	if cfg.EmbedCacheSize == 0 {
		cfg.EmbedCacheSize = 10000
	}
	if cfg.EmbedCacheTTL == 0 {
		cfg.EmbedCacheTTL = 120
	}
	return nil
}

func applyCorpusDefaults(cfg *CorpusConfig) error {
	if cfg.Source == "" {
		cfg.Source = "file"
	}
	switch cfg.Source {
	case "file":
		if cfg.File.Store.Type == "" {
			cfg.File.Store.Type = "local"
		}
		if cfg.File.SectionsKey == "" {
			cfg.File.SectionsKey = "sections.json"
		}
		if cfg.File.EmbeddingsKey == "" {
			cfg.File.EmbeddingsKey = "embeddings.json"
		}
	case "postgres":
		if cfg.Postgres.DSN == "" {
			return fmt.Errorf("corpus.postgres.dsn is required")
		}
	default:
		return fmt.Errorf("corpus.source must be file or postgres")
	}
	return nil
}

func applyRetrievalDefaults(cfg *RetrievalConfig) {
	if cfg.TokenBudget == 0 {
		cfg.TokenBudget = 2000
	}
	if cfg.Separator == "" {
		cfg.Separator = "\n* "
	}
	if cfg.Encoding == "" {
		cfg.Encoding = "cl100k_base"
	}
	if cfg.MaxSources == 0 {
		cfg.MaxSources = 5
	}
}

func applyHistoryDefaults(cfg *HistoryConfig) {
	if cfg.Window == 0 {
		cfg.Window = 10
	}
	if cfg.QuestionWindow == 0 {
		cfg.QuestionWindow = 3
	}
}
