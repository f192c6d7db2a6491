package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `{
		"port": 8080,
		"jwt_secret": "s",
		"access_password_hash": "h",
		"ai": {"provider": "openai"}
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, 60, cfg.SessionTTLMinutes)
	require.Equal(t, "info", cfg.LogConfig.Level)
	require.Equal(t, "openai", cfg.AI.EmbedProvider)
	require.Equal(t, "gpt-4o-mini", cfg.AI.ChatModel)
	require.Equal(t, "gpt-4o-mini", cfg.AI.SuggestionModel)
	require.Equal(t, "text-embedding-3-large", cfg.AI.EmbeddingModel)
	require.Equal(t, 2000, cfg.AI.MaxTokens)
	require.Equal(t, float64(1), cfg.AI.Temperature)
	require.Equal(t, 60, cfg.AI.Timeout)
	require.Equal(t, "file", cfg.Corpus.Source)
	require.Equal(t, "local", cfg.Corpus.File.Store.Type)
	require.Equal(t, "sections.json", cfg.Corpus.File.SectionsKey)
	require.Equal(t, 2000, cfg.Retrieval.TokenBudget)
	require.Equal(t, "\n* ", cfg.Retrieval.Separator)
	require.Equal(t, "cl100k_base", cfg.Retrieval.Encoding)
	require.Equal(t, 5, cfg.Retrieval.MaxSources)
	require.Equal(t, 10, cfg.History.Window)
	require.Equal(t, 3, cfg.History.QuestionWindow)
}

func TestLoad_ExpandsEnvReferences(t *testing.T) {
	t.Setenv("TEST_DOCCHAT_SECRET", "from-env")
	path := writeConfig(t, `{
		"port": 8080,
		"jwt_secret": "${TEST_DOCCHAT_SECRET}",
		"access_password_hash": "h",
		"ai": {"provider": "openai"}
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "from-env", cfg.JWTSecret)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "missing port",
			content: `{"jwt_secret": "s", "access_password_hash": "h", "ai": {"provider": "openai"}}`,
		},
		{
			name:    "missing jwt secret",
			content: `{"port": 8080, "access_password_hash": "h", "ai": {"provider": "openai"}}`,
		},
		{
			name:    "missing password hash",
			content: `{"port": 8080, "jwt_secret": "s", "ai": {"provider": "openai"}}`,
		},
		{
			name:    "missing ai provider",
			content: `{"port": 8080, "jwt_secret": "s", "access_password_hash": "h"}`,
		},
		{
			name:    "postgres without dsn",
			content: `{"port": 8080, "jwt_secret": "s", "access_password_hash": "h", "ai": {"provider": "openai"}, "corpus": {"source": "postgres"}}`,
		},
		{
			name:    "unknown corpus source",
			content: `{"port": 8080, "jwt_secret": "s", "access_password_hash": "h", "ai": {"provider": "openai"}, "corpus": {"source": "redis"}}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}
