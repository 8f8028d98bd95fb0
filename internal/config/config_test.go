package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "HTTP_TIMEOUT", "PROJETO", "MAX_UPLOAD_MB", "SESSION_TTL", "REDIS_URI", "TIMEZONE"} {
		t.Setenv(key, "")
	}

	cfg, err := parse()
	require.NoError(t, err)
	assert.Equal(t, 8084, cfg.Port)
	assert.Equal(t, "OTM", cfg.Projeto)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, int64(20), cfg.MaxUploadMB)
	assert.Equal(t, 8*time.Hour, cfg.SessionTTL)
	assert.Empty(t, cfg.RedisURI)
	assert.False(t, cfg.TracingEnabled)
}

func TestParse_TrimsTrailingSlash(t *testing.T) {
	t.Setenv("GESTAO_CADASTRO_API", "https://cadastro.example.com/")
	t.Setenv("WEB_API_FR", "https://fr.example.com//")

	cfg, err := parse()
	require.NoError(t, err)
	assert.Equal(t, "https://cadastro.example.com", cfg.GestaoCadastroAPI)
	assert.Equal(t, "https://fr.example.com", cfg.WebAPIFR)
}

func TestParse_InvalidValues(t *testing.T) {
	tests := []struct {
		key, value, want string
	}{
		{"PORT", "abc", "invalid PORT"},
		{"HTTP_TIMEOUT", "trinta", "invalid HTTP_TIMEOUT"},
		{"TIMEZONE", "Marte/Olympus", "invalid TIMEZONE"},
		{"MAX_UPLOAD_MB", "muito", "invalid MAX_UPLOAD_MB"},
		{"REDIS_DB", "x", "invalid REDIS_DB"},
		{"SESSION_TTL", "sempre", "invalid SESSION_TTL"},
		{"TRACING_ENABLED", "talvez", "invalid TRACING_ENABLED"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := parse()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "# comentário\nCADASTRO_TESTE_A=valor\nCADASTRO_TESTE_B=\"entre aspas\"\nlinha invalida\nCADASTRO_TESTE_C=arquivo\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("CADASTRO_TESTE_C", "ambiente")
	t.Cleanup(func() {
		os.Unsetenv("CADASTRO_TESTE_A")
		os.Unsetenv("CADASTRO_TESTE_B")
	})

	LoadEnvFile(path)

	assert.Equal(t, "valor", os.Getenv("CADASTRO_TESTE_A"))
	assert.Equal(t, "entre aspas", os.Getenv("CADASTRO_TESTE_B"))
	assert.Equal(t, "ambiente", os.Getenv("CADASTRO_TESTE_C"))
}

func TestLoadEnvFile_Missing(t *testing.T) {
	LoadEnvFile(filepath.Join(t.TempDir(), "nao-existe.env"))
}
