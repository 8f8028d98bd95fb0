package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"
)

// Config reúne as configurações do serviço de cadastro.
type Config struct {
	// Servidor
	Port        int    `json:"port"`
	Environment string `json:"environment"`

	// APIs remotas
	GestaoCadastroAPI string        `json:"gestao_cadastro_api"`
	WebAPIFR          string        `json:"web_api_fr"`
	Projeto           string        `json:"projeto"`
	HTTPTimeout       time.Duration `json:"http_timeout"`

	// Planilhas
	Timezone    *time.Location `json:"-"`
	MaxUploadMB int64          `json:"max_upload_mb"`

	// Sessões (Redis vazio usa memória)
	RedisURI      string        `json:"redis_uri"`
	RedisPassword string        `json:"redis_password"`
	RedisDB       int           `json:"redis_db"`
	SessionTTL    time.Duration `json:"session_ttl"`

	// Tracing
	TracingEnabled  bool   `json:"tracing_enabled"`
	TracingEndpoint string `json:"tracing_endpoint"`
}

var (
	AppConfig *Config
)

// LoadConfig lê as variáveis de ambiente, depois de aplicar o .env do diretório
// atual quando existir.
func LoadConfig() error {
	LoadEnvFile(".env")

	cfg, err := parse()
	if err != nil {
		return err
	}
	AppConfig = cfg
	return nil
}

func parse() (*Config, error) {
	port, err := strconv.Atoi(getEnvOrDefault("PORT", "8084"))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	httpTimeout, err := time.ParseDuration(getEnvOrDefault("HTTP_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}

	loc, err := time.LoadLocation(getEnvOrDefault("TIMEZONE", "America/Sao_Paulo"))
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}

	maxUpload, err := strconv.ParseInt(getEnvOrDefault("MAX_UPLOAD_MB", "20"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_UPLOAD_MB: %w", err)
	}

	redisDB, err := strconv.Atoi(getEnvOrDefault("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	sessionTTL, err := time.ParseDuration(getEnvOrDefault("SESSION_TTL", "8h"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL: %w", err)
	}

	tracingEnabled, err := strconv.ParseBool(getEnvOrDefault("TRACING_ENABLED", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid TRACING_ENABLED: %w", err)
	}

	return &Config{
		Port:        port,
		Environment: getEnvOrDefault("ENVIRONMENT", "development"),

		GestaoCadastroAPI: strings.TrimRight(getEnvOrDefault("GESTAO_CADASTRO_API", ""), "/"),
		WebAPIFR:          strings.TrimRight(getEnvOrDefault("WEB_API_FR", ""), "/"),
		Projeto:           getEnvOrDefault("PROJETO", "OTM"),
		HTTPTimeout:       httpTimeout,

		Timezone:    loc,
		MaxUploadMB: maxUpload,

		RedisURI:      getEnvOrDefault("REDIS_URI", ""),
		RedisPassword: getEnvOrDefault("REDIS_PASSWORD", ""),
		RedisDB:       redisDB,
		SessionTTL:    sessionTTL,

		TracingEnabled:  tracingEnabled,
		TracingEndpoint: getEnvOrDefault("TRACING_ENDPOINT", "localhost:4317"),
	}, nil
}

// LoadEnvFile aplica um arquivo KEY=VALUE ao ambiente. Variáveis já definidas
// têm precedência. Arquivo ausente não é erro.
func LoadEnvFile(path string) {
	file, err := os.Open(path)
	if err != nil {
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.Trim(strings.TrimSpace(parts[1]), `"`)

		if _, exists := os.LookupEnv(key); !exists {
			os.Setenv(key, value)
		}
	}
}

// getEnvOrDefault returns environment variable value or default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
