package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Erros de configuração
var (
	ErrMissingOpenAIKey = errors.New("OPENAI_API_KEY não encontrada nas variáveis de ambiente")
	ErrMissingJWTKey    = errors.New("chave secreta JWT não configurada")
	ErrUnboundedPoll    = errors.New("POLL_MAX_WAIT ou POLL_MAX_ATTEMPTS deve ser maior que zero")
)

// Config agrupa todas as configurações da aplicação
type Config struct {
	Port     string
	BasePath string
	GinMode  string
	CORS     []string

	Log      LogConfig
	Database DatabaseConfig
	JWT      JWTConfig
	OpenAI   OpenAIConfig
	Poll     PollConfig
	Storage  StorageConfig
}

// LogConfig configura o logger
type LogConfig struct {
	Level  string
	Pretty bool
}

// DatabaseConfig contém as configurações para conexão com o PostgreSQL
type DatabaseConfig struct {
	URL             string
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxConnections  int32
	MinConnections  int32
	MaxConnLifetime time.Duration
	MigrationsPath  string
	AutoMigrate     bool
}

// ConnectionString retorna a string de conexão para o PostgreSQL
func (c DatabaseConfig) ConnectionString() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode,
	)
}

// JWTConfig configura a emissão de tokens
type JWTConfig struct {
	SecretKey  string
	Expiration time.Duration
}

// OpenAIConfig configura o cliente do assistente remoto
type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	AssistantID string
	Model       string
}

// PollConfig controla a espera pelo término de um run
type PollConfig struct {
	Interval         time.Duration
	MaxInterval      time.Duration
	Multiplier       float64
	MaxWait          time.Duration
	MaxAttempts      uint64
	MaxToolRounds    int
	CancelRunOnAbort bool
}

// StorageConfig configura onde os documentos gerados são gravados
type StorageConfig struct {
	Dir       string
	PublicURL string
}

// Load lê as configurações das variáveis de ambiente
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Port:     v.GetString("PORT"),
		BasePath: v.GetString("BASE_PATH"),
		GinMode:  v.GetString("GIN_MODE"),
		CORS:     splitList(v.GetString("CORS_ORIGINS")),
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Pretty: v.GetBool("LOG_PRETTY"),
		},
		Database: DatabaseConfig{
			URL:             v.GetString("DATABASE_URL"),
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			Name:            v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSL_MODE"),
			MaxConnections:  v.GetInt32("DB_MAX_CONNECTIONS"),
			MinConnections:  v.GetInt32("DB_MIN_CONNECTIONS"),
			MaxConnLifetime: time.Duration(v.GetInt("DB_MAX_LIFETIME")) * time.Second,
			MigrationsPath:  v.GetString("MIGRATIONS_PATH"),
			AutoMigrate:     v.GetBool("DB_AUTO_MIGRATE"),
		},
		JWT: JWTConfig{
			SecretKey:  v.GetString("JWT_SECRET_KEY"),
			Expiration: time.Duration(v.GetInt("JWT_EXPIRATION_HOURS")) * time.Hour,
		},
		OpenAI: OpenAIConfig{
			APIKey:      v.GetString("OPENAI_API_KEY"),
			BaseURL:     v.GetString("OPENAI_BASE_URL"),
			AssistantID: v.GetString("OPENAI_ASSISTANT_ID"),
			Model:       v.GetString("OPENAI_MODEL"),
		},
		Poll: PollConfig{
			Interval:         v.GetDuration("POLL_INTERVAL"),
			MaxInterval:      v.GetDuration("POLL_MAX_INTERVAL"),
			Multiplier:       v.GetFloat64("POLL_MULTIPLIER"),
			MaxWait:          v.GetDuration("POLL_MAX_WAIT"),
			MaxAttempts:      v.GetUint64("POLL_MAX_ATTEMPTS"),
			MaxToolRounds:    v.GetInt("TOOL_MAX_ROUNDS"),
			CancelRunOnAbort: v.GetBool("CANCEL_RUN_ON_ABORT"),
		},
		Storage: StorageConfig{
			Dir:       v.GetString("STORAGE_DIR"),
			PublicURL: strings.TrimSuffix(v.GetString("STORAGE_PUBLIC_URL"), "/"),
		},
	}

	return cfg, nil
}

// Validate verifica se as configurações obrigatórias para a API estão presentes
func (c *Config) Validate() error {
	if c.OpenAI.APIKey == "" {
		return ErrMissingOpenAIKey
	}
	if c.JWT.SecretKey == "" {
		return ErrMissingJWTKey
	}
	if c.Poll.Multiplier < 1 {
		return fmt.Errorf("POLL_MULTIPLIER deve ser >= 1, recebido %v", c.Poll.Multiplier)
	}
	if c.Poll.MaxWait <= 0 && c.Poll.MaxAttempts == 0 {
		return ErrUnboundedPoll
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("BASE_PATH", "/api/v1")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("CORS_ORIGINS", "*")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_PRETTY", false)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "sumy")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_CONNECTIONS", 10)
	v.SetDefault("DB_MIN_CONNECTIONS", 2)
	v.SetDefault("DB_MAX_LIFETIME", 300)
	v.SetDefault("MIGRATIONS_PATH", "migrations")
	v.SetDefault("DB_AUTO_MIGRATE", false)

	v.SetDefault("JWT_EXPIRATION_HOURS", 24)

	v.SetDefault("OPENAI_MODEL", "gpt-4-turbo-preview")

	v.SetDefault("POLL_INTERVAL", time.Second)
	v.SetDefault("POLL_MAX_INTERVAL", 5*time.Second)
	v.SetDefault("POLL_MULTIPLIER", 1.0)
	v.SetDefault("POLL_MAX_WAIT", 3*time.Minute)
	v.SetDefault("POLL_MAX_ATTEMPTS", 180)
	v.SetDefault("TOOL_MAX_ROUNDS", 5)
	v.SetDefault("CANCEL_RUN_ON_ABORT", true)

	v.SetDefault("STORAGE_DIR", "uploads")
	v.SetDefault("STORAGE_PUBLIC_URL", "http://localhost:8080/files")
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
