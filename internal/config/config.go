package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string `env:"APP_PORT" envDefault:"3000" validate:"required"`
	AppEnv  string `env:"APP_ENV" envDefault:"development" validate:"oneof=development staging production"`

	AWSRegion      string `env:"AWS_REGION" envDefault:"us-east-1"`
	AWSEndpointURL string `env:"AWS_ENDPOINT_URL"` // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string `env:"AWS_ACCESS_KEY_ID"`
	AWSSecretKey   string `env:"AWS_SECRET_ACCESS_KEY"`

	DynamoTables DynamoTables

	// OTP policy.
	OTPLength           int `env:"OTP_LENGTH" envDefault:"6" validate:"min=4,max=10"`
	OTPExpiryMinutes    int `env:"OTP_EXPIRY_MINUTES" envDefault:"10" validate:"min=1"`
	OTPMaxAttempts      int `env:"OTP_MAX_ATTEMPTS" envDefault:"3" validate:"min=1"`
	OTPRateLimitMinutes int `env:"OTP_RATE_LIMIT_MINUTES" envDefault:"1" validate:"min=0"`

	SessionExpiryDays int `env:"SESSION_EXPIRY_DAYS" envDefault:"30" validate:"min=1"`

	// Bounded timeouts for the store and the upstream provider.
	StoreTimeoutSeconds    int `env:"STORE_TIMEOUT_SECONDS" envDefault:"5" validate:"min=1"`
	UpstreamTimeoutSeconds int `env:"UPSTREAM_TIMEOUT_SECONDS" envDefault:"60" validate:"min=1"`

	// Email delivery. Provider is "smtp", "resend" or "log" (local dev).
	EmailProvider string `env:"EMAIL_PROVIDER" envDefault:"smtp" validate:"oneof=smtp resend log"`
	EmailFrom     string `env:"EMAIL_FROM" envDefault:"noreply@example.com"`
	SMTPHost      string `env:"SMTP_HOST" envDefault:"localhost"`
	SMTPPort      string `env:"SMTP_PORT" envDefault:"1025"`
	SMTPUsername  string `env:"SMTP_USERNAME"`
	SMTPPassword  string `env:"SMTP_PASSWORD"`
	ResendAPIKey  string `env:"RESEND_API_KEY" validate:"required_if=EmailProvider resend"`

	// Azure OpenAI upstream (whisper + GPT deployments).
	OpenAIWhisperEndpoint   string `env:"AZURE_OPENAI_WHISPER_ENDPOINT"`
	OpenAIWhisperAPIKey     string `env:"AZURE_OPENAI_WHISPER_API_KEY"`
	OpenAIWhisperDeployment string `env:"AZURE_OPENAI_WHISPER_DEPLOYMENT" envDefault:"whisper"`
	OpenAIWhisperAPIVersion string `env:"AZURE_OPENAI_WHISPER_API_VERSION" envDefault:"2024-06-01"`
	OpenAIGPTEndpoint       string `env:"AZURE_OPENAI_GPT_ENDPOINT"`
	OpenAIGPTAPIKey         string `env:"AZURE_OPENAI_GPT_API_KEY"`
	OpenAIGPTDeployment     string `env:"AZURE_OPENAI_GPT_DEPLOYMENT" envDefault:"gpt-5-mini"`
	OpenAIGPTAPIVersion     string `env:"AZURE_OPENAI_GPT_API_VERSION" envDefault:"2025-04-01-preview"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	// Comma-separated email allow-list for the /llm endpoints.
	// Empty means every authenticated user is allowed.
	LLMAllowedEmails []string `env:"LLM_ALLOWED_EMAILS" envSeparator:","`
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	OTPCodes     string `env:"DYNAMO_TABLE_OTP_CODES" envDefault:"otpcodes"`
	UserSessions string `env:"DYNAMO_TABLE_USER_SESSIONS" envDefault:"usersessions"`
}

// Load reads and validates all configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	normalized := cfg.LLMAllowedEmails[:0]
	for _, e := range cfg.LLMAllowedEmails {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			normalized = append(normalized, e)
		}
	}
	cfg.LLMAllowedEmails = normalized

	return cfg, nil
}

func (c *Config) OTPExpiry() time.Duration     { return time.Duration(c.OTPExpiryMinutes) * time.Minute }
func (c *Config) OTPRateLimit() time.Duration  { return time.Duration(c.OTPRateLimitMinutes) * time.Minute }
func (c *Config) SessionExpiry() time.Duration { return time.Duration(c.SessionExpiryDays) * 24 * time.Hour }
func (c *Config) StoreTimeout() time.Duration  { return time.Duration(c.StoreTimeoutSeconds) * time.Second }
func (c *Config) UpstreamTimeout() time.Duration {
	return time.Duration(c.UpstreamTimeoutSeconds) * time.Second
}
