package config

import (
	"time"

	"github.com/joho/godotenv"

	"github.com/Checker-Finance/tss-sdk/internal/rate"
	"github.com/Checker-Finance/tss-sdk/pkg/server"
)

// Config holds the runtime configuration for tss-agent.
type Config struct {
	ServiceName string
	Env         string
	LogLevel    string
	Port        int

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration

	// TSS connection. Username and Password may be left empty when
	// CredentialsSecret names an AWS Secrets Manager secret holding them.
	TSS               server.Config
	CredentialsSecret string
	AWSRegion         string
	CacheTTL          time.Duration
	CleanupFreq       time.Duration

	// Outbound request policy.
	RequestTimeout time.Duration
	RetryMax       int
	RateLimit      rate.Config
}

// Load loads configuration from environment variables and an optional .env file.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServiceName:      GetEnv("SERVICE_NAME", "tss-agent"),
		Env:              GetEnv("ENV", "dev"),
		LogLevel:         GetEnv("LOG_LEVEL", "info"),
		Port:             GetEnvInt("TSS_AGENT_PORT", 9040),
		HTTPReadTimeout:  GetEnvDuration("HTTP_READ_TIMEOUT", 10*time.Second),
		HTTPWriteTimeout: GetEnvDuration("HTTP_WRITE_TIMEOUT", 30*time.Second),
		HTTPIdleTimeout:  GetEnvDuration("HTTP_IDLE_TIMEOUT", 60*time.Second),
		TSS: server.Config{
			Username:     GetEnv("TSS_USERNAME", ""),
			Password:     GetEnv("TSS_PASSWORD", ""),
			Tenant:       GetEnv("TSS_TENANT", ""),
			ServerURL:    GetEnv("TSS_SERVER_URL", ""),
			TLD:          GetEnv("TSS_TLD", server.DefaultTLD),
			APIPathURI:   GetEnv("TSS_API_PATH_URI", server.DefaultAPIPathURI),
			TokenPathURI: GetEnv("TSS_TOKEN_PATH_URI", server.DefaultTokenPathURI),
		},
		CredentialsSecret: GetEnv("TSS_CREDENTIALS_SECRET", ""),
		AWSRegion:         GetEnv("AWS_REGION", "us-east-2"),
		CacheTTL:          GetEnvDuration("CACHE_TTL", 1*time.Hour),
		CleanupFreq:       GetEnvDuration("CACHE_CLEANUP_FREQ", 10*time.Minute),
		RequestTimeout:    GetEnvDuration("TSS_HTTP_TIMEOUT", 30*time.Second),
		RetryMax:          GetEnvInt("TSS_RETRY_MAX", 0),
		RateLimit: rate.Config{
			RequestsPerSecond: GetEnvInt("TSS_RATE_LIMIT_RPS", 0),
			Burst:             GetEnvInt("TSS_RATE_LIMIT_BURST", 10),
		},
	}
}
