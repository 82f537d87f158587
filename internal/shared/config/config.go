package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultBaseURL = "http://127.0.0.1:8000"
	DefaultModel   = "gpt-4.1-mini"
)

var (
	ErrMissingOpenAIKey = errors.New("OPENAI_API_KEY is required")
	ErrMissingStripeKey = errors.New("STRIPE_SECRET_KEY is required")
)

// Config holds application configuration. It is built once at startup and
// passed by value; nothing mutates it afterwards.
type Config struct {
	Env  string
	Port string

	BaseURL string

	OpenAIAPIKey     string
	OpenAIBaseURL    string
	OpenAITimeout    time.Duration
	OpenAIMaxRetries int
	LLMModel         string

	StripePublicKey string
	StripeSecretKey string
	RequirePayment  bool

	MaxUploadBytes       int64
	CORSAllowOrigin      []string
	AnalyzeRatePerMinute float64
	AnalyzeRateBurst     int

	LogFormat string
	LogLevel  string

	Operator Operator
}

// Operator describes the party named on the legal notice page.
type Operator struct {
	Name    string
	Address string
	Email   string
}

// Load reads configuration from the environment, falling back to the given
// dotenv files (default ".env"). Values from the process environment win.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigType("env")
	for _, path := range envFiles {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			return Config{}, fmt.Errorf("read env file %s: %w", path, err)
		}
	}
	v.AutomaticEnv()

	timeoutSeconds := v.GetInt("openai_timeout_seconds")
	if timeoutSeconds <= 0 {
		timeoutSeconds = 120
	}
	retries := v.GetInt("openai_max_retries")
	if retries < 0 {
		retries = 0
	}
	maxUpload := v.GetInt64("max_upload_bytes")
	if maxUpload <= 0 {
		maxUpload = 10 << 20
	}

	return Config{
		Env:                  normalizeEnv(v.GetString("env")),
		Port:                 strings.TrimSpace(v.GetString("port")),
		BaseURL:              normalizeBaseURL(v.GetString("base_url")),
		OpenAIAPIKey:         strings.TrimSpace(v.GetString("openai_api_key")),
		OpenAIBaseURL:        strings.TrimSpace(v.GetString("openai_base_url")),
		OpenAITimeout:        time.Duration(timeoutSeconds) * time.Second,
		OpenAIMaxRetries:     retries,
		LLMModel:             strings.TrimSpace(v.GetString("llm_model")),
		StripePublicKey:      strings.TrimSpace(v.GetString("stripe_public_key")),
		StripeSecretKey:      strings.TrimSpace(v.GetString("stripe_secret_key")),
		RequirePayment:       v.GetBool("require_payment"),
		MaxUploadBytes:       maxUpload,
		CORSAllowOrigin:      splitAndTrim(v.GetString("cors_allow_origins")),
		AnalyzeRatePerMinute: v.GetFloat64("analyze_rate_per_minute"),
		AnalyzeRateBurst:     v.GetInt("analyze_rate_burst"),
		LogFormat:            strings.ToLower(strings.TrimSpace(v.GetString("log_format"))),
		LogLevel:             strings.ToLower(strings.TrimSpace(v.GetString("log_level"))),
		Operator: Operator{
			Name:    strings.TrimSpace(v.GetString("operator_name")),
			Address: strings.TrimSpace(v.GetString("operator_address")),
			Email:   strings.TrimSpace(v.GetString("operator_email")),
		},
	}, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "dev")
	v.SetDefault("port", "8000")
	v.SetDefault("base_url", DefaultBaseURL)
	v.SetDefault("llm_model", DefaultModel)
	v.SetDefault("openai_timeout_seconds", 120)
	v.SetDefault("openai_max_retries", 0)
	v.SetDefault("max_upload_bytes", 10<<20)
	v.SetDefault("analyze_rate_per_minute", 6)
	v.SetDefault("analyze_rate_burst", 3)
	v.SetDefault("require_payment", false)
	v.SetDefault("log_format", "json")
	v.SetDefault("log_level", "info")

	for _, key := range []string{
		"openai_api_key", "openai_base_url", "stripe_public_key", "stripe_secret_key",
		"cors_allow_origins", "operator_name", "operator_address", "operator_email",
	} {
		v.SetDefault(key, "")
	}
}

// Validate reports every missing key the server needs before it may start.
func (c Config) Validate() error {
	var errs []error
	if c.OpenAIAPIKey == "" {
		errs = append(errs, ErrMissingOpenAIKey)
	}
	if c.StripeSecretKey == "" {
		errs = append(errs, ErrMissingStripeKey)
	}
	return errors.Join(errs...)
}

// ValidateLLM checks only what the offline CLI needs to reach the model.
func (c Config) ValidateLLM() error {
	if c.OpenAIAPIKey == "" {
		return ErrMissingOpenAIKey
	}
	return nil
}

// IsProduction reports whether the service runs with production settings.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeBaseURL(raw string) string {
	trimmed := strings.TrimRight(strings.TrimSpace(raw), "/")
	if trimmed == "" {
		return DefaultBaseURL
	}
	return trimmed
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	default:
		return "dev"
	}
}
