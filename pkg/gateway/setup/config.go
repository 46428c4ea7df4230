package setup

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	LlmBaseUrl string `toml:"llm_base_url"`
	LlmApiKey  string `toml:"llm_api_key"`
	LlmModel   string `toml:"llm_model"`

	ImageBaseUrl string `toml:"image_base_url"`
	ImageModel   string `toml:"image_model"`
	HfApiKey     string `toml:"hf_api_key"`

	ApiIpPort string `toml:"api_ip_port"`
	StaticDir string `toml:"static_dir"`

	ListTimeout     string `toml:"list_timeout"`
	ChatTimeout     string `toml:"chat_timeout"`
	DocumentTimeout string `toml:"document_timeout"`
	ImageTimeout    string `toml:"image_timeout"`
	ModelsCacheTTL  string `toml:"models_cache_ttl"`

	OutputDir          string `toml:"output_dir"`
	PdfFontPath        string `toml:"pdf_font_path"`
	PinataJwtKey       string `toml:"pinata_jwt"`
	ArticleConcurrency int    `toml:"article_concurrency"`

	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
}

func DefaultConfig() Config {
	return Config{
		LlmBaseUrl:         "http://localhost:1234/v1",
		LlmApiKey:          "lm-studio",
		LlmModel:           "qwen/qwen3-4b-2507",
		ImageBaseUrl:       "https://api-inference.huggingface.co/models",
		ImageModel:         "stabilityai/stable-diffusion-xl-base-1.0",
		ApiIpPort:          ":5000",
		ListTimeout:        "5s",
		ChatTimeout:        "30s",
		DocumentTimeout:    "2m",
		ImageTimeout:       "2m",
		ModelsCacheTTL:     "0s",
		OutputDir:          ".",
		ArticleConcurrency: 2,
		LogLevel:           "info",
		LogFormat:          "text",
	}
}

// NewConfig starts from DefaultConfig, applies the TOML file at path when it
// exists and then the environment. An empty path skips the file.
func NewConfig(path string) (*Config, error) {
	config := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			slog.Warn("config file not found, using defaults", "path", path)
		case err != nil:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := toml.Unmarshal(data, &config); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	if err := config.applyEnv(); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func NewConfigFromEnv() (*Config, error) {
	return NewConfig("")
}

func (c *Config) applyEnv() error {
	fields := map[string]*string{
		EnvLlmBaseUrl:      &c.LlmBaseUrl,
		EnvLlmApiKey:       &c.LlmApiKey,
		EnvLlmModel:        &c.LlmModel,
		EnvImageBaseUrl:    &c.ImageBaseUrl,
		EnvImageModel:      &c.ImageModel,
		EnvHfApiKey:        &c.HfApiKey,
		EnvApiIpPort:       &c.ApiIpPort,
		EnvStaticDir:       &c.StaticDir,
		EnvListTimeout:     &c.ListTimeout,
		EnvChatTimeout:     &c.ChatTimeout,
		EnvDocumentTimeout: &c.DocumentTimeout,
		EnvImageTimeout:    &c.ImageTimeout,
		EnvModelsCacheTTL:  &c.ModelsCacheTTL,
		EnvOutputDir:       &c.OutputDir,
		EnvPdfFontPath:     &c.PdfFontPath,
		EnvPinataJwt:       &c.PinataJwtKey,
		EnvLogLevel:        &c.LogLevel,
		EnvLogFormat:       &c.LogFormat,
	}

	for key, field := range fields {
		if value, ok := os.LookupEnv(key); ok {
			*field = value
		}
	}

	if value, ok := os.LookupEnv(EnvArticleConcurrency); ok {
		concurrency, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s must be an integer: %w", EnvArticleConcurrency, err)
		}
		c.ArticleConcurrency = concurrency
	}

	return nil
}

func (c *Config) Validate() error {
	if c.LlmBaseUrl == "" {
		return errors.New("LLM_BASE_URL is required")
	}
	if err := validateHttpUrl(c.LlmBaseUrl); err != nil {
		return fmt.Errorf("LLM_BASE_URL is invalid: %w", err)
	}
	if c.LlmModel == "" {
		return errors.New("LLM_MODEL is required")
	}
	if c.ImageBaseUrl == "" {
		return errors.New("IMAGE_BASE_URL is required")
	}
	if err := validateHttpUrl(c.ImageBaseUrl); err != nil {
		return fmt.Errorf("IMAGE_BASE_URL is invalid: %w", err)
	}
	if c.ImageModel == "" {
		return errors.New("IMAGE_MODEL is required")
	}

	timeouts := []struct {
		key   string
		value string
	}{
		{EnvListTimeout, c.ListTimeout},
		{EnvChatTimeout, c.ChatTimeout},
		{EnvDocumentTimeout, c.DocumentTimeout},
		{EnvImageTimeout, c.ImageTimeout},
	}
	for _, timeout := range timeouts {
		d, err := time.ParseDuration(timeout.value)
		if err != nil {
			return fmt.Errorf("%s is invalid: %w", timeout.key, err)
		}
		if d <= 0 {
			return fmt.Errorf("%s must be positive", timeout.key)
		}
	}

	ttl, err := time.ParseDuration(c.ModelsCacheTTL)
	if err != nil {
		return fmt.Errorf("%s is invalid: %w", EnvModelsCacheTTL, err)
	}
	if ttl < 0 {
		return fmt.Errorf("%s must not be negative", EnvModelsCacheTTL)
	}

	if c.ArticleConcurrency < 1 {
		return fmt.Errorf("%s must be at least 1", EnvArticleConcurrency)
	}

	if _, err := parseLogLevel(c.LogLevel); err != nil {
		return err
	}
	if c.LogFormat != LogFormatText && c.LogFormat != LogFormatJson {
		return fmt.Errorf("%s must be %q or %q", EnvLogFormat, LogFormatText, LogFormatJson)
	}

	return nil
}

// ValidateImageBackend is required by the server; the CLI only needs it for
// image generation.
func (c *Config) ValidateImageBackend() error {
	return validateHfApiKey(c.HfApiKey)
}

func validateHfApiKey(key string) error {
	if key == "" {
		return errors.New("HF_API_KEY is required")
	}

	return nil
}

func validateHttpUrl(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("missing host")
	}

	return nil
}
