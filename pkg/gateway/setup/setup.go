package setup

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/NethermindEth/genai-gateway/pkg/gateway/debug"
)

// SetupResult is the validated configuration with durations parsed.
type SetupResult struct {
	LlmBaseUrl string
	LlmApiKey  string
	LlmModel   string

	ImageBaseUrl string
	ImageModel   string
	HfApiKey     string

	ApiIpPort string
	StaticDir string

	ListTimeout     time.Duration
	ChatTimeout     time.Duration
	DocumentTimeout time.Duration
	ImageTimeout    time.Duration
	ModelsCacheTTL  time.Duration

	OutputDir          string
	PdfFontPath        string
	PinataJwtKey       string
	ArticleConcurrency int

	LogLevel  string
	LogFormat string
}

func Setup(path string) (*SetupResult, error) {
	config, err := NewConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get config: %w", err)
	}

	setupResult, err := newSetupResult(config)
	if err != nil {
		return nil, err
	}

	if debug.IsDebugShowSetup() {
		slog.Info("setup output", "setupOutput", setupResult.Redacted())
	}

	return setupResult, nil
}

func newSetupResult(config *Config) (*SetupResult, error) {
	durations := make([]time.Duration, 0, 5)
	for _, value := range []string{
		config.ListTimeout,
		config.ChatTimeout,
		config.DocumentTimeout,
		config.ImageTimeout,
		config.ModelsCacheTTL,
	} {
		d, err := time.ParseDuration(value)
		if err != nil {
			return nil, fmt.Errorf("failed to parse duration %q: %w", value, err)
		}
		durations = append(durations, d)
	}

	return &SetupResult{
		LlmBaseUrl:         config.LlmBaseUrl,
		LlmApiKey:          config.LlmApiKey,
		LlmModel:           config.LlmModel,
		ImageBaseUrl:       config.ImageBaseUrl,
		ImageModel:         config.ImageModel,
		HfApiKey:           config.HfApiKey,
		ApiIpPort:          config.ApiIpPort,
		StaticDir:          config.StaticDir,
		ListTimeout:        durations[0],
		ChatTimeout:        durations[1],
		DocumentTimeout:    durations[2],
		ImageTimeout:       durations[3],
		ModelsCacheTTL:     durations[4],
		OutputDir:          config.OutputDir,
		PdfFontPath:        config.PdfFontPath,
		PinataJwtKey:       config.PinataJwtKey,
		ArticleConcurrency: config.ArticleConcurrency,
		LogLevel:           config.LogLevel,
		LogFormat:          config.LogFormat,
	}, nil
}

// ValidateImageBackend refuses a result without an image backend API key.
func (r *SetupResult) ValidateImageBackend() error {
	return validateHfApiKey(r.HfApiKey)
}

// Redacted returns a copy safe to log.
func (r *SetupResult) Redacted() SetupResult {
	redacted := *r
	for _, secret := range []*string{&redacted.LlmApiKey, &redacted.HfApiKey, &redacted.PinataJwtKey} {
		if *secret != "" {
			*secret = "<redacted>"
		}
	}
	return redacted
}
