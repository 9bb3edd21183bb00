package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "config.yaml"

	EnvAPIKey  = "OPENAI_API_KEY"
	EnvModel   = "OPENAI_MODEL"
	EnvBaseURL = "OPENAI_BASE_URL"

	defaultTextModel        = "gpt-4o-mini"
	defaultImageModel       = "dall-e-3"
	defaultImageSize        = "1024x1024"
	defaultImageQuality     = "standard"
	defaultMaxTokens        = 500
	defaultLookupFormat     = LookupFormatJSONObject
	defaultOutputDir        = "movies"
	defaultMaxDirLength     = 100
	defaultDownloadTimeout  = 60 * time.Second
	defaultDownloadAttempts = 3
)

const (
	LookupFormatText       = "text"
	LookupFormatJSONObject = "json_object"
	LookupFormatJSONSchema = "json_schema"
)

type Config struct {
	OpenAIAPIKey string `yaml:"-"`

	OpenAI   OpenAIConfig   `yaml:"openai"`
	Output   OutputConfig   `yaml:"output"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Poster   PosterConfig   `yaml:"poster"`
}

type OpenAIConfig struct {
	BaseURL           string  `yaml:"base_url"`
	TextModel         string  `yaml:"text_model"`
	ImageModel        string  `yaml:"image_model"`
	ImageSize         string  `yaml:"image_size"`
	ImageQuality      string  `yaml:"image_quality"`
	MaxTokens         int64   `yaml:"max_tokens"`
	LookupFormat      string  `yaml:"lookup_format"` // "text", "json_object" or "json_schema"
	RequestsPerSecond float64 `yaml:"requests_per_second"`
}

type OutputConfig struct {
	Dir          string `yaml:"dir"`
	MaxDirLength int    `yaml:"max_dir_length"`
}

type PipelineConfig struct {
	ConcurrentTransforms bool `yaml:"concurrent_transforms"`
}

type PosterConfig struct {
	SafeFallback     *bool         `yaml:"safe_fallback"`
	DownloadTimeout  time.Duration `yaml:"download_timeout"`
	DownloadAttempts int           `yaml:"download_attempts"`
}

// SafeFallbackEnabled reports whether safety rejections should be retried with
// progressively safer poster prompts. Unset means enabled.
func (p PosterConfig) SafeFallbackEnabled() bool {
	return p.SafeFallback == nil || *p.SafeFallback
}

// Load reads .env, the process environment and config.yaml from the working
// directory. A missing config.yaml is not an error.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath)
}

func LoadFrom(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		OpenAIAPIKey: os.Getenv(EnvAPIKey),
	}

	if err := loadYAMLConfig(path, cfg); err != nil {
		return nil, err
	}
	if model := os.Getenv(EnvModel); model != "" {
		cfg.OpenAI.TextModel = model
	}
	if baseURL := os.Getenv(EnvBaseURL); baseURL != "" {
		cfg.OpenAI.BaseURL = baseURL
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadYAMLConfig(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug("No config file found, using defaults", "path", path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func applyDefaults(cfg *Config) {
	applyOpenAIDefaults(cfg)
	applyOutputDefaults(cfg)
	applyPosterDefaults(cfg)
}

func applyOpenAIDefaults(cfg *Config) {
	if cfg.OpenAI.TextModel == "" {
		cfg.OpenAI.TextModel = defaultTextModel
	}
	if cfg.OpenAI.ImageModel == "" {
		cfg.OpenAI.ImageModel = defaultImageModel
	}
	if cfg.OpenAI.ImageSize == "" {
		cfg.OpenAI.ImageSize = defaultImageSize
	}
	if cfg.OpenAI.ImageQuality == "" {
		cfg.OpenAI.ImageQuality = defaultImageQuality
	}
	if cfg.OpenAI.MaxTokens == 0 {
		cfg.OpenAI.MaxTokens = defaultMaxTokens
	}
	if cfg.OpenAI.LookupFormat == "" {
		cfg.OpenAI.LookupFormat = defaultLookupFormat
	}
}

func applyOutputDefaults(cfg *Config) {
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = defaultOutputDir
	}
	if cfg.Output.MaxDirLength == 0 {
		cfg.Output.MaxDirLength = defaultMaxDirLength
	}
}

func applyPosterDefaults(cfg *Config) {
	if cfg.Poster.DownloadTimeout == 0 {
		cfg.Poster.DownloadTimeout = defaultDownloadTimeout
	}
	if cfg.Poster.DownloadAttempts == 0 {
		cfg.Poster.DownloadAttempts = defaultDownloadAttempts
	}
}

func (cfg *Config) validate() error {
	switch cfg.OpenAI.LookupFormat {
	case LookupFormatText, LookupFormatJSONObject, LookupFormatJSONSchema:
	default:
		return fmt.Errorf("invalid openai.lookup_format %q", cfg.OpenAI.LookupFormat)
	}
	if cfg.Output.MaxDirLength < 0 {
		return fmt.Errorf("invalid output.max_dir_length %d", cfg.Output.MaxDirLength)
	}
	if cfg.OpenAI.RequestsPerSecond < 0 {
		return fmt.Errorf("invalid openai.requests_per_second %v", cfg.OpenAI.RequestsPerSecond)
	}
	return nil
}
