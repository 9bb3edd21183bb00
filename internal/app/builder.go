package app

import (
	"net/http"

	"actionizer/internal/actionize"
	"actionizer/internal/llm/openai"
	"actionizer/internal/storage"
	"actionizer/pkg/config"
	"actionizer/pkg/httputil"
	"actionizer/pkg/prompts"
)

// BuildService wires the production dependencies. It performs no I/O: the
// credential is checked on the first remote call and the output directory is
// created when the first bundle is written.
func BuildService(cfg *config.Config, p *prompts.Prompts) *Service {
	llmClient := openai.NewClient(openai.Config{
		APIKey:            cfg.OpenAIAPIKey,
		BaseURL:           cfg.OpenAI.BaseURL,
		TextModel:         cfg.OpenAI.TextModel,
		ImageModel:        cfg.OpenAI.ImageModel,
		ImageSize:         cfg.OpenAI.ImageSize,
		ImageQuality:      cfg.OpenAI.ImageQuality,
		MaxTokens:         cfg.OpenAI.MaxTokens,
		LookupFormat:      cfg.OpenAI.LookupFormat,
		RequestsPerSecond: cfg.OpenAI.RequestsPerSecond,
	}, p)

	transformer := actionize.New(llmClient, p, actionize.Options{
		Concurrent: cfg.Pipeline.ConcurrentTransforms,
	})

	downloader := httputil.NewRetryClient(
		&http.Client{Timeout: cfg.Poster.DownloadTimeout},
		httputil.RetryConfig{MaxRetries: downloadRetries(cfg.Poster.DownloadAttempts)},
	)
	writer := storage.NewWriter(cfg.Output.Dir, downloader)

	return NewService(ServiceOptions{
		Config:      cfg,
		LLM:         llmClient,
		Prompts:     p,
		Transformer: transformer,
		Writer:      writer,
	})
}

func downloadRetries(attempts int) int {
	if attempts <= 1 {
		return -1
	}
	return attempts - 1
}
