package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/packages/param"
	"github.com/pkoukk/tiktoken-go"
	"golang.org/x/time/rate"

	"actionizer/internal/llm"
	"actionizer/internal/movie"
	"actionizer/pkg/config"
	"actionizer/pkg/prompts"
)

var _ llm.Client = (*Client)(nil)

var (
	errNoChoices = errors.New("no choices returned")
	errNoImage   = errors.New("no image data returned")
)

type Config struct {
	APIKey            string
	BaseURL           string
	TextModel         string
	ImageModel        string
	ImageSize         string
	ImageQuality      string
	MaxTokens         int64
	LookupFormat      string
	RequestsPerSecond float64
	HTTPClient        *http.Client
}

type Client struct {
	client  openai.Client
	cfg     Config
	prompts *prompts.Prompts
	limiter *rate.Limiter
}

// NewClient builds a client from an explicit configuration. The API key is
// not validated here; a missing key surfaces on the first remote call.
func NewClient(cfg Config, p *prompts.Prompts) *Client {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	return &Client{
		client:  openai.NewClient(opts...),
		cfg:     cfg,
		prompts: p,
		limiter: limiter,
	}
}

func (c *Client) TextComplete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return c.complete(ctx, "chat completion", systemPrompt, userPrompt, openai.ChatCompletionNewParamsResponseFormatUnion{})
}

func (c *Client) LookupStructured(ctx context.Context, title string) (movie.Data, error) {
	structured := c.cfg.LookupFormat != config.LookupFormatText
	prompt, err := c.prompts.RenderLookup(structured, prompts.LookupParams{Title: title})
	if err != nil {
		return movie.Data{}, fmt.Errorf("render prompt: %w", err)
	}

	content, err := c.complete(ctx, "movie lookup", c.prompts.System.Lookup, prompt, c.lookupFormat())
	if err != nil {
		return movie.Data{}, err
	}

	data := movie.ParseData(content)
	if !data.IsStructured() {
		slog.Debug("Lookup response is not structured, using raw text as summary", "title", title)
	}
	return data, nil
}

func (c *Client) GenerateImage(ctx context.Context, prompt string) (string, error) {
	const op = "image generation"
	if err := c.ready(ctx); err != nil {
		return "", err
	}

	slog.Debug("Generating image", "model", c.cfg.ImageModel, "size", c.cfg.ImageSize, "quality", c.cfg.ImageQuality)

	resp, err := c.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt:  prompt,
		Model:   openai.ImageModel(c.cfg.ImageModel),
		N:       openai.Int(1),
		Size:    openai.ImageGenerateParamsSize(c.cfg.ImageSize),
		Quality: openai.ImageGenerateParamsQuality(c.cfg.ImageQuality),
	})
	if err != nil {
		return "", serviceError(op, err)
	}
	if len(resp.Data) == 0 {
		return "", &llm.ServiceError{Op: op, Err: errNoImage}
	}

	image := resp.Data[0]
	switch {
	case image.URL != "":
		return image.URL, nil
	case image.B64JSON != "":
		return "data:image/png;base64," + image.B64JSON, nil
	default:
		return "", &llm.ServiceError{Op: op, Err: errors.New("image has neither url nor b64_json")}
	}
}

func (c *Client) complete(ctx context.Context, op, systemPrompt, userPrompt string, format openai.ChatCompletionNewParamsResponseFormatUnion) (string, error) {
	if err := c.ready(ctx); err != nil {
		return "", err
	}

	if slog.Default().Enabled(ctx, slog.LevelDebug) {
		if tokens, err := countTokens(systemPrompt + userPrompt); err == nil {
			slog.Debug("Sending completion", "op", op, "model", c.cfg.TextModel, "prompt_tokens", tokens)
		}
	}

	params := openai.ChatCompletionNewParams{
		Model: c.cfg.TextModel,
		Messages: []openai.ChatCompletionMessageParamUnion{
			{
				OfSystem: &openai.ChatCompletionSystemMessageParam{
					Role: "system",
					Content: openai.ChatCompletionSystemMessageParamContentUnion{
						OfString: param.Opt[string]{Value: systemPrompt},
					},
				},
			},
			{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Role: "user",
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfString: param.Opt[string]{Value: userPrompt},
					},
				},
			},
		},
		MaxCompletionTokens: openai.Int(c.cfg.MaxTokens),
		ResponseFormat:      format,
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", serviceError(op, err)
	}
	if len(resp.Choices) == 0 {
		return "", &llm.ServiceError{Op: op, Err: errNoChoices}
	}

	choice := resp.Choices[0]
	if choice.Message.Content == "" {
		slog.Warn("Empty completion content", "op", op, "finish_reason", choice.FinishReason, "refusal", choice.Message.Refusal)
	}
	return choice.Message.Content, nil
}

// ready enforces the credential check and request pacing shared by every call.
func (c *Client) ready(ctx context.Context) error {
	if c.cfg.APIKey == "" {
		return &llm.ConfigError{Setting: "OPENAI_API_KEY", Reason: "not set"}
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit: %w", err)
		}
	}
	return nil
}

func (c *Client) lookupFormat() openai.ChatCompletionNewParamsResponseFormatUnion {
	switch c.cfg.LookupFormat {
	case config.LookupFormatJSONObject:
		return openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{},
		}
	case config.LookupFormatJSONSchema:
		return openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:        "movie_details",
					Description: openai.String("Summary and details of a movie"),
					Schema:      movieDetailsSchema,
					Strict:      openai.Bool(true),
				},
			},
		}
	default:
		return openai.ChatCompletionNewParamsResponseFormatUnion{}
	}
}

var movieDetailsSchema = generateSchema[movie.Details]()

func generateSchema[T any]() any {
	r := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return r.Reflect(v)
}

func serviceError(op string, err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return &llm.ServiceError{Op: op, StatusCode: apiErr.StatusCode, Code: apiErr.Code, Err: err}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return &llm.ServiceError{Op: op, Err: err}
}

var (
	encoderOnce sync.Once
	encoder     *tiktoken.Tiktoken
	encoderErr  error
)

func countTokens(text string) (int, error) {
	encoderOnce.Do(func() {
		encoder, encoderErr = tiktoken.EncodingForModel("gpt-4-0613")
	})
	if encoderErr != nil {
		return 0, encoderErr
	}
	return len(encoder.Encode(text, nil, nil)), nil
}
