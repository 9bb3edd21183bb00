package actionize

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"actionizer/internal/llm"
	"actionizer/internal/movie"
	"actionizer/pkg/prompts"
)

const placeholderSummary = "An explosive action thriller awaits..."

type Transformer struct {
	llm        llm.Client
	prompts    *prompts.Prompts
	concurrent bool
}

type Options struct {
	Concurrent bool
}

func New(client llm.Client, p *prompts.Prompts, opts Options) *Transformer {
	return &Transformer{
		llm:        client,
		prompts:    p,
		concurrent: opts.Concurrent,
	}
}

// ActionizeTitle rewrites originalTitle as an action blockbuster title. An
// empty response is retried once with a simpler prompt. The result is never
// empty.
func (t *Transformer) ActionizeTitle(ctx context.Context, originalTitle string, language movie.Language) (string, error) {
	params := prompts.TitleParams{
		Title:    originalTitle,
		Language: language.PromptName(),
	}

	for _, render := range []func(prompts.TitleParams) (string, error){t.prompts.RenderTitle, t.prompts.RenderTitleRetry} {
		prompt, err := render(params)
		if err != nil {
			return "", fmt.Errorf("render title prompt: %w", err)
		}

		resp, err := t.llm.TextComplete(ctx, t.prompts.System.Action, prompt)
		if err != nil {
			return "", fmt.Errorf("actionize title: %w", err)
		}

		if title := extractTitle(resp); title != "" {
			return title, nil
		}
		slog.Warn("Empty title response", "original", originalTitle)
	}

	return strings.TrimSpace("Operation " + strings.TrimSpace(originalTitle)), nil
}

func (t *Transformer) ActionizeSummary(ctx context.Context, originalSummary string, language movie.Language) (string, error) {
	prompt, err := t.prompts.RenderSummary(prompts.SummaryParams{
		Summary:  originalSummary,
		Language: language.PromptName(),
	})
	if err != nil {
		return "", fmt.Errorf("render summary prompt: %w", err)
	}

	resp, err := t.llm.TextComplete(ctx, t.prompts.System.Action, prompt)
	if err != nil {
		return "", fmt.Errorf("actionize summary: %w", err)
	}

	summary := strings.TrimSpace(resp)
	if summary == "" {
		slog.Warn("Empty summary response, using placeholder")
		return placeholderSummary, nil
	}
	return summary, nil
}

// Actionize rewrites both title and summary. With the concurrent option the
// two calls run in parallel; the result is the same either way.
func (t *Transformer) Actionize(ctx context.Context, title, summary string, language movie.Language) (movie.Actionized, error) {
	var out movie.Actionized

	if !t.concurrent {
		var err error
		if out.Title, err = t.ActionizeTitle(ctx, title, language); err != nil {
			return movie.Actionized{}, err
		}
		if out.Summary, err = t.ActionizeSummary(ctx, summary, language); err != nil {
			return movie.Actionized{}, err
		}
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s, err := t.ActionizeTitle(gctx, title, language)
		out.Title = s
		return err
	})
	g.Go(func() error {
		s, err := t.ActionizeSummary(gctx, summary, language)
		out.Summary = s
		return err
	})
	if err := g.Wait(); err != nil {
		return movie.Actionized{}, err
	}
	return out, nil
}

// FirstLine returns the first line of s with surrounding whitespace removed.
func FirstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

func extractTitle(resp string) string {
	if title := stripQuotes(FirstLine(resp)); title != "" {
		return title
	}

	// The first line may be nothing but quotes; take the next usable one.
	for _, line := range strings.Split(strings.TrimSpace(resp), "\n") {
		if title := stripQuotes(line); title != "" {
			return title
		}
	}

	return ""
}

func stripQuotes(s string) string {
	s = strings.TrimSpace(s)
	for len(s) >= 2 && (s[0] == '"' && s[len(s)-1] == '"' || s[0] == '\'' && s[len(s)-1] == '\'') {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	return strings.Trim(s, `"`)
}
