package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/segmentio/ksuid"

	"actionizer/internal/llm"
	"actionizer/internal/movie"
	"actionizer/internal/storage"
	"actionizer/pkg/prompts"
)

const summaryNotFound = "Summary not found."

type Pipeline struct {
	service *Service
}

type Result struct {
	RunID         string
	OriginalTitle string
	Language      movie.Language
	Movie         movie.Data
	Summary       string
	Actionized    movie.Actionized
	DirName       string
	Dir           string
	PosterPath    string
	ReadmePath    string
}

type posterAttempt struct {
	name   string
	render func(prompts.PosterParams) (string, error)
}

func NewPipeline(service *Service) *Pipeline {
	return &Pipeline{service: service}
}

// Run looks up the movie, actionizes it, generates a poster and writes the
// output bundle. Any failure aborts the run; files already written stay.
func (pipeline *Pipeline) Run(ctx context.Context, query movie.Query) (*Result, error) {
	result := &Result{
		RunID:         ksuid.New().String(),
		OriginalTitle: query.Title,
		Language:      query.Language,
	}
	log := slog.With("run", result.RunID)

	log.Info("Looking up movie...", "title", query.Title)
	data, err := pipeline.service.llm.LookupStructured(ctx, query.Title)
	if err != nil {
		return nil, fmt.Errorf("lookup movie: %w", err)
	}
	result.Movie = data
	result.Summary = summaryOf(data)
	log.Debug("Movie found", "structured", data.IsStructured(), "fields", data.Keys())

	log.Info("Actionizing title and summary...", "language", query.Language)
	actionized, err := pipeline.service.transformer.Actionize(ctx, query.Title, result.Summary, query.Language)
	if err != nil {
		return nil, err
	}
	result.Actionized = actionized
	result.DirName = storage.SanitizeDirName(actionized.Title, pipeline.service.cfg.Output.MaxDirLength)
	log.Info("Actionized", "title", actionized.Title, "dir", result.DirName)

	log.Info("Generating poster...")
	posterRef, err := pipeline.generatePoster(ctx, log, prompts.PosterParams{
		ActionTitle:   actionized.Title,
		OriginalTitle: query.Title,
	})
	if err != nil {
		return nil, fmt.Errorf("generate poster: %w", err)
	}

	log.Info("Saving output...", "dir", result.DirName)
	written, err := pipeline.service.writer.Write(ctx, storage.Bundle{
		DirName:       result.DirName,
		ActionTitle:   actionized.Title,
		OriginalTitle: query.Title,
		Summary:       actionized.Summary,
		PosterRef:     posterRef,
	})
	if err != nil {
		return nil, fmt.Errorf("save output: %w", err)
	}
	result.Dir = written.Dir
	result.PosterPath = written.PosterPath
	result.ReadmePath = written.ReadmePath

	log.Info("Done", "poster", written.PosterPath, "readme", written.ReadmePath)
	return result, nil
}

func (pipeline *Pipeline) generatePoster(ctx context.Context, log *slog.Logger, params prompts.PosterParams) (string, error) {
	p := pipeline.service.prompts
	attempts := []posterAttempt{{name: "default", render: p.RenderPoster}}
	if pipeline.service.cfg.Poster.SafeFallbackEnabled() {
		attempts = append(attempts,
			posterAttempt{name: "safer", render: p.RenderSaferPoster},
			posterAttempt{name: "ultra_safe", render: p.RenderUltraSafePoster},
		)
	}

	var lastErr error
	for _, attempt := range attempts {
		prompt, err := attempt.render(params)
		if err != nil {
			return "", fmt.Errorf("render %s poster prompt: %w", attempt.name, err)
		}

		ref, err := pipeline.service.llm.GenerateImage(ctx, prompt)
		if err == nil {
			return ref, nil
		}
		if !llm.IsSafetyRejection(err) {
			return "", err
		}

		log.Warn("Poster prompt rejected by safety system", "prompt", attempt.name)
		lastErr = err
	}
	return "", lastErr
}

func summaryOf(data movie.Data) string {
	summary, ok := data.Summary()
	if !ok || strings.TrimSpace(summary) == "" {
		return summaryNotFound
	}
	return summary
}
