package app

import (
	"actionizer/internal/actionize"
	"actionizer/internal/llm"
	"actionizer/internal/storage"
	"actionizer/pkg/config"
	"actionizer/pkg/prompts"
)

type Service struct {
	cfg         *config.Config
	llm         llm.Client
	prompts     *prompts.Prompts
	transformer *actionize.Transformer
	writer      *storage.Writer
}

type ServiceOptions struct {
	Config      *config.Config
	LLM         llm.Client
	Prompts     *prompts.Prompts
	Transformer *actionize.Transformer
	Writer      *storage.Writer
}

func NewService(opts ServiceOptions) *Service {
	return &Service{
		cfg:         opts.Config,
		llm:         opts.LLM,
		prompts:     opts.Prompts,
		transformer: opts.Transformer,
		writer:      opts.Writer,
	}
}

func (s *Service) Config() *config.Config {
	return s.cfg
}

func (s *Service) LLM() llm.Client {
	return s.llm
}

func (s *Service) Prompts() *prompts.Prompts {
	return s.prompts
}

func (s *Service) Transformer() *actionize.Transformer {
	return s.transformer
}

func (s *Service) Writer() *storage.Writer {
	return s.writer
}
