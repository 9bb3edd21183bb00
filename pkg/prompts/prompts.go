package prompts

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

const DefaultPromptsPath = "prompts.yaml"

//go:embed default.yaml
var defaultPrompts []byte

type Prompts struct {
	System    SystemPrompts    `yaml:"system"`
	Lookup    LookupPrompts    `yaml:"lookup"`
	Actionize ActionizePrompts `yaml:"actionize"`
	Poster    PosterPrompts    `yaml:"poster"`
}

type SystemPrompts struct {
	Lookup string `yaml:"lookup"`
	Action string `yaml:"action"`
}

type LookupPrompts struct {
	Text string `yaml:"text"`
	JSON string `yaml:"json"`
}

type ActionizePrompts struct {
	Title      string `yaml:"title"`
	TitleRetry string `yaml:"title_retry"`
	Summary    string `yaml:"summary"`
}

type PosterPrompts struct {
	Default   string `yaml:"default"`
	Safer     string `yaml:"safer"`
	UltraSafe string `yaml:"ultra_safe"`
}

type LookupParams struct {
	Title string
}

type TitleParams struct {
	Title    string
	Language string
}

type SummaryParams struct {
	Summary  string
	Language string
}

type PosterParams struct {
	ActionTitle   string
	OriginalTitle string
}

// Default returns the prompts embedded in the binary.
func Default() (*Prompts, error) {
	var p Prompts
	if err := yaml.Unmarshal(defaultPrompts, &p); err != nil {
		return nil, fmt.Errorf("failed to parse default prompts: %w", err)
	}
	return &p, nil
}

// Load reads prompts.yaml from the working directory, falling back to the
// embedded defaults when it does not exist.
func Load() (*Prompts, error) {
	p, err := LoadFrom(DefaultPromptsPath)
	if errors.Is(err, fs.ErrNotExist) {
		return Default()
	}
	return p, err
}

// LoadFrom overlays the prompts in path on top of the embedded defaults, so an
// override file only needs the keys it changes.
func LoadFrom(path string) (*Prompts, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompts file: %w", err)
	}

	p, err := Default()
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("failed to parse prompts file: %w", err)
	}

	return p, nil
}

func (p *Prompts) RenderLookup(structured bool, params LookupParams) (string, error) {
	if structured {
		return render(p.Lookup.JSON, params)
	}
	return render(p.Lookup.Text, params)
}

func (p *Prompts) RenderTitle(params TitleParams) (string, error) {
	return render(p.Actionize.Title, params)
}

// RenderTitleRetry renders the simpler prompt used when the first title
// response was empty.
func (p *Prompts) RenderTitleRetry(params TitleParams) (string, error) {
	return render(p.Actionize.TitleRetry, params)
}

func (p *Prompts) RenderSummary(params SummaryParams) (string, error) {
	return render(p.Actionize.Summary, params)
}

func (p *Prompts) RenderPoster(params PosterParams) (string, error) {
	return render(p.Poster.Default, params)
}

// RenderSaferPoster renders the poster prompt used after a safety rejection.
// Brand and franchise names are removed from the title first.
func (p *Prompts) RenderSaferPoster(params PosterParams) (string, error) {
	params.ActionTitle = StripBrandNames(params.ActionTitle, "Maximum Fury")
	params.OriginalTitle = StripBrandNames(params.OriginalTitle, "")
	return render(p.Poster.Safer, params)
}

func (p *Prompts) RenderUltraSafePoster(params PosterParams) (string, error) {
	if strings.TrimSpace(params.ActionTitle) == "" {
		params.ActionTitle = "Maximum Impact"
	}
	return render(p.Poster.UltraSafe, params)
}

func render(tmpl string, data any) (string, error) {
	t, err := template.New("prompt").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

var brandNames = []string{
	"Marvel", "DC", "Disney", "Pixar", "DreamWorks", "Warner Bros", "Universal",
	"Star Wars", "Star Trek", "Harry Potter", "Lord of the Rings", "Hobbit",
	"Avengers", "Spider-Man", "Spiderman", "Batman", "Superman", "Wonder Woman",
	"X-Men", "Transformers", "Fast & Furious", "Fast and Furious", "Jurassic",
	"Terminator", "Matrix", "James Bond", "007", "Mission Impossible",
	"Indiana Jones", "Pirates of the Caribbean", "Ghostbusters", "Men in Black",
	"Shrek", "Toy Story", "Frozen", "Minions", "Godzilla", "King Kong",
	"John Wick", "Rambo", "Die Hard", "Blade Runner", "Hunger Games", "Twilight",
	"Iron Man", "Captain America", "Black Panther", "Darth Vader", "Joker",
	"Netflix", "Amazon", "HBO", "Paramount", "Sony", "MGM", "Lionsgate",
}

var (
	brandPattern = buildBrandPattern()
	spaceRun     = regexp.MustCompile(`\s+`)
	edgePunct    = regexp.MustCompile(`^[:\-\s]+|[:\-\s]+$`)
)

func buildBrandPattern() *regexp.Regexp {
	quoted := make([]string, len(brandNames))
	for i, name := range brandNames {
		quoted[i] = regexp.QuoteMeta(name)
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
}

// StripBrandNames removes well-known franchise, character and studio names
// from title. If fewer than three characters remain, fallback is returned.
func StripBrandNames(title, fallback string) string {
	s := brandPattern.ReplaceAllString(title, "")
	s = spaceRun.ReplaceAllString(s, " ")
	s = strings.TrimSpace(edgePunct.ReplaceAllString(s, ""))
	if len([]rune(s)) < 3 {
		return fallback
	}
	return s
}
