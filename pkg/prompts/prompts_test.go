package prompts

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	p, err := Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}

	fields := map[string]string{
		"System.Lookup":        p.System.Lookup,
		"System.Action":        p.System.Action,
		"Lookup.Text":          p.Lookup.Text,
		"Lookup.JSON":          p.Lookup.JSON,
		"Actionize.Title":      p.Actionize.Title,
		"Actionize.TitleRetry": p.Actionize.TitleRetry,
		"Actionize.Summary":    p.Actionize.Summary,
		"Poster.Default":       p.Poster.Default,
		"Poster.Safer":         p.Poster.Safer,
		"Poster.UltraSafe":     p.Poster.UltraSafe,
	}
	for name, value := range fields {
		if strings.TrimSpace(value) == "" {
			t.Errorf("%s is empty", name)
		}
	}
	if !strings.Contains(p.System.Action, "love action") {
		t.Errorf("System.Action = %q, want action persona", p.System.Action)
	}
}

func TestLoadFallsBackToDefault(t *testing.T) {
	tmpDir := t.TempDir()
	originalWd, _ := os.Getwd()
	defer func() { _ = os.Chdir(originalWd) }()
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatal(err)
	}

	p, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if p.System.Lookup == "" {
		t.Error("System.Lookup is empty, want embedded default")
	}
}

func TestLoadFromOverlaysDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	promptsPath := filepath.Join(tmpDir, "custom.yaml")

	promptsContent := `
actionize:
  title: "Custom {{.Title}} in {{.Language}}"
`
	if err := os.WriteFile(promptsPath, []byte(promptsContent), 0644); err != nil {
		t.Fatal(err)
	}

	p, err := LoadFrom(promptsPath)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	got, err := p.RenderTitle(TitleParams{Title: "Notting Hill", Language: "dutch"})
	if err != nil {
		t.Fatalf("RenderTitle() error = %v", err)
	}
	if got != "Custom Notting Hill in dutch" {
		t.Errorf("RenderTitle() = %q", got)
	}
	if p.Actionize.Summary == "" {
		t.Error("Actionize.Summary should keep the embedded default")
	}
}

func TestLoadFromMissing(t *testing.T) {
	_, err := LoadFrom("/nonexistent/path.yaml")
	if err == nil {
		t.Error("expected error for missing file")
	}
}

func TestRenderDefaults(t *testing.T) {
	p, err := Default()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		render func() (string, error)
		want   []string
	}{
		{
			name: "lookupText",
			render: func() (string, error) {
				return p.RenderLookup(false, LookupParams{Title: "Notting Hill"})
			},
			want: []string{"Provide a summary and details for the movie titled 'Notting Hill'."},
		},
		{
			name: "lookupJSON",
			render: func() (string, error) {
				return p.RenderLookup(true, LookupParams{Title: "Notting Hill"})
			},
			want: []string{"'Notting Hill'", "JSON", "summary"},
		},
		{
			name: "title",
			render: func() (string, error) {
				return p.RenderTitle(TitleParams{Title: "Notting Hill", Language: "french"})
			},
			want: []string{"in french: 'Notting Hill'", "only reply back with the title"},
		},
		{
			name: "titleRetry",
			render: func() (string, error) {
				return p.RenderTitleRetry(TitleParams{Title: "Notting Hill", Language: "dutch"})
			},
			want: []string{`in dutch inspired by "Notting Hill"`, "Just the title"},
		},
		{
			name: "summary",
			render: func() (string, error) {
				return p.RenderSummary(SummaryParams{Summary: "A bookseller meets a star.", Language: "english"})
			},
			want: []string{"in english: 'A bookseller meets a star.'"},
		},
		{
			name: "poster",
			render: func() (string, error) {
				return p.RenderPoster(PosterParams{ActionTitle: "Boom Hill", OriginalTitle: "Notting Hill"})
			},
			want: []string{"'Boom Hill'", "original rom-com 'Notting Hill'"},
		},
		{
			name: "ultraSafeEmptyTitle",
			render: func() (string, error) {
				return p.RenderUltraSafePoster(PosterParams{})
			},
			want: []string{`"Maximum Impact"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.render()
			if err != nil {
				t.Fatalf("render error = %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("rendered %q, want it to contain %q", got, w)
				}
			}
		})
	}
}

func TestRenderSaferPosterStripsBrands(t *testing.T) {
	p, err := Default()
	if err != nil {
		t.Fatal(err)
	}

	got, err := p.RenderSaferPoster(PosterParams{ActionTitle: "Batman: Midnight Siege", OriginalTitle: "Batman Forever"})
	if err != nil {
		t.Fatalf("RenderSaferPoster() error = %v", err)
	}
	if strings.Contains(got, "Batman") {
		t.Errorf("safer prompt still mentions a brand: %q", got)
	}
	if !strings.Contains(got, `"Midnight Siege"`) {
		t.Errorf("safer prompt missing stripped title: %q", got)
	}
}

func TestStripBrandNames(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		fallback string
		want     string
	}{
		{name: "noBrand", title: "Seattle Under Siege", fallback: "x", want: "Seattle Under Siege"},
		{name: "leadingBrand", title: "Star Wars: Love Strike", fallback: "x", want: "Love Strike"},
		{name: "caseInsensitive", title: "the AVENGERS protocol", fallback: "x", want: "the protocol"},
		{name: "onlyBrand", title: "Batman", fallback: "Maximum Fury", want: "Maximum Fury"},
		{name: "wordBoundary", title: "Dcent Strike", fallback: "x", want: "Dcent Strike"},
		{name: "empty", title: "", fallback: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripBrandNames(tt.title, tt.fallback); got != tt.want {
				t.Errorf("StripBrandNames(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}

func TestRenderInvalidTemplate(t *testing.T) {
	p := &Prompts{Actionize: ActionizePrompts{Title: "{{.Title"}}
	if _, err := p.RenderTitle(TitleParams{}); err == nil {
		t.Error("expected error for invalid template")
	}
}
