package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
	"github.com/spf13/cobra"

	"actionizer/internal/app"
	"actionizer/internal/movie"
	"actionizer/pkg/config"
	"actionizer/pkg/prompts"
)

var (
	movieTitle    string
	movieLanguage string
)

var errNoResult = errors.New("run finished without a result")

func init() {
	rootCmd.Flags().StringVarP(&movieTitle, "title", "t", "", "Movie title (skips the title prompt)")
	rootCmd.Flags().StringVarP(&movieLanguage, "language", "l", "", "Language choice: 1 English, 2 Dutch, 3 French (skips the language prompt)")
}

func runActionize(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return err
	}

	p, err := loadPrompts()
	if err != nil {
		return err
	}

	movieTitle = resolveTitle(movieTitle, args)

	query, err := askQuery(cmd.Flags().Changed("language"))
	if err != nil {
		return err
	}

	pipeline := app.NewPipeline(app.BuildService(cfg, p))

	result, err := runPipeline(ctx, pipeline, query)
	if err != nil {
		return err
	}

	printResult(result)
	return nil
}

// resolveTitle prefers the --title flag over a positional title.
func resolveTitle(flagTitle string, args []string) string {
	if strings.TrimSpace(flagTitle) == "" && len(args) > 0 {
		return args[0]
	}
	return flagTitle
}

func loadPrompts() (*prompts.Prompts, error) {
	if promptsPath == "" {
		return prompts.Load()
	}
	return prompts.LoadFrom(promptsPath)
}

func askQuery(languageSet bool) (movie.Query, error) {
	title := strings.TrimSpace(movieTitle)
	choice := movieLanguage

	var fields []huh.Field
	if title == "" {
		fields = append(fields, huh.NewInput().
			Title("Which movie do you want to actionize?").
			Placeholder("Notting Hill").
			Value(&title).
			Validate(required("Movie title")))
	}
	if !languageSet {
		choice = movie.English.Choice()
		fields = append(fields, huh.NewSelect[string]().
			Title("Output language").
			Options(languageOptions()...).
			Value(&choice))
	}

	if len(fields) > 0 {
		if err := runForm(fields...); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return movie.Query{}, errors.New("aborted")
			}
			return movie.Query{}, err
		}
	}

	return movie.Query{
		Title:    strings.TrimSpace(title),
		Language: movie.ParseLanguage(choice),
	}, nil
}

func languageOptions() []huh.Option[string] {
	options := make([]huh.Option[string], 0, len(movie.Languages))
	for _, lang := range movie.Languages {
		options = append(options, huh.NewOption(fmt.Sprintf("%s. %s", lang.Choice(), lang), lang.Choice()))
	}
	return options
}

func runPipeline(ctx context.Context, pipeline *app.Pipeline, query movie.Query) (*app.Result, error) {
	// No spinner in verbose or accessible mode; log lines go straight to stderr.
	if verbose || accessible {
		return pipeline.Run(ctx, query)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var result *app.Result
	err := spinner.New().
		Title(fmt.Sprintf("Actionizing %q...", query.Title)).
		Context(runCtx).
		ActionWithErr(func(ctx context.Context) error {
			res, err := pipeline.Run(ctx, query)
			if err == nil {
				result = res
			}
			return err
		}).
		Run()
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, errNoResult
	}
	return result, nil
}

func printResult(result *app.Result) {
	if result == nil {
		return
	}
	fmt.Println()
	fmt.Println(titleStyle.Render(fmt.Sprintf("💥 %s", result.Actionized.Title)))
	fmt.Println(infoStyle.Render(fmt.Sprintf("Originally: %s (%s)", result.OriginalTitle, result.Language)))
	fmt.Println(result.Actionized.Summary)
	fmt.Println()
	fmt.Println(successStyle.Render("✓ Poster saved to " + result.PosterPath))
	fmt.Println(successStyle.Render("✓ README saved to " + result.ReadmePath))
}
