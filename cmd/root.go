package cmd

import (
	"log/slog"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"actionizer/pkg/config"
)

var (
	verbose     bool
	configPath  string
	promptsPath string
	accessible  bool
)

var rootCmd = &cobra.Command{
	Use:   "actionizer [title]",
	Short: "Turn any movie into an action blockbuster",
	Long: `Actionizer looks up a movie, rewrites its title and summary as an explosive
action blockbuster, generates a matching poster, and saves everything under movies/.`,
	Args:          cobra.MaximumNArgs(1),
	RunE:          runActionize,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultConfigPath, "Path to the config file")
	rootCmd.PersistentFlags().StringVar(&promptsPath, "prompts", "", "Path to a prompts override file (default prompts.yaml if present)")
	rootCmd.PersistentFlags().BoolVar(&accessible, "accessible", false, "Use accessible prompts without a TUI")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		setupLogger()
	}
}

func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("Command failed", "error", err)
		return err
	}
	return nil
}

func setupLogger() {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	handler := log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: verbose,
	})
	slog.SetDefault(slog.New(handler))
}
