package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"actionizer/pkg/config"
)

const envFile = ".env"

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).MarginBottom(1)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive setup wizard for Actionizer",
	Long:  `Store the OpenAI API key in .env and create the output directory.`,
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	fmt.Println(titleStyle.Render("🎬 Actionizer Setup"))

	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return err
	}

	steps := []struct {
		name string
		fn   func() error
	}{
		{"Configuring environment", configureEnv},
		{"Creating directories", func() error { return createOutputDir(cfg.Output.Dir) }},
	}

	for _, step := range steps {
		if err := step.fn(); err != nil {
			return fmt.Errorf("%s: %w", step.name, err)
		}
	}

	printNextSteps()
	return nil
}

func configureEnv() error {
	env := map[string]string{}
	if existing, err := godotenv.Read(envFile); err == nil {
		env = existing
	}

	if env[config.EnvAPIKey] != "" {
		var overwrite bool
		if err := runForm(huh.NewConfirm().
			Title("Found an existing OpenAI API key in .env").
			Description("Replace it?").
			Value(&overwrite)); err != nil {
			return err
		}
		if !overwrite {
			fmt.Println(infoStyle.Render("Kept existing .env"))
			return nil
		}
	}

	var apiKey string
	if err := runForm(huh.NewInput().
		Title("OpenAI API Key").
		Description("https://platform.openai.com/api-keys").
		EchoMode(huh.EchoModePassword).
		Value(&apiKey).
		Validate(required("OpenAI API Key"))); err != nil {
		return err
	}

	env[config.EnvAPIKey] = strings.TrimSpace(apiKey)
	if err := godotenv.Write(env, envFile); err != nil {
		return err
	}

	fmt.Println(successStyle.Render("✓ Saved " + envFile))
	return nil
}

func createOutputDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	fmt.Println(successStyle.Render("✓ Created " + dir + "/"))
	return nil
}

func printNextSteps() {
	fmt.Println()
	fmt.Println(titleStyle.Render("Next steps:"))
	fmt.Println("  1. Optionally copy config.example.yaml to config.yaml")
	fmt.Println("  2. Run: actionizer --title \"Notting Hill\"")
}

func runForm(fields ...huh.Field) error {
	return huh.NewForm(huh.NewGroup(fields...)).WithAccessible(accessible).Run()
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}
