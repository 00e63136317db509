package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/flemzord/tgrelay/internal/config"
	"github.com/flemzord/tgrelay/internal/escape"
)

// initAnswers are collected by the init wizard.
type initAnswers struct {
	TokenEnv  string
	ChatID    string
	Path      string
	ParseMode string
	APIKeyEnv string
	TestMode  bool
}

func initCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a configuration file interactively",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, _ := cmd.Flags().GetString("output")
			force, _ := cmd.Flags().GetBool("force")
			if out == "" {
				out = config.FileName
			}
			if _, err := os.Stat(out); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", out)
			}

			answers := initAnswers{
				TokenEnv:  "TELEGRAM_BOT_TOKEN",
				Path:      "/notify",
				APIKeyEnv: "TGRELAY_API_KEY",
			}
			if err := initForm(&answers).Run(); err != nil {
				if errors.Is(err, huh.ErrUserAborted) {
					return nil
				}
				return err
			}

			data, err := renderInitConfig(answers)
			if err != nil {
				return err
			}
			if dir := filepath.Dir(out); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return err
				}
			}
			if err := os.WriteFile(out, data, 0o600); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\nExport %s before running: tgrelay start -c %s\n", out, answers.TokenEnv, out)
			return nil
		},
	}
	cmd.Flags().StringP("output", "o", "", "Where to write the configuration")
	cmd.Flags().Bool("force", false, "Overwrite an existing file")
	return cmd
}

func initForm(a *initAnswers) *huh.Form {
	required := func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New("required")
		}
		return nil
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Environment variable holding the bot token").
				Value(&a.TokenEnv).
				Validate(required),
			huh.NewInput().
				Title("Default chat ID").
				Description("Numeric id (channels start with -100) or @username").
				Value(&a.ChatID).
				Validate(func(s string) error {
					if !escape.ValidChatID(s) {
						return errors.New("must be a number or @username")
					}
					return nil
				}),
			huh.NewInput().
				Title("Endpoint path").
				Value(&a.Path).
				Validate(required),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Parse mode").
				Options(
					huh.NewOption("Plain text", escape.ModeNone),
					huh.NewOption("HTML", escape.ModeHTML),
					huh.NewOption("MarkdownV2", escape.ModeMarkdownV2),
					huh.NewOption("Markdown (legacy)", escape.ModeMarkdown),
				).
				Value(&a.ParseMode),
			huh.NewInput().
				Title("Environment variable holding the API key").
				Description("Leave empty to accept unauthenticated requests").
				Value(&a.APIKeyEnv),
			huh.NewConfirm().
				Title("Start in test mode?").
				Description("Test mode logs messages instead of calling Telegram").
				Value(&a.TestMode),
		),
	)
}

// renderInitConfig produces the YAML written by the init wizard.
func renderInitConfig(a initAnswers) ([]byte, error) {
	cfg := config.Config{
		Bot: config.BotConfig{
			Token:    "${" + a.TokenEnv + "}",
			TestMode: a.TestMode,
		},
		Endpoints: []config.EndpointConfig{{
			Path:      a.Path,
			ChatID:    a.ChatID,
			Formatter: config.DefaultFormatter,
			ParseMode: a.ParseMode,
		}},
		Server: config.ServerConfig{
			Host: config.DefaultHost,
			Port: config.DefaultPort,
		},
	}
	if a.APIKeyEnv != "" {
		cfg.Server.APIKey = "${" + a.APIKeyEnv + "}"
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return append([]byte("# Generated by tgrelay init\n"), data...), nil
}
