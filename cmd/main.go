package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	cfg "github.com/lucasromero/github-review/internal/config"
	domainErrors "github.com/lucasromero/github-review/internal/errors"
	"github.com/lucasromero/github-review/internal/i18n"
	"github.com/lucasromero/github-review/internal/logger"
	"github.com/lucasromero/github-review/internal/prompts"
	"github.com/lucasromero/github-review/internal/protocol"
	"github.com/lucasromero/github-review/internal/render"
	"github.com/lucasromero/github-review/internal/services"
	"github.com/lucasromero/github-review/internal/tools"
	"github.com/lucasromero/github-review/internal/vcs/github"
	"github.com/lucasromero/github-review/internal/version"
	"github.com/urfave/cli/v3"
)

func main() {
	cmd := &cli.Command{
		Name:    "github-review",
		Usage:   "Serve GitHub pull request tools and prompts over stdio",
		Version: version.FullVersion(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a config.json (defaults to ~/.github-review/config.json)",
			},
			&cli.StringFlag{
				Name:  "lang",
				Usage: "Override the configured language for tool and prompt text",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging on stderr",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable info logging on stderr",
			},
		},
		Action: run,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Run(ctx, os.Args); err != nil && ctx.Err() == nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, command *cli.Command) error {
	logger.Initialize(command.Bool("debug"), command.Bool("verbose"))

	configPath := command.String("config")
	if configPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("could not resolve the user home directory: %w", err)
		}
		configPath = homeDir
	}

	appConfig, err := cfg.LoadConfig(configPath)
	if err != nil {
		return err
	}

	// The credential is resolved exactly once, here. Its absence is a
	// startup failure, not a per-request error.
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		return domainErrors.ErrTokenMissing
	}

	translations, err := i18n.NewTranslations(appConfig.Language, "")
	if err != nil {
		return fmt.Errorf("error loading translations: %w", err)
	}

	if err := applyLanguageOverride(appConfig, translations, command.String("lang")); err != nil {
		return err
	}

	client, err := github.NewGitHubClient(token, appConfig)
	if err != nil {
		return err
	}

	reviewService := services.NewReviewService(client)
	renderer := render.NewRenderer(translations)

	toolRegistry, err := tools.NewDefaultRegistry(reviewService, renderer, translations)
	if err != nil {
		return fmt.Errorf("error registering tools: %w", err)
	}

	promptRegistry, err := prompts.NewDefaultRegistry(reviewService, renderer, translations)
	if err != nil {
		return fmt.Errorf("error registering prompts: %w", err)
	}

	logger.Info(ctx, "serving on stdio",
		"max_pages", appConfig.MaxPages,
		"per_page", appConfig.PerPage,
		"timeout", appConfig.RequestTimeout().String())

	server := protocol.NewServer(toolRegistry, promptRegistry, os.Stdin, os.Stdout)
	return server.Serve(ctx)
}

// applyLanguageOverride switches the active language when --lang differs
// from the configured one, and persists the choice so the next start does
// not need the flag.
func applyLanguageOverride(appConfig *cfg.Config, translations *i18n.Translations, lang string) error {
	if lang == "" || lang == appConfig.Language {
		return nil
	}

	if err := translations.SetLanguage(lang); err != nil {
		return err
	}

	appConfig.Language = lang
	return cfg.SaveConfig(appConfig)
}
