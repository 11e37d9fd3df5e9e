package commands

import (
	"context"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/systmms/sentry-setup/internal/config"
	"github.com/systmms/sentry-setup/internal/envfile"
	"github.com/systmms/sentry-setup/internal/laravel"
	"github.com/systmms/sentry-setup/internal/prompt"
	"github.com/systmms/sentry-setup/internal/resolve"
	"github.com/systmms/sentry-setup/internal/sentry"
)

func NewInstallCommand(cfg *config.Config) *cobra.Command {
	var skipPublish bool

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Set up Sentry for this application",
		Long: `Resolve or create a Sentry project for this application, pick a client
key, and write the DSN into the .env file.

When Sentry is enabled the application's logging config is switched to a
stack that includes the sentry channel, and the sentry-laravel vendor
config is published via artisan.

Examples:
  sentry-setup install                 # Full interactive setup
  sentry-setup install --skip-publish  # Leave vendor config untouched`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Load(); err != nil {
				return err
			}

			client, err := newAPIClient(cfg)
			if err != nil {
				return err
			}

			return runInstall(cmd.Context(), cfg, client, newPrompter(cfg), skipPublish)
		},
	}

	cmd.Flags().BoolVar(&skipPublish, "skip-publish", false, "Skip publishing the sentry-laravel vendor config")

	return cmd
}

func runInstall(ctx context.Context, cfg *config.Config, client *sentry.Client, prompter prompt.Prompter, skipPublish bool) error {
	resolver := resolve.New(client, prompter, cfg.Logger, cfg.Definition.AppName)

	session, err := resolver.Run(ctx)
	if err != nil {
		return err
	}

	vars := session.Environment()
	if session.Enabled() {
		for key, value := range laravel.EnvFromEdits(laravel.LoggingChannelEdits()) {
			vars[key] = value
		}
	}

	if err := envfile.Apply(cfg.Definition.EnvFile, vars); err != nil {
		return err
	}
	cfg.Logger.Info("Updated %s", cfg.Definition.EnvFile)

	if !session.Enabled() || skipPublish {
		return nil
	}

	publisher := laravel.NewPublisher(cfg.Logger, filepath.Dir(cfg.Definition.EnvFile))
	return publisher.Publish(ctx)
}
