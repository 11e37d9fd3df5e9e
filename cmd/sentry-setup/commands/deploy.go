package commands

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/systmms/sentry-setup/internal/config"
	"github.com/systmms/sentry-setup/internal/envfile"
	"github.com/systmms/sentry-setup/internal/prompt"
	"github.com/systmms/sentry-setup/internal/resolve"
	"github.com/systmms/sentry-setup/internal/sentry"
)

func NewDeployCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Ensure the deployed environment has a Sentry DSN",
		Long: `Check the .env file for an existing Sentry DSN and, only when it is
missing, resolve one the same way install does. An environment that
already carries a DSN is left completely untouched.

Unlike install, deploy never rewrites the application's logging config
and never publishes vendor files.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Load(); err != nil {
				return err
			}

			connect := func() (*sentry.Client, error) { return newAPIClient(cfg) }
			return runDeploy(cmd.Context(), cfg, connect, newPrompter(cfg))
		},
	}

	return cmd
}

// runDeploy connects lazily: an environment that already has a DSN needs
// no token and no API round trips at all.
func runDeploy(ctx context.Context, cfg *config.Config, connect func() (*sentry.Client, error), prompter prompt.Prompter) error {
	if _, ok := envfile.Lookup(cfg.Definition.EnvFile, resolve.EnvDSN); ok {
		cfg.Logger.Info("%s already set in %s, nothing to do", resolve.EnvDSN, cfg.Definition.EnvFile)
		return nil
	}

	client, err := connect()
	if err != nil {
		return err
	}

	resolver := resolve.New(client, prompter, cfg.Logger, cfg.Definition.AppName)
	session, err := resolver.Run(ctx)
	if err != nil {
		return err
	}

	if err := envfile.Apply(cfg.Definition.EnvFile, session.Environment()); err != nil {
		return err
	}
	cfg.Logger.Info("Updated %s", cfg.Definition.EnvFile)
	return nil
}
