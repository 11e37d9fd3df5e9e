package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/systmms/sentry-setup/internal/config"
	"github.com/systmms/sentry-setup/internal/envfile"
	"github.com/systmms/sentry-setup/internal/resolve"
)

func NewDoctorCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration, credentials, and Sentry connectivity",
		Long: `Verify that sentry-setup is ready to run.

This command checks:
- Configuration file validity
- Stored API token and its acceptance by the Sentry API
- Organization access
- Whether the .env file already carries a DSN`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor(cmd.Context(), cfg)
		},
	}

	return cmd
}

func runDoctor(ctx context.Context, cfg *config.Config) error {
	if err := cfg.Load(); err != nil {
		cfg.Logger.Error("Configuration: %v", err)
		return err
	}
	cfg.Logger.Info("Configuration loaded (app %q, env file %s)", cfg.Definition.AppName, cfg.Definition.EnvFile)

	client, err := newAPIClient(cfg)
	if err != nil {
		cfg.Logger.Error("Credentials: %v", err)
		return err
	}
	cfg.Logger.Info("API token found")

	failed := 0

	if err := client.ValidateToken(ctx); err != nil {
		cfg.Logger.Error("API: %v", err)
		failed++
	} else {
		cfg.Logger.Info("Token accepted by %s", cfg.Definition.APIURL)

		orgs, err := client.ListOrganizations(ctx)
		switch {
		case err != nil:
			cfg.Logger.Error("Organizations: %v", err)
			failed++
		case len(orgs) == 0:
			cfg.Logger.Error("Organizations: none accessible with this token")
			failed++
		default:
			cfg.Logger.Info("Organization access: %s", orgs[0].Slug)
		}
	}

	if _, ok := envfile.Lookup(cfg.Definition.EnvFile, resolve.EnvDSN); ok {
		cfg.Logger.Info("%s present in %s", resolve.EnvDSN, cfg.Definition.EnvFile)
	} else {
		cfg.Logger.Warn("%s not set, run 'sentry-setup install'", resolve.EnvDSN)
	}

	if failed > 0 {
		return fmt.Errorf("%d check(s) failed", failed)
	}
	return nil
}
