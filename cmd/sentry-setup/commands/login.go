package commands

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
	"github.com/systmms/sentry-setup/internal/config"
	"github.com/systmms/sentry-setup/internal/credentials"
	sserrors "github.com/systmms/sentry-setup/internal/errors"
	"github.com/systmms/sentry-setup/internal/prompt"
	"github.com/systmms/sentry-setup/internal/sentry"
)

// maxTokenAttempts bounds how often a rejected token is re-prompted
const maxTokenAttempts = 3

func NewLoginCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Validate and store a Sentry API token",
		Long: `Prompt for a Sentry API auth token, verify it against the API, and
store it in the OS keyring.

The token needs the project:read, project:write and org:read scopes.
Create one at https://sentry.io/settings/account/api/auth-tokens/.

On machines without a keyring (CI, containers), set ` + credentials.EnvToken + `
instead; it takes precedence over the keyring.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Load(); err != nil {
				return err
			}
			return runLogin(cmd.Context(), cfg, newPrompter(cfg))
		},
	}

	return cmd
}

func runLogin(ctx context.Context, cfg *config.Config, prompter prompt.Prompter) error {
	store := credentials.NewStore(cfg.Logger)

	for attempt := 1; attempt <= maxTokenAttempts; attempt++ {
		value, err := prompter.SecretInput("Sentry API token")
		if err != nil {
			return err
		}

		value = strings.TrimSpace(value)
		if value == "" {
			cfg.Logger.Error("Token must not be empty")
			continue
		}

		client := sentry.NewClient(sentry.ClientConfig{
			BaseURL: cfg.Definition.APIURL,
			Token:   value,
			Timeout: cfg.Definition.Timeout(),
		})

		if err := client.ValidateToken(ctx); err != nil {
			if sentry.IsAuthError(err) {
				cfg.Logger.Error("Sentry rejected this token")
				continue
			}
			return err
		}

		cfg.Logger.Info("Token accepted")
		return store.Save(value)
	}

	return sserrors.UserError{
		Message:    "No valid token provided",
		Suggestion: "Check the token's scopes (project:read, project:write, org:read) and try again",
	}
}

func NewLogoutCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored Sentry API token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := credentials.NewStore(cfg.Logger).Forget(); err != nil {
				return err
			}
			cfg.Logger.Info("API token removed from the OS keyring")
			return nil
		},
	}

	return cmd
}
