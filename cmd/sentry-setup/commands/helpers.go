package commands

import (
	"github.com/systmms/sentry-setup/internal/config"
	"github.com/systmms/sentry-setup/internal/credentials"
	"github.com/systmms/sentry-setup/internal/prompt"
	"github.com/systmms/sentry-setup/internal/sentry"
)

func newPrompter(cfg *config.Config) prompt.Prompter {
	if cfg.NonInteractive {
		return prompt.NonInteractive{}
	}
	return prompt.NewTerminal()
}

// newAPIClient resolves the stored API token and builds a client for the
// configured API root. Fails with a login suggestion when no token is
// stored anywhere.
func newAPIClient(cfg *config.Config) (*sentry.Client, error) {
	token, err := credentials.NewStore(cfg.Logger).Token()
	if err != nil {
		return nil, err
	}

	value, err := token.Reveal()
	if err != nil {
		return nil, err
	}

	return sentry.NewClient(sentry.ClientConfig{
		BaseURL: cfg.Definition.APIURL,
		Token:   value,
		Timeout: cfg.Definition.Timeout(),
	}), nil
}
