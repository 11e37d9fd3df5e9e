package credentials

import (
	"errors"
	"os"

	"github.com/zalando/go-keyring"

	sserrors "github.com/systmms/sentry-setup/internal/errors"
	"github.com/systmms/sentry-setup/internal/logging"
	"github.com/systmms/sentry-setup/internal/secure"
)

const (
	keyringService = "sentry-setup"
	keyringAccount = "api-token"
)

// EnvToken overrides the keyring when set, for CI and headless servers
// without a Secret Service.
const EnvToken = "SENTRY_AUTH_TOKEN"

// ErrTokenNotFound is returned when no API token is stored anywhere
var ErrTokenNotFound = errors.New("no Sentry API token found")

// Store reads and writes the Sentry API token. Lookup order is the
// SENTRY_AUTH_TOKEN environment variable, then the OS keyring.
type Store struct {
	logger *logging.Logger
}

// NewStore creates a token store
func NewStore(logger *logging.Logger) *Store {
	return &Store{logger: logger}
}

// Token returns the stored API token in protected memory
func (s *Store) Token() (*secure.Token, error) {
	if value := os.Getenv(EnvToken); value != "" {
		s.logger.Debug("Using API token from %s", EnvToken)
		return secure.NewToken(value), nil
	}

	value, err := keyring.Get(keyringService, keyringAccount)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, sserrors.UserError{
				Message:    "No Sentry API token found",
				Suggestion: "Run 'sentry-setup login' or set " + EnvToken,
				Err:        ErrTokenNotFound,
			}
		}
		return nil, sserrors.UserError{
			Message:    "Failed to read API token from the OS keyring",
			Details:    err.Error(),
			Suggestion: "Set " + EnvToken + " if no keyring is available on this machine",
			Err:        err,
		}
	}

	s.logger.Debug("Using API token from the OS keyring")
	return secure.NewToken(value), nil
}

// Save stores the API token in the OS keyring
func (s *Store) Save(token string) error {
	if err := keyring.Set(keyringService, keyringAccount, token); err != nil {
		return sserrors.UserError{
			Message:    "Failed to store API token in the OS keyring",
			Details:    err.Error(),
			Suggestion: "Set " + EnvToken + " instead if no keyring is available",
			Err:        err,
		}
	}
	s.logger.Info("API token stored in the OS keyring")
	return nil
}

// Forget removes the stored API token. A missing entry is not an error.
func (s *Store) Forget() error {
	err := keyring.Delete(keyringService, keyringAccount)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return err
	}
	return nil
}
