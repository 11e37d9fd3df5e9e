package envfile

import (
	"os"

	"github.com/joho/godotenv"

	sserrors "github.com/systmms/sentry-setup/internal/errors"
)

// Lookup returns the value of key in the env file at path. A missing
// file or key reports false.
func Lookup(path, key string) (string, bool) {
	vars, err := godotenv.Read(path)
	if err != nil {
		return "", false
	}
	value, ok := vars[key]
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

// Apply overlays vars onto the env file at path, preserving unrelated
// keys. The file is created when missing and always left with owner-only
// permissions, since the DSN embeds a credential.
func Apply(path string, vars map[string]string) error {
	existing, err := godotenv.Read(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return sserrors.UserError{
				Message:    "Failed to read env file " + path,
				Details:    err.Error(),
				Suggestion: "Check the env_file setting and file permissions",
				Err:        err,
			}
		}
		existing = map[string]string{}
	}

	for key, value := range vars {
		existing[key] = value
	}

	if err := godotenv.Write(existing, path); err != nil {
		return sserrors.UserError{
			Message:    "Failed to write env file " + path,
			Details:    err.Error(),
			Suggestion: "Check directory permissions for the env file",
			Err:        err,
		}
	}

	return os.Chmod(path, 0600)
}
