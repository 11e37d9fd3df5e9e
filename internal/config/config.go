package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	sserrors "github.com/systmms/sentry-setup/internal/errors"
	"github.com/systmms/sentry-setup/internal/logging"
	"github.com/systmms/sentry-setup/internal/sentry"
	"gopkg.in/yaml.v3"
)

// Config holds the runtime configuration
type Config struct {
	Path           string
	Logger         *logging.Logger
	NonInteractive bool
	Definition     *Definition
}

// Definition represents the sentry-setup.yaml structure
type Definition struct {
	// AppName is the application display name used as the default
	// project name. Defaults to the working directory name.
	AppName string `yaml:"app_name"`

	// EnvFile is the Laravel .env file the resolved variables are
	// written into.
	EnvFile string `yaml:"env_file"`

	// APIURL is the Sentry API root. Defaults to the hosted service.
	APIURL string `yaml:"api_url"`

	// TimeoutMs bounds each API request in milliseconds.
	TimeoutMs int `yaml:"timeout_ms,omitempty"`
}

// Load reads and parses the sentry-setup.yaml file. A missing file is
// not an error: every field has a usable default.
func (c *Config) Load() error {
	def := Definition{}

	data, err := os.ReadFile(c.Path)
	switch {
	case os.IsNotExist(err):
		// Defaults only
	case err != nil:
		return sserrors.UserError{
			Message:    "Failed to read configuration file",
			Details:    err.Error(),
			Suggestion: "Check file permissions and path",
			Err:        err,
		}
	default:
		if err := yaml.Unmarshal(data, &def); err != nil {
			return sserrors.ConfigError{
				Message:    "invalid YAML syntax in configuration file",
				Suggestion: "Check for indentation errors, missing quotes, or invalid characters. Use a YAML validator",
			}
		}
	}

	c.applyDefaults(&def)

	if !strings.HasPrefix(def.APIURL, "http://") && !strings.HasPrefix(def.APIURL, "https://") {
		return sserrors.ConfigError{
			Field:      "api_url",
			Value:      def.APIURL,
			Message:    "invalid base URL",
			Suggestion: "Use the full API root, e.g. https://sentry.io/api/0/",
		}
	}

	c.Definition = &def
	return nil
}

func (c *Config) applyDefaults(def *Definition) {
	if def.AppName == "" {
		if wd, err := os.Getwd(); err == nil {
			def.AppName = filepath.Base(wd)
		}
	}
	if def.EnvFile == "" {
		def.EnvFile = ".env"
	}
	if def.APIURL == "" {
		def.APIURL = sentry.DefaultBaseURL
	}
}

// Timeout returns the per-request API timeout
func (d *Definition) Timeout() time.Duration {
	if d.TimeoutMs <= 0 {
		return 30 * time.Second
	}
	return time.Duration(d.TimeoutMs) * time.Millisecond
}
