// Package laravel holds the Laravel-specific side of the install flow:
// the config edits that route the application's log stack through the
// sentry channel, and publishing the sentry-laravel vendor config.
package laravel

import (
	"context"
	"os"
	"os/exec"

	sserrors "github.com/systmms/sentry-setup/internal/errors"
	"github.com/systmms/sentry-setup/internal/logging"
)

// ConfigEdit is one key/value edit applied to the application's .env
type ConfigEdit struct {
	Key   string
	Value string
}

// LoggingChannelEdits returns the edits enabling the sentry logging
// channel. Applied on install only; deploys never touch logging config.
func LoggingChannelEdits() []ConfigEdit {
	return []ConfigEdit{
		{Key: "LOG_CHANNEL", Value: "stack"},
		{Key: "LOG_STACK", Value: "single,sentry"},
	}
}

// EnvFromEdits converts edits to an env-file overlay map
func EnvFromEdits(edits []ConfigEdit) map[string]string {
	vars := make(map[string]string, len(edits))
	for _, edit := range edits {
		vars[edit.Key] = edit.Value
	}
	return vars
}

const publishProvider = `Sentry\Laravel\ServiceProvider`

// Publisher publishes the sentry-laravel vendor config file into the
// application via artisan
type Publisher struct {
	logger  *logging.Logger
	workDir string
}

// NewPublisher creates a publisher running inside workDir
func NewPublisher(logger *logging.Logger, workDir string) *Publisher {
	return &Publisher{logger: logger, workDir: workDir}
}

// Publish runs `php artisan vendor:publish` for the Sentry provider.
// A machine without php is a warning, not a failure; a failing artisan
// call is reported with the command context.
func (p *Publisher) Publish(ctx context.Context) error {
	phpPath, err := exec.LookPath("php")
	if err != nil {
		p.logger.Warn("php not found in PATH, skipping vendor config publish")
		p.logger.Warn("Run manually: php artisan vendor:publish --provider=\"%s\"", publishProvider)
		return nil
	}

	cmd := exec.CommandContext(ctx, phpPath, "artisan", "vendor:publish", "--provider="+publishProvider)
	cmd.Dir = p.workDir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	p.logger.Debug("Publishing Sentry vendor config in %s", p.workDir)

	if err := cmd.Run(); err != nil {
		exitCode := 0
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		}
		return sserrors.CommandError{
			Command:    "php artisan vendor:publish",
			ExitCode:   exitCode,
			Message:    err.Error(),
			Suggestion: "Run it manually inside the application directory",
		}
	}

	p.logger.Info("Sentry vendor config published")
	return nil
}
