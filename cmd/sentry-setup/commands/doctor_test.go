package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/systmms/sentry-setup/internal/config"
	"github.com/systmms/sentry-setup/internal/credentials"
	"github.com/systmms/sentry-setup/internal/logging"
	"github.com/systmms/sentry-setup/internal/sentry"
	"github.com/systmms/sentry-setup/tests/fakes"
)

func doctorFixture(t *testing.T, server *fakes.SentryServer, envContent string) *config.Config {
	t.Helper()

	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte(envContent), 0600))

	cfgPath := filepath.Join(dir, "sentry-setup.yaml")
	yaml := fmt.Sprintf("app_name: My Shop\nenv_file: %s\napi_url: %s\n", envPath, server.BaseURL())
	require.NoError(t, os.WriteFile(cfgPath, []byte(yaml), 0644))

	return &config.Config{Path: cfgPath, Logger: logging.New(false, true)}
}

func TestRunDoctor_Healthy(t *testing.T) {
	t.Setenv(credentials.EnvToken, "tok")

	server := fakes.NewSentryServer(t)
	server.Orgs = []sentry.Organization{{Slug: "acme", Name: "Acme Inc"}}

	cfg := doctorFixture(t, server, "SENTRY_LARAVEL_DSN=https://abc@sentry.io/1\n")
	assert.NoError(t, runDoctor(context.Background(), cfg))
}

func TestRunDoctor_RejectedToken(t *testing.T) {
	t.Setenv(credentials.EnvToken, "tok")

	server := fakes.NewSentryServer(t)
	server.RejectToken = true

	cfg := doctorFixture(t, server, "")
	err := runDoctor(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "check(s) failed")
}
