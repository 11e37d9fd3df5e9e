package resolve

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/systmms/sentry-setup/internal/logging"
	"github.com/systmms/sentry-setup/internal/sentry"
	"github.com/systmms/sentry-setup/tests/fakes"
)

const appName = "My Shop"

func newTestResolver(server *fakes.SentryServer, prompter *fakes.ScriptPrompter) *Resolver {
	return New(server.Client("test-token"), prompter, logging.New(false, true), appName)
}

func singleOrgServer(t *testing.T) *fakes.SentryServer {
	t.Helper()
	server := fakes.NewSentryServer(t)
	server.Orgs = []sentry.Organization{{Slug: "acme", Name: "Acme Inc"}}
	return server
}

func TestRun_ExistingProjectShortcut(t *testing.T) {
	t.Parallel()

	server := singleOrgServer(t)
	server.Projects = []sentry.Project{
		{Slug: "zeta", Name: "Zeta", Platform: sentry.PlatformLaravel},
		{Slug: "my-shop", Name: appName, Platform: sentry.PlatformLaravel},
		{Slug: "ios-app", Name: "iOS App", Platform: "apple-ios"},
	}
	server.Keys["acme/my-shop"] = []sentry.ClientKey{
		{Name: "Default", DSN: sentry.DSN{Public: "https://abc@sentry.io/1"}},
	}

	prompter := &fakes.ScriptPrompter{
		Selects: []string{fakes.UseDefault, "https://abc@sentry.io/1"},
		Inputs:  []string{""}, // blank sample rate, disabled
	}

	session, err := newTestResolver(server, prompter).Run(context.Background())
	require.NoError(t, err)

	// Name match skips the create question entirely
	assert.Zero(t, prompter.CallCount("confirm"))

	require.NotNil(t, session.Project)
	assert.Equal(t, "my-shop", session.Project.Slug)
	assert.Equal(t, "https://abc@sentry.io/1", session.DSN)
	assert.Nil(t, session.SampleRate)

	// The project list only ever offers Laravel candidates, sorted by
	// name, with the create-new entry trailing
	projectSelect := prompter.Calls[0]
	require.Equal(t, "select", projectSelect.Kind)
	require.Len(t, projectSelect.Options, 3)
	assert.Equal(t, appName, projectSelect.Options[0].Label)
	assert.Equal(t, "Zeta", projectSelect.Options[1].Label)
	assert.Equal(t, "Create new project", projectSelect.Options[2].Label)
	assert.Empty(t, projectSelect.Options[2].Value)
	assert.Equal(t, "my-shop", projectSelect.Default)
}

func TestRun_CreateProjectSingleTeamDefault(t *testing.T) {
	t.Parallel()

	server := singleOrgServer(t)
	server.Teams["acme"] = []sentry.Team{{Slug: "backend", Name: "Backend"}}
	server.Keys["acme/my-shop"] = []sentry.ClientKey{
		{Name: "Default", DSN: sentry.DSN{Public: "https://abc@sentry.io/1"}},
	}

	prompter := &fakes.ScriptPrompter{
		Confirms: []bool{true},                                    // create project
		Selects:  []string{fakes.UseDefault, "https://abc@sentry.io/1"}, // team, key
		Inputs:   []string{fakes.UseDefault, "0.5"},               // name, sample rate
	}

	session, err := newTestResolver(server, prompter).Run(context.Background())
	require.NoError(t, err)

	// The only team is pre-selected
	teamSelect := prompter.Calls[1]
	require.Equal(t, "select", teamSelect.Kind)
	assert.Equal(t, "backend", teamSelect.Default)

	// The project name defaults to the application name
	nameInput := prompter.Calls[2]
	require.Equal(t, "input", nameInput.Kind)
	assert.Equal(t, appName, nameInput.Default)

	require.NotNil(t, session.Project)
	assert.Equal(t, "my-shop", session.Project.Slug)
	assert.Equal(t, sentry.PlatformLaravel, session.Project.Platform)

	require.NotNil(t, session.SampleRate)
	assert.Equal(t, 0.5, *session.SampleRate)

	assert.Equal(t, 1, server.RequestCount("POST /api/0/teams/acme/backend/projects/"))
}

func TestRun_SelectExistingAfterDecliningCreate(t *testing.T) {
	t.Parallel()

	server := singleOrgServer(t)
	server.Projects = []sentry.Project{
		{Slug: "legacy-shop", Name: "Legacy Shop", Platform: sentry.PlatformLaravel},
	}
	server.Keys["acme/legacy-shop"] = []sentry.ClientKey{
		{Name: "Default", DSN: sentry.DSN{Public: "https://legacy@sentry.io/2"}},
	}

	prompter := &fakes.ScriptPrompter{
		Confirms: []bool{false}, // decline creating a new project
		Selects:  []string{"legacy-shop", "https://legacy@sentry.io/2"},
		Inputs:   []string{""},
	}

	session, err := newTestResolver(server, prompter).Run(context.Background())
	require.NoError(t, err)

	require.NotNil(t, session.Project)
	assert.Equal(t, "legacy-shop", session.Project.Slug)

	// No name match, so the create question came first
	assert.Equal(t, 1, prompter.CallCount("confirm"))
}

func TestRun_CreateNewFromSelectionList(t *testing.T) {
	t.Parallel()

	server := singleOrgServer(t)
	server.Projects = []sentry.Project{
		{Slug: "other", Name: "Other", Platform: sentry.PlatformLaravel},
	}
	server.Teams["acme"] = []sentry.Team{{Slug: "backend", Name: "Backend"}}
	server.Keys["acme/my-shop"] = []sentry.ClientKey{
		{Name: "Default", DSN: sentry.DSN{Public: "https://new@sentry.io/3"}},
	}

	prompter := &fakes.ScriptPrompter{
		Confirms: []bool{false},
		// Picking the trailing create-new entry recurses into creation
		Selects: []string{"", fakes.UseDefault, "https://new@sentry.io/3"},
		Inputs:  []string{fakes.UseDefault, ""},
	}

	session, err := newTestResolver(server, prompter).Run(context.Background())
	require.NoError(t, err)

	require.NotNil(t, session.Project)
	assert.Equal(t, "my-shop", session.Project.Slug)
}

func TestRun_NoProjectDeclinedTwice(t *testing.T) {
	t.Parallel()

	server := singleOrgServer(t)

	prompter := &fakes.ScriptPrompter{
		Confirms: []bool{false, false},
	}

	session, err := newTestResolver(server, prompter).Run(context.Background())
	require.NoError(t, err)

	assert.False(t, session.Enabled())
	assert.Nil(t, session.Project)
	assert.Nil(t, session.SampleRate)
	assert.Equal(t, map[string]string{EnvDSN: ""}, session.Environment())

	// Key listing and the sample-rate prompt are skipped entirely
	assert.Zero(t, server.RequestCount("GET /api/0/projects/acme/"))
	assert.Zero(t, prompter.CallCount("input"))
}

func TestResolveOrganization_RejectedToken(t *testing.T) {
	t.Parallel()

	server := fakes.NewSentryServer(t)
	server.RejectToken = true

	_, err := newTestResolver(server, &fakes.ScriptPrompter{}).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sentry-setup login")
}

func TestResolveOrganization_NoOrganizations(t *testing.T) {
	t.Parallel()

	server := fakes.NewSentryServer(t)

	_, err := newTestResolver(server, &fakes.ScriptPrompter{}).Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoOrganizations))
}

func TestCreateProject_NoTeams(t *testing.T) {
	t.Parallel()

	server := singleOrgServer(t)

	prompter := &fakes.ScriptPrompter{
		Confirms: []bool{true},
	}

	_, err := newTestResolver(server, prompter).Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoTeams))
}

func TestResolveKey_NoKeys(t *testing.T) {
	t.Parallel()

	server := singleOrgServer(t)
	server.Projects = []sentry.Project{
		{Slug: "my-shop", Name: appName, Platform: sentry.PlatformLaravel},
	}

	prompter := &fakes.ScriptPrompter{
		Selects: []string{fakes.UseDefault},
	}

	_, err := newTestResolver(server, prompter).Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoKeys))
}

func TestResolveSampleRate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		inputs      []string
		wantRate    *float64
		wantPrompts int
	}{
		{
			name:        "blank means disabled",
			inputs:      []string{""},
			wantRate:    nil,
			wantPrompts: 1,
		},
		{
			name:        "zero accepted",
			inputs:      []string{"0"},
			wantRate:    ptr(0.0),
			wantPrompts: 1,
		},
		{
			name:        "half accepted",
			inputs:      []string{"0.5"},
			wantRate:    ptr(0.5),
			wantPrompts: 1,
		},
		{
			name:        "one accepted",
			inputs:      []string{"1"},
			wantRate:    ptr(1.0),
			wantPrompts: 1,
		},
		{
			name:        "negative re-prompted",
			inputs:      []string{"-0.1", "0.5"},
			wantRate:    ptr(0.5),
			wantPrompts: 2,
		},
		{
			name:        "above one re-prompted",
			inputs:      []string{"1.1", "0.5"},
			wantRate:    ptr(0.5),
			wantPrompts: 2,
		},
		{
			name:        "not a number re-prompted",
			inputs:      []string{"abc", "0.5"},
			wantRate:    ptr(0.5),
			wantPrompts: 2,
		},
		{
			name:        "attempt budget exhausted leaves unset",
			inputs:      []string{"abc", "-1", "2"},
			wantRate:    nil,
			wantPrompts: 3,
		},
		{
			name:        "blank accepted mid-retry",
			inputs:      []string{"abc", ""},
			wantRate:    nil,
			wantPrompts: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			prompter := &fakes.ScriptPrompter{Inputs: tt.inputs}
			resolver := New(nil, prompter, logging.New(false, true), appName)

			rate, err := resolver.resolveSampleRate()
			require.NoError(t, err)

			if tt.wantRate == nil {
				assert.Nil(t, rate)
			} else {
				require.NotNil(t, rate)
				assert.Equal(t, *tt.wantRate, *rate)
			}
			assert.Equal(t, tt.wantPrompts, prompter.CallCount("input"))
		})
	}
}

func ptr(f float64) *float64 {
	return &f
}
