package resolve

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	sserrors "github.com/systmms/sentry-setup/internal/errors"
	"github.com/systmms/sentry-setup/internal/logging"
	"github.com/systmms/sentry-setup/internal/prompt"
	"github.com/systmms/sentry-setup/internal/sentry"
)

// Empty-list conditions surface as explicit errors instead of index
// faults. None of them is recoverable inside one invocation.
var (
	ErrNoOrganizations = errors.New("no organizations found for this account")
	ErrNoTeams         = errors.New("no teams found in this organization")
	ErrNoKeys          = errors.New("no client keys found for this project")
)

// an empty option value marks the synthetic create-new entry; real
// projects always carry a slug
const createNewProject = ""

// Resolver owns all Sentry API interaction and all interactive decision
// points of one provisioning run.
type Resolver struct {
	api     *sentry.Client
	prompt  prompt.Prompter
	logger  *logging.Logger
	appName string
}

// New creates a resolver for the named application
func New(api *sentry.Client, prompter prompt.Prompter, logger *logging.Logger, appName string) *Resolver {
	return &Resolver{
		api:     api,
		prompt:  prompter,
		logger:  logger,
		appName: appName,
	}
}

// Run drives one resolution: organization, then project, then client
// key, then sample rate. A declined project resolution short-circuits
// into a successful session with Sentry disabled.
func (r *Resolver) Run(ctx context.Context) (Session, error) {
	org, err := r.resolveOrganization(ctx)
	if err != nil {
		return Session{}, err
	}
	sess := Session{Org: org}

	project, err := r.resolveProject(ctx, org)
	if err != nil {
		return Session{}, err
	}
	if project == nil {
		r.logger.Warn("Sentry left unconfigured for this run")
		return sess, nil
	}
	sess.Project = project

	dsn, err := r.resolveKey(ctx, org, *project)
	if err != nil {
		return Session{}, err
	}
	sess.DSN = dsn

	rate, err := r.resolveSampleRate()
	if err != nil {
		return Session{}, err
	}
	sess.SampleRate = rate

	return sess, nil
}

// resolveOrganization validates the token with a cheap probe, then takes
// the first organization of the account. Multi-organization accounts are
// not supported beyond that.
func (r *Resolver) resolveOrganization(ctx context.Context) (sentry.Organization, error) {
	if err := r.api.ValidateToken(ctx); err != nil {
		if sentry.IsAuthError(err) {
			return sentry.Organization{}, sserrors.UserError{
				Message:    "Sentry rejected the API token",
				Suggestion: "Run 'sentry-setup login' to store a fresh token",
				Err:        err,
			}
		}
		return sentry.Organization{}, err
	}

	orgs, err := r.api.ListOrganizations(ctx)
	if err != nil {
		return sentry.Organization{}, err
	}
	if len(orgs) == 0 {
		return sentry.Organization{}, sserrors.UserError{
			Message:    "No organizations found for this account",
			Suggestion: "Create an organization at sentry.io first",
			Err:        ErrNoOrganizations,
		}
	}

	org := orgs[0]
	r.logger.Debug("Using organization %s", org.Slug)
	return org, nil
}

// resolveProject applies the decision policy. A nil project with nil
// error means the operator declined; the caller disables Sentry.
func (r *Resolver) resolveProject(ctx context.Context, org sentry.Organization) (*sentry.Project, error) {
	candidates, err := r.listCandidates(ctx)
	if err != nil {
		return nil, err
	}

	// An existing project named after the application is an implicit
	// recommendation: skip the create question entirely.
	if hasProjectNamed(candidates, r.appName) {
		return r.selectProject(ctx, org, candidates)
	}

	create, err := r.prompt.Confirm(fmt.Sprintf("Create a new Sentry project for %s?", r.appName), true)
	if err != nil {
		return nil, err
	}
	if create {
		return r.createProject(ctx, org)
	}

	if len(candidates) > 0 {
		return r.selectProject(ctx, org, candidates)
	}

	r.logger.Warn("No existing %s projects found", sentry.PlatformLaravel)
	retry, err := r.prompt.Confirm("Create a new project instead?", true)
	if err != nil {
		return nil, err
	}
	if retry {
		return r.createProject(ctx, org)
	}

	// Declined twice: a legitimate outcome, not an error
	return nil, nil
}

// listCandidates fetches the first page of projects and keeps the
// Laravel ones in API order.
func (r *Resolver) listCandidates(ctx context.Context) ([]sentry.Project, error) {
	projects, err := r.api.ListProjects(ctx)
	if err != nil {
		return nil, err
	}

	var candidates []sentry.Project
	for _, p := range projects {
		if p.Platform == sentry.PlatformLaravel {
			candidates = append(candidates, p)
		}
	}
	r.logger.Debug("Found %d candidate projects", len(candidates))
	return candidates, nil
}

// selectProject offers the candidates sorted by name plus a trailing
// create-new entry. The application's project, when present, is the
// default.
func (r *Resolver) selectProject(ctx context.Context, org sentry.Organization, candidates []sentry.Project) (*sentry.Project, error) {
	sorted := make([]sentry.Project, len(candidates))
	copy(sorted, candidates)
	sort.Slice(sorted, func(i, j int) bool {
		return strings.ToLower(sorted[i].Name) < strings.ToLower(sorted[j].Name)
	})

	options := make([]prompt.Option, 0, len(sorted)+1)
	var def string
	for _, p := range sorted {
		options = append(options, prompt.Option{Label: p.Name, Value: p.Slug})
		if p.Name == r.appName {
			def = p.Slug
		}
	}
	options = append(options, prompt.Option{Label: "Create new project", Value: createNewProject})

	choice, err := r.prompt.Select("Select a Sentry project", options, def)
	if err != nil {
		return nil, err
	}
	if choice == createNewProject {
		return r.createProject(ctx, org)
	}

	for i := range sorted {
		if sorted[i].Slug == choice {
			return &sorted[i], nil
		}
	}
	return nil, fmt.Errorf("selected project %q not among candidates", choice)
}

// createProject asks for an owning team and a name, then creates the
// project under the fixed Laravel platform.
func (r *Resolver) createProject(ctx context.Context, org sentry.Organization) (*sentry.Project, error) {
	teams, err := r.api.ListTeams(ctx, org.Slug)
	if err != nil {
		return nil, err
	}
	if len(teams) == 0 {
		return nil, sserrors.UserError{
			Message:    "No teams found in organization " + org.Slug,
			Suggestion: "Create a team at sentry.io first",
			Err:        ErrNoTeams,
		}
	}

	sort.Slice(teams, func(i, j int) bool {
		return strings.ToLower(teams[i].Name) < strings.ToLower(teams[j].Name)
	})

	options := make([]prompt.Option, 0, len(teams))
	for _, team := range teams {
		options = append(options, prompt.Option{Label: team.Name, Value: team.Slug})
	}

	// A single team needs no decision, it is pre-selected
	var def string
	if len(teams) == 1 {
		def = teams[0].Slug
	}

	teamSlug, err := r.prompt.Select("Which team should own the project?", options, def)
	if err != nil {
		return nil, err
	}

	name, err := r.prompt.Input("Project name", "", r.appName)
	if err != nil {
		return nil, err
	}

	project, err := r.api.CreateProject(ctx, org.Slug, teamSlug, name, sentry.PlatformLaravel)
	if err != nil {
		return nil, err
	}

	r.logger.Info("Created project %s", project.Slug)
	return &project, nil
}

// resolveKey lists the project's client keys and asks the operator to
// pick one. There is no default; any key works.
func (r *Resolver) resolveKey(ctx context.Context, org sentry.Organization, project sentry.Project) (string, error) {
	keys, err := r.api.ListKeys(ctx, org.Slug, project.Slug)
	if err != nil {
		return "", err
	}
	if len(keys) == 0 {
		return "", sserrors.UserError{
			Message:    "No client keys found for project " + project.Slug,
			Suggestion: "Create a client key in the project's settings at sentry.io",
			Err:        ErrNoKeys,
		}
	}

	sort.Slice(keys, func(i, j int) bool {
		return strings.ToLower(keys[i].Name) < strings.ToLower(keys[j].Name)
	})

	options := make([]prompt.Option, 0, len(keys))
	for _, key := range keys {
		options = append(options, prompt.Option{Label: key.Name, Value: key.DSN.Public})
	}

	dsn, err := r.prompt.Select("Which client key should the application use?", options, "")
	if err != nil {
		return "", err
	}

	r.logger.Debug("Resolved DSN %s", logging.Secret(dsn))
	return dsn, nil
}

func hasProjectNamed(projects []sentry.Project, name string) bool {
	for _, p := range projects {
		if p.Name == name {
			return true
		}
	}
	return false
}
