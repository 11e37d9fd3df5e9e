package sentry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the API root of the hosted Sentry service
const DefaultBaseURL = "https://sentry.io/api/0/"

const defaultTimeout = 30 * time.Second

// ClientConfig configures a Sentry API client
type ClientConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// Client is a minimal Sentry REST API client. Every request attaches the
// API token as a bearer credential. Requests are synchronous and are not
// retried on transport failure; a failed request fails the invocation.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// NewClient creates a Sentry API client for the given configuration
func NewClient(cfg ClientConfig) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimSuffix(base, "/") + "/",
		token:      cfg.Token,
	}
}

// ValidateToken issues a cheap probe request to confirm the token works
// before it is accepted and stored.
func (c *Client) ValidateToken(ctx context.Context) error {
	var probe []Project
	query := url.Values{"per_page": {"1"}}
	return c.get(ctx, "validate token", "projects/", query, &probe)
}

// ListOrganizations lists the organizations the token has access to
func (c *Client) ListOrganizations(ctx context.Context) ([]Organization, error) {
	var orgs []Organization
	if err := c.get(ctx, "list organizations", "organizations/", nil, &orgs); err != nil {
		return nil, err
	}
	return orgs, nil
}

// ListTeams lists the teams of an organization
func (c *Client) ListTeams(ctx context.Context, orgSlug string) ([]Team, error) {
	var teams []Team
	path := fmt.Sprintf("organizations/%s/teams/", orgSlug)
	if err := c.get(ctx, "list teams", path, nil, &teams); err != nil {
		return nil, err
	}
	return teams, nil
}

// ListProjects lists the projects visible to the token.
// Only the first page of 100 is fetched; organizations with more
// projects lose the remainder.
func (c *Client) ListProjects(ctx context.Context) ([]Project, error) {
	var projects []Project
	query := url.Values{"per_page": {"100"}}
	if err := c.get(ctx, "list projects", "projects/", query, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// CreateProject creates a project under the given organization and team
func (c *Client) CreateProject(ctx context.Context, orgSlug, teamSlug, name, platform string) (Project, error) {
	body := map[string]string{
		"name":     name,
		"platform": platform,
	}

	var created Project
	path := fmt.Sprintf("teams/%s/%s/projects/", orgSlug, teamSlug)
	if err := c.post(ctx, "create project", path, body, &created); err != nil {
		return Project{}, err
	}
	return created, nil
}

// ListKeys lists the client keys of a project
func (c *Client) ListKeys(ctx context.Context, orgSlug, projectSlug string) ([]ClientKey, error) {
	var keys []ClientKey
	path := fmt.Sprintf("projects/%s/%s/keys/", orgSlug, projectSlug)
	if err := c.get(ctx, "list keys", path, nil, &keys); err != nil {
		return nil, err
	}
	return keys, nil
}

func (c *Client) get(ctx context.Context, op, path string, query url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if query != nil {
		req.URL.RawQuery = query.Encode()
	}

	return c.do(req, op, out)
}

func (c *Client) post(ctx context.Context, op, path string, body interface{}, out interface{}) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewBuffer(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, op, out)
}

func (c *Client) do(req *http.Request, op string, out interface{}) error {
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return &APIError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(bodyBytes)),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
