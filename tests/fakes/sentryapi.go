package fakes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/systmms/sentry-setup/internal/sentry"
)

// SentryServer is a recording in-process stand-in for the Sentry REST
// API. Fixtures are plain fields; every handled request is logged as
// "METHOD path" so tests can assert which calls a flow made.
type SentryServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []string

	Orgs     []sentry.Organization
	Teams    map[string][]sentry.Team      // by organization slug
	Projects []sentry.Project
	Keys     map[string][]sentry.ClientKey // by "org/project"

	// RejectToken makes every request fail with 401
	RejectToken bool
}

// NewSentryServer starts the fake API. The server is shut down with the
// test.
func NewSentryServer(t *testing.T) *SentryServer {
	t.Helper()

	s := &SentryServer{
		Teams: map[string][]sentry.Team{},
		Keys:  map[string][]sentry.ClientKey{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/0/projects/{$}", s.handle(func(w http.ResponseWriter, r *http.Request) {
		s.writeJSON(w, s.Projects)
	}))
	mux.HandleFunc("GET /api/0/organizations/{$}", s.handle(func(w http.ResponseWriter, r *http.Request) {
		s.writeJSON(w, s.Orgs)
	}))
	mux.HandleFunc("GET /api/0/organizations/{org}/teams/{$}", s.handle(func(w http.ResponseWriter, r *http.Request) {
		s.writeJSON(w, s.Teams[r.PathValue("org")])
	}))
	mux.HandleFunc("POST /api/0/teams/{org}/{team}/projects/{$}", s.handle(s.createProject))
	mux.HandleFunc("GET /api/0/projects/{org}/{project}/keys/{$}", s.handle(func(w http.ResponseWriter, r *http.Request) {
		s.writeJSON(w, s.Keys[r.PathValue("org")+"/"+r.PathValue("project")])
	}))

	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

// Client returns an API client pointed at the fake server
func (s *SentryServer) Client(token string) *sentry.Client {
	return sentry.NewClient(sentry.ClientConfig{
		BaseURL: s.BaseURL(),
		Token:   token,
	})
}

// BaseURL returns the fake API root
func (s *SentryServer) BaseURL() string {
	return s.URL + "/api/0/"
}

// Requests returns a copy of the request log
func (s *SentryServer) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

// RequestCount counts logged requests whose "METHOD path" starts with
// the given prefix
func (s *SentryServer) RequestCount(prefix string) int {
	count := 0
	for _, req := range s.Requests() {
		if strings.HasPrefix(req, prefix) {
			count++
		}
	}
	return count
}

func (s *SentryServer) handle(fn http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, r.Method+" "+r.URL.Path)
		reject := s.RejectToken
		s.mu.Unlock()

		if reject {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail": "Invalid token"}`))
			return
		}
		fn(w, r)
	}
}

func (s *SentryServer) createProject(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name     string `json:"name"`
		Platform string `json:"platform"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	created := sentry.Project{
		Slug:     slugify(body.Name),
		Name:     body.Name,
		Platform: body.Platform,
	}

	s.mu.Lock()
	s.Projects = append(s.Projects, created)
	s.mu.Unlock()

	w.WriteHeader(http.StatusCreated)
	s.writeJSON(w, created)
}

func (s *SentryServer) writeJSON(w http.ResponseWriter, v interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v == nil {
		_, _ = w.Write([]byte("[]"))
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

func slugify(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}
