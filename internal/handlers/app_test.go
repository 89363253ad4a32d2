package handlers_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"TODO_WEB-APP/internal/config"
	"TODO_WEB-APP/internal/flash"
	"TODO_WEB-APP/internal/handlers"
	"TODO_WEB-APP/internal/render"
	"TODO_WEB-APP/internal/routes"
	"TODO_WEB-APP/internal/session"
	"TODO_WEB-APP/internal/store"
	"TODO_WEB-APP/internal/store/memory"
)

// testApp runs the full router over a memory store.
type testApp struct {
	server *httptest.Server
	store  *memory.Store
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	return newTestAppWithStore(t, memory.New(), nil)
}

// newTestAppWithStore serves the router over st. db, when non-nil,
// replaces st for user and task access so tests can inject failures.
func newTestAppWithStore(t *testing.T, st *memory.Store, db store.Store) *testApp {
	t.Helper()
	if db == nil {
		db = st
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	renderer, err := render.New()
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	sessions := session.NewManager(st, &config.SessionConfig{
		Secret:     "test-secret",
		TTL:        time.Hour,
		CookieName: "session",
	})
	view := handlers.NewView(renderer, flash.New("test-secret", false), logger, false)

	h := routes.Handlers{
		Auth:   handlers.NewAuthHandler(db, sessions, view, nil, logger),
		Tasks:  handlers.NewTasksHandler(db, view),
		Health: handlers.NewHealthHandler(db, logger),
	}
	server := httptest.NewServer(routes.NewRouter(h, sessions, logger))
	t.Cleanup(server.Close)

	return &testApp{server: server, store: st}
}

// browser returns a client with its own cookie jar that follows redirects.
func (a *testApp) browser(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	return &http.Client{Jar: jar}
}

// page is the final response after redirects.
type page struct {
	status int
	path   string
	body   string
}

func (a *testApp) get(t *testing.T, client *http.Client, path string) page {
	t.Helper()
	resp, err := client.Get(a.server.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	return readPage(t, resp)
}

func (a *testApp) post(t *testing.T, client *http.Client, path string, form url.Values) page {
	t.Helper()
	resp, err := client.PostForm(a.server.URL+path, form)
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	return readPage(t, resp)
}

func readPage(t *testing.T, resp *http.Response) page {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return page{status: resp.StatusCode, path: resp.Request.URL.Path, body: string(body)}
}

func (a *testApp) signup(t *testing.T, client *http.Client, name, email, password, confirm string) page {
	t.Helper()
	return a.post(t, client, "/signup", url.Values{
		"name":     {name},
		"email":    {email},
		"password": {password},
		"confirm":  {confirm},
	})
}

func (a *testApp) login(t *testing.T, client *http.Client, email, password string) page {
	t.Helper()
	return a.post(t, client, "/login", url.Values{"email": {email}, "password": {password}})
}

// loggedIn signs up and logs in a fresh browser.
func (a *testApp) loggedIn(t *testing.T, name, email string) *http.Client {
	t.Helper()
	client := a.browser(t)
	a.signup(t, client, name, email, "pw", "pw")
	if p := a.login(t, client, email, "pw"); p.path != "/dashboard" {
		t.Fatalf("login %s landed on %s", email, p.path)
	}
	return client
}

func (p page) expectPath(t *testing.T, want string) {
	t.Helper()
	if p.path != want {
		t.Fatalf("landed on %s, want %s", p.path, want)
	}
}

func (p page) expectNotice(t *testing.T, category flash.Category, message string) {
	t.Helper()
	if !strings.Contains(p.body, `alert-`+string(category)) || !strings.Contains(p.body, message) {
		t.Fatalf("page %s missing %s notice %q:\n%s", p.path, category, message, p.body)
	}
}
