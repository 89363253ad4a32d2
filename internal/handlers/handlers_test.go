package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"TODO_WEB-APP/internal/flash"
	"TODO_WEB-APP/internal/models"
	"TODO_WEB-APP/internal/store/memory"
)

func ownerTasks(t *testing.T, st *memory.Store, email string) []models.Task {
	t.Helper()
	tasks, err := st.FindTasksByOwner(context.Background(), email)
	if err != nil {
		t.Fatal(err)
	}
	return tasks
}

func TestTaskLifecycle(t *testing.T) {
	app := newTestApp(t)
	client := app.browser(t)

	p := app.signup(t, client, "Ann", "a@x.io", "pw", "pw")
	p.expectPath(t, "/")
	p.expectNotice(t, flash.Success, "Signup successful! Please login.")

	p = app.login(t, client, "a@x.io", "pw")
	p.expectPath(t, "/dashboard")
	p.expectNotice(t, flash.Success, "Welcome Ann!")
	if !strings.Contains(p.body, "Hello, Ann") || !strings.Contains(p.body, `id="no-tasks"`) {
		t.Fatalf("expected empty dashboard:\n%s", p.body)
	}

	p = app.post(t, client, "/add", url.Values{"task": {"milk"}})
	p.expectPath(t, "/dashboard")
	p.expectNotice(t, flash.Success, "Task added successfully!")

	tasks := ownerTasks(t, app.store, "a@x.io")
	if len(tasks) != 1 || tasks[0].Text != "milk" || tasks[0].Done {
		t.Fatalf("tasks = %+v, want one pending milk", tasks)
	}
	id := tasks[0].ID
	if !strings.Contains(p.body, `action="/done/`+id+`"`) {
		t.Fatalf("dashboard missing done control for %s:\n%s", id, p.body)
	}

	p = app.post(t, client, "/done/"+id, nil)
	p.expectNotice(t, flash.Success, "Task marked as done!")
	if tasks := ownerTasks(t, app.store, "a@x.io"); !tasks[0].Done {
		t.Fatal("task not marked done")
	}
	if !strings.Contains(p.body, `action="/pending/`+id+`"`) {
		t.Fatalf("done task should offer pending control:\n%s", p.body)
	}

	p = app.post(t, client, "/pending/"+id, nil)
	p.expectNotice(t, flash.Info, "Task marked as pending!")
	if tasks := ownerTasks(t, app.store, "a@x.io"); tasks[0].Done {
		t.Fatal("task not marked pending")
	}

	p = app.post(t, client, "/delete/"+id, nil)
	p.expectPath(t, "/dashboard")
	p.expectNotice(t, flash.Danger, "Task deleted successfully!")
	if !strings.Contains(p.body, `id="no-tasks"`) {
		t.Fatalf("expected empty dashboard after delete:\n%s", p.body)
	}
	if tasks := ownerTasks(t, app.store, "a@x.io"); len(tasks) != 0 {
		t.Fatalf("tasks = %+v, want none", tasks)
	}
}

func TestSignupValidation(t *testing.T) {
	tests := []struct {
		name     string
		form     [4]string
		category flash.Category
		message  string
	}{
		{"missing name", [4]string{"", "a@x.io", "pw", "pw"}, flash.Warning, "All fields are required!"},
		{"blank confirm", [4]string{"Ann", "a@x.io", "pw", "   "}, flash.Warning, "All fields are required!"},
		{"mismatch", [4]string{"Ann", "a@x.io", "pw", "px"}, flash.Danger, "Passwords do not match!"},
		// empty fields are reported before a mismatch
		{"empty and mismatch", [4]string{"Ann", "", "pw", "px"}, flash.Warning, "All fields are required!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t)
			p := app.signup(t, app.browser(t), tt.form[0], tt.form[1], tt.form[2], tt.form[3])
			p.expectPath(t, "/signup")
			p.expectNotice(t, tt.category, tt.message)
			if n := app.store.CountUsers(); n != 0 {
				t.Fatalf("users = %d, want 0", n)
			}
		})
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	app := newTestApp(t)
	client := app.browser(t)

	app.signup(t, client, "Ann", "a@x.io", "pw", "pw")
	p := app.signup(t, client, "Other", "a@x.io", "other", "other")
	p.expectPath(t, "/signup")
	p.expectNotice(t, flash.Danger, "Email already exists!")

	if n := app.store.CountUsers(); n != 1 {
		t.Fatalf("users = %d, want 1", n)
	}
	// the first registration is untouched
	p = app.login(t, client, "a@x.io", "pw")
	p.expectNotice(t, flash.Success, "Welcome Ann!")
}

func TestSignupLongPassword(t *testing.T) {
	app := newTestApp(t)
	client := app.browser(t)
	long := strings.Repeat("a", 80)

	p := app.signup(t, client, "Ann", "a@x.io", long, long)
	if p.status != http.StatusOK {
		t.Fatalf("status = %d, want 200", p.status)
	}
	p.expectPath(t, "/")
	p.expectNotice(t, flash.Success, "Signup successful! Please login.")
	if n := app.store.CountUsers(); n != 1 {
		t.Fatalf("users = %d, want 1", n)
	}

	app.login(t, client, "a@x.io", long).expectPath(t, "/dashboard")
}

func TestLoginFailures(t *testing.T) {
	app := newTestApp(t)
	app.signup(t, app.browser(t), "Ann", "a@x.io", "pw", "pw")

	tests := []struct {
		name     string
		email    string
		password string
		category flash.Category
		message  string
	}{
		{"wrong password", "a@x.io", "nope", flash.Danger, "Invalid email or password"},
		{"unknown email", "b@x.io", "pw", flash.Danger, "Invalid email or password"},
		{"missing password", "a@x.io", "", flash.Warning, "Email and password required!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := app.browser(t)
			p := app.login(t, client, tt.email, tt.password)
			p.expectPath(t, "/")
			p.expectNotice(t, tt.category, tt.message)

			// no session was established
			app.get(t, client, "/dashboard").expectPath(t, "/")
		})
	}
}

func TestTasksAreOwnerScoped(t *testing.T) {
	app := newTestApp(t)
	ann := app.loggedIn(t, "Ann", "a@x.io")
	bob := app.loggedIn(t, "Bob", "b@x.io")

	app.post(t, ann, "/add", url.Values{"task": {"ann's secret"}})
	id := ownerTasks(t, app.store, "a@x.io")[0].ID

	p := app.get(t, bob, "/dashboard")
	if strings.Contains(p.body, id) || strings.Contains(p.body, "secret") {
		t.Fatalf("bob sees ann's task:\n%s", p.body)
	}

	app.post(t, bob, "/done/"+id, nil).expectPath(t, "/dashboard")
	app.post(t, bob, "/delete/"+id, nil).expectPath(t, "/dashboard")

	tasks := ownerTasks(t, app.store, "a@x.io")
	if len(tasks) != 1 || tasks[0].Done {
		t.Fatalf("ann's tasks changed by bob: %+v", tasks)
	}
}

func TestUnknownTaskIDIsIgnored(t *testing.T) {
	app := newTestApp(t)
	client := app.loggedIn(t, "Ann", "a@x.io")
	app.post(t, client, "/add", url.Values{"task": {"milk"}})

	for _, path := range []string{"/done/nope", "/pending/nope", "/delete/nope"} {
		p := app.post(t, client, path, nil)
		if p.status != http.StatusOK {
			t.Fatalf("%s: status = %d", path, p.status)
		}
		p.expectPath(t, "/dashboard")
	}
	if tasks := ownerTasks(t, app.store, "a@x.io"); len(tasks) != 1 || tasks[0].Done {
		t.Fatalf("tasks = %+v", tasks)
	}
}

func TestDashboardNewestFirst(t *testing.T) {
	app := newTestApp(t)
	client := app.loggedIn(t, "Ann", "a@x.io")

	for _, text := range []string{"first", "second", "third"} {
		app.post(t, client, "/add", url.Values{"task": {text}})
	}

	body := app.get(t, client, "/dashboard").body
	third, second, first := strings.Index(body, "third"), strings.Index(body, "second"), strings.Index(body, "first")
	if third < 0 || !(third < second && second < first) {
		t.Fatalf("tasks not newest first:\n%s", body)
	}
}

func TestAddEmptyTask(t *testing.T) {
	app := newTestApp(t)
	client := app.loggedIn(t, "Ann", "a@x.io")

	p := app.post(t, client, "/add", url.Values{"task": {"   "}})
	p.expectPath(t, "/dashboard")
	p.expectNotice(t, flash.Warning, "Task cannot be empty!")
	if tasks := ownerTasks(t, app.store, "a@x.io"); len(tasks) != 0 {
		t.Fatalf("tasks = %+v, want none", tasks)
	}
}

func TestTaskTextIsEscaped(t *testing.T) {
	app := newTestApp(t)
	client := app.loggedIn(t, "Ann", "a@x.io")

	p := app.post(t, client, "/add", url.Values{"task": {"<script>alert(1)</script>"}})
	if strings.Contains(p.body, "<script>") {
		t.Fatalf("task text rendered unescaped:\n%s", p.body)
	}
}

func TestNoticeShownOnce(t *testing.T) {
	app := newTestApp(t)
	client := app.loggedIn(t, "Ann", "a@x.io")

	p := app.get(t, client, "/dashboard")
	if strings.Contains(p.body, "Welcome Ann!") {
		t.Fatalf("welcome notice shown twice:\n%s", p.body)
	}
}

func TestLogout(t *testing.T) {
	app := newTestApp(t)
	client := app.loggedIn(t, "Ann", "a@x.io")

	p := app.get(t, client, "/logout")
	p.expectPath(t, "/")
	p.expectNotice(t, flash.Info, "Logged out successfully!")

	app.get(t, client, "/dashboard").expectPath(t, "/")
	app.post(t, client, "/add", url.Values{"task": {"late"}}).expectPath(t, "/")
	if tasks := ownerTasks(t, app.store, "a@x.io"); len(tasks) != 0 {
		t.Fatalf("task added after logout: %+v", tasks)
	}

	// logging out again is harmless
	app.get(t, client, "/logout").expectNotice(t, flash.Info, "Logged out successfully!")
}

func TestIndexRedirectsLoggedInUser(t *testing.T) {
	app := newTestApp(t)
	client := app.loggedIn(t, "Ann", "a@x.io")

	app.get(t, client, "/").expectPath(t, "/dashboard")
	app.get(t, app.browser(t), "/").expectPath(t, "/")
}

func TestProtectedRoutesRedirectWithoutSession(t *testing.T) {
	app := newTestApp(t)
	client := &http.Client{
		CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
	}

	requests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/dashboard"},
		{http.MethodPost, "/add"},
		{http.MethodPost, "/done/x"},
		{http.MethodPost, "/pending/x"},
		{http.MethodPost, "/delete/x"},
	}

	for _, rq := range requests {
		req, err := http.NewRequest(rq.method, app.server.URL+rq.path, nil)
		if err != nil {
			t.Fatal(err)
		}
		resp, err := client.Do(req)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()

		if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/" {
			t.Errorf("%s %s: %d -> %q, want 303 -> /", rq.method, rq.path, resp.StatusCode, resp.Header.Get("Location"))
		}
	}
}

// failingTasks breaks task reads after login so store errors surface.
type failingTasks struct {
	*memory.Store
}

func (f failingTasks) FindTasksByOwner(context.Context, string) ([]models.Task, error) {
	return nil, errors.New("connection reset")
}

func TestStoreFailureIsServerError(t *testing.T) {
	st := memory.New()
	app := newTestAppWithStore(t, st, failingTasks{st})
	client := app.loginNoFollow(t)

	p := app.get(t, client, "/dashboard")
	if p.status != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", p.status)
	}
}

// loginNoFollow logs in without following the redirect to the dashboard,
// for apps whose dashboard cannot render.
func (a *testApp) loginNoFollow(t *testing.T) *http.Client {
	t.Helper()
	client := a.browser(t)
	client.CheckRedirect = func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }
	a.signup(t, client, "Ann", "a@x.io", "pw", "pw")
	p := a.login(t, client, "a@x.io", "pw")
	if p.status != http.StatusSeeOther {
		t.Fatalf("login status = %d", p.status)
	}
	client.CheckRedirect = nil
	return client
}
