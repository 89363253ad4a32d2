// Package storetest holds the behaviour every store.Store backend must
// share. Backend packages call Run from their own tests.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"TODO_WEB-APP/internal/models"
	"TODO_WEB-APP/internal/store"
)

// Run exercises st. Every case uses fresh emails and tokens, so st may be a
// shared database that already holds data.
func Run(t *testing.T, st store.Store) {
	t.Run("users", func(t *testing.T) { testUsers(t, st) })
	t.Run("tasks newest first", func(t *testing.T) { testTaskOrder(t, st) })
	t.Run("task mutations are owner scoped", func(t *testing.T) { testTaskOwnership(t, st) })
	t.Run("sessions", func(t *testing.T) { testSessions(t, st) })
	t.Run("ping", func(t *testing.T) {
		if err := st.Ping(context.Background()); err != nil {
			t.Fatalf("Ping: %v", err)
		}
	})
}

// Email returns an address no other test uses
func Email() string {
	return uuid.NewString() + "@storetest.io"
}

func testUsers(t *testing.T, st store.Store) {
	ctx := context.Background()
	email := Email()

	if err := st.InsertUser(ctx, &models.User{Name: "Ann", Email: email, PasswordHash: "h1"}); err != nil {
		t.Fatalf("InsertUser: %v", err)
	}
	err := st.InsertUser(ctx, &models.User{Name: "Other", Email: email, PasswordHash: "h2"})
	if !errors.Is(err, store.ErrDuplicateEmail) {
		t.Fatalf("second InsertUser err = %v, want ErrDuplicateEmail", err)
	}

	user, err := st.FindUserByEmail(ctx, email)
	if err != nil {
		t.Fatalf("FindUserByEmail: %v", err)
	}
	if user.Name != "Ann" || user.PasswordHash != "h1" || user.CreatedAt.IsZero() {
		t.Errorf("user = %+v", user)
	}

	if _, err := st.FindUserByEmail(ctx, Email()); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("unknown email err = %v, want ErrNotFound", err)
	}
}

func insertTask(t *testing.T, st store.Store, owner, text string) models.Task {
	t.Helper()
	task := models.Task{OwnerEmail: owner, Text: text}
	if err := st.InsertTask(context.Background(), &task); err != nil {
		t.Fatalf("InsertTask: %v", err)
	}
	if task.ID == "" || task.CreatedAt.IsZero() {
		t.Fatalf("InsertTask left id or created_at unset: %+v", task)
	}
	return task
}

func listTasks(t *testing.T, st store.Store, owner string) []models.Task {
	t.Helper()
	tasks, err := st.FindTasksByOwner(context.Background(), owner)
	if err != nil {
		t.Fatalf("FindTasksByOwner: %v", err)
	}
	return tasks
}

func testTaskOrder(t *testing.T, st store.Store) {
	ann, bob := Email(), Email()

	insertTask(t, st, ann, "one")
	insertTask(t, st, bob, "bob")
	insertTask(t, st, ann, "two")
	insertTask(t, st, ann, "three")

	tasks := listTasks(t, st, ann)
	if len(tasks) != 3 {
		t.Fatalf("got %d tasks, want 3: %+v", len(tasks), tasks)
	}
	for i, want := range []string{"three", "two", "one"} {
		if tasks[i].Text != want || tasks[i].OwnerEmail != ann || tasks[i].Done {
			t.Errorf("tasks[%d] = %+v, want pending %q", i, tasks[i], want)
		}
	}

	if none := listTasks(t, st, Email()); len(none) != 0 {
		t.Errorf("unknown owner has tasks: %+v", none)
	}
}

func testTaskOwnership(t *testing.T, st store.Store) {
	ctx := context.Background()
	ann, bob := Email(), Email()
	task := insertTask(t, st, ann, "milk")

	// another owner's id and ids that cannot exist are silent no-ops
	for _, id := range []string{task.ID, "not-an-id", ""} {
		if err := st.UpdateTaskDone(ctx, bob, id, true); err != nil {
			t.Fatalf("UpdateTaskDone(%q) by other owner: %v", id, err)
		}
		if err := st.DeleteTask(ctx, bob, id); err != nil {
			t.Fatalf("DeleteTask(%q) by other owner: %v", id, err)
		}
	}
	if err := st.UpdateTaskDone(ctx, ann, "not-an-id", true); err != nil {
		t.Fatalf("UpdateTaskDone malformed id: %v", err)
	}
	if err := st.DeleteTask(ctx, ann, "not-an-id"); err != nil {
		t.Fatalf("DeleteTask malformed id: %v", err)
	}
	if tasks := listTasks(t, st, ann); len(tasks) != 1 || tasks[0].Done {
		t.Fatalf("tasks changed by no-op mutations: %+v", tasks)
	}

	if err := st.UpdateTaskDone(ctx, ann, task.ID, true); err != nil {
		t.Fatal(err)
	}
	if tasks := listTasks(t, st, ann); !tasks[0].Done {
		t.Fatal("task not marked done")
	}
	if err := st.UpdateTaskDone(ctx, ann, task.ID, false); err != nil {
		t.Fatal(err)
	}
	if tasks := listTasks(t, st, ann); tasks[0].Done {
		t.Fatal("task not marked pending")
	}

	if err := st.DeleteTask(ctx, ann, task.ID); err != nil {
		t.Fatal(err)
	}
	if tasks := listTasks(t, st, ann); len(tasks) != 0 {
		t.Fatalf("tasks = %+v, want none", tasks)
	}
	// deleting again is harmless
	if err := st.DeleteTask(ctx, ann, task.ID); err != nil {
		t.Fatal(err)
	}
}

func testSessions(t *testing.T, st store.Store) {
	ctx := context.Background()
	token := uuid.NewString()
	email := Email()

	session := &models.Session{
		Token:     token,
		Email:     email,
		Name:      "Ann",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	if err := st.CreateSession(ctx, session); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	got, err := st.FindSession(ctx, token)
	if err != nil {
		t.Fatalf("FindSession: %v", err)
	}
	if got.Email != email || got.Name != "Ann" || got.CreatedAt.IsZero() {
		t.Errorf("session = %+v", got)
	}
	if got.Expired(time.Now()) {
		t.Error("fresh session reported expired")
	}

	if err := st.DeleteSession(ctx, token); err != nil {
		t.Fatal(err)
	}
	if _, err := st.FindSession(ctx, token); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("after delete err = %v, want ErrNotFound", err)
	}
	if err := st.DeleteSession(ctx, token); err != nil {
		t.Fatalf("second DeleteSession: %v", err)
	}
	if _, err := st.FindSession(ctx, uuid.NewString()); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("unknown token err = %v, want ErrNotFound", err)
	}
}
