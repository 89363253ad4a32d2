package memory

import (
	"context"
	"testing"

	"TODO_WEB-APP/internal/store/storetest"
)

func TestStore(t *testing.T) {
	storetest.Run(t, New())
}

func TestFindTasksByOwnerEmptyIsNotNil(t *testing.T) {
	tasks, err := New().FindTasksByOwner(context.Background(), "nobody@x.io")
	if err != nil || tasks == nil {
		t.Fatalf("tasks = %#v, err = %v", tasks, err)
	}
}

func TestPingHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := New().Ping(ctx); err == nil {
		t.Fatal("Ping on cancelled context succeeded")
	}
}
