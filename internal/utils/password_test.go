package utils

import (
	"strings"
	"testing"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("pw1")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "pw1" {
		t.Fatal("hash must not equal the password")
	}
	if !CheckPassword(hash, "pw1") {
		t.Error("CheckPassword rejected the right password")
	}
	if CheckPassword(hash, "pw2") {
		t.Error("CheckPassword accepted a wrong password")
	}
}

func TestLongPasswords(t *testing.T) {
	long := strings.Repeat("a", 80)

	hash, err := HashPassword(long)
	if err != nil {
		t.Fatalf("HashPassword(80 bytes): %v", err)
	}
	if !CheckPassword(hash, long) {
		t.Error("CheckPassword rejected the long password")
	}
	// bytes past 72 still count
	if CheckPassword(hash, strings.Repeat("a", 79)+"b") {
		t.Error("CheckPassword ignored the tail of a long password")
	}
}

func TestCheckPasswordEmptyHash(t *testing.T) {
	calls := 0
	original := compare
	t.Cleanup(func() { compare = original })
	compare = func(hash, password []byte) error {
		calls++
		return nil
	}

	if CheckPassword("", "") {
		t.Error("empty hash must never match")
	}
	if calls != 1 {
		t.Errorf("comparisons = %d, want 1", calls)
	}
}
