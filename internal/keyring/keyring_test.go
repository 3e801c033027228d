package keyring

import (
	"errors"
	"testing"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/wellday/internal/constants"
)

func TestSetAndGetConnectionString(t *testing.T) {
	gokeyring.MockInit()

	testConnStr := "postgres://testuser@localhost:5432/wellday?sslmode=disable"
	if err := SetConnectionString(testConnStr); err != nil {
		t.Fatalf("SetConnectionString() failed: %v", err)
	}

	retrieved, err := GetConnectionString()
	if err != nil {
		t.Fatalf("GetConnectionString() failed: %v", err)
	}
	if retrieved != testConnStr {
		t.Errorf("GetConnectionString() = %q, want %q", retrieved, testConnStr)
	}
}

func TestSetConnectionStringEmpty(t *testing.T) {
	gokeyring.MockInit()

	if err := SetConnectionString("  "); err == nil {
		t.Error("SetConnectionString(blank) should return an error")
	}
}

func TestDeleteConnectionString(t *testing.T) {
	gokeyring.MockInit()

	if err := SetConnectionString("postgres://testuser@localhost/wellday"); err != nil {
		t.Fatalf("SetConnectionString() failed: %v", err)
	}
	if err := DeleteConnectionString(); err != nil {
		t.Fatalf("DeleteConnectionString() failed: %v", err)
	}
	if _, err := GetConnectionString(); !errors.Is(err, ErrNotFound) {
		t.Errorf("after delete, GetConnectionString() error = %v, want %v", err, ErrNotFound)
	}
	if err := DeleteConnectionString(); !errors.Is(err, ErrNotFound) {
		t.Errorf("second DeleteConnectionString() error = %v, want %v", err, ErrNotFound)
	}
}

func TestIsAvailable(t *testing.T) {
	gokeyring.MockInit()

	if !IsAvailable() {
		t.Error("IsAvailable() = false, want true in mock mode")
	}
}

func TestResolveConnectionString(t *testing.T) {
	gokeyring.MockInit()
	_ = DeleteConnectionString()
	t.Setenv(constants.EnvConnection, "")

	if _, err := ResolveConnectionString(""); !errors.Is(err, ErrNoConnection) {
		t.Errorf("ResolveConnectionString() with no sources error = %v, want %v", err, ErrNoConnection)
	}

	if err := SetConnectionString("postgres://from-keyring@localhost/wellday"); err != nil {
		t.Fatalf("SetConnectionString() failed: %v", err)
	}
	got, err := ResolveConnectionString("")
	if err != nil || got != "postgres://from-keyring@localhost/wellday" {
		t.Errorf("keyring fallback = %q, %v", got, err)
	}

	t.Setenv(constants.EnvConnection, "postgres://from-env@localhost/wellday")
	got, err = ResolveConnectionString("")
	if err != nil || got != "postgres://from-env@localhost/wellday" {
		t.Errorf("environment override = %q, %v", got, err)
	}

	got, err = ResolveConnectionString("postgres://configured@localhost/wellday")
	if err != nil || got != "postgres://configured@localhost/wellday" {
		t.Errorf("configured value = %q, %v", got, err)
	}
}
