package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStoreDefaults(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	got := store.Get()
	if got != DefaultSettings() {
		t.Errorf("settings = %+v, want defaults", got)
	}
}

func TestStoreUpdatePersists(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	want := Settings{
		Server:            "scanhost:6566",
		ClientName:        "workstation",
		DefaultDevice:     "net:snapscan",
		ConnectTimeoutSec: 30,
	}
	if err := store.Update(want); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	// A fresh store over the same directory sees the saved settings.
	reloaded, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	if got := reloaded.Get(); got != want {
		t.Errorf("reloaded settings = %+v, want %+v", got, want)
	}
}

func TestStoreInvalidFileFallsBack(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "settings.json"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	if got := store.Get(); got != DefaultSettings() {
		t.Errorf("settings = %+v, want defaults", got)
	}
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	want := Settings{Server: "localhost", ClientName: "test", ConnectTimeoutSec: 1}
	if err := store.Update(want); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if got := store.Get(); got != want {
		t.Errorf("settings = %+v, want %+v", got, want)
	}
}
