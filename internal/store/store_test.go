package store

import (
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestGetSet(t *testing.T) {
	s := openTestStore(t)

	got, err := s.Get(KeyBearerToken)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "" {
		t.Errorf("Get() on empty store = %q, want empty", got)
	}

	if err := s.Set(KeyBearerToken, "  tok-1  "); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err = s.Get(KeyBearerToken)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "tok-1" {
		t.Errorf("Get() = %q, want trimmed %q", got, "tok-1")
	}
}

func TestCredentialsAndIsConfigured(t *testing.T) {
	s := openTestStore(t)

	ok, err := s.IsConfigured()
	if err != nil {
		t.Fatalf("IsConfigured() error = %v", err)
	}
	if ok {
		t.Error("IsConfigured() on empty store = true, want false")
	}

	if err := s.Set(KeyBearerToken, "tok"); err != nil {
		t.Fatal(err)
	}

	// Token alone is not enough.
	if ok, _ := s.IsConfigured(); ok {
		t.Error("IsConfigured() with token only = true, want false")
	}

	if err := s.Set(KeyOutboundID, "out-1"); err != nil {
		t.Fatal(err)
	}
	if err := s.Set(KeyCampaignID, "camp-1"); err != nil {
		t.Fatal(err)
	}

	creds, err := s.Credentials()
	if err != nil {
		t.Fatalf("Credentials() error = %v", err)
	}
	want := Credentials{BearerToken: "tok", OutboundID: "out-1", CampaignID: "camp-1"}
	if creds != want {
		t.Errorf("Credentials() = %+v, want %+v", creds, want)
	}
	if !creds.Configured() {
		t.Error("Configured() = false, want true")
	}

	if ok, _ := s.IsConfigured(); !ok {
		t.Error("IsConfigured() = false, want true")
	}
}

func TestSaveCredentials(t *testing.T) {
	s := openTestStore(t)

	if err := s.SaveCredentials(" tok ", " out-1 "); err != nil {
		t.Fatalf("SaveCredentials() error = %v", err)
	}

	creds, err := s.Credentials()
	if err != nil {
		t.Fatal(err)
	}
	if creds.BearerToken != "tok" || creds.OutboundID != "out-1" {
		t.Errorf("Credentials() = %+v, want trimmed tok/out-1", creds)
	}
}

func TestClear(t *testing.T) {
	s := openTestStore(t)

	if err := s.SaveCredentials("tok", "out-1"); err != nil {
		t.Fatal(err)
	}
	if err := s.Set(KeyCampaignID, "camp-1"); err != nil {
		t.Fatal(err)
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}

	creds, err := s.Credentials()
	if err != nil {
		t.Fatal(err)
	}
	if creds != (Credentials{}) {
		t.Errorf("Credentials() after Clear = %+v, want zero", creds)
	}
}

func TestPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SaveCredentials("tok", "out-1"); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s2, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()

	ok, err := s2.IsConfigured()
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("credentials did not survive reopen")
	}
}
