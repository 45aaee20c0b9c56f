package database

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"groupgate/entity"
	"groupgate/internal/config"
)

func tempStore(t *testing.T) *FileStore {
	t.Helper()
	dir := t.TempDir()
	conf := &config.Config{}
	conf.Storage.UsersFile = filepath.Join(dir, "users.json")
	conf.Storage.CodesFile = filepath.Join(dir, "codes.json")
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewFileStore(conf, log)
}

func TestLoadUsersMissingFile(t *testing.T) {
	s := tempStore(t)

	users, err := s.LoadUsers()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(users) != 0 {
		t.Fatalf("expected empty set, got %v", users)
	}
}

func TestLoadUsersMalformedFile(t *testing.T) {
	s := tempStore(t)
	if err := os.WriteFile(s.usersPath, []byte("{not json"), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	users, err := s.LoadUsers()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(users) != 0 {
		t.Fatalf("expected empty set for malformed file, got %v", users)
	}
}

func TestUsersRoundTrip(t *testing.T) {
	s := tempStore(t)
	want := []int64{7, 42, 1001}

	if err := s.SaveUsers(want); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := s.LoadUsers()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestSaveUsersOverwrites(t *testing.T) {
	s := tempStore(t)
	if err := s.SaveUsers([]int64{1, 2, 3}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.SaveUsers([]int64{9}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, _ := s.LoadUsers()
	if len(got) != 1 || got[0] != 9 {
		t.Fatalf("expected [9], got %v", got)
	}
}

// The persisted layout is a plain JSON array of integers.
func TestUsersFileLayout(t *testing.T) {
	s := tempStore(t)
	if err := s.SaveUsers([]int64{42}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(s.usersPath)
	if err != nil {
		t.Fatalf("reading store file: %v", err)
	}
	var raw []int64
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("expected a JSON array of integers, got %q: %v", data, err)
	}
	if len(raw) != 1 || raw[0] != 42 {
		t.Fatalf("expected [42], got %v", raw)
	}
}

func TestSaveNilUsersWritesEmptyArray(t *testing.T) {
	s := tempStore(t)
	if err := s.SaveUsers(nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(s.usersPath)
	if err != nil {
		t.Fatalf("reading store file: %v", err)
	}
	if string(data) != "[]" {
		t.Fatalf("expected empty array, got %q", data)
	}
}

func TestCodesRoundTrip(t *testing.T) {
	s := tempStore(t)
	created := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)
	want := []entity.ActivationCode{
		{Code: "482913", CreatedBy: 1, CreatedAt: created},
	}

	if err := s.SaveCodes(want); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := s.LoadCodes()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Code != "482913" || got[0].CreatedBy != 1 {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if !got[0].CreatedAt.Equal(created) {
		t.Fatalf("expected created_at %v, got %v", created, got[0].CreatedAt)
	}
}

func TestLoadCodesMissingFile(t *testing.T) {
	s := tempStore(t)

	codes, err := s.LoadCodes()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(codes) != 0 {
		t.Fatalf("expected empty registry, got %v", codes)
	}
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	s := tempStore(t)
	if err := s.SaveUsers([]int64{1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries, err := os.ReadDir(filepath.Dir(s.usersPath))
	if err != nil {
		t.Fatalf("reading dir: %v", err)
	}
	for _, e := range entries {
		if e.Name() != filepath.Base(s.usersPath) {
			t.Fatalf("unexpected leftover file %q", e.Name())
		}
	}
}
