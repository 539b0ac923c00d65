package storage

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestMemory_Get_MissingKey_ReturnsErrNotFound(t *testing.T) {
	m := NewMemory()

	_, err := m.Get("attendance")

	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemory_Set_ThenGet_ReturnsValue(t *testing.T) {
	m := NewMemory()

	if err := m.Set("attendance", "{}"); err != nil {
		t.Fatalf("unexpected error on set: %v", err)
	}
	got, err := m.Get("attendance")
	if err != nil {
		t.Fatalf("unexpected error on get: %v", err)
	}
	if got != "{}" {
		t.Errorf("expected {}, got %q", got)
	}
}

func TestSQLite_Set_OverwritesExistingKey(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "application.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	if _, err := s.Get("attendance"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on empty table, got %v", err)
	}
	if err := s.Set("attendance", "first"); err != nil {
		t.Fatalf("first set: %v", err)
	}
	if err := s.Set("attendance", "second"); err != nil {
		t.Fatalf("second set: %v", err)
	}

	got, err := s.Get("attendance")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "second" {
		t.Errorf("expected second, got %q", got)
	}
}
