package session

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/srprime/attendance/internal/model"
	"github.com/srprime/attendance/internal/storage"
	"github.com/srprime/attendance/internal/store"
)

var day = time.Date(2024, time.June, 1, 9, 30, 0, 0, time.Local)

func newSession(t *testing.T) (*Session, *store.Store) {
	t.Helper()
	st := store.New(storage.NewMemory(), "", slog.New(slog.NewTextHandler(io.Discard, nil)))
	return New(st, day), st
}

func TestSession_SetField_FromIdle_StartsRowSeededFromStore(t *testing.T) {
	s, st := newSession(t)
	st.Commit(model.Sixth, "2024-06-01", 15, 4)

	if err := s.SetField(model.Sixth, Present, "17"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rows, ok := s.State().(EditingRows)
	if !ok {
		t.Fatalf("expected EditingRows, got %T", s.State())
	}
	if rec := rows.Pending[model.Sixth]; len(rows.Pending) != 1 || rec.Present != 17 || rec.Absent != 4 {
		t.Errorf("unexpected pending rows: %+v", rows.Pending)
	}
}

func TestSession_SetField_NonNumeric_CoercesToZero(t *testing.T) {
	s, _ := newSession(t)

	_ = s.SetField(model.Seventh, Absent, "abc")

	if rec, _ := s.Pending(model.Seventh); rec.Absent != 0 {
		t.Errorf("expected 0, got %d", rec.Absent)
	}
}

func TestSession_SetField_OverflowingNumber_ClampsToStrength(t *testing.T) {
	s, st := newSession(t)

	_ = s.SetField(model.Sixth, Present, "99999999999999999999")
	_ = s.SetField(model.Sixth, Absent, "-99999999999999999999")
	_ = s.CommitRow(model.Sixth)

	rec, _ := st.Record(model.Sixth, "2024-06-01")
	if rec.Present != 19 || rec.Absent != 0 {
		t.Errorf("expected 19/0, got %+v", rec)
	}
}

func TestSession_CommitRow_EndsOnlyThatRow(t *testing.T) {
	s, st := newSession(t)
	_ = s.SetField(model.Sixth, Present, "3")
	_ = s.SetField(model.Ninth, Present, "5")

	if err := s.CommitRow(model.Sixth); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rec, ok := st.Record(model.Sixth, "2024-06-01"); !ok || rec.Present != 3 {
		t.Errorf("sixth grade not committed: %+v", rec)
	}
	if _, ok := st.Record(model.Ninth, "2024-06-01"); ok {
		t.Error("ninth grade must stay uncommitted")
	}
	if rec, ok := s.Pending(model.Ninth); !ok || rec.Present != 5 {
		t.Errorf("ninth grade should still be pending, got %+v (pending=%v)", rec, ok)
	}
	if _, ok := s.Pending(model.Sixth); ok {
		t.Error("sixth grade should no longer be pending")
	}

	_ = s.CommitRow(model.Ninth)
	if _, idle := s.State().(Idle); !idle {
		t.Errorf("expected Idle once every row is committed, got %T", s.State())
	}
}

func TestSession_CommitRow_ClampsAndWritesThrough(t *testing.T) {
	s, st := newSession(t)
	_ = s.SetField(model.Sixth, Present, "40")
	_ = s.SetField(model.Sixth, Absent, "-2")

	if err := s.CommitRow(model.Sixth); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rec, ok := st.Record(model.Sixth, "2024-06-01")
	if !ok || rec.Present != 19 || rec.Absent != 0 {
		t.Errorf("expected clamped 19/0, got %+v", rec)
	}
	if _, idle := s.State().(Idle); !idle {
		t.Errorf("expected Idle after commit, got %T", s.State())
	}
}

func TestSession_CommitRow_AllowsSumAboveStrength(t *testing.T) {
	s, st := newSession(t)
	_ = s.SetField(model.Tenth, Present, "18")
	_ = s.SetField(model.Tenth, Absent, "18")

	_ = s.CommitRow(model.Tenth)

	if rec, _ := st.Record(model.Tenth, "2024-06-01"); rec.Total() != 36 {
		t.Errorf("expected independent clamping to keep 18+18, got %+v", rec)
	}
}

func TestSession_CommitRow_WhenIdle_ReturnsErrNotEditing(t *testing.T) {
	s, _ := newSession(t)

	if err := s.CommitRow(model.Sixth); !errors.Is(err, ErrNotEditing) {
		t.Errorf("expected ErrNotEditing, got %v", err)
	}
}

func TestSession_SaveAll_RecommitsUntouchedGrades(t *testing.T) {
	s, st := newSession(t)
	st.Commit(model.Seventh, "2024-06-01", 20, 2)
	st.Commit(model.Eighth, "2024-06-01", 24, 1)

	s.BeginBulk()
	_ = s.SetField(model.Sixth, Present, "12")
	if err := s.SaveAll(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rec, _ := st.Record(model.Sixth, "2024-06-01"); rec.Present != 12 || rec.Absent != 0 {
		t.Errorf("sixth grade not saved: %+v", rec)
	}
	if rec, _ := st.Record(model.Seventh, "2024-06-01"); rec.Present != 20 || rec.Absent != 2 {
		t.Errorf("seventh grade changed: %+v", rec)
	}
	if rec, _ := st.Record(model.Eighth, "2024-06-01"); rec.Present != 24 || rec.Absent != 1 {
		t.Errorf("eighth grade changed: %+v", rec)
	}
	for _, gi := range model.Grades {
		if _, ok := st.Record(gi.Grade, "2024-06-01"); !ok {
			t.Errorf("grade %s should have a record after save all", gi.Grade)
		}
	}
	if _, idle := s.State().(Idle); !idle {
		t.Errorf("expected Idle after save all, got %T", s.State())
	}
}

func TestSession_Cancel_InBulk_CommitsNothing(t *testing.T) {
	s, st := newSession(t)

	s.BeginBulk()
	_ = s.SetField(model.Sixth, Present, "12")
	s.Cancel()

	if _, ok := st.Record(model.Sixth, "2024-06-01"); ok {
		t.Error("cancel must not commit")
	}
	if err := s.SaveAll(); !errors.Is(err, ErrNotEditing) {
		t.Errorf("expected ErrNotEditing after cancel, got %v", err)
	}
}

func TestSession_Next_DiscardsPendingRow(t *testing.T) {
	s, st := newSession(t)
	st.Commit(model.Sixth, "2024-06-01", 15, 4)
	_ = s.SetField(model.Sixth, Present, "1")

	s.Next()

	if s.Date() != "2024-06-02" {
		t.Errorf("expected 2024-06-02, got %s", s.Date())
	}
	if _, idle := s.State().(Idle); !idle {
		t.Errorf("expected Idle after navigation, got %T", s.State())
	}
	if rec, _ := st.Record(model.Sixth, "2024-06-01"); rec.Present != 15 {
		t.Errorf("store changed by navigation: %+v", rec)
	}
}

func TestSession_Prev_CrossesMonthBoundary(t *testing.T) {
	s, _ := newSession(t)

	s.Prev()

	if s.Date() != "2024-05-31" {
		t.Errorf("expected 2024-05-31, got %s", s.Date())
	}
}

func TestSession_Display_FallsBackToStoreThenZero(t *testing.T) {
	s, st := newSession(t)
	st.Commit(model.Eighth, "2024-06-01", 20, 5)

	if rec := s.Display(model.Eighth); rec.Present != 20 || rec.Absent != 5 {
		t.Errorf("expected stored record, got %+v", rec)
	}
	if rec := s.Display(model.Ninth); rec.Total() != 0 {
		t.Errorf("expected zeros, got %+v", rec)
	}
}
