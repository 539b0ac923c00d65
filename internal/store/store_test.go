package store

import (
	"errors"
	"io"
	"log/slog"
	"reflect"
	"testing"

	"github.com/srprime/attendance/internal/model"
	"github.com/srprime/attendance/internal/storage"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

type failingKV struct{ sets int }

func (f *failingKV) Get(string) (string, error) { return "", errors.New("disk unavailable") }
func (f *failingKV) Set(string, string) error {
	f.sets++
	return errors.New("disk unavailable")
}

func TestStore_Load_EmptySlot_ReturnsEveryGrade(t *testing.T) {
	s := New(storage.NewMemory(), "", quiet)

	data := s.Load()

	for _, gi := range model.Grades {
		byDate, ok := data[gi.Grade]
		if !ok || byDate == nil {
			t.Errorf("grade %s missing from default structure", gi.Grade)
		}
	}
}

func TestStore_Load_MalformedSnapshot_ReturnsDefault(t *testing.T) {
	kv := storage.NewMemory()
	_ = kv.Set(DefaultKey, "{not json")

	s := New(kv, "", quiet)

	if len(s.Data()) != len(model.Grades) {
		t.Fatalf("expected %d grades, got %d", len(model.Grades), len(s.Data()))
	}
	if dates := s.Data().Dates(); len(dates) != 0 {
		t.Errorf("expected no dates, got %v", dates)
	}
}

func TestStore_Load_PartialSnapshot_BackfillsGrades(t *testing.T) {
	kv := storage.NewMemory()
	_ = kv.Set(DefaultKey, `{"SIXTH":{"2024-06-01":{"present":15,"absent":4}}}`)

	s := New(kv, "", quiet)

	rec, ok := s.Record(model.Sixth, "2024-06-01")
	if !ok || rec.Present != 15 || rec.Absent != 4 {
		t.Errorf("unexpected record: %+v (found=%v)", rec, ok)
	}
	if s.Data()[model.Tenth] == nil {
		t.Error("TENTH should be backfilled with an empty map")
	}
}

func TestStore_Save_ThenLoad_RoundTrips(t *testing.T) {
	kv := storage.NewMemory()
	s := New(kv, "", quiet)
	data := model.NewAttendanceData()
	data[model.Sixth]["2024-06-01"] = model.DailyRecord{Present: 15, Absent: 4}
	data[model.Ninth]["2024-06-02"] = model.DailyRecord{Present: 0, Absent: 0}

	s.Save(data)
	got := New(kv, "", quiet).Load()

	if !reflect.DeepEqual(got, data) {
		t.Errorf("round trip mismatch:\n got %v\nwant %v", got, data)
	}
}

func TestStore_Commit_ChangesOnlyTargetEntry(t *testing.T) {
	kv := storage.NewMemory()
	s := New(kv, "", quiet)
	s.Commit(model.Sixth, "2024-06-01", 10, 9)
	before := s.Commit(model.Seventh, "2024-06-01", 20, 2)

	after := s.Commit(model.Sixth, "2024-06-02", 15, 4)

	if reflect.ValueOf(after[model.Seventh]).Pointer() != reflect.ValueOf(before[model.Seventh]).Pointer() {
		t.Error("untouched grade map should be shared with the previous structure")
	}
	if _, ok := before[model.Sixth]["2024-06-02"]; ok {
		t.Error("previous structure must not see the new record")
	}
	if rec := after[model.Sixth]["2024-06-01"]; rec.Present != 10 || rec.Absent != 9 {
		t.Errorf("other date of same grade changed: %+v", rec)
	}
	if rec := after[model.Sixth]["2024-06-02"]; rec.Present != 15 || rec.Absent != 4 {
		t.Errorf("committed record wrong: %+v", rec)
	}
}

func TestStore_Commit_PersistsEachTime(t *testing.T) {
	kv := storage.NewMemory()
	s := New(kv, "", quiet)

	s.Commit(model.Eighth, "2024-06-01", 25, 0)

	if rec, ok := New(kv, "", quiet).Record(model.Eighth, "2024-06-01"); !ok || rec.Present != 25 {
		t.Errorf("commit was not persisted: %+v (found=%v)", rec, ok)
	}
}

func TestStore_Commit_WhenBackendFails_KeepsMemoryState(t *testing.T) {
	kv := &failingKV{}
	s := New(kv, "", quiet)

	s.Commit(model.Tenth, "2024-06-01", 18, 0)

	if kv.sets != 1 {
		t.Errorf("expected one write attempt, got %d", kv.sets)
	}
	if rec, ok := s.Record(model.Tenth, "2024-06-01"); !ok || rec.Present != 18 {
		t.Errorf("in-memory record lost after failed save: %+v", rec)
	}
}
