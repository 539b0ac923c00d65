// Package store owns the canonical attendance data and persists it into a
// key-value slot after every change.
package store

import (
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/srprime/attendance/internal/model"
	"github.com/srprime/attendance/internal/storage"
)

const DefaultKey = "schoolAttendanceData"

// Store is the single writer of AttendanceData. Persistence failures are
// logged and never returned.
type Store struct {
	kv   storage.KV
	key  string
	log  *slog.Logger
	data model.AttendanceData
}

// New creates a store over kv and loads the persisted snapshot.
func New(kv storage.KV, key string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	if key == "" {
		key = DefaultKey
	}

	s := &Store{kv: kv, key: key, log: logger}
	s.data = s.Load()
	return s
}

// Load reads the snapshot, falling back to an empty structure.
func (s *Store) Load() model.AttendanceData {
	raw, err := s.kv.Get(s.key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.log.Info("no saved attendance data, starting empty", "key", s.key)
		} else {
			s.log.Error("failed to read attendance data", "key", s.key, "error", err)
		}
		return model.NewAttendanceData()
	}

	var data model.AttendanceData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		s.log.Error("failed to parse attendance data", "key", s.key, "error", err)
		return model.NewAttendanceData()
	}

	return data.Backfill()
}

// Save writes data to the slot. The in-memory copy is untouched on failure.
func (s *Store) Save(data model.AttendanceData) {
	raw, err := json.Marshal(data)
	if err != nil {
		s.log.Error("failed to encode attendance data", "error", err)
		return
	}

	if err := s.kv.Set(s.key, string(raw)); err != nil {
		s.log.Error("failed to save attendance data", "key", s.key, "error", err)
	}
}

// Commit replaces the (grade, date) record and persists the result. The
// returned structure shares every other grade's date map with the previous one.
func (s *Store) Commit(g model.Grade, date string, present, absent int) model.AttendanceData {
	next := make(model.AttendanceData, len(s.data))
	for k, v := range s.data {
		next[k] = v
	}

	byDate := make(map[string]model.DailyRecord, len(s.data[g])+1)
	for k, v := range s.data[g] {
		byDate[k] = v
	}
	byDate[date] = model.DailyRecord{Present: present, Absent: absent}
	next[g] = byDate

	s.data = next
	s.Save(next)
	return next
}

// Data returns the current structure. Callers must not mutate it.
func (s *Store) Data() model.AttendanceData {
	return s.data
}

// Record returns the record of g on date, if any.
func (s *Store) Record(g model.Grade, date string) (model.DailyRecord, bool) {
	return s.data.Lookup(g, date)
}
