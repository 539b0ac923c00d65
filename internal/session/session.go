// Package session buffers unsaved edits for the selected date before they are
// committed to the attendance store.
package session

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/srprime/attendance/internal/model"
	"github.com/srprime/attendance/internal/store"
)

var ErrNotEditing = errors.New("no edit in progress for this grade")

// Field selects one side of a DailyRecord.
type Field int

const (
	Present Field = iota
	Absent
)

// State is one of Idle, EditingRows or Bulk.
type State interface {
	isState()
}

type Idle struct{}

// EditingRows holds the pending values of the grades edited one row at a
// time. It is never empty.
type EditingRows struct {
	Pending map[model.Grade]model.DailyRecord
}

// Bulk holds pending values for every grade.
type Bulk struct {
	Pending map[model.Grade]model.DailyRecord
}

func (Idle) isState()        {}
func (EditingRows) isState() {}
func (Bulk) isState()        {}

// Session is the edit buffer for one selected date.
type Session struct {
	store *store.Store
	date  time.Time
	state State
}

// New starts an idle session positioned on the local date of now.
func New(st *store.Store, now time.Time) *Session {
	return &Session{store: st, date: midnight(now), state: Idle{}}
}

func (s *Session) State() State { return s.state }

// Date returns the selected date key.
func (s *Session) Date() string { return model.DateKey(s.date) }

// Day returns the selected date as local midnight.
func (s *Session) Day() time.Time { return s.date }

// Next moves one calendar day forward and drops any pending edit.
func (s *Session) Next() { s.SetDate(s.date.AddDate(0, 0, 1)) }

// Prev moves one calendar day back and drops any pending edit.
func (s *Session) Prev() { s.SetDate(s.date.AddDate(0, 0, -1)) }

// SetDate moves the cursor to t and drops any pending edit.
func (s *Session) SetDate(t time.Time) {
	s.date = midnight(t)
	s.state = Idle{}
}

// SetField stores raw as field f of grade g. Non-numeric input becomes zero.
func (s *Session) SetField(g model.Grade, f Field, raw string) error {
	if _, err := model.Info(g); err != nil {
		return err
	}
	v := parseCount(raw)

	switch st := s.state.(type) {
	case Idle:
		s.state = EditingRows{Pending: map[model.Grade]model.DailyRecord{
			g: setField(s.current(g), f, v),
		}}
	case EditingRows:
		rec, ok := st.Pending[g]
		if !ok {
			rec = s.current(g)
		}
		st.Pending[g] = setField(rec, f, v)
	case Bulk:
		st.Pending[g] = setField(st.Pending[g], f, v)
	}
	return nil
}

// CommitRow writes the pending row of g to the store and ends editing for
// that row only.
func (s *Session) CommitRow(g model.Grade) error {
	rows, ok := s.state.(EditingRows)
	if !ok {
		return ErrNotEditing
	}
	rec, ok := rows.Pending[g]
	if !ok {
		return ErrNotEditing
	}

	s.commit(g, rec)
	delete(rows.Pending, g)
	if len(rows.Pending) == 0 {
		s.state = Idle{}
	}
	return nil
}

// BeginBulk seeds a buffer for every grade from the store.
func (s *Session) BeginBulk() {
	pending := make(map[model.Grade]model.DailyRecord, len(model.Grades))
	for _, gi := range model.Grades {
		pending[gi.Grade] = s.current(gi.Grade)
	}
	s.state = Bulk{Pending: pending}
}

// SaveAll commits every buffered grade and returns to Idle.
func (s *Session) SaveAll() error {
	b, ok := s.state.(Bulk)
	if !ok {
		return ErrNotEditing
	}

	for _, gi := range model.Grades {
		if rec, ok := b.Pending[gi.Grade]; ok {
			s.commit(gi.Grade, rec)
		}
	}
	s.state = Idle{}
	return nil
}

// Cancel drops the buffer without committing.
func (s *Session) Cancel() {
	s.state = Idle{}
}

// Pending returns the buffered values of g, if g is being edited.
func (s *Session) Pending(g model.Grade) (model.DailyRecord, bool) {
	switch st := s.state.(type) {
	case EditingRows:
		rec, ok := st.Pending[g]
		return rec, ok
	case Bulk:
		rec, ok := st.Pending[g]
		return rec, ok
	}
	return model.DailyRecord{}, false
}

// Display returns what a row of g should show: pending values first, then the
// stored record, then zeros.
func (s *Session) Display(g model.Grade) model.DailyRecord {
	if rec, ok := s.Pending(g); ok {
		return rec
	}
	return s.current(g)
}

func (s *Session) current(g model.Grade) model.DailyRecord {
	rec, _ := s.store.Record(g, s.Date())
	return rec
}

func (s *Session) commit(g model.Grade, rec model.DailyRecord) {
	gi, _ := model.Info(g)
	s.store.Commit(g, s.Date(), clamp(rec.Present, gi.Strength), clamp(rec.Absent, gi.Strength))
}

func setField(rec model.DailyRecord, f Field, v int) model.DailyRecord {
	if f == Present {
		rec.Present = v
	} else {
		rec.Absent = v
	}
	return rec
}

// parseCount reads a count. Out-of-range numbers saturate so clamp can bound
// them; anything else that is not a number is zero.
func parseCount(raw string) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return v
		}
		return 0
	}
	return v
}

// clamp bounds v to [0, max]. present+absent is not checked against max.
func clamp(v, max int) int {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}

func midnight(t time.Time) time.Time {
	t = t.In(time.Local)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}
