package store

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/studenton/studenton/internal/metrics"
	"github.com/studenton/studenton/internal/models"
)

// Store is the single source of truth for both collections. Every mutation
// derives a fresh slice (append, map over matching id, filter out id) under
// one lock hold and then persists the whole state best-effort. There is no
// partial mutation to observe: a command either replaced the collection and
// got scheduled for persistence, or did nothing.
type Store struct {
	mu       sync.Mutex
	students []models.Student
	teachers []models.Teacher

	db  *kvdb
	log *zap.Logger
}

// Open hydrates the store from the blob at path, starting empty when no
// record exists yet.
func Open(path string, log *zap.Logger) (*Store, error) {
	db, err := openKV(path)
	if err != nil {
		return nil, err
	}
	st := &Store{db: db, log: log}
	state, err := db.load()
	if err != nil {
		_ = db.close()
		return nil, err
	}
	if state != nil {
		st.students = state.Students
		st.teachers = state.Teachers
	}
	return st, nil
}

func (s *Store) Close() error { return s.db.close() }

// Ping reports whether the persistence handle is still usable.
func (s *Store) Ping() error { return s.db.ping() }

// AddStudent mints a fresh id, clears history and appends. The caller's
// ID/History values are ignored. Duplicate names are allowed.
func (s *Store) AddStudent(data models.Student) models.Student {
	s.mu.Lock()
	defer s.mu.Unlock()

	data.ID = uuid.New().String()
	data.History = []models.HistoryLog{}
	s.students = append(append([]models.Student{}, s.students...), data)
	s.save("add_student")
	return data
}

// UpdateStudent merges the set fields of patch onto the matching student.
// An unknown id is a no-op.
func (s *Store) UpdateStudent(id string, patch StudentPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]models.Student, len(s.students))
	for i, st := range s.students {
		if st.ID == id {
			patch.apply(&st)
		}
		next[i] = st
	}
	s.students = next
	s.save("update_student")
}

// DeleteStudent removes the matching student. Teachers and other students
// are untouched.
func (s *Store) DeleteStudent(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]models.Student, 0, len(s.students))
	for _, st := range s.students {
		if st.ID != id {
			next = append(next, st)
		}
	}
	s.students = next
	s.save("delete_student")
}

func (s *Store) AddTeacher(data models.Teacher) models.Teacher {
	s.mu.Lock()
	defer s.mu.Unlock()

	data.ID = uuid.New().String()
	s.teachers = append(append([]models.Teacher{}, s.teachers...), data)
	s.save("add_teacher")
	return data
}

func (s *Store) UpdateTeacher(id string, patch TeacherPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]models.Teacher, len(s.teachers))
	for i, t := range s.teachers {
		if t.ID == id {
			patch.apply(&t)
		}
		next[i] = t
	}
	s.teachers = next
	s.save("update_teacher")
}

// DeleteTeacher removes the teacher without cascading: students keep their
// CurrentTeacherID even when it now dangles. Readers resolve that to
// unassigned.
func (s *Store) DeleteTeacher(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]models.Teacher, 0, len(s.teachers))
	for _, t := range s.teachers {
		if t.ID != id {
			next = append(next, t)
		}
	}
	s.teachers = next
	s.save("delete_teacher")
}

// AddHistoryLog prepends log to the student's history; the sequence stays
// newest-first. Unknown id is a no-op.
func (s *Store) AddHistoryLog(studentID string, log models.HistoryLog) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prependLog(studentID, log)
	s.save("add_history_log")
}

// Transition applies a grade/teacher change together with its audit entry
// in one step. Both become observable at once, under the same lock hold and
// the same persistence write.
func (s *Store) Transition(studentID string, log models.HistoryLog, newGrade, newTeacherID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prependLog(studentID, log)
	next := make([]models.Student, len(s.students))
	for i, st := range s.students {
		if st.ID == studentID {
			st.Grade = newGrade
			st.CurrentTeacherID = newTeacherID
		}
		next[i] = st
	}
	s.students = next
	s.save("transition")
}

// SetAllData replaces both collections wholesale. Used by bulk import; the
// previous contents are gone for good.
func (s *Store) SetAllData(students []models.Student, teachers []models.Teacher) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.students = append([]models.Student{}, students...)
	s.teachers = append([]models.Teacher{}, teachers...)
	s.save("set_all_data")
}

func (s *Store) Students() []models.Student {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Student{}, s.students...)
}

func (s *Store) Teachers() []models.Teacher {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Teacher{}, s.teachers...)
}

func (s *Store) StudentByID(id string) (models.Student, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, st := range s.students {
		if st.ID == id {
			return st, true
		}
	}
	return models.Student{}, false
}

func (s *Store) TeacherByID(id string) (models.Teacher, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.teachers {
		if t.ID == id {
			return t, true
		}
	}
	return models.Teacher{}, false
}

func (s *Store) prependLog(studentID string, log models.HistoryLog) {
	next := make([]models.Student, len(s.students))
	for i, st := range s.students {
		if st.ID == studentID {
			st.History = append([]models.HistoryLog{log}, st.History...)
		}
		next[i] = st
	}
	s.students = next
}

// save persists the full state. Failures are best-effort: counted and
// logged, never returned to the mutating caller.
func (s *Store) save(op string) {
	metrics.Mutations.WithLabelValues(op).Inc()
	if err := s.db.save(&state{Students: s.students, Teachers: s.teachers}); err != nil {
		metrics.PersistFailures.Inc()
		s.log.Warn("persist failed", zap.String("op", op), zap.Error(err))
	}
}
