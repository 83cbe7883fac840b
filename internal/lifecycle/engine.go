// Package lifecycle couples a student's grade/teacher change with its audit
// entry. The store alone can mutate fields or append history independently;
// going through the engine guarantees neither ever happens without the
// other.
package lifecycle

import (
	"errors"
	"strings"
	"time"

	"github.com/studenton/studenton/internal/models"
	"github.com/studenton/studenton/internal/store"
)

var (
	ErrEmptyComment    = errors.New("lifecycle: comment is required")
	ErrStudentNotFound = errors.New("lifecycle: student not found")
)

type Engine struct {
	store *store.Store
	now   func() time.Time
}

// New builds an engine stamping history entries in loc; nil falls back to
// the system zone.
func New(st *store.Store, loc *time.Location) *Engine {
	if loc == nil {
		loc = time.Local
	}
	return &Engine{
		store: st,
		now:   func() time.Time { return time.Now().In(loc) },
	}
}

// Apply performs a grade and/or teacher transition on the student.
//
// A blank comment is rejected before anything is touched. When neither the
// grade nor the teacher actually changes the call is a no-op: no entry, no
// mutation, so the history never accumulates vacuous records. Otherwise
// exactly one entry is written — PROMOTION when the grade changed (it wins
// over a simultaneous teacher change), TEACHER_CHANGE otherwise — and the
// field update lands in the same store operation.
//
// Graduating students lose their homeroom: grade 졸업 forces the new
// teacher to unassigned whatever the caller requested.
func (e *Engine) Apply(studentID, newGrade, newTeacherID, comment string) error {
	if strings.TrimSpace(comment) == "" {
		return ErrEmptyComment
	}
	st, ok := e.store.StudentByID(studentID)
	if !ok {
		return ErrStudentNotFound
	}

	if newGrade == models.GradeGraduated {
		newTeacherID = ""
	}

	isPromotion := newGrade != st.Grade
	isTeacherChange := newTeacherID != st.CurrentTeacherID
	if !isPromotion && !isTeacherChange {
		return nil
	}

	typ := models.HistoryTeacherChange
	if isPromotion {
		typ = models.HistoryPromotion
	}
	e.store.Transition(studentID, models.HistoryLog{
		Date:          e.now(),
		Type:          typ,
		FromTeacherID: st.CurrentTeacherID,
		ToTeacherID:   newTeacherID,
		Comment:       comment,
	}, newGrade, newTeacherID)
	return nil
}

// AddNote appends a free-text NOTE authored by authorTeacherID (carried in
// FromTeacherID). Authorship against the current homeroom is a boundary
// policy, not checked here: the store accepts a note from any id when
// called directly.
func (e *Engine) AddNote(studentID, authorTeacherID, comment string) error {
	if strings.TrimSpace(comment) == "" {
		return ErrEmptyComment
	}
	if _, ok := e.store.StudentByID(studentID); !ok {
		return ErrStudentNotFound
	}
	e.store.AddHistoryLog(studentID, models.HistoryLog{
		Date:          e.now(),
		Type:          models.HistoryNote,
		FromTeacherID: authorTeacherID,
		Comment:       comment,
	})
	return nil
}
